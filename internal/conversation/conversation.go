package conversation

import (
	"context"
	"strconv"
	"strings"
	"voltabot/internal/invoice"
	"voltabot/internal/order"
)

// State names the screen a user is looking at.
type State string

const (
	StateMainMenu              State = "main_menu"
	StateContact               State = "contact"
	StateProductMenu           State = "product_menu"
	StateSensorDetail          State = "sensor_detail"
	StateProductInfo           State = "product_info"
	StateGallery               State = "gallery"
	StateOrderMenu             State = "order_menu"
	StateSelectingSensorType   State = "selecting_sensor_type"
	StateSelectingDimensions   State = "selecting_dimensions"
	StateAwaitingWireLength    State = "awaiting_wire_length"
	StateAwaitingQuantity      State = "awaiting_quantity"
	StateAwaitingCustomerName  State = "awaiting_customer_name"
	StateAwaitingCustomerPhone State = "awaiting_customer_phone"
	StatePaymentMenu           State = "payment_menu"
	StatePaymentDetail         State = "payment_detail"
	StateAwaitingReceiptImage  State = "awaiting_receipt_image"
	StateReceiptAccepted       State = "receipt_accepted"
	StateQuickCalculatorSensor State = "quick_calculator_sensor"
	StateQuickCalculatorSheath State = "quick_calculator_sheath"
	StateAwaitingCalcLength    State = "awaiting_calculator_length"
	StateCalculatorResult      State = "calculator_result"
	StateOrderFinalized        State = "order_finalized"
)

// Choice is one button of a screen.
type Choice struct {
	Label string
	ID    string
}

// Screen is what the user sees after an event: a body text and the choices
// offered below it, one per row.
type Screen struct {
	State   State
	Text    string
	Choices []Choice
}

// Notice is a short transient message attached to a selection event. Alert
// notices must be acknowledged by the user.
type Notice struct {
	Text  string
	Alert bool
}

// Reply is the outcome of one event. Both fields are nil for events that
// are ignored.
type Reply struct {
	Screen *Screen
	Notice *Notice
}

func (r Reply) Empty() bool {
	return r.Screen == nil && r.Notice == nil
}

// User identifies who sent an event and the chat it arrived in.
type User struct {
	ID        int64
	ChatID    int64
	FirstName string
	LastName  string
	Username  string
}

// DisplayName is the name shown on invoices and receipt captions when the
// customer did not type one.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return strconv.FormatInt(u.ID, 10)
}

// Image is one resolution variant of an uploaded picture.
type Image struct {
	Ref      string
	Width    int
	Height   int
	FileSize int
}

// Largest picks the variant with the most pixels, falling back to file size
// on ties.
func Largest(variants []Image) (Image, bool) {
	if len(variants) == 0 {
		return Image{}, false
	}
	best := variants[0]
	for _, v := range variants[1:] {
		area, bestArea := v.Width*v.Height, best.Width*best.Height
		if area > bestArea || (area == bestArea && v.FileSize > best.FileSize) {
			best = v
		}
	}
	return best, true
}

type Recipient int

const (
	// RecipientUser is the chat the event came from.
	RecipientUser Recipient = iota
	// RecipientPrivate is the one-to-one chat with the user.
	RecipientPrivate
	// RecipientMerchant is the merchant reporting channel.
	RecipientMerchant
)

func (r Recipient) String() string {
	switch r {
	case RecipientUser:
		return "user"
	case RecipientPrivate:
		return "private"
	case RecipientMerchant:
		return "merchant"
	}
	return "unknown"
}

// Delivery is an outbound message produced as a side effect of an event.
// Exactly one of Text (alone), ImageRef or Document is the payload; Text
// becomes the caption when a picture or document is attached.
type Delivery struct {
	Recipient Recipient
	UserID    int64
	ChatID    int64
	Text      string
	ImageRef  string
	Document  *invoice.Document
	Choices   []Choice
}

type Sender interface {
	Deliver(ctx context.Context, d Delivery) error
}

// Store persists drafts between events. Load returns a fresh draft for
// users without one.
type Store interface {
	Load(ctx context.Context, userID int64) (*order.Draft, error)
	Save(ctx context.Context, userID int64, d *order.Draft) error
}

type InvoiceRenderer interface {
	Render(d *order.Draft, displayName string, userID int64) (*invoice.Document, error)
}
