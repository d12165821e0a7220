package order

import (
	"fmt"
	"voltabot/internal/catalog"
)

// PendingInput tells how the next free-text or image message of a user is read.
type PendingInput string

const (
	PendingNone             PendingInput = ""
	PendingWireLength       PendingInput = "wire_length"
	PendingQuantity         PendingInput = "quantity"
	PendingCustomerName     PendingInput = "customer_name"
	PendingCustomerPhone    PendingInput = "customer_phone"
	PendingCalculatorLength PendingInput = "calculator_length"
	PendingReceiptImage     PendingInput = "receipt_image"
)

type Field string

const (
	FieldSensorType    Field = "sensor_type"
	FieldDimensions    Field = "dimensions"
	FieldWireLength    Field = "wire_length_cm"
	FieldQuantity      Field = "quantity"
	FieldCustomerName  Field = "customer_name"
	FieldCustomerPhone Field = "customer_phone"
)

// Draft is the in-progress order of a single user.
type Draft struct {
	SensorType        *string `json:"sensor_type,omitempty"`
	Dimensions        *string `json:"dimensions,omitempty"`
	WireLengthCM      *int    `json:"wire_length_cm,omitempty"`
	Quantity          *int    `json:"quantity,omitempty"`
	CustomerFirstName *string `json:"customer_first_name,omitempty"`
	CustomerLastName  *string `json:"customer_last_name,omitempty"`
	CustomerPhone     *string `json:"customer_phone,omitempty"`

	Pending          PendingInput `json:"pending_input,omitempty"`
	ChannelNotified  bool         `json:"channel_notified,omitempty"`
	ReceiptSubmitted bool         `json:"receipt_submitted,omitempty"`

	// quick-calculator selections, cleared after each estimate
	CalcSensorPrice *int64 `json:"calc_sensor_price,omitempty"`
	CalcSheathPrice *int64 `json:"calc_sheath_price,omitempty"`
}

func New() *Draft {
	return &Draft{}
}

func (d *Draft) Reset() {
	*d = Draft{}
}

// Await replaces any active pending-input tag with tag.
func (d *Draft) Await(tag PendingInput) {
	d.Pending = tag
}

func (d *Draft) ClearPending() {
	d.Pending = PendingNone
}

// RequiredFields lists the fields finalization depends on.
func RequiredFields(collectContact bool) []Field {
	fields := []Field{FieldSensorType, FieldDimensions, FieldWireLength, FieldQuantity}
	if collectContact {
		fields = append(fields, FieldCustomerName, FieldCustomerPhone)
	}
	return fields
}

func (d *Draft) Has(field Field) bool {
	switch field {
	case FieldSensorType:
		return d.SensorType != nil
	case FieldDimensions:
		return d.Dimensions != nil
	case FieldWireLength:
		return d.WireLengthCM != nil
	case FieldQuantity:
		return d.Quantity != nil
	case FieldCustomerName:
		return d.CustomerFirstName != nil
	case FieldCustomerPhone:
		return d.CustomerPhone != nil
	}
	return false
}

func (d *Draft) IsComplete(required []Field) bool {
	return len(d.Missing(required)) == 0
}

func (d *Draft) Missing(required []Field) []Field {
	var missing []Field
	for _, f := range required {
		if !d.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// Set validates raw against the constraints of field and stores it. On
// failure the draft is left untouched and a *ValidationError is returned.
func (d *Draft) Set(cat *catalog.Catalog, field Field, raw string) error {
	switch field {
	case FieldSensorType:
		opt, ok := cat.Sensor(raw)
		if !ok {
			return &ValidationError{Field: field, Err: ErrUnknownOption}
		}
		d.SensorType = &opt.Key
	case FieldDimensions:
		opt, ok := cat.Dimension(raw)
		if !ok {
			return &ValidationError{Field: field, Err: ErrUnknownOption}
		}
		d.Dimensions = &opt.Key
	case FieldWireLength:
		length, err := ParseWireLength(raw)
		if err != nil {
			return err
		}
		d.WireLengthCM = &length
	case FieldQuantity:
		qty, err := ParseQuantity(raw)
		if err != nil {
			return err
		}
		d.Quantity = &qty
	case FieldCustomerName:
		first, last, err := ParseName(raw)
		if err != nil {
			return err
		}
		d.CustomerFirstName = &first
		d.CustomerLastName = nil
		if last != "" {
			d.CustomerLastName = &last
		}
	case FieldCustomerPhone:
		phone, err := ValidatePhone(raw)
		if err != nil {
			return err
		}
		d.CustomerPhone = &phone
	default:
		return fmt.Errorf("unknown field %q", field)
	}

	if d.Pending == pendingFor(field) {
		d.ClearPending()
	}
	return nil
}

// SetCalculatorSensor stores the sensor half of the calculator selection.
func (d *Draft) SetCalculatorSensor(price int64) {
	d.CalcSensorPrice = &price
}

func (d *Draft) SetCalculatorSheath(price int64) {
	d.CalcSheathPrice = &price
}

func (d *Draft) ClearCalculator() {
	d.CalcSensorPrice = nil
	d.CalcSheathPrice = nil
}

// CustomerName joins first and last name, empty when no name was given.
func (d *Draft) CustomerName() string {
	if d.CustomerFirstName == nil {
		return ""
	}
	if d.CustomerLastName == nil {
		return *d.CustomerFirstName
	}
	return *d.CustomerFirstName + " " + *d.CustomerLastName
}

func pendingFor(field Field) PendingInput {
	switch field {
	case FieldWireLength:
		return PendingWireLength
	case FieldQuantity:
		return PendingQuantity
	case FieldCustomerName:
		return PendingCustomerName
	case FieldCustomerPhone:
		return PendingCustomerPhone
	}
	return PendingNone
}
