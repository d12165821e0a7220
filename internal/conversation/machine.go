package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"
	"voltabot/internal/catalog"
	"voltabot/internal/metrics"
	"voltabot/internal/order"
	"voltabot/pkg/logger"

	"go.uber.org/zap"
)

const defaultDeliveryTimeout = 5 * time.Second

type Options struct {
	// CollectContact adds customer name and phone to the required fields.
	CollectContact bool
	InvoiceEnabled bool
	// DeliveryTimeout bounds every outbound delivery.
	DeliveryTimeout time.Duration
	// SupportHandle is quoted in order summaries.
	SupportHandle string
	// BotUsername is shown when the user must open a private chat first.
	BotUsername string
}

type Machine struct {
	catalog  *catalog.Catalog
	store    Store
	sender   Sender
	invoices InvoiceRenderer
	opts     Options
	logger   *zap.Logger
	locks    *userLocks
	routes   map[string]selectionHandler
}

type session struct {
	user   User
	draft  *order.Draft
	logger *zap.Logger
}

type selectionHandler func(ctx context.Context, s *session) Reply

// New wires a machine. invoices may be nil when invoice rendering is off.
func New(cat *catalog.Catalog, store Store, sender Sender, invoices InvoiceRenderer, opts Options, log *zap.Logger) *Machine {
	if opts.DeliveryTimeout <= 0 {
		opts.DeliveryTimeout = defaultDeliveryTimeout
	}
	if opts.SupportHandle == "" {
		opts.SupportHandle = "@admin"
	}
	m := &Machine{
		catalog:  cat,
		store:    store,
		sender:   sender,
		invoices: invoices,
		opts:     opts,
		logger:   log,
		locks:    newUserLocks(),
	}
	m.routes = m.buildRoutes()
	return m
}

// Start resets the user's draft and shows the main menu.
func (m *Machine) Start(ctx context.Context, user User) (Reply, error) {
	unlock := m.locks.lock(user.ID)
	defer unlock()
	metrics.Events.WithLabelValues("start").Inc()

	log := m.sessionLogger(ctx, user)
	draft, err := m.store.Load(ctx, user.ID)
	if err != nil {
		log.Warn("Failed to load draft on start, starting fresh", zap.Error(err))
		draft = order.New()
	}
	draft.Reset()
	if err := m.store.Save(ctx, user.ID, draft); err != nil {
		return Reply{}, fmt.Errorf("save draft: %w", err)
	}
	return Reply{Screen: mainMenuScreen(welcomeText)}, nil
}

// Select handles a button press. Unknown choice ids leave everything as is.
func (m *Machine) Select(ctx context.Context, user User, choiceID string) (Reply, error) {
	handler, ok := m.routes[choiceID]
	if !ok {
		m.sessionLogger(ctx, user).Debug("Ignoring unknown choice", zap.String("choice", choiceID))
		return Reply{}, nil
	}
	metrics.Events.WithLabelValues("select").Inc()

	return m.withSession(ctx, user, func(s *session) Reply {
		// every recognised selection navigates away from a prompt; prompts
		// set their tag again in their own handler
		s.draft.ClearPending()
		return handler(ctx, s)
	})
}

// Text feeds free text to whatever input the draft is waiting for.
func (m *Machine) Text(ctx context.Context, user User, text string) (Reply, error) {
	metrics.Events.WithLabelValues("text").Inc()
	return m.withSession(ctx, user, func(s *session) Reply {
		return m.handleText(ctx, s, strings.TrimSpace(text))
	})
}

// Image handles an uploaded picture given as its resolution variants.
func (m *Machine) Image(ctx context.Context, user User, variants []Image) (Reply, error) {
	metrics.Events.WithLabelValues("image").Inc()
	return m.withSession(ctx, user, func(s *session) Reply {
		return m.handleReceipt(ctx, s, variants)
	})
}

func (m *Machine) withSession(ctx context.Context, user User, fn func(s *session) Reply) (Reply, error) {
	unlock := m.locks.lock(user.ID)
	defer unlock()

	draft, err := m.store.Load(ctx, user.ID)
	if err != nil {
		return Reply{}, fmt.Errorf("load draft: %w", err)
	}
	s := &session{user: user, draft: draft, logger: m.sessionLogger(ctx, user)}

	reply := fn(s)
	if err := m.store.Save(ctx, user.ID, s.draft); err != nil {
		return reply, fmt.Errorf("save draft: %w", err)
	}
	return reply, nil
}

func (m *Machine) sessionLogger(ctx context.Context, user User) *zap.Logger {
	return logger.FromContext(ctx, m.logger).With(zap.Int64("user_id", user.ID))
}

// deliver sends d bounded by the delivery timeout.
func (m *Machine) deliver(ctx context.Context, s *session, d Delivery) error {
	ctx, cancel := context.WithTimeout(ctx, m.opts.DeliveryTimeout)
	defer cancel()

	d.UserID, d.ChatID = s.user.ID, s.user.ChatID
	if err := m.sender.Deliver(ctx, d); err != nil {
		metrics.DeliveryFailures.WithLabelValues(d.Recipient.String()).Inc()
		return fmt.Errorf("deliver to %s: %w", d.Recipient, err)
	}
	return nil
}
