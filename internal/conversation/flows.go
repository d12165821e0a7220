package conversation

import (
	"context"
	"errors"
	"fmt"
	"voltabot/internal/metrics"
	"voltabot/internal/order"
	"voltabot/internal/pricing"

	"go.uber.org/zap"
)

func (m *Machine) handleText(ctx context.Context, s *session, text string) Reply {
	switch s.draft.Pending {
	case order.PendingWireLength:
		return m.applyField(s, order.FieldWireLength, text, StateAwaitingWireLength)
	case order.PendingQuantity:
		return m.applyField(s, order.FieldQuantity, text, StateAwaitingQuantity)
	case order.PendingCustomerName:
		return m.applyField(s, order.FieldCustomerName, text, StateAwaitingCustomerName)
	case order.PendingCustomerPhone:
		return m.applyField(s, order.FieldCustomerPhone, text, StateAwaitingCustomerPhone)
	case order.PendingCalculatorLength:
		return m.applyCalculatorLength(s, text)
	case order.PendingReceiptImage:
		return Reply{Screen: promptScreen(StateAwaitingReceiptImage, msgReceiptNeedImage, backToPayment)}
	}
	return Reply{}
}

// applyField stores validated input and returns to the order menu, or
// re-prompts with the tag still set.
func (m *Machine) applyField(s *session, field order.Field, text string, state State) Reply {
	if err := s.draft.Set(m.catalog, field, text); err != nil {
		s.logger.Debug("Rejected input",
			zap.String("field", string(field)),
			zap.Error(err))
		return Reply{Screen: promptScreen(state, validationMessage(field, err), backToOrder)}
	}
	return Reply{Screen: orderMenuScreen(s.draft, m.opts.CollectContact)}
}

func validationMessage(field order.Field, err error) string {
	switch field {
	case order.FieldWireLength:
		if errors.Is(err, order.ErrOutOfRange) {
			return fmt.Sprintf("❌ لطفاً عددی بین %d تا %d وارد کنید.", order.MinWireLengthCM, order.MaxWireLengthCM)
		}
		return "❌ فقط عدد معتبر وارد کنید."
	case order.FieldQuantity:
		if errors.Is(err, order.ErrOutOfRange) {
			return fmt.Sprintf("❌ لطفاً عددی بین ۱ تا %d وارد کنید.", order.MaxQuantity)
		}
		return "❌ فقط عدد وارد کنید."
	case order.FieldCustomerName:
		return "❌ لطفاً نام معتبر وارد کنید (حداقل ۲ حرف)."
	case order.FieldCustomerPhone:
		return "❌ شماره تماس باید فقط شامل ارقام باشد، با ۰ شروع شود و ۱۰ تا ۱۱ رقم داشته باشد."
	}
	return "❌ مقدار وارد شده معتبر نیست."
}

func (m *Machine) applyCalculatorLength(s *session, text string) Reply {
	d := s.draft
	lengthM, err := order.ParseCalculatorLength(text)
	if err != nil {
		msg := "❌ لطفاً طول کابل را به صورت عدد و به متر وارد کنید."
		switch {
		case errors.Is(err, order.ErrNegative):
			msg = "❌ طول کابل نمی‌تواند منفی باشد."
		case errors.Is(err, order.ErrOutOfRange):
			msg = fmt.Sprintf("❌ طول کابل حداکثر %d متر است.", order.MaxCalculatorLength)
		}
		return Reply{Screen: promptScreen(StateAwaitingCalcLength, msg, backToCalc)}
	}

	if d.CalcSensorPrice == nil || d.CalcSheathPrice == nil {
		d.ClearPending()
		d.ClearCalculator()
		return Reply{Screen: calculatorSensorScreen(m.catalog.Calculator, msgCalcRestart)}
	}

	p := m.catalog.Calculator
	sensor, sheath := *d.CalcSensorPrice, *d.CalcSheathPrice
	total, ok := pricing.Estimate(p, sensor, sheath, lengthM)
	if !ok {
		return Reply{Screen: promptScreen(StateAwaitingCalcLength, msgPriceError, backToCalc)}
	}
	factor := pricing.DifficultyFactor(p, lengthM)
	d.ClearPending()
	d.ClearCalculator()

	return Reply{Screen: calculatorResultScreen(sensor, sheath, lengthM, factor, total)}
}

// handleReceipt forwards the largest variant of a receipt photo to the
// merchant, at most once per draft.
func (m *Machine) handleReceipt(ctx context.Context, s *session, variants []Image) Reply {
	d := s.draft
	if d.Pending != order.PendingReceiptImage {
		return Reply{}
	}
	if d.ReceiptSubmitted {
		d.ClearPending()
		return Reply{Screen: &Screen{State: StateReceiptAccepted, Text: msgReceiptDuplicate, Choices: []Choice{homeChoice}}}
	}

	img, ok := Largest(variants)
	if !ok {
		return Reply{Screen: promptScreen(StateAwaitingReceiptImage, msgReceiptNeedImage, backToPayment)}
	}

	err := m.deliver(ctx, s, Delivery{
		Recipient: RecipientMerchant,
		ImageRef:  img.Ref,
		Text:      receiptCaption(s.user, d),
	})
	if err != nil {
		s.logger.Error("Failed to forward receipt", zap.Error(err))
		return Reply{Screen: promptScreen(StateAwaitingReceiptImage, msgReceiptFailed, backToPayment)}
	}

	d.ReceiptSubmitted = true
	d.ClearPending()
	metrics.ReceiptsForwarded.Inc()
	s.logger.Info("Receipt forwarded", zap.String("image", img.Ref))

	return Reply{Screen: &Screen{State: StateReceiptAccepted, Text: msgReceiptAccepted, Choices: []Choice{homeChoice}}}
}

// finalize checks completeness, sends the summary privately, then the
// invoice and the one-time merchant post. A failed private delivery stops
// the remaining steps; the draft is kept as is.
func (m *Machine) finalize(ctx context.Context, s *session) Reply {
	d := s.draft
	if missing := d.Missing(order.RequiredFields(m.opts.CollectContact)); len(missing) > 0 {
		s.logger.Debug("Finalize on incomplete draft", zap.Any("missing", missing))
		return Reply{Notice: &Notice{Text: msgIncomplete}}
	}

	total, ok := pricing.Compute(m.catalog, d)
	if !ok {
		s.logger.Error("Price computation failed on complete draft")
		return Reply{Notice: &Notice{Text: msgPriceError}}
	}
	summary := orderSummary(d, total, s.user.ID, m.opts.SupportHandle, m.opts.CollectContact)

	err := m.deliver(ctx, s, Delivery{
		Recipient: RecipientPrivate,
		Text:      summary,
		Choices:   []Choice{paymentChoice},
	})
	if err != nil {
		s.logger.Warn("Failed to deliver order summary privately", zap.Error(err))
		return Reply{Notice: &Notice{Text: fmt.Sprintf(msgPrivateBlocked, m.opts.BotUsername), Alert: true}}
	}

	if m.opts.InvoiceEnabled && m.invoices != nil {
		m.sendInvoice(ctx, s)
	}

	// a post that lands after the delivery timeout counts as failed here and
	// is sent again on the next finalize; the sender logs such late posts
	if !d.ChannelNotified {
		if err := m.deliver(ctx, s, Delivery{Recipient: RecipientMerchant, Text: summary}); err != nil {
			s.logger.Error("Failed to post order to merchant channel", zap.Error(err))
		} else {
			d.ChannelNotified = true
			metrics.MerchantPosts.Inc()
		}
	}

	metrics.OrdersFinalized.Inc()
	s.logger.Info("Order finalized", zap.Int64("total", total))
	return Reply{Screen: finalizedScreen(summary)}
}

// sendInvoice renders and delivers the invoice. Any failure is replaced by
// an apology and never fails the order.
func (m *Machine) sendInvoice(ctx context.Context, s *session) {
	doc, err := m.invoices.Render(s.draft, s.user.DisplayName(), s.user.ID)
	if err == nil {
		err = m.deliver(ctx, s, Delivery{Recipient: RecipientPrivate, Document: doc, Text: msgInvoiceCaption})
		if err == nil {
			return
		}
	}

	metrics.InvoiceFailures.Inc()
	s.logger.Error("Failed to send invoice", zap.Error(err))
	if err := m.deliver(ctx, s, Delivery{Recipient: RecipientPrivate, Text: msgInvoiceApology}); err != nil {
		s.logger.Warn("Failed to send invoice apology", zap.Error(err))
	}
}
