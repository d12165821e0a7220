package conversation

import (
	"context"
	"fmt"
	"voltabot/internal/catalog"
	"voltabot/internal/order"

	"go.uber.org/zap"
)

// buildRoutes returns the fixed choice table. Parametrised ids are expanded
// from the catalog so lookups stay exact.
func (m *Machine) buildRoutes() map[string]selectionHandler {
	cat := m.catalog
	r := map[string]selectionHandler{
		ChoiceProducts:     show(productMenuScreen),
		ChoiceBackProducts: show(productMenuScreen),
		ChoiceBackMain: show(func() *Screen {
			return mainMenuScreen("🛒 به فروشگاه ولتا استور خوش آمدید!")
		}),
		ChoiceContact:      show(contactScreen),
		ChoiceSensorDetail: show(sensorDetailScreen),
		ChoiceGallery: show(func() *Screen {
			return galleryScreen(cat)
		}),

		ChoiceOrder:            m.showOrderMenu,
		ChoiceSelectSensor:     m.showSensorOptions,
		ChoiceSelectDimensions: m.showDimensionOptions,
		ChoiceSelectWireLength: prompt(order.PendingWireLength, StateAwaitingWireLength,
			"📏 لطفاً طول سیم را به سانتی‌متر وارد کنید:\n⚡️ محدوده مجاز: 40 تا 500 سانتی‌متر"),
		ChoiceSelectQuantity: prompt(order.PendingQuantity, StateAwaitingQuantity,
			"🔢 لطفاً تعداد مورد نیاز را وارد کنید (عدد):"),
		ChoiceFinalOrder: m.finalize,

		ChoicePaymentInfo: show(func() *Screen {
			return paymentMenuScreen(cat)
		}),
		ChoiceSendReceipt: m.requestReceipt,
		ChoiceCalculator:  m.startCalculator,
	}

	if m.opts.CollectContact {
		r[ChoiceSelectName] = prompt(order.PendingCustomerName, StateAwaitingCustomerName,
			"👤 لطفاً نام و نام خانوادگی خود را وارد کنید:")
		r[ChoiceSelectPhone] = prompt(order.PendingCustomerPhone, StateAwaitingCustomerPhone,
			"📱 لطفاً شماره تماس خود را وارد کنید (مثلاً 09123456789):")
	}

	for id := range productInfo {
		r[id] = show(func() *Screen { return productInfoScreen(id) })
	}
	for _, img := range cat.Gallery {
		r[prefixImage+img.Slug] = m.sendGalleryImage(img)
	}
	for _, opt := range cat.Sensors {
		r[prefixSensor+opt.Slug] = m.chooseOption(order.FieldSensorType, opt, "نوع سنسور %s انتخاب شد")
	}
	for _, opt := range cat.Dimensions {
		r[prefixDimensions+opt.Slug] = m.chooseOption(order.FieldDimensions, opt, "ابعاد %s انتخاب شد")
	}
	for _, method := range cat.PaymentMethods {
		r[method.Slug] = show(func() *Screen { return paymentDetailScreen(method) })
	}
	for _, opt := range cat.Calculator.Sensors {
		r[prefixCalcSensor+opt.Slug] = m.chooseCalculatorSensor(opt)
	}
	for _, opt := range cat.Calculator.Sheaths {
		r[prefixCalcSheath+opt.Slug] = m.chooseCalculatorSheath(opt)
	}
	return r
}

func show(screen func() *Screen) selectionHandler {
	return func(context.Context, *session) Reply {
		return Reply{Screen: screen()}
	}
}

// prompt asks for free text and marks the draft as waiting for it.
func prompt(tag order.PendingInput, state State, text string) selectionHandler {
	return func(_ context.Context, s *session) Reply {
		s.draft.Await(tag)
		return Reply{Screen: promptScreen(state, text, backToOrder)}
	}
}

func (m *Machine) showOrderMenu(_ context.Context, s *session) Reply {
	return Reply{Screen: orderMenuScreen(s.draft, m.opts.CollectContact)}
}

func (m *Machine) showSensorOptions(_ context.Context, s *session) Reply {
	return Reply{Screen: optionScreen(StateSelectingSensorType, "🌡️ لطفاً نوع سنسور را انتخاب کنید:",
		prefixSensor, m.catalog.Sensors, s.draft.SensorType)}
}

func (m *Machine) showDimensionOptions(_ context.Context, s *session) Reply {
	return Reply{Screen: optionScreen(StateSelectingDimensions, "📏 لطفاً ابعاد غلاف را انتخاب کنید:",
		prefixDimensions, m.catalog.Dimensions, s.draft.Dimensions)}
}

func (m *Machine) chooseOption(field order.Field, opt catalog.Option, notice string) selectionHandler {
	return func(_ context.Context, s *session) Reply {
		if err := s.draft.Set(m.catalog, field, opt.Key); err != nil {
			s.logger.Error("Failed to set catalog option",
				zap.String("field", string(field)),
				zap.String("option", opt.Key),
				zap.Error(err))
			return Reply{}
		}
		return Reply{
			Screen: orderMenuScreen(s.draft, m.opts.CollectContact),
			Notice: &Notice{Text: fmt.Sprintf(notice, opt.Label)},
		}
	}
}

func (m *Machine) sendGalleryImage(img catalog.GalleryImage) selectionHandler {
	return func(ctx context.Context, s *session) Reply {
		err := m.deliver(ctx, s, Delivery{Recipient: RecipientUser, ImageRef: img.URL})
		if err != nil {
			s.logger.Warn("Failed to send gallery image",
				zap.String("image", img.Slug),
				zap.Error(err))
			return Reply{Notice: &Notice{Text: msgImageFailed}}
		}
		return Reply{}
	}
}

func (m *Machine) requestReceipt(_ context.Context, s *session) Reply {
	if s.draft.ReceiptSubmitted {
		return Reply{Screen: &Screen{State: StateReceiptAccepted, Text: msgReceiptDuplicate, Choices: []Choice{homeChoice}}}
	}
	s.draft.Await(order.PendingReceiptImage)
	return Reply{Screen: promptScreen(StateAwaitingReceiptImage, "📸 لطفاً تصویر رسید پرداخت را ارسال کنید.", backToPayment)}
}

func (m *Machine) startCalculator(_ context.Context, s *session) Reply {
	s.draft.ClearCalculator()
	return Reply{Screen: calculatorSensorScreen(m.catalog.Calculator,
		"🧮 ماشین‌حساب سریع قیمت\nلطفاً نوع سنسور را انتخاب کنید:")}
}

func (m *Machine) chooseCalculatorSensor(opt catalog.Option) selectionHandler {
	return func(_ context.Context, s *session) Reply {
		s.draft.SetCalculatorSensor(opt.Price)
		s.draft.CalcSheathPrice = nil
		return Reply{Screen: calculatorSheathScreen(m.catalog.Calculator)}
	}
}

func (m *Machine) chooseCalculatorSheath(opt catalog.Option) selectionHandler {
	return func(_ context.Context, s *session) Reply {
		if s.draft.CalcSensorPrice == nil {
			return Reply{Screen: calculatorSensorScreen(m.catalog.Calculator, msgCalcRestart)}
		}
		s.draft.SetCalculatorSheath(opt.Price)
		s.draft.Await(order.PendingCalculatorLength)
		return Reply{Screen: promptScreen(StateAwaitingCalcLength,
			"📏 لطفاً طول کابل را به متر وارد کنید (مثلاً 3.5):", backToCalc)}
	}
}
