package conversation

import (
	"fmt"
	"strconv"
	"strings"
	"voltabot/internal/catalog"
	"voltabot/internal/order"
	"voltabot/internal/pricing"

	"github.com/shopspring/decimal"
)

const (
	welcomeText = `✨ به فروشگاه ولتا استور خوش آمدید! ✨
🔸 ارائه دهنده انواع سنسورهای صنعتی
🔸 کیفیت برتر، قیمت مناسب
🔸 ارسال به سراسر کشور
🔸 پشتیبانی ۲۴ ساعته
لطفاً یکی از گزینه‌های زیر را انتخاب کنید:`

	contactText = `✨ ارتباط با ولتا استور ✨
👤 مدیر فروش: محمد حسین داودی
📱 تلفن تماس: 09359636526
📍 آدرس: تهران، سه راه مرزداران، برج نگین رضا
⏰ ساعات پاسخگویی:
شنبه تا چهارشنبه: 9:00 - 18:00
پنجشنبه: 9:00 - 13:00`

	notSelected = "❌ انتخاب نشده"

	msgIncomplete       = "❌ لطفاً تمام موارد سفارش را تکمیل کنید."
	msgPriceError       = "⚠️ خطایی در محاسبه قیمت رخ داد."
	msgPrivateBlocked   = "⚠️ امکان ارسال پیام خصوصی وجود ندارد.\nلطفاً ابتدا با ربات چت کنید: @%s"
	msgImageFailed      = "⚠️ ارسال تصویر ممکن نشد. لطفاً دوباره تلاش کنید."
	msgInvoiceCaption   = "🧾 فاکتور سفارش شما"
	msgInvoiceApology   = "⚠️ متأسفانه در تهیه فاکتور خطایی رخ داد. سفارش شما ثبت شده است و فاکتور به زودی توسط پشتیبانی ارسال می‌شود."
	msgCopySent         = "✨ یک نسخه از سفارش به چت خصوصی شما ارسال شد."
	msgReceiptAccepted  = "✅ رسید پرداخت شما با موفقیت ثبت شد.\nکارشناسان ما به زودی آن را بررسی خواهند کرد."
	msgReceiptDuplicate = "ℹ️ رسید پرداخت این سفارش قبلاً ثبت شده است."
	msgReceiptFailed    = "❌ متأسفانه در ثبت رسید خطایی رخ داد. لطفاً دوباره تلاش کنید."
	msgReceiptNeedImage = "📸 لطفاً تصویر رسید پرداخت را به صورت عکس ارسال کنید."
	msgCalcRestart      = "⚠️ انتخاب‌های ماشین‌حساب منقضی شده است. لطفاً دوباره نوع سنسور را انتخاب کنید."
)

var productInfo = map[string]struct{ title, content string }{
	ChoiceSpecs: {"📘 مشخصات فنی:", `- نوع سنسور: 103AT-2-NTC
- محدوده دما: -50 تا +110°C
- دقت اندازه‌گیری: ±0.5°C
- نوع اتصال: 2 سیمه
- جنس غلاف: استیل ضدزنگ`},
	ChoicePhysical: {"📏 ویژگی‌های فیزیکی:", `- طول غلاف: 50 میلی‌متر
- قطر غلاف: 6 میلی‌متر
- طول سیم: 2 متر
- وزن: 50 گرم
- نوع نصب: مجاورتی`},
	ChoiceUses: {"🏭 کاربردها:", `- صنایع غذایی
- دیگ بخار
- تجهیزات آزمایشگاهی
- چیلر و تهویه مطبوع
- خطوط تولید صنعتی`},
	ChoiceConditions: {"🌡️ شرایط کاری:", `- دمای کاری: -50 تا +110°C
- فشار قابل تحمل: تا 10 بار
- مقاومت در برابر رطوبت: دارد`},
}

var (
	backToMain     = Choice{Label: "🔙 بازگشت به منوی قبل", ID: ChoiceBackMain}
	backToProducts = Choice{Label: "🔙 بازگشت به منوی قبل", ID: ChoiceBackProducts}
	backToSensor   = Choice{Label: "🔙 بازگشت به منوی قبل", ID: ChoiceSensorDetail}
	backToOrder    = Choice{Label: "🔙 بازگشت به منوی سفارش", ID: ChoiceOrder}
	backToPayment  = Choice{Label: "🔙 بازگشت به منوی پرداخت", ID: ChoicePaymentInfo}
	backToCalc     = Choice{Label: "🔙 بازگشت", ID: ChoiceCalculator}
	homeChoice     = Choice{Label: "🏠 بازگشت به منوی اصلی", ID: ChoiceBackMain}
	paymentChoice  = Choice{Label: "💳 نهایی‌سازی سفارش و پرداخت", ID: ChoicePaymentInfo}
)

func mainMenuScreen(text string) *Screen {
	return &Screen{
		State: StateMainMenu,
		Text:  text,
		Choices: []Choice{
			{Label: "📦 محصولات", ID: ChoiceProducts},
			{Label: "🧮 ماشین‌حساب قیمت", ID: ChoiceCalculator},
			{Label: "📞 تماس با ما", ID: ChoiceContact},
		},
	}
}

func contactScreen() *Screen {
	return &Screen{State: StateContact, Text: contactText, Choices: []Choice{backToMain}}
}

func productMenuScreen() *Screen {
	return &Screen{
		State: StateProductMenu,
		Text:  "📌 منوی محصولات:",
		Choices: []Choice{
			{Label: "🌡️ سنسور دمای NTC10K", ID: ChoiceSensorDetail},
			{Label: "🛍️ ثبت سفارش آنلاین", ID: ChoiceOrder},
			{Label: "⬅️ بازگشت به منو اصلی", ID: ChoiceBackMain},
		},
	}
}

func sensorDetailScreen() *Screen {
	return &Screen{
		State: StateSensorDetail,
		Text:  "🌡️ سنسور دمای NTC10K\nلطفاً یکی از گزینه‌های زیر را انتخاب کنید:",
		Choices: []Choice{
			{Label: "🔧 مشخصات فنی", ID: ChoiceSpecs},
			{Label: "📐 ابعاد و مشخصات فیزیکی", ID: ChoicePhysical},
			{Label: "🏭 کاربردها", ID: ChoiceUses},
			{Label: "⚙️ شرایط کاری", ID: ChoiceConditions},
			{Label: "📸 گالری تصاویر محصول", ID: ChoiceGallery},
			{Label: "🔙 بازگشت به منوی محصولات", ID: ChoiceBackProducts},
		},
	}
}

func productInfoScreen(id string) *Screen {
	info := productInfo[id]
	return &Screen{
		State:   StateProductInfo,
		Text:    info.title + "\n" + info.content,
		Choices: []Choice{backToSensor},
	}
}

func galleryScreen(cat *catalog.Catalog) *Screen {
	choices := make([]Choice, 0, len(cat.Gallery)+1)
	for _, img := range cat.Gallery {
		choices = append(choices, Choice{Label: img.Label, ID: prefixImage + img.Slug})
	}
	return &Screen{
		State:   StateGallery,
		Text:    "📷 لطفاً یک تصویر را انتخاب کنید:",
		Choices: append(choices, backToSensor),
	}
}

func orderMenuScreen(d *order.Draft, collectContact bool) *Screen {
	var b strings.Builder
	b.WriteString("📋 مشخصات سفارش شما:")
	fmt.Fprintf(&b, "\n🎯 نوع سنسور: %s", selected(d.SensorType, ""))
	fmt.Fprintf(&b, "\n📐 ابعاد غلاف: %s", selected(d.Dimensions, ""))
	fmt.Fprintf(&b, "\n📏 طول سیم: %s", selectedInt(d.WireLengthCM, " سانتی‌متر"))
	fmt.Fprintf(&b, "\n🔢 تعداد: %s", selectedInt(d.Quantity, " عدد"))

	choices := []Choice{
		{Label: "🎯 انتخاب نوع سنسور", ID: ChoiceSelectSensor},
		{Label: "📐 انتخاب ابعاد غلاف", ID: ChoiceSelectDimensions},
		{Label: "📏 انتخاب طول سیم", ID: ChoiceSelectWireLength},
		{Label: "🔢 انتخاب تعداد", ID: ChoiceSelectQuantity},
	}
	if collectContact {
		name := d.CustomerName()
		fmt.Fprintf(&b, "\n👤 نام: %s", selected(&name, ""))
		fmt.Fprintf(&b, "\n📱 تلفن: %s", selected(d.CustomerPhone, ""))
		choices = append(choices,
			Choice{Label: "👤 ثبت نام و نام خانوادگی", ID: ChoiceSelectName},
			Choice{Label: "📱 ثبت شماره تماس", ID: ChoiceSelectPhone},
		)
	}
	choices = append(choices,
		Choice{Label: "✅ ثبت نهایی سفارش", ID: ChoiceFinalOrder},
		backToProducts,
	)
	return &Screen{State: StateOrderMenu, Text: b.String(), Choices: choices}
}

func selected(v *string, suffix string) string {
	if v == nil || *v == "" {
		return notSelected
	}
	return "✨ " + *v + suffix
}

func selectedInt(v *int, suffix string) string {
	if v == nil {
		return notSelected
	}
	s := strconv.Itoa(*v)
	return selected(&s, suffix)
}

// optionScreen lists catalog options, ticking the current one.
func optionScreen(state State, text, prefix string, opts []catalog.Option, current *string) *Screen {
	choices := make([]Choice, 0, len(opts)+1)
	for _, o := range opts {
		label := o.Label
		if current != nil && *current == o.Key {
			label = "✓ " + label
		}
		choices = append(choices, Choice{Label: label, ID: prefix + o.Slug})
	}
	return &Screen{State: state, Text: text, Choices: append(choices, backToOrder)}
}

func promptScreen(state State, text string, back Choice) *Screen {
	return &Screen{State: state, Text: text, Choices: []Choice{back}}
}

func paymentMenuScreen(cat *catalog.Catalog) *Screen {
	choices := make([]Choice, 0, len(cat.PaymentMethods)+1)
	for _, m := range cat.PaymentMethods {
		choices = append(choices, Choice{Label: m.Label, ID: m.Slug})
	}
	return &Screen{
		State:   StatePaymentMenu,
		Text:    "💳 اطلاعات پرداخت:\nلطفاً از یکی از روش‌های زیر برای پرداخت استفاده کنید:",
		Choices: append(choices, backToProducts),
	}
}

func paymentDetailScreen(m catalog.PaymentMethod) *Screen {
	return &Screen{
		State: StatePaymentDetail,
		Text:  m.Details + "\n\n✨ پس از پرداخت، لطفاً رسید را ارسال کنید.",
		Choices: []Choice{
			{Label: "📸 ارسال رسید پرداخت", ID: ChoiceSendReceipt},
			backToPayment,
		},
	}
}

func calculatorSensorScreen(p catalog.CalculatorPricing, text string) *Screen {
	choices := make([]Choice, 0, len(p.Sensors)+1)
	for _, o := range p.Sensors {
		choices = append(choices, Choice{Label: o.Label, ID: prefixCalcSensor + o.Slug})
	}
	return &Screen{
		State:   StateQuickCalculatorSensor,
		Text:    text,
		Choices: append(choices, backToMain),
	}
}

func calculatorSheathScreen(p catalog.CalculatorPricing) *Screen {
	choices := make([]Choice, 0, len(p.Sheaths)+1)
	for _, o := range p.Sheaths {
		choices = append(choices, Choice{Label: o.Label, ID: prefixCalcSheath + o.Slug})
	}
	return &Screen{
		State:   StateQuickCalculatorSheath,
		Text:    "📐 لطفاً نوع غلاف را انتخاب کنید:",
		Choices: append(choices, backToCalc),
	}
}

func calculatorResultScreen(sensorPrice, sheathPrice int64, lengthM float64, factor decimal.Decimal, total int64) *Screen {
	text := fmt.Sprintf(`🧮 برآورد قیمت:
- قیمت سنسور: %s تومان
- قیمت غلاف: %s تومان
- طول کابل: %s متر
- ضریب سختی کار: %s
💰 قیمت تقریبی: %s تومان`,
		pricing.FormatAmount(sensorPrice),
		pricing.FormatAmount(sheathPrice),
		strconv.FormatFloat(lengthM, 'f', -1, 64),
		factor.StringFixed(2),
		pricing.FormatAmount(total),
	)
	return &Screen{
		State: StateCalculatorResult,
		Text:  text,
		Choices: []Choice{
			{Label: "🔁 محاسبه دوباره", ID: ChoiceCalculator},
			{Label: "🛍️ ثبت سفارش آنلاین", ID: ChoiceOrder},
			homeChoice,
		},
	}
}

func finalizedScreen(summary string) *Screen {
	return &Screen{
		State: StateOrderFinalized,
		Text:  summary + "\n\n" + msgCopySent,
		Choices: []Choice{
			paymentChoice,
			{Label: "✏️ ویرایش سفارش", ID: ChoiceOrder},
			homeChoice,
		},
	}
}

// orderSummary is the text sent to the user and posted to the merchant.
func orderSummary(d *order.Draft, total int64, userID int64, supportHandle string, collectContact bool) string {
	var b strings.Builder
	b.WriteString("✅ سفارش جدید با مشخصات زیر ثبت شد:")
	fmt.Fprintf(&b, "\n- نوع سنسور: %s", *d.SensorType)
	fmt.Fprintf(&b, "\n- ابعاد غلاف: %s", *d.Dimensions)
	fmt.Fprintf(&b, "\n- طول سیم: %d سانتی‌متر", *d.WireLengthCM)
	fmt.Fprintf(&b, "\n- تعداد: %d عدد", *d.Quantity)
	if collectContact {
		fmt.Fprintf(&b, "\n- نام مشتری: %s", d.CustomerName())
		fmt.Fprintf(&b, "\n- شماره تماس: %s", *d.CustomerPhone)
	}
	fmt.Fprintf(&b, "\n💰 قیمت کل: %s تومان", pricing.FormatAmount(total))
	fmt.Fprintf(&b, "\n📱 برای نهایی کردن سفارش با %s در تماس باشید.", supportHandle)
	fmt.Fprintf(&b, "\n🆔 شناسه کاربر: %d", userID)
	return b.String()
}

func receiptCaption(u User, d *order.Draft) string {
	name := d.CustomerName()
	if name == "" {
		name = u.DisplayName()
	}
	return fmt.Sprintf("📸 رسید پرداخت جدید\n🆔 شناسه کاربر: %d\n👤 نام کاربر: %s", u.ID, name)
}
