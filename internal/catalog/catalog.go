package catalog

import "strings"

// Option is a selectable catalog entry together with its price contribution.
type Option struct {
	Key   string
	Slug  string
	Label string
	Price int64
}

type Tier struct {
	MaxLengthM float64
	Factor     string
}

// CalculatorPricing holds the constants of the quick-calculator estimate.
type CalculatorPricing struct {
	CablePricePerMeter int64
	AssemblyFee        int64
	ExtraFee           int64
	ProfitMargin       int64
	// Tiers are ordered by MaxLengthM; lengths above the last tier use TopFactor.
	Tiers     []Tier
	TopFactor string

	Sensors []Option
	Sheaths []Option
}

type GalleryImage struct {
	Slug  string
	Label string
	URL   string
}

type PaymentMethod struct {
	Slug    string
	Label   string
	Details string
}

type Catalog struct {
	BasePrice      int64
	WirePricePerCM int64
	Sensors        []Option
	Dimensions     []Option
	Calculator     CalculatorPricing
	Gallery        []GalleryImage
	PaymentMethods []PaymentMethod
}

func Default() *Catalog {
	return &Catalog{
		BasePrice:      50_000,
		WirePricePerCM: 2000,
		Sensors: []Option{
			{Key: "NTC10K", Slug: "ntc10k", Label: "NTC10K", Price: 350_000},
			{Key: "PT100", Slug: "pt100", Label: "PT100", Price: 450_000},
			{Key: "DS18B20", Slug: "ds18b20", Label: "DS18B20", Price: 400_000},
		},
		Dimensions: []Option{
			{Key: "6×50", Slug: "6x50", Label: "6×50", Price: 150_000},
			{Key: "4×25", Slug: "4x25", Label: "4×25", Price: 100_000},
			{Key: "8×75", Slug: "8x75", Label: "8×75", Price: 200_000},
		},
		Calculator: CalculatorPricing{
			CablePricePerMeter: 12_000,
			AssemblyFee:        25_000,
			ExtraFee:           7_000,
			ProfitMargin:       15_000,
			Tiers: []Tier{
				{MaxLengthM: 2, Factor: "1.00"},
				{MaxLengthM: 5, Factor: "1.05"},
				{MaxLengthM: 10, Factor: "1.10"},
				{MaxLengthM: 15, Factor: "1.15"},
			},
			TopFactor: "1.20",
			Sensors: []Option{
				{Key: "NTC10K", Slug: "ntc10k", Label: "NTC10K", Price: 15_000},
				{Key: "PT100", Slug: "pt100", Label: "PT100", Price: 22_000},
				{Key: "DS18B20", Slug: "ds18b20", Label: "DS18B20", Price: 18_000},
			},
			Sheaths: []Option{
				{Key: "6×50", Slug: "6x50", Label: "6×50", Price: 12_000},
				{Key: "4×25", Slug: "4x25", Label: "4×25", Price: 9_000},
				{Key: "8×75", Slug: "8x75", Label: "8×75", Price: 16_000},
			},
		},
		Gallery: []GalleryImage{
			{Slug: "closeup", Label: "🖼️ نمای نزدیک", URL: "https://via.placeholder.com/300x200?text=Close+Up"},
			{Slug: "installed", Label: "🖼️ نصب شده روی دستگاه", URL: "https://via.placeholder.com/300x200?text=Installed+View"},
		},
		PaymentMethods: []PaymentMethod{
			{Slug: "card_number", Label: "💳 شماره کارت", Details: "💳 شماره کارت:\n6037-9975-9975-9975\nبه نام: محمد حسین داودی\nبانک: ملی"},
			{Slug: "sheba_number", Label: "📱 شماره شبا", Details: "📱 شماره شبا:\nIR06-0170-0000-0012-3456-7890-01\nبه نام: محمد حسین داودی\nبانک: ملی"},
			{Slug: "account_number", Label: "🏦 شماره حساب", Details: "🏦 شماره حساب:\n0012345678901\nبه نام: محمد حسین داودی\nبانک: ملی"},
		},
	}
}

func (c *Catalog) Sensor(key string) (Option, bool) {
	return byKey(c.Sensors, key)
}

func (c *Catalog) Dimension(key string) (Option, bool) {
	return byKey(c.Dimensions, key)
}

// SensorBySlug resolves the lowercase identifier carried in choice ids.
func (c *Catalog) SensorBySlug(slug string) (Option, bool) {
	return bySlug(c.Sensors, slug)
}

func (c *Catalog) DimensionBySlug(slug string) (Option, bool) {
	return bySlug(c.Dimensions, slug)
}

func (c *Catalog) PaymentMethod(slug string) (PaymentMethod, bool) {
	for _, m := range c.PaymentMethods {
		if m.Slug == slug {
			return m, true
		}
	}
	return PaymentMethod{}, false
}

func (c *Catalog) Image(slug string) (GalleryImage, bool) {
	for _, img := range c.Gallery {
		if img.Slug == slug {
			return img, true
		}
	}
	return GalleryImage{}, false
}

func (p CalculatorPricing) Sensor(slug string) (Option, bool) {
	return bySlug(p.Sensors, slug)
}

func (p CalculatorPricing) Sheath(slug string) (Option, bool) {
	return bySlug(p.Sheaths, slug)
}

func byKey(opts []Option, key string) (Option, bool) {
	for _, o := range opts {
		if o.Key == key {
			return o, true
		}
	}
	return Option{}, false
}

func bySlug(opts []Option, slug string) (Option, bool) {
	slug = strings.ToLower(slug)
	for _, o := range opts {
		if o.Slug == slug {
			return o, true
		}
	}
	return Option{}, false
}
