package conversation

// Choice identifiers carried in button callbacks.
const (
	ChoiceProducts     = "products"
	ChoiceContact      = "contact"
	ChoiceCalculator   = "calculator"
	ChoiceBackMain     = "back_main"
	ChoiceBackProducts = "back_products"

	ChoiceSensorDetail = "ntc10k"
	ChoiceSpecs        = "specs"
	ChoicePhysical     = "physical"
	ChoiceUses         = "uses"
	ChoiceConditions   = "conditions"
	ChoiceGallery      = "images"

	ChoiceOrder            = "order"
	ChoiceSelectSensor     = "select_sensor_type"
	ChoiceSelectDimensions = "select_dimensions"
	ChoiceSelectWireLength = "select_wire_length"
	ChoiceSelectQuantity   = "select_quantity"
	ChoiceSelectName       = "select_name"
	ChoiceSelectPhone      = "select_phone"
	ChoiceFinalOrder       = "final_order"

	ChoicePaymentInfo = "payment_info"
	ChoiceSendReceipt = "send_receipt"
)

// Prefixes of parametrised choices; the suffix is a catalog slug.
const (
	prefixImage      = "image_"
	prefixSensor     = "sensor_"
	prefixDimensions = "dim_"
	prefixCalcSensor = "calc_sensor_"
	prefixCalcSheath = "calc_sheath_"
)
