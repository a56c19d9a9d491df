package domain

import "github.com/shopspring/decimal"

// ClearanceStage identifies a stage of the customs-clearance workflow that
// carries a standard bundle of fees.
type ClearanceStage string

const (
	StageArrival     ClearanceStage = "ARRIVAL"
	StageInspection  ClearanceStage = "INSPECTION"
	StageDutyPayment ClearanceStage = "DUTY_PAYMENT"
	StageRelease     ClearanceStage = "RELEASE"
	StageDelivery    ClearanceStage = "DELIVERY"
)

// PresetLine is a pre-filled fee line belonging to a named preset. Applying
// a preset only populates the line list; totals still go through the normal
// fee computation.
type PresetLine struct {
	Description string
	FeeCategory FeeCategory
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

func presetLine(desc string, cat FeeCategory, qty, price string) PresetLine {
	return PresetLine{
		Description: desc,
		FeeCategory: cat,
		Quantity:    decimal.RequireFromString(qty),
		UnitPrice:   decimal.RequireFromString(price),
	}
}

// QuickFeePresets are named fee bundles offered as one-click starting
// points when drafting an invoice.
var QuickFeePresets = map[string][]PresetLine{
	"BASIC_CLEARANCE": {
		presetLine("Customs clearance service", FeeServiceFee, "1", "350.00"),
		presetLine("Documentation processing", FeeDocumentation, "1", "75.00"),
	},
	"FULL_IMPORT": {
		presetLine("Customs clearance service", FeeServiceFee, "1", "350.00"),
		presetLine("Customs duty advance", FeeCustomsDuty, "1", "0.00"),
		presetLine("Port handling", FeePortCharge, "1", "220.00"),
		presetLine("Delivery transport", FeeTransport, "1", "180.00"),
	},
	"DOCUMENT_ONLY": {
		presetLine("Documentation processing", FeeDocumentation, "1", "75.00"),
	},
}

// StageFeeTemplates map each clearance stage to the fee lines it normally
// generates.
var StageFeeTemplates = map[ClearanceStage][]PresetLine{
	StageArrival: {
		presetLine("Port handling", FeePortCharge, "1", "220.00"),
		presetLine("Container storage (per day)", FeeStorage, "1", "45.00"),
	},
	StageInspection: {
		presetLine("Customs inspection fee", FeeInspection, "1", "150.00"),
	},
	StageDutyPayment: {
		presetLine("Customs duty advance", FeeCustomsDuty, "1", "0.00"),
	},
	StageRelease: {
		presetLine("Release documentation", FeeDocumentation, "1", "75.00"),
		presetLine("Customs clearance service", FeeServiceFee, "1", "350.00"),
	},
	StageDelivery: {
		presetLine("Delivery transport", FeeTransport, "1", "180.00"),
	},
}
