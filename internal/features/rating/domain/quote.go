package domain

// PricingMode records how the base freight was priced.
type PricingMode string

const (
	PricingModeTier PricingMode = "tier"
	PricingModeFlat PricingMode = "flat"
	// PricingModeMinimum means neither a tier nor a flat price applied and the
	// freight is the channel minimum charge alone.
	PricingModeMinimum PricingMode = "minimum"
)

// DefaultCurrency is used when neither the channel nor the service configures one.
const DefaultCurrency = "CNY"

// Quote is the cost breakdown of one shipment on one channel.
// Money fields are rounded to two decimals, ChargeWeight to the channel's
// ticket precision.
type Quote struct {
	ID          string `json:"id"`
	ShipmentID  string `json:"shipment_id,omitempty"`
	ChannelID   string `json:"channel_id"`
	ChannelName string `json:"channel_name"`
	Currency    string `json:"currency"`

	FreightCost float64 `json:"freight_cost"`
	ExtraFee    float64 `json:"extra_fee"`
	TotalCost   float64 `json:"total_cost"`

	ChargeWeight     float64 `json:"charge_weight"`
	ActualWeight     float64 `json:"actual_weight"`
	Volume           float64 `json:"volume"`
	VolumetricWeight float64 `json:"volumetric_weight"`

	PricingMode  PricingMode `json:"pricing_mode"`
	Tier         *RateTier   `json:"tier,omitempty"`
	Base         float64     `json:"base"`
	Tax          float64     `json:"tax"`
	TierExtraFee float64     `json:"tier_extra_fee"`
	OtherFee     float64     `json:"other_fee"`

	Fees  []FeeLine   `json:"fees"`
	Boxes []BoxCharge `json:"boxes"`
}

// FeeLine is one extra-fee rule that fired.
type FeeLine struct {
	RuleID   string  `json:"rule_id,omitempty"`
	Name     string  `json:"name"`
	FeeType  FeeType `json:"fee_type,omitempty"`
	Currency string  `json:"currency,omitempty"`
	Amount   float64 `json:"amount"`
}

// BoxCharge is the per-box accounting line.
type BoxCharge struct {
	Code             string  `json:"code,omitempty"`
	Volume           float64 `json:"volume"`
	VolumetricWeight float64 `json:"volumetric_weight"`
	ChargeWeight     float64 `json:"charge_weight"`
}

// Route narrows an estimate to the channels serving a lane. Empty fields match any channel.
type Route struct {
	Country   string `json:"country,omitempty"`
	Warehouse string `json:"warehouse,omitempty"`
	Origin    string `json:"origin,omitempty"`
}

// BatchItem is the outcome of one shipment in a batch. Exactly one of Quote
// and Error is set.
type BatchItem struct {
	Index      int      `json:"index"`
	ShipmentID string   `json:"shipment_id,omitempty"`
	Quote      *Quote   `json:"quote,omitempty"`
	Error      string   `json:"error,omitempty"`
	Violations []string `json:"violations,omitempty"`
}
