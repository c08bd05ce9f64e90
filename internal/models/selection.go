package models

// SelectionField names one of the cascading option controls.
type SelectionField string

const (
	FieldContract     SelectionField = "contract"
	FieldServiceType  SelectionField = "serviceType"
	FieldServiceCycle SelectionField = "serviceCycle"
	FieldPromoType    SelectionField = "promoType"
	FieldPromoName    SelectionField = "promoName"
)

// SelectionFields lists the fields in cascade order.
var SelectionFields = []SelectionField{
	FieldContract,
	FieldServiceType,
	FieldServiceCycle,
	FieldPromoType,
	FieldPromoName,
}

// Selection is the option state used to pick one priced record out of a group.
type Selection struct {
	Contract     string `json:"contract"`
	ServiceType  string `json:"serviceType"`
	ServiceCycle string `json:"serviceCycle"`
	PromoType    string `json:"promoType"`
	PromoName    string `json:"promoName"`
}

// Value returns the current value of field.
func (s Selection) Value(field SelectionField) string {
	switch field {
	case FieldContract:
		return s.Contract
	case FieldServiceType:
		return s.ServiceType
	case FieldServiceCycle:
		return s.ServiceCycle
	case FieldPromoType:
		return s.PromoType
	case FieldPromoName:
		return s.PromoName
	}
	return ""
}

// With returns a copy of s with field set to value.
func (s Selection) With(field SelectionField, value string) Selection {
	switch field {
	case FieldContract:
		s.Contract = value
	case FieldServiceType:
		s.ServiceType = value
	case FieldServiceCycle:
		s.ServiceCycle = value
	case FieldPromoType:
		s.PromoType = value
	case FieldPromoName:
		s.PromoName = value
	}
	return s
}

// Complete reports whether enough is selected to resolve a price.
// Promotion name is optional: empty selects the plan without a named promotion.
func (s Selection) Complete() bool {
	return s.Contract != "" && s.ServiceType != "" && s.ServiceCycle != "" && s.PromoType != ""
}

// SelectionChoices holds the distinct values offered for each field.
type SelectionChoices struct {
	Contracts     []string `json:"contracts"`
	ServiceTypes  []string `json:"service_types"`
	ServiceCycles []string `json:"service_cycles"`
	PromoTypes    []string `json:"promo_types"`
	PromoNames    []string `json:"promo_names"`
}

// PriceQuote is the price derived from one resolved record.
type PriceQuote struct {
	UsageFee  int64 `json:"usage_fee"`
	BestPrice int64 `json:"best_price"`
}

// SelectionResult is the detail view state for one model group.
type SelectionResult struct {
	GroupKey        string            `json:"group_key"`
	Name            string            `json:"name"`
	ModelCodes      []string          `json:"model_codes"`
	Selection       Selection         `json:"selection"`
	Choices         SelectionChoices  `json:"choices"`
	ContractLabels  map[string]string `json:"contract_labels"`
	Resolved        Record            `json:"resolved,omitempty"`
	Price           *PriceQuote       `json:"price"`
	PrepayAvailable bool              `json:"prepay_available"`
}
