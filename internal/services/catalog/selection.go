package catalog

import (
	"strings"

	"github.com/bobmcallan/catalog/internal/models"
)

// selectionResets lists the fields cleared when a field is set.
var selectionResets = map[models.SelectionField][]models.SelectionField{
	models.FieldContract:     {models.FieldServiceType, models.FieldServiceCycle, models.FieldPromoType, models.FieldPromoName},
	models.FieldServiceType:  {models.FieldServiceCycle, models.FieldPromoType, models.FieldPromoName},
	models.FieldServiceCycle: {models.FieldPromoType, models.FieldPromoName},
	models.FieldPromoType:    {models.FieldPromoName},
	models.FieldPromoName:    {},
}

// selectionParents lists the field that must be set before a field is selectable.
var selectionParents = map[models.SelectionField]models.SelectionField{
	models.FieldServiceType:  models.FieldContract,
	models.FieldServiceCycle: models.FieldServiceType,
	models.FieldPromoType:    models.FieldServiceCycle,
	models.FieldPromoName:    models.FieldPromoType,
}

// ApplySelection sets field to value and clears every field downstream of it.
// Unknown fields, and fields whose parent is still unset, leave the state
// unchanged.
func ApplySelection(state models.Selection, field models.SelectionField, value string) models.Selection {
	resets, ok := selectionResets[field]
	if !ok {
		return state
	}
	if parent, ok := selectionParents[field]; ok && state.Value(parent) == "" {
		return state
	}

	next := state.With(field, value)
	for _, f := range resets {
		next = next.With(f, "")
	}
	return next
}

// MatchSelection resolves the single record of group that the selection
// describes. It reports false when the selection is incomplete or when zero
// or several records match.
func MatchSelection(group []models.Record, sel models.Selection) (models.Record, bool) {
	if !sel.Complete() {
		return nil, false
	}

	var match models.Record
	n := 0
	for _, r := range group {
		if !matchesPlan(r, sel) || !matchesPromoName(r, sel.PromoName) {
			continue
		}
		match = r
		n++
	}
	if n != 1 {
		return nil, false
	}
	return match, true
}

// matchesPlan compares contract, service type, cycle and promotion type.
func matchesPlan(r models.Record, sel models.Selection) bool {
	return r.Get(models.ColContract) == sel.Contract &&
		r.Get(models.ColServiceType) == sel.ServiceType &&
		r.Get(models.ColServiceCycle) == sel.ServiceCycle &&
		strings.TrimSpace(r.Get(models.ColPromoType)) == strings.TrimSpace(sel.PromoType)
}

// matchesPromoName: an empty selection only matches plans without a named
// promotion.
func matchesPromoName(r models.Record, promoName string) bool {
	if promoName == "" {
		return strings.TrimSpace(r.Get(models.ColPromoName)) == ""
	}
	return r.Get(models.ColPromoName) == promoName
}

// Choices lists the values offered for each field of the selection form.
// Promotion names are limited to the plans matching the other four fields
// and are only offered once those are all selected.
func Choices(group []models.Record, sel models.Selection) models.SelectionChoices {
	choices := models.SelectionChoices{
		Contracts:     distinct(group, func(r models.Record) string { return r.Get(models.ColContract) }),
		ServiceTypes:  distinct(group, func(r models.Record) string { return r.Get(models.ColServiceType) }),
		ServiceCycles: distinct(group, func(r models.Record) string { return r.Get(models.ColServiceCycle) }),
		PromoTypes:    distinct(group, func(r models.Record) string { return strings.TrimSpace(r.Get(models.ColPromoType)) }),
		PromoNames:    []string{},
	}

	if sel.Complete() {
		plans := make([]models.Record, 0)
		for _, r := range group {
			if matchesPlan(r, sel) {
				plans = append(plans, r)
			}
		}
		choices.PromoNames = distinct(plans, func(r models.Record) string { return r.Get(models.ColPromoName) })
	}
	return choices
}

// ResolveSelection builds the detail view state for one model group.
func ResolveSelection(group models.ModelGroup, sel models.Selection) *models.SelectionResult {
	choices := Choices(group.Members, sel)

	labels := make(map[string]string, len(choices.Contracts))
	for _, c := range choices.Contracts {
		labels[c] = FormatContract(c)
	}

	result := &models.SelectionResult{
		GroupKey:       group.Key,
		Name:           group.Name,
		ModelCodes:     group.ModelCodes,
		Selection:      sel,
		Choices:        choices,
		ContractLabels: labels,
	}

	if r, ok := MatchSelection(group.Members, sel); ok {
		quote := Quote(r)
		result.Resolved = r
		result.Price = &quote
		result.PrepayAvailable = r.IsPrepay()
	}
	return result
}
