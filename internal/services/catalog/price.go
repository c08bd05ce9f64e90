package catalog

import (
	"strconv"
	"strings"

	"github.com/bobmcallan/catalog/internal/models"
)

// PromotionalSubsidy is the fixed amount taken off the usage fee to derive
// the best (maximum benefit) price.
const PromotionalSubsidy int64 = 13000

// ParseCurrency extracts the ASCII digits of s and parses them as an integer.
// Empty, digit-free or overflowing input yields 0. Signs and separators are
// discarded, so "-5,000원" parses as 5000.
func ParseCurrency(s string) int64 {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	v, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// UsageFee is the monthly fee of a plan: the discounted price when set,
// otherwise the list price.
func UsageFee(r models.Record) int64 {
	raw := r.Get(models.ColDiscounted)
	if strings.TrimSpace(raw) == "" {
		raw = r.Get(models.ColListPrice)
	}
	return ParseCurrency(raw)
}

// BestPrice subtracts the promotional subsidy from fee, floored at zero.
func BestPrice(fee int64) int64 {
	if fee <= PromotionalSubsidy {
		return 0
	}
	return fee - PromotionalSubsidy
}

// Quote derives both prices from one resolved record.
func Quote(r models.Record) models.PriceQuote {
	fee := UsageFee(r)
	return models.PriceQuote{UsageFee: fee, BestPrice: BestPrice(fee)}
}

// FormatContract renders a contract length in months for display:
// whole years as "N년", anything else as "N개월". Values without digits are
// returned unchanged.
func FormatContract(v string) string {
	if strings.TrimSpace(v) == "" || !strings.ContainsAny(v, "0123456789") {
		return v
	}
	months := ParseCurrency(v)
	if months > 0 && months%12 == 0 {
		return strconv.FormatInt(months/12, 10) + "년"
	}
	return strconv.FormatInt(months, 10) + "개월"
}
