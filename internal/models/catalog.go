package models

import "strings"

// Well-known catalog columns. Any of them may be absent from a sheet.
const (
	ColNo             = "No"
	ColTopCategory    = "대분류"
	ColMiddleCategory = "중분류"
	ColSubCategory    = "소분류"
	ColProductName    = "상품명"
	ColModelCode      = "모델코드"
	ColSameModel      = "동일 모델 기준"
	ColContract       = "계약기간"
	ColServiceType    = "서비스유형"
	ColServiceCycle   = "서비스주기/월"
	ColListPrice      = "정상가"
	ColPromoName      = "프로모션명"
	ColPromoType      = "프로모션유형"
	ColPaymentMethod  = "지급수단"
	ColDiscountKind   = "금액적용유형" // 정액 | 정률
	ColDiscountValue  = "전회차할인값"
	ColDiscountAmount = "할인금액"
	ColDiscounted     = "할인후금액"
	ColPrepay         = "선입금여부"
)

// HeaderMarker identifies the header row in CSV and workbook exports.
const HeaderMarker = ColProductName

// columnAliases maps alternative header spellings seen in exports to the
// canonical column name.
var columnAliases = map[string]string{
	"동일모델기준":  ColSameModel,
	"서비스주기월":  ColServiceCycle,
	"서비스주기":   ColServiceCycle,
	"동일 모델기준": ColSameModel,
}

// CanonicalColumn trims a header cell and maps known aliases to their
// canonical column name.
func CanonicalColumn(name string) string {
	name = strings.TrimSpace(name)
	if canonical, ok := columnAliases[name]; ok {
		return canonical
	}
	return name
}

// Record is one spreadsheet row: column name to cell value.
// Records returned by the cache are shared and must be treated as read-only.
type Record map[string]string

// Get returns the value for col, consulting alias spellings when the
// canonical column is absent. Absent columns read as "".
func (r Record) Get(col string) string {
	if v, ok := r[col]; ok {
		return v
	}
	for alias, canonical := range columnAliases {
		if canonical != col {
			continue
		}
		if v, ok := r[alias]; ok {
			return v
		}
	}
	return ""
}

// ModelCode returns the trimmed model code.
func (r Record) ModelCode() string { return strings.TrimSpace(r.Get(ColModelCode)) }

// SameModel returns the trimmed same-model grouping column.
func (r Record) SameModel() string { return strings.TrimSpace(r.Get(ColSameModel)) }

// GroupKey returns the key a record groups under: the same-model column when
// set, otherwise the model code.
func (r Record) GroupKey() string {
	if k := r.SameModel(); k != "" {
		return k
	}
	return r.ModelCode()
}

func (r Record) MiddleCategory() string { return strings.TrimSpace(r.Get(ColMiddleCategory)) }
func (r Record) SubCategory() string    { return strings.TrimSpace(r.Get(ColSubCategory)) }
func (r Record) ProductName() string    { return r.Get(ColProductName) }

// IsPrepay reports whether the plan supports prepayment.
func (r Record) IsPrepay() bool { return strings.TrimSpace(r.Get(ColPrepay)) == "Y" }

// Filter narrows a sheet's records. ID takes priority over the category filters.
type Filter struct {
	Middle string
	Sub    string
	ID     string
}

// ModelGroup is the set of priced variants sold as one product.
type ModelGroup struct {
	Key            string   `json:"key"`
	Name           string   `json:"name"`
	ModelCodes     []string `json:"model_codes"`
	Representative Record   `json:"representative"`
	Members        []Record `json:"members"`
	MinUsageFee    int64    `json:"min_usage_fee"`
	BestPrice      int64    `json:"best_price"`
}

// CategoryPair is one distinct (middle, sub) category combination.
type CategoryPair struct {
	Middle string `json:"middle"`
	Sub    string `json:"sub"`
}

// CategoryNode is one branch of the navigation tree.
type CategoryNode struct {
	Middle string   `json:"middle"`
	Subs   []string `json:"subs"`
}

// CacheStats reports read-through cache activity.
type CacheStats struct {
	Entries  int   `json:"entries"`
	Hits     int64 `json:"hits"`
	Misses   int64 `json:"misses"`
	Fetches  int64 `json:"fetches"`
	Failures int64 `json:"failures"`
}
