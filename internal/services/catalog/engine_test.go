package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/catalog/internal/models"
)

func rec(kv ...string) models.Record {
	r := make(models.Record, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		r[kv[i]] = kv[i+1]
	}
	return r
}

// --- Normalize ---

func TestNormalize_PadsAndTruncates(t *testing.T) {
	header := []string{" 상품명 ", "모델코드", "정상가"}
	rows := [][]string{
		{"퓨어", "WP-1"},
		{"쿨", "AC-1", "30,000원", "extra", "more"},
	}

	records := Normalize(header, rows)
	require.Len(t, records, 2)

	assert.Equal(t, models.Record{"상품명": "퓨어", "모델코드": "WP-1", "정상가": ""}, records[0])
	assert.Equal(t, models.Record{"상품명": "쿨", "모델코드": "AC-1", "정상가": "30,000원"}, records[1])
}

func TestNormalize_DuplicateColumnKeepsLast(t *testing.T) {
	records := Normalize([]string{"상품명", "상품명"}, [][]string{{"first", "second"}})
	require.Len(t, records, 1)
	assert.Equal(t, "second", records[0]["상품명"])
}

func TestNormalize_CanonicalizesAliases(t *testing.T) {
	records := Normalize([]string{"모델코드", "동일모델기준", "서비스주기월"}, [][]string{{"X1", "G", "3"}})
	require.Len(t, records, 1)
	assert.Equal(t, "G", records[0][models.ColSameModel])
	assert.Equal(t, "3", records[0][models.ColServiceCycle])
}

func TestNormalize_EmptyInput(t *testing.T) {
	records := Normalize([]string{"상품명"}, nil)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

// --- Query ---

func queryFixture() []models.Record {
	return []models.Record{
		rec("중분류", "정수기", "소분류", "직수", "모델코드", "WP-1"),
		rec("중분류", " 정수기 ", "소분류", "냉온", "모델코드", "WP-2"),
		rec("중분류", "에어컨", "소분류", "벽걸이", "모델코드", "AC-1"),
		rec("중분류", "정수기", "소분류", "직수", "모델코드", "WP-3"),
	}
}

func TestQuery_CategoryFilters(t *testing.T) {
	records := queryFixture()

	tests := []struct {
		name   string
		filter models.Filter
		want   []string
	}{
		{"no filter", models.Filter{}, []string{"WP-1", "WP-2", "AC-1", "WP-3"}},
		{"middle", models.Filter{Middle: "정수기"}, []string{"WP-1", "WP-2", "WP-3"}},
		{"middle trimmed", models.Filter{Middle: " 정수기"}, []string{"WP-1", "WP-2", "WP-3"}},
		{"sub only", models.Filter{Sub: "직수"}, []string{"WP-1", "WP-3"}},
		{"both", models.Filter{Middle: "정수기", Sub: "냉온"}, []string{"WP-2"}},
		{"disjoint", models.Filter{Middle: "에어컨", Sub: "직수"}, []string{}},
		{"unknown", models.Filter{Middle: "세탁기"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Query(records, tt.filter)
			require.NotNil(t, got)
			codes := make([]string, 0, len(got))
			for _, r := range got {
				codes = append(codes, r.ModelCode())
			}
			assert.Equal(t, tt.want, codes)
		})
	}
}

func TestQuery_IDOverridesCategories(t *testing.T) {
	records := []models.Record{
		rec("중분류", "정수기", "모델코드", "X1", "동일 모델 기준", "G"),
		rec("중분류", "에어컨", "모델코드", "X2", "동일 모델 기준", "G"),
		rec("중분류", "정수기", "모델코드", "Y1"),
	}

	got := Query(records, models.Filter{Middle: "정수기", ID: "G"})
	assert.Len(t, got, 2)
}

func TestOptionSet_IDFallbackEquivalence(t *testing.T) {
	records := []models.Record{
		rec("모델코드", "X1", "동일 모델 기준", "G", "계약기간", "36"),
		rec("모델코드", "X2", "동일 모델 기준", "G", "계약기간", "60"),
		rec("모델코드", "Y1", "계약기간", "36"),
	}

	byKey := OptionSet(records, "G")
	byMember := OptionSet(records, "X2")
	assert.Len(t, byKey, 2)
	assert.Equal(t, byKey, byMember)

	single := OptionSet(records, "Y1")
	require.Len(t, single, 1)
	assert.Equal(t, "Y1", single[0].ModelCode())

	missing := OptionSet(records, "ZZ")
	assert.NotNil(t, missing)
	assert.Empty(t, missing)
}

func TestBaseKey(t *testing.T) {
	records := []models.Record{
		rec("모델코드", "X1", "동일 모델 기준", "G"),
		rec("모델코드", "Y1"),
	}

	key, ok := BaseKey(records, "X1")
	assert.True(t, ok)
	assert.Equal(t, "G", key)

	key, ok = BaseKey(records, " Y1 ")
	assert.True(t, ok)
	assert.Equal(t, "Y1", key)

	_, ok = BaseKey(records, "")
	assert.False(t, ok)
}

// --- Grouping ---

func TestGroupRecords_SameModelWithFallback(t *testing.T) {
	records := []models.Record{
		rec("상품명", "퓨어", "모델코드", "X1", "동일 모델 기준", "G", "정상가", "30,000원"),
		rec("상품명", "스탠드", "모델코드", "Y1", "정상가", "20,000원"),
		rec("상품명", "퓨어 화이트", "모델코드", "X2", "동일 모델 기준", "G", "정상가", "30,000원", "할인후금액", "25,000원"),
	}

	groups := GroupRecords(records)
	require.Len(t, groups, 2)

	assert.Equal(t, "G", groups[0].Key)
	assert.Equal(t, []string{"X1", "X2"}, groups[0].ModelCodes)
	assert.Equal(t, "퓨어", groups[0].Name)
	assert.Equal(t, "X1", groups[0].Representative.ModelCode())
	assert.Equal(t, int64(25000), groups[0].MinUsageFee)
	assert.Equal(t, int64(12000), groups[0].BestPrice)

	assert.Equal(t, "Y1", groups[1].Key)
	assert.Equal(t, []string{"Y1"}, groups[1].ModelCodes)
	assert.Equal(t, int64(20000), groups[1].MinUsageFee)
	assert.Equal(t, int64(7000), groups[1].BestPrice)
}

func TestGroupRecords_Empty(t *testing.T) {
	groups := GroupRecords(nil)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

// --- Price ---

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"15,000원", 15000},
		{"  9900 ", 9900},
		{"", 0},
		{"무료", 0},
		{"-5,000원", 5000},
		{"99999999999999999999999", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseCurrency(tt.in), "ParseCurrency(%q)", tt.in)
	}
}

func TestUsageFee_PrefersDiscounted(t *testing.T) {
	assert.Equal(t, int64(15000), UsageFee(rec("정상가", "20,000원", "할인후금액", "15,000원")))
	assert.Equal(t, int64(20000), UsageFee(rec("정상가", "20,000원", "할인후금액", "  ")))
	assert.Equal(t, int64(20000), UsageFee(rec("정상가", "20,000원")))
	assert.Equal(t, int64(0), UsageFee(rec()))
}

func TestBestPrice_FlooredAtZero(t *testing.T) {
	assert.Equal(t, int64(2000), BestPrice(15000))
	assert.Equal(t, int64(0), BestPrice(13000))
	assert.Equal(t, int64(0), BestPrice(10000))
	assert.Equal(t, int64(0), BestPrice(0))
}

func TestQuote(t *testing.T) {
	q := Quote(rec("정상가", "20,000원", "할인후금액", "15,000원"))
	assert.Equal(t, models.PriceQuote{UsageFee: 15000, BestPrice: 2000}, q)

	q = Quote(rec("정상가", "10,000원"))
	assert.Equal(t, models.PriceQuote{UsageFee: 10000, BestPrice: 0}, q)
}

func TestFormatContract(t *testing.T) {
	assert.Equal(t, "3년", FormatContract("36"))
	assert.Equal(t, "5년", FormatContract("60개월"))
	assert.Equal(t, "18개월", FormatContract("18"))
	assert.Equal(t, "없음", FormatContract("없음"))
	assert.Equal(t, "", FormatContract(""))
}

// --- Categories ---

func TestCategoryPairsAndTree(t *testing.T) {
	records := []models.Record{
		rec("중분류", "정수기", "소분류", "직수"),
		rec("중분류", "에어컨", "소분류", "벽걸이"),
		rec("중분류", "정수기", "소분류", "냉온"),
		rec("중분류", "정수기", "소분류", "직수"),
		rec("상품명", "no categories"),
		rec("중분류", "TV"),
	}

	pairs := CategoryPairs(records)
	assert.Equal(t, []models.CategoryPair{
		{Middle: "정수기", Sub: "직수"},
		{Middle: "에어컨", Sub: "벽걸이"},
		{Middle: "정수기", Sub: "냉온"},
		{Middle: "TV", Sub: ""},
	}, pairs)

	tree := CategoryTree(pairs)
	assert.Equal(t, []models.CategoryNode{
		{Middle: "정수기", Subs: []string{"직수", "냉온"}},
		{Middle: "에어컨", Subs: []string{"벽걸이"}},
		{Middle: "TV", Subs: []string{}},
	}, tree)
}
