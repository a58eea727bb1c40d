package compliance

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Masood0319/Startups-platform/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestNormalizeType(t *testing.T) {
	cases := map[string]string{
		"equity":          TypeEquity,
		"Musharakah":      TypeEquity,
		"PROFIT-SHARING":  TypeProfitSharing,
		"mudarabah":       TypeProfitSharing,
		"SAFE":            TypeSafe,
		"convertible":     TypeSafe,
		"revenue":         TypeRevenueSharing,
		"Revenue-Sharing": TypeRevenueSharing,
		"crowdfunding":    TypeCrowdfunding,
		"Pool":            TypeCrowdfunding,
		"Sukuk":           "sukuk",
		"":                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeType(in), "input %q", in)
	}
}

func TestNormalizeTypeIdempotent(t *testing.T) {
	for _, in := range []string{"Musharakah", "pool", "REVENUE", "unknown-Type", "", "safe"} {
		once := NormalizeType(in)
		assert.Equal(t, once, NormalizeType(once), "input %q", in)
	}
}

func TestScannerForbiddenKeys(t *testing.T) {
	s := NewScanner(DefaultPolicy())
	for _, v := range []any{0.0, "3%", false, map[string]any{}} {
		assert.True(t, s.HasProhibitedTerms(map[string]any{"interestRate": v}), "value %v", v)
	}
	assert.True(t, s.HasProhibitedTerms(map[string]any{"apr": 12.0}))
	// null values do not trip the key rule, and "apr" is not a forbidden phrase
	assert.False(t, s.HasProhibitedTerms(map[string]any{"apr": nil}))
}

func TestScannerPhraseScan(t *testing.T) {
	s := NewScanner(DefaultPolicy())
	assert.True(t, s.HasProhibitedTerms(map[string]any{"note": "Guaranteed upside"}))
	assert.True(t, s.HasProhibitedTerms(map[string]any{"nested": map[string]any{"clause": "a FIXED RETURN of 5%"}}))
	assert.True(t, s.HasProhibitedTerms(datatypes.JSONMap{"memo": "interested party"}))
	assert.True(t, s.HasProhibitedTerms("guaranteed"))
	assert.False(t, s.HasProhibitedTerms(map[string]any{"equityPercent": 10.0, "valuationCap": "5M"}))
	assert.False(t, s.HasProhibitedTerms(nil))
}

func TestScannerCustomPolicy(t *testing.T) {
	s := NewScanner(Policy{ForbiddenKeys: []string{"riba"}, ForbiddenPhrases: []string{"Usury"}})
	assert.True(t, s.HasProhibitedTerms(map[string]any{"riba": 1.0}))
	assert.True(t, s.HasProhibitedTerms(map[string]any{"x": "no usury here"}))
	assert.False(t, s.HasProhibitedTerms(map[string]any{"interest": nil}))
}

type stubFinder map[string]*models.Startup

func (f stubFinder) FindStartup(_ context.Context, id string) (*models.Startup, error) {
	if st, ok := f[id]; ok {
		return st, nil
	}
	return nil, gorm.ErrRecordNotFound
}

const (
	halalID  = "0b5e6c2e-6d0e-4f43-9c2f-7f1a3f0a1c01"
	haramID  = "0b5e6c2e-6d0e-4f43-9c2f-7f1a3f0a1c02"
	mixedID  = "0b5e6c2e-6d0e-4f43-9c2f-7f1a3f0a1c03"
	absentID = "0b5e6c2e-6d0e-4f43-9c2f-7f1a3f0a1c04"
)

func newScreen() *IndustryScreen {
	return NewIndustryScreen(DefaultPolicy(), stubFinder{
		halalID: {ID: halalID, Name: "Ledgerly", Industry: "FinTech"},
		haramID: {ID: haramID, Name: "Lucky", Industry: "Gambling"},
		mixedID: {ID: mixedID, Industry: "retail", Industries: datatypes.JSONSlice[string]{"Food", "TOBACCO"}},
	})
}

func TestIndustryScreen(t *testing.T) {
	screen := newScreen()
	ctx := context.Background()

	st, err := screen.Screen(ctx, halalID)
	require.NoError(t, err)
	assert.Equal(t, "Ledgerly", st.Name)

	st, err = screen.Screen(ctx, haramID)
	require.Error(t, err)
	require.NotNil(t, st)
	assert.NotEmpty(t, screen.Blocked(st))

	for id, want := range map[string]string{
		haramID:     MsgIndustryBlocked,
		mixedID:     MsgIndustryBlocked,
		absentID:    MsgStartupNotFound,
		"not-an-id": MsgInvalidStartupID,
		"":          MsgInvalidStartupID,
	} {
		_, err := screen.Screen(ctx, id)
		var ce *ComplianceError
		require.True(t, errors.As(err, &ce), "id %q", id)
		assert.Equal(t, want, ce.Message)
	}
}

func TestIndustryScreenBlocked(t *testing.T) {
	screen := newScreen()
	assert.Equal(t, []string{"tobacco"}, screen.Blocked(&models.Startup{Industry: "retail", Industries: datatypes.JSONSlice[string]{"food", "Tobacco"}}))
	assert.True(t, screen.Allowed(&models.Startup{Industry: "FinTech"}))
	assert.False(t, screen.Allowed(&models.Startup{Industry: "Gambling"}))
}

func TestIndustryScreenGateUsesItsOwnFinder(t *testing.T) {
	ctx := context.Background()
	stale := newScreen()
	screen := stale.WithGate(stubFinder{halalID: {ID: halalID, Industry: "FinTech", Industries: datatypes.JSONSlice[string]{"gambling"}}})

	_, err := screen.Screen(ctx, halalID)
	require.NoError(t, err)

	_, err = screen.Gate(ctx, halalID)
	var ce *ComplianceError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, MsgIndustryBlocked, ce.Message)

	// the original screen still gates through its single finder
	_, err = stale.Gate(ctx, halalID)
	assert.NoError(t, err)
}

type failingFinder struct{}

func (failingFinder) FindStartup(context.Context, string) (*models.Startup, error) {
	return nil, errors.New("connection reset")
}

func TestIndustryScreenStoreFailure(t *testing.T) {
	screen := NewIndustryScreen(DefaultPolicy(), failingFinder{})
	_, err := screen.Screen(context.Background(), halalID)
	require.Error(t, err)
	var ce *ComplianceError
	assert.False(t, errors.As(err, &ce))
}

func TestValidate(t *testing.T) {
	v := NewValidator(NewScanner(DefaultPolicy()))

	assert.Equal(t, []string{MsgEquityPercent}, v.Validate("equity", 1000.0, map[string]any{}))
	assert.Equal(t, []string{MsgAmountInvalid}, v.Validate("crowdfunding", -5.0, map[string]any{"poolTerms": "x"}))
	assert.Contains(t, v.Validate("unknown-type", 10.0, map[string]any{}), MsgUnknownType)

	assert.Empty(t, v.Validate("musharakah", json.Number("250.50"), map[string]any{"equityPercent": 12.0}))
	assert.Empty(t, v.Validate("safe", "100", map[string]any{}))
	assert.Empty(t, v.Validate("pool", 10.0, map[string]any{"poolTerms": "quarterly"}))
	assert.Empty(t, v.Validate("revenue", 10.0, map[string]any{"revenueSharePercent": 5.0, "returnCapMultiple": 2.0}))

	assert.Equal(t, []string{MsgProfitRatios}, v.Validate("mudarabah", 10.0, map[string]any{"profitRatioInvestor": 60.0}))
	assert.Equal(t, []string{MsgRevenueShareFields}, v.Validate("revenue-sharing", 10.0, map[string]any{"revenueSharePercent": 5.0, "returnCapMultiple": nil}))
}

func TestValidateAccumulates(t *testing.T) {
	v := NewValidator(NewScanner(DefaultPolicy()))

	errs := v.Validate("equity", nil, nil)
	assert.Equal(t, []string{MsgAmountInvalid, MsgTermsRequired, MsgEquityPercent}, errs)

	errs = v.Validate("equity", "abc", map[string]any{"guaranteedReturn": 8.0})
	assert.Equal(t, []string{MsgAmountInvalid, MsgProhibitedTerms, MsgEquityPercent}, errs)

	errs = v.Validate("sukuk", 0.0, "terms")
	assert.Equal(t, []string{MsgAmountInvalid, MsgTermsRequired, MsgUnknownType}, errs)
}

func TestParseAmount(t *testing.T) {
	d, ok := ParseAmount(" 1500.25 ")
	require.True(t, ok)
	assert.Equal(t, "1500.25", d.String())

	d, ok = ParseAmount(json.Number("10.005"))
	require.True(t, ok)
	assert.Equal(t, "10.01", d.String())

	for _, bad := range []any{nil, "", "ten", 0.0, -1, true, []any{1.0}, 0.001, "0.004"} {
		_, ok := ParseAmount(bad)
		assert.False(t, ok, "amount %v", bad)
	}
}
