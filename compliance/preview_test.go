package compliance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildAgreementPreviewSafe(t *testing.T) {
	out := BuildAgreementPreview(PreviewInput{
		Type:   "safe",
		Amount: 500.0,
		Terms:  map[string]any{"currency": "USD"},
	})
	assert.Equal(t, strings.Join([]string{
		"Investment Agreement - SAFE",
		"Investor: N/A",
		"Startup: N/A",
		"Amount: USD 500",
		"Conversion: standard",
		"Valuation Cap: -",
		"Discount: 0%",
		"This document is a non-binding preview for review and compliance only.",
	}, "\n"), out)
}

func TestBuildAgreementPreviewPerType(t *testing.T) {
	investor := Party{ID: "inv-1", Email: "amina@example.com"}
	startup := Party{ID: "st-1", Name: "Ledgerly"}

	cases := []struct {
		kind  string
		terms map[string]any
		want  []string
	}{
		{"musharakah", map[string]any{"equityPercent": 12.5, "valuationCap": "4M"},
			[]string{"Equity Percentage: 12.5%", "Valuation Cap: 4M"}},
		{"mudarabah", map[string]any{"profitRatioInvestor": 60.0},
			[]string{"Profit Ratio (Investor:Startup): 60:-", "Losses borne by Capital Provider only per Mudarabah principles."}},
		{"revenue", map[string]any{"revenueSharePercent": 5.0, "returnCapMultiple": 2.0},
			[]string{"Revenue Share: 5% of gross revenue until 2x is repaid."}},
		{"pool", map[string]any{"poolTerms": "pro-rata", "minTicket": 250.0},
			[]string{"Pool Terms: pro-rata", "Minimum Ticket: 250"}},
		{"sukuk", nil, []string{"Custom terms apply."}},
	}
	for _, tc := range cases {
		lines := strings.Split(BuildAgreementPreview(PreviewInput{
			Type: tc.kind, Amount: 1000.0, Investor: investor, Startup: startup, Terms: tc.terms,
		}), "\n")
		assert.Equal(t, "Investor: amina@example.com", lines[1], tc.kind)
		assert.Equal(t, "Startup: Ledgerly", lines[2], tc.kind)
		assert.Equal(t, "Amount: USD 1000", lines[3], tc.kind)
		assert.Equal(t, tc.want, lines[4:len(lines)-1], tc.kind)
		assert.Equal(t, previewDisclaimer, lines[len(lines)-1], tc.kind)
	}
}

func TestBuildAgreementPreviewFallbacks(t *testing.T) {
	out := BuildAgreementPreview(PreviewInput{
		Type:     "equity",
		Amount:   "750",
		Investor: Party{ID: "inv-9"},
		Startup:  Party{ID: "st-9"},
		Terms:    map[string]any{"currency": "", "equityPercent": nil},
	})
	lines := strings.Split(out, "\n")
	assert.Equal(t, "Investment Agreement - EQUITY", lines[0])
	assert.Equal(t, "Investor: inv-9", lines[1])
	assert.Equal(t, "Startup: st-9", lines[2])
	assert.Equal(t, "Amount: USD 750", lines[3])
	assert.Equal(t, "Equity Percentage: -%", lines[4])
}
