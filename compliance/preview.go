package compliance

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const previewDisclaimer = "This document is a non-binding preview for review and compliance only."

// Party identifies an investor or startup in a preview.
type Party struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type PreviewInput struct {
	Type     string
	Amount   any
	Investor Party
	Startup  Party
	Terms    map[string]any
}

// BuildAgreementPreview renders the human-readable summary of proposed terms.
// The text is advisory and is never used as a compliance gate.
func BuildAgreementPreview(in PreviewInput) string {
	t := NormalizeType(in.Type)
	terms := in.Terms
	currency := "USD"
	if c := terms["currency"]; truthy(c) {
		currency = formatValue(c)
	}

	lines := []string{
		"Investment Agreement - " + strings.ToUpper(t),
		"Investor: " + firstNonEmpty(in.Investor.Name, in.Investor.Email, in.Investor.ID, "N/A"),
		"Startup: " + firstNonEmpty(in.Startup.Name, in.Startup.ID, "N/A"),
		fmt.Sprintf("Amount: %s %s", currency, valueOr(in.Amount, "-")),
	}

	switch t {
	case TypeEquity:
		lines = append(lines,
			fmt.Sprintf("Equity Percentage: %s%%", termOr(terms, "equityPercent", "-")),
			"Valuation Cap: "+termOr(terms, "valuationCap", "-"),
		)
	case TypeProfitSharing:
		lines = append(lines,
			fmt.Sprintf("Profit Ratio (Investor:Startup): %s:%s",
				termOr(terms, "profitRatioInvestor", "-"), termOr(terms, "profitRatioStartup", "-")),
			"Losses borne by Capital Provider only per Mudarabah principles.",
		)
	case TypeSafe:
		lines = append(lines,
			"Conversion: "+termOr(terms, "conversion", "standard"),
			"Valuation Cap: "+termOr(terms, "valuationCap", "-"),
			fmt.Sprintf("Discount: %s%%", termOr(terms, "discount", "0")),
		)
	case TypeRevenueSharing:
		lines = append(lines, fmt.Sprintf("Revenue Share: %s%% of gross revenue until %sx is repaid.",
			termOr(terms, "revenueSharePercent", "-"), termOr(terms, "returnCapMultiple", "-")))
	case TypeCrowdfunding:
		lines = append(lines,
			"Pool Terms: "+termOr(terms, "poolTerms", "-"),
			"Minimum Ticket: "+termOr(terms, "minTicket", "-"),
		)
	default:
		lines = append(lines, "Custom terms apply.")
	}

	lines = append(lines, previewDisclaimer)
	return strings.Join(lines, "\n")
}

// termOr renders terms[key], or placeholder when the key is missing or null.
func termOr(terms map[string]any, key, placeholder string) string {
	return valueOr(terms[key], placeholder)
}

func valueOr(v any, placeholder string) string {
	if v == nil {
		return placeholder
	}
	return formatValue(v)
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case decimal.Decimal:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case int, int32, int64:
		return fmt.Sprint(x)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	}
	return true
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
