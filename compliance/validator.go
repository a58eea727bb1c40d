package compliance

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	MsgAmountInvalid      = "Amount must be a positive number"
	MsgTermsRequired      = "Terms are required"
	MsgProhibitedTerms    = "Terms contain prohibited fixed-interest or guaranteed-return clauses"
	MsgEquityPercent      = "Equity percent is required for equity investment (Musharakah)"
	MsgProfitRatios       = "Profit-sharing ratios are required for Mudarabah"
	MsgRevenueShareFields = "Revenue share percent and return cap multiple are required"
	MsgPoolTerms          = "Pool terms are required for crowdfunding"
	MsgUnknownType        = "Unknown investment type"
)

// requiredTerms lists, per canonical kind, the terms fields that must be set
// and the message reported when any of them is missing.
var requiredTerms = map[string]struct {
	fields  []string
	message string
}{
	TypeEquity:         {[]string{"equityPercent"}, MsgEquityPercent},
	TypeProfitSharing:  {[]string{"profitRatioInvestor", "profitRatioStartup"}, MsgProfitRatios},
	TypeSafe:           {},
	TypeRevenueSharing: {[]string{"revenueSharePercent", "returnCapMultiple"}, MsgRevenueShareFields},
	TypeCrowdfunding:   {[]string{"poolTerms"}, MsgPoolTerms},
}

// Validator performs the per-type structural checks on an investment proposal.
type Validator struct {
	scanner *Scanner
}

func NewValidator(scanner *Scanner) *Validator {
	return &Validator{scanner: scanner}
}

// Validate returns every validation error for the proposal; an empty result means valid.
// kind is normalized before the per-type checks run.
func (v *Validator) Validate(kind string, amount any, terms any) []string {
	var errs []string
	if _, ok := ParseAmount(amount); !ok {
		errs = append(errs, MsgAmountInvalid)
	}
	obj, isObject := AsTerms(terms)
	if !isObject {
		errs = append(errs, MsgTermsRequired)
	}
	if v.scanner.HasProhibitedTerms(terms) {
		errs = append(errs, MsgProhibitedTerms)
	}

	req, known := requiredTerms[NormalizeType(kind)]
	if !known {
		return append(errs, MsgUnknownType)
	}
	for _, f := range req.fields {
		if obj[f] == nil {
			errs = append(errs, req.message)
			break
		}
	}
	return errs
}

// ParseAmount converts a submitted amount into a decimal rounded to cents. It
// reports false when the amount is missing or not numeric, and when it is not
// strictly positive once rounded.
func ParseAmount(amount any) (decimal.Decimal, bool) {
	var (
		d   decimal.Decimal
		err error
	)
	switch a := amount.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		d = a
	case json.Number:
		d, err = decimal.NewFromString(a.String())
	case string:
		d, err = decimal.NewFromString(strings.TrimSpace(a))
	case float64:
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return decimal.Zero, false
		}
		d = decimal.NewFromFloat(a)
	case int:
		d = decimal.NewFromInt(int64(a))
	case int64:
		d = decimal.NewFromInt(a)
	case int32:
		d = decimal.NewFromInt32(a)
	default:
		return decimal.Zero, false
	}
	if err != nil {
		return decimal.Zero, false
	}
	// amounts are stored as decimal(20,2)
	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}
