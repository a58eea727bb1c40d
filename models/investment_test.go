package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvestmentAmountIsJSONNumber(t *testing.T) {
	raw, err := json.Marshal(Investment{ID: "i-1", Amount: decimal.RequireFromString("1000.50")})
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, 1000.5, out["amount"])
}
