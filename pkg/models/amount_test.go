package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountUnmarshalJSON(t *testing.T) {
	testCases := []struct {
		name string
		json string
		want Amount
	}{
		{name: "number", json: `{"price": 19.99}`, want: 19.99},
		{name: "integer", json: `{"price": 40}`, want: 40},
		{name: "dot string", json: `{"price": "12.50"}`, want: 12.5},
		{name: "comma string", json: `{"price": "12,50"}`, want: 12.5},
		{name: "padded string", json: `{"price": " 7.20 "}`, want: 7.2},
		{name: "garbage string", json: `{"price": "brak ceny"}`, want: 0},
		{name: "null", json: `{"price": null}`, want: 0},
		{name: "missing", json: `{}`, want: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var payload struct {
				Price Amount `json:"price"`
			}
			require.NoError(t, json.Unmarshal([]byte(tc.json), &payload))
			assert.InDelta(t, float64(tc.want), float64(payload.Price), 1e-9)
		})
	}
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, Amount(99.99), ParseAmount("99,99"))
	assert.Equal(t, Amount(0), ParseAmount("abc"))
	assert.Equal(t, Amount(0), ParseAmount(""))
}

func TestFetchResultComplete(t *testing.T) {
	done := FetchResult{Status: StatusComplete}
	assert.True(t, done.Complete())

	processed := FetchResult{Status: StatusProcessed, Success: true}
	assert.False(t, processed.Complete())
}
