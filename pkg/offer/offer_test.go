package offer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		value float64
		set   bool
	}{
		{"number", `{"amount": 100}`, 100, true},
		{"float", `{"amount": 12.5}`, 12.5, true},
		{"numeric string", `{"amount": "42"}`, 42, true},
		{"numeric string with spaces", `{"amount": " 7 "}`, 7, true},
		{"non-numeric string coerces to zero", `{"amount": "abc"}`, 0, true},
		{"bool coerces to zero", `{"amount": true}`, 0, true},
		{"absent", `{}`, 0, false},
		{"null", `{"amount": null}`, 0, false},
		{"empty string", `{"amount": ""}`, 0, false},
		{"zero", `{"amount": 0}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body struct {
				Amount Number `json:"amount"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.input), &body))
			assert.Equal(t, tt.value, body.Amount.Value)
			assert.Equal(t, tt.set, body.Amount.Set)
		})
	}
}

func TestNumberMarshal(t *testing.T) {
	data, err := json.Marshal(Number{Value: 12.5, Set: true})
	require.NoError(t, err)
	assert.Equal(t, "12.5", string(data))
}

func TestCoerce(t *testing.T) {
	assert.Equal(t, 100.0, Coerce("100"))
	assert.Equal(t, 12.5, Coerce(" 12.5 "))
	assert.Equal(t, 0.0, Coerce("abc"))
	assert.Equal(t, 0.0, Coerce(""))
}

func TestOfferJSONShape(t *testing.T) {
	data, err := json.Marshal(Offer{ID: "abc", Name: "Tester", Amount: 100, MaximumRides: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"abc","name":"Tester","amount":100,"maximumRides":3}`, string(data))
}
