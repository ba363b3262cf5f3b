// Package offer defines the offer record and the input coercion rules
// shared by the API handlers and the admin clients.
package offer

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Offer is a promotional record. The ID is assigned by the store on
// creation and is immutable afterwards. The "_id" JSON key is part of the
// wire contract with the admin clients.
type Offer struct {
	ID           string  `json:"_id"`
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	MaximumRides float64 `json:"maximumRides"`
}

// Number is a JSON scalar with the loose typing the admin clients send:
// the value may arrive as a number or as a numeric string. Input that is
// present but does not parse coerces to zero instead of failing the
// decode. Set records whether the field was present with a non-empty
// value, which is what request validation checks; absent, null, and
// empty-string values all count as unset.
type Number struct {
	Value float64
	Set   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return nil
	}

	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		str = strings.TrimSpace(str)
		if str == "" {
			return nil
		}
		n.Set = true
		if v, err := strconv.ParseFloat(str, 64); err == nil {
			n.Value = v
		}
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		// Present but not numeric (bool, object, array): coerces to zero.
		n.Set = true
		return nil
	}
	n.Set = true
	n.Value = v
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Value)
}

// Coerce converts free-form text input to a number using the same rule as
// Number: unparseable input coerces to zero.
func Coerce(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
