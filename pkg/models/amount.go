package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Amount is a price value on the wire. Some shops report prices as JSON
// numbers, others as strings with a comma decimal separator ("12,99"); a
// value that cannot be parsed decodes as 0.
type Amount float64

// ParseAmount converts a textual price into an Amount, accepting both dot
// and comma decimal separators. Unparseable input yields 0.
func ParseAmount(s string) Amount {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return Amount(f)
}

// Float64 returns the amount as a plain float64.
func (a Amount) Float64() float64 {
	return float64(a)
}

// UnmarshalJSON accepts a number, a numeric string, or null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			*a = 0
			return nil
		}
		*a = ParseAmount(str)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*a = 0
		return nil
	}
	*a = Amount(f)
	return nil
}
