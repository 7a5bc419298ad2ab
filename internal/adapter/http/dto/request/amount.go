package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidAmountValue = errors.New("invalid amount value")

// Amount is a money value sent by the back-office. It accepts JSON numbers
// and strings in either notation: "150.50", "150,50", "R$ 1.234,50".
// Without a comma, dots followed by exactly three digits group thousands,
// so "1.500" is 1500 while "150.50" is 150.5.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return ErrInvalidAmountValue
	}
	if b[0] != '"' {
		var f float64
		if err := json.Unmarshal(b, &f); err != nil {
			return ErrInvalidAmountValue
		}
		*a = Amount(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return ErrInvalidAmountValue
	}
	f, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = Amount(f)
	return nil
}

func (a Amount) Float64() float64 { return float64(a) }

// ParseAmount reads a decimal written with comma or dot separators.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if s == "" {
		return 0, ErrInvalidAmountValue
	}
	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case groupsThousands(s):
		s = strings.ReplaceAll(s, ".", "")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrInvalidAmountValue
	}
	return f, nil
}

// groupsThousands reports a dotted number like "1.500" or "1.234.567": every
// group after the first has exactly three digits.
func groupsThousands(s string) bool {
	groups := strings.Split(s, ".")
	if len(groups) < 2 || groups[0] == "" {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 || strings.Trim(g, "0123456789") != "" {
			return false
		}
	}
	return true
}

// AmountPtr converts an optional Amount to the *float64 the use cases take.
func AmountPtr(a *Amount) *float64 {
	if a == nil {
		return nil
	}
	f := float64(*a)
	return &f
}
