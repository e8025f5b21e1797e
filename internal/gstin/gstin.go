// Package gstin validates Goods and Services Tax Identification Numbers.
//
// A GSTIN is 15 characters: a two-digit state code, the holder's ten-character PAN,
// an entity number, the literal 'Z' and a check character.
package gstin

import (
	"fmt"
	"regexp"
)

// Length is the number of characters in a GSTIN.
const Length = 15

var pattern = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// Result is the outcome of validating a raw identifier.
type Result struct {
	Raw       string `json:"raw"`
	Valid     bool   `json:"valid"`
	StateCode string `json:"state_code,omitempty"`
	StateName string `json:"state_name,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Validator checks GSTIN structure and, optionally, the trailing check character.
type Validator struct {
	VerifyChecksum bool
}

// Default validates structure only.
var Default = Validator{}

// Validate checks raw against the GSTIN format. It never fails: malformed input yields Valid=false
// with a Reason. Input is validated exactly as given; no trimming or case folding is applied.
func (v Validator) Validate(raw string) Result {
	res := Result{Raw: raw}
	if len(raw) != Length {
		res.Reason = fmt.Sprintf("must be %d characters, got %d", Length, len(raw))
		return res
	}
	if !pattern.MatchString(raw) {
		res.Reason = positionError(raw)
		return res
	}
	code := raw[:2]
	name, ok := states[code]
	if !ok {
		res.Reason = fmt.Sprintf("unknown state code %q", code)
		return res
	}
	if v.VerifyChecksum {
		want, _ := checksum(raw)
		if raw[14] != want {
			res.Reason = fmt.Sprintf("check character %q does not match computed %q", raw[14], want)
			return res
		}
	}
	res.Valid = true
	res.StateCode = code
	res.StateName = name
	return res
}

// StateCodeOf returns the two-digit state code of raw when it is valid.
func (v Validator) StateCodeOf(raw string) (string, bool) {
	res := v.Validate(raw)
	if !res.Valid {
		return "", false
	}
	return res.StateCode, true
}

// Validate checks raw with the Default validator.
func Validate(raw string) Result { return Default.Validate(raw) }

// StateCodeOf extracts the state code of raw with the Default validator.
func StateCodeOf(raw string) (string, bool) { return Default.StateCodeOf(raw) }

// PANOf returns the embedded PAN (characters 3-12) of a structurally valid GSTIN.
func PANOf(raw string) (string, bool) {
	if !Default.Validate(raw).Valid {
		return "", false
	}
	return raw[2:12], true
}

// positionError names the first character that breaks the positional format.
func positionError(raw string) string {
	for i := 0; i < Length; i++ {
		c := raw[i]
		var ok bool
		var want string
		switch {
		case i < 2, i >= 7 && i < 11:
			ok, want = isDigit(c), "a digit"
		case i < 7, i == 11:
			ok, want = isUpper(c), "an uppercase letter"
		case i == 12:
			ok, want = c != '0' && (isDigit(c) || isUpper(c)), "1-9 or A-Z"
		case i == 13:
			ok, want = c == 'Z', "'Z'"
		default:
			ok, want = isDigit(c) || isUpper(c), "a digit or uppercase letter"
		}
		if !ok {
			return fmt.Sprintf("position %d must be %s, got %q", i+1, want, c)
		}
	}
	return "does not match GSTIN format"
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
