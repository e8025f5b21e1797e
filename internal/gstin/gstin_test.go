package gstin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstreport/internal/gstin"
)

func TestValidate_Valid(t *testing.T) {
	tests := []struct {
		raw   string
		state string
	}{
		{"27AABCU9603R1ZX", "27"},
		{"27AABCU9603R1ZY", "27"},
		{"07AABCU9603R1ZZ", "07"},
		{"33AAACH7409R1Z8", "33"},
		{"29AAGCB7383J1Z4", "29"},
		{"97AAAAA0000AAZ0", "97"},
		{"99ZZZZZ9999Z9Z9", "99"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			res := gstin.Validate(tt.raw)
			assert.True(t, res.Valid, res.Reason)
			assert.Equal(t, tt.state, res.StateCode)
			assert.NotEmpty(t, res.StateName)
			assert.Empty(t, res.Reason)

			code, ok := gstin.StateCodeOf(tt.raw)
			assert.True(t, ok)
			assert.Equal(t, tt.raw[:2], code)
		})
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		reason string
	}{
		{"empty", "", "must be 15 characters, got 0"},
		{"short", "27AABCU9603R1Z", "must be 15 characters, got 14"},
		{"long", "27AABCU9603R1ZXX", "must be 15 characters, got 16"},
		{"lowercase_pan", "27aabcu9603R1ZX", "position 3 must be an uppercase letter"},
		{"letter_in_state", "2AAABCU9603R1ZX", "position 2 must be a digit"},
		{"letter_in_pan_digits", "27AABCUX603R1ZX", "position 8 must be a digit"},
		{"digit_in_pan_tail", "27AABCU960391ZX", "position 12 must be an uppercase letter"},
		{"zero_entity", "27AABCU9603R0ZX", "position 13 must be 1-9 or A-Z"},
		{"missing_z", "27AABCU9603R1YX", "position 14 must be 'Z'"},
		{"lowercase_check", "27AABCU9603R1Zx", "position 15 must be a digit or uppercase letter"},
		{"leading_space", " 27AABCU9603R1Z", "position 1 must be a digit"},
		{"state_zero", "00AABCU9603R1ZX", `unknown state code "00"`},
		{"state_out_of_range", "39AABCU9603R1ZX", `unknown state code "39"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := gstin.Validate(tt.raw)
			assert.False(t, res.Valid)
			assert.Equal(t, tt.raw, res.Raw)
			assert.Empty(t, res.StateCode)
			assert.Contains(t, res.Reason, tt.reason)

			code, ok := gstin.StateCodeOf(tt.raw)
			assert.False(t, ok)
			assert.Empty(t, code)
		})
	}
}

func TestValidate_IsRederivedPerCall(t *testing.T) {
	raw := []byte("27AABCU9603R1ZX")
	assert.True(t, gstin.Validate(string(raw)).Valid)
	raw[13] = 'Y'
	assert.False(t, gstin.Validate(string(raw)).Valid)
}

func TestChecksum(t *testing.T) {
	tests := []struct {
		raw  string
		want byte
	}{
		{"27AAPFU0939F1ZV", 'V'},
		{"33AAACH7409R1Z8", '8'},
		{"29AAGCB7383J1Z4", '4'},
		{"27AABCU9603R1ZX", 'N'},
		{"27AABCU9603R1Z", 'N'},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := gstin.Checksum(tt.raw)
			require.True(t, ok)
			assert.Equal(t, string(tt.want), string(got))
		})
	}

	t.Run("too_short", func(t *testing.T) {
		_, ok := gstin.Checksum("27AAB")
		assert.False(t, ok)
	})

	t.Run("bad_alphabet", func(t *testing.T) {
		_, ok := gstin.Checksum("27aabcu9603r1z")
		assert.False(t, ok)
	})
}

func TestValidator_VerifyChecksum(t *testing.T) {
	v := gstin.Validator{VerifyChecksum: true}

	t.Run("accepts_correct_check_character", func(t *testing.T) {
		res := v.Validate("27AAPFU0939F1ZV")
		assert.True(t, res.Valid, res.Reason)
		assert.Equal(t, "Maharashtra", res.StateName)
	})

	t.Run("rejects_wrong_check_character", func(t *testing.T) {
		res := v.Validate("27AABCU9603R1ZX")
		assert.False(t, res.Valid)
		assert.Contains(t, res.Reason, "check character")
		_, ok := v.StateCodeOf("27AABCU9603R1ZX")
		assert.False(t, ok)
	})

	t.Run("structural_default_ignores_check_character", func(t *testing.T) {
		assert.True(t, gstin.Default.Validate("27AABCU9603R1ZX").Valid)
	})
}

func TestPANOf(t *testing.T) {
	pan, ok := gstin.PANOf("27AABCU9603R1ZX")
	require.True(t, ok)
	assert.Equal(t, "AABCU9603R", pan)

	_, ok = gstin.PANOf("INVALID")
	assert.False(t, ok)
}

func TestStateName(t *testing.T) {
	assert.Equal(t, "Delhi", gstin.StateName("07"))
	assert.Equal(t, "Tamil Nadu", gstin.StateName("33"))
	assert.Equal(t, "Centre Jurisdiction", gstin.StateName("99"))
	assert.Empty(t, gstin.StateName("40"))
}
