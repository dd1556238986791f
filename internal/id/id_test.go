package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransactionID_Unique(t *testing.T) {
	a := NewTransactionID()
	b := NewTransactionID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestFormatReference(t *testing.T) {
	assert.Equal(t, "TXN-2026-08-001", FormatReference(2026, 8, 1))
	assert.Equal(t, "TXN-2026-12-123", FormatReference(2026, 12, 123))
}

func TestParseReference(t *testing.T) {
	year, month, seq, err := ParseReference("TXN-2026-08-042")
	require.NoError(t, err)
	assert.Equal(t, 2026, year)
	assert.Equal(t, 8, month)
	assert.Equal(t, 42, seq)
}

func TestParseReference_RoundTrip(t *testing.T) {
	ref := FormatReference(2025, 1, 7)
	year, month, seq, err := ParseReference(ref)
	require.NoError(t, err)
	assert.Equal(t, ref, FormatReference(year, month, seq))
}

func TestParseReference_Invalid(t *testing.T) {
	cases := []string{"", "TXN", "INV-2026-08-001", "TXN-20xx-08-001", "TXN-2026-13-001", "TXN-2026-08-abc"}
	for _, c := range cases {
		_, _, _, err := ParseReference(c)
		assert.Error(t, err, "expected error for %q", c)
	}
}
