// Package id generates transaction identifiers and human-readable references.
package id

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// NewTransactionID returns a fresh opaque transaction id.
func NewTransactionID() string {
	return uuid.NewString()
}

// FormatReference returns a reference like "TXN-2026-08-001".
func FormatReference(year, month, seq int) string {
	return fmt.Sprintf("TXN-%04d-%02d-%03d", year, month, seq)
}

// ParseReference parses "TXN-2026-08-001" into year, month, seq.
func ParseReference(ref string) (year, month, seq int, err error) {
	parts := strings.SplitN(ref, "-", 4)
	if len(parts) != 4 || parts[0] != "TXN" {
		return 0, 0, 0, fmt.Errorf("invalid reference format: %q", ref)
	}

	year, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in reference %q: %w", ref, err)
	}

	month, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid month in reference %q: %w", ref, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, 0, fmt.Errorf("month out of range in reference %q", ref)
	}

	seq, err = strconv.Atoi(parts[3])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sequence in reference %q: %w", ref, err)
	}

	return year, month, seq, nil
}
