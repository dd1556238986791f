package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a TransactionGroup.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// FundingType records whether a transaction introduces new funds or draws on
// a prior confirmed transaction.
type FundingType string

const (
	FundingOriginal FundingType = "original"
	FundingDerived  FundingType = "derived"
)

// Entry is a single debit-or-credit line within a TransactionGroup. Exactly
// one of Debit/Credit is non-zero on a complete entry; both zero means the
// row is still being edited.
type Entry struct {
	Sequence    int // 1-based, contiguous, assigned by the ledger session
	AccountID   string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string

	// SourceTransactionID optionally names the confirmed transaction that
	// funded this entry. Non-owning back-reference; may dangle.
	SourceTransactionID string

	// FundingPath is derived on read by following funding links; never stored.
	FundingPath []string
}

// IsEmpty reports whether both amount sides are zero (row not filled in yet).
func (e Entry) IsEmpty() bool {
	return e.Debit.IsZero() && e.Credit.IsZero()
}

// TransactionGroup is a balanced set of entries treated as one atomic
// accounting event. Entries are owned by the group and have no independent
// existence.
type TransactionGroup struct {
	ID                   string
	Reference            string // human-readable, e.g. "TXN-2026-08-001"
	Description          string
	TransactionDate      time.Time
	OrganizationID       string
	Entries              []Entry
	Status               Status
	LinkedTransactionIDs []string
	SourceTransactionID  string
	FundingType          FundingType
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Clone returns a deep copy of the group, so an edit session can be discarded
// without touching the caller's value.
func (t TransactionGroup) Clone() TransactionGroup {
	out := t
	out.Entries = make([]Entry, len(t.Entries))
	copy(out.Entries, t.Entries)
	for i := range out.Entries {
		if p := out.Entries[i].FundingPath; p != nil {
			out.Entries[i].FundingPath = append([]string(nil), p...)
		}
	}
	if t.LinkedTransactionIDs != nil {
		out.LinkedTransactionIDs = append([]string(nil), t.LinkedTransactionIDs...)
	}
	return out
}
