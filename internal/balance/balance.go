// Package balance computes debit/credit totals and structural validity for a
// set of transaction entries. Everything here is pure: failures are returned
// as data, never panics, since these routines run on every edit.
package balance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/botica-dev/botica/internal/model"
)

// Epsilon is the tolerance under which debit and credit totals are considered
// equal.
var Epsilon = decimal.RequireFromString("0.01")

// Info holds the derived totals for an entry list.
type Info struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Difference  decimal.Decimal // TotalDebit - TotalCredit
	IsBalanced  bool
}

// Compute sums the debit and credit sides of all entries.
func Compute(entries []model.Entry) Info {
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, e := range entries {
		totalDebit = totalDebit.Add(e.Debit)
		totalCredit = totalCredit.Add(e.Credit)
	}
	diff := totalDebit.Sub(totalCredit)
	return Info{
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		Difference:  diff,
		IsBalanced:  diff.Abs().LessThan(Epsilon),
	}
}

// Mode selects how strictly ValidateEntries treats incomplete rows.
type Mode int

const (
	// ModeEditing tolerates rows with both sides zero (still being typed).
	ModeEditing Mode = iota
	// ModeSubmission requires every row to be complete.
	ModeSubmission
)

// EntryError describes one violation, addressed to the offending row so a
// caller can highlight it.
type EntryError struct {
	EntryIndex int // -1 for list-level errors
	Field      string
	Message    string
}

func (e EntryError) Error() string {
	if e.EntryIndex < 0 {
		return e.Message
	}
	return fmt.Sprintf("entry %d [%s]: %s", e.EntryIndex+1, e.Field, e.Message)
}

// Result is the outcome of ValidateEntries.
type Result struct {
	IsValid bool
	Errors  []EntryError
}

// Directory is the read-only account lookup the validator consults.
type Directory interface {
	Resolve(id string) (model.AccountOption, bool)
}

// ValidateEntries performs structural checks over an entry list against a
// directory snapshot. orgID scopes account visibility; empty means global.
func ValidateEntries(entries []model.Entry, dir Directory, orgID string, mode Mode) Result {
	var errs []EntryError

	if len(entries) < 2 {
		errs = append(errs, EntryError{
			EntryIndex: -1,
			Field:      "entries",
			Message:    fmt.Sprintf("a transaction needs at least 2 entries, got %d", len(entries)),
		})
	}

	for i, e := range entries {
		hasDebit := e.Debit.IsPositive()
		hasCredit := e.Credit.IsPositive()

		if e.Debit.IsNegative() || e.Credit.IsNegative() {
			errs = append(errs, EntryError{EntryIndex: i, Field: "amount", Message: "amounts must not be negative"})
		}
		if hasDebit && hasCredit {
			errs = append(errs, EntryError{EntryIndex: i, Field: "amount", Message: "entry must have exactly one of debit or credit"})
		}
		if e.IsEmpty() && mode == ModeSubmission {
			errs = append(errs, EntryError{EntryIndex: i, Field: "amount", Message: "entry has neither debit nor credit"})
		}

		if e.AccountID == "" {
			errs = append(errs, EntryError{EntryIndex: i, Field: "account", Message: "entry has no account"})
			continue
		}
		acct, ok := dir.Resolve(e.AccountID)
		if !ok {
			errs = append(errs, EntryError{EntryIndex: i, Field: "account", Message: fmt.Sprintf("unknown account %s", e.AccountID)})
			continue
		}
		if !acct.IsActive {
			errs = append(errs, EntryError{EntryIndex: i, Field: "account", Message: fmt.Sprintf("account %s is inactive", acct.Code)})
		}
		if !acct.VisibleTo(orgID) {
			errs = append(errs, EntryError{EntryIndex: i, Field: "account", Message: fmt.Sprintf("account %s belongs to another organization", acct.Code)})
		}
	}

	return Result{IsValid: len(errs) == 0, Errors: errs}
}
