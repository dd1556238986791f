// Package lifecycle governs the draft -> confirmed -> cancelled state machine
// of a transaction group and the single mutability predicate every mutating
// operation consults.
package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/botica-dev/botica/internal/balance"
	"github.com/botica-dev/botica/internal/model"
)

// TransitionError reports a refused transition and the invariant it violated.
type TransitionError struct {
	From   model.Status
	To     model.Status
	Reason string
}

func (e TransitionError) Error() string {
	return fmt.Sprintf("cannot transition %s -> %s: %s", e.From, e.To, e.Reason)
}

// IsMutable reports whether a group's entries may still be edited.
func IsMutable(status model.Status) bool {
	return status == model.StatusDraft
}

// Transition moves the group to target, enforcing the lifecycle rules:
//
//	draft -> confirmed   only if entries validate and balance
//	confirmed -> draft   unlock, always structurally allowed
//	draft -> cancelled   allowed; cancelled is terminal
//
// confirmed -> cancelled is refused: a confirmed transaction may be cited as
// a funding source, so it must be unlocked first. The group is modified in
// place only on success.
func Transition(group *model.TransactionGroup, target model.Status, dir balance.Directory) error {
	refuse := func(reason string) error {
		return TransitionError{From: group.Status, To: target, Reason: reason}
	}

	if group.Status == target {
		return refuse("already in that state")
	}

	switch {
	case group.Status == model.StatusDraft && target == model.StatusConfirmed:
		if res := balance.ValidateEntries(group.Entries, dir, group.OrganizationID, balance.ModeSubmission); !res.IsValid {
			msgs := make([]string, len(res.Errors))
			for i, e := range res.Errors {
				msgs[i] = e.Error()
			}
			return refuse("entries are invalid: " + strings.Join(msgs, "; "))
		}
		if info := balance.Compute(group.Entries); !info.IsBalanced {
			return refuse(fmt.Sprintf("debits (%s) != credits (%s), off by %s",
				info.TotalDebit.StringFixed(2), info.TotalCredit.StringFixed(2), info.Difference.StringFixed(2)))
		}

	case group.Status == model.StatusConfirmed && target == model.StatusDraft:
		// Unlock. Permission checks belong to the caller; the caller must
		// also re-validate before confirming again.

	case group.Status == model.StatusDraft && target == model.StatusCancelled:

	case group.Status == model.StatusConfirmed && target == model.StatusCancelled:
		return refuse("confirmed transactions must be unlocked before cancelling")

	case group.Status == model.StatusCancelled:
		return refuse("cancelled is terminal")

	default:
		return refuse("no such transition")
	}

	group.Status = target
	group.UpdatedAt = time.Now().UTC()
	return nil
}
