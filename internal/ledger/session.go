// Package ledger is the editing facade over one transaction group. A Session
// owns the in-memory entry list for one open edit, re-derives balance and
// validity after every mutation, and refuses all edits once the group is
// confirmed.
package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/botica-dev/botica/internal/balance"
	"github.com/botica-dev/botica/internal/funding"
	"github.com/botica-dev/botica/internal/lifecycle"
	"github.com/botica-dev/botica/internal/model"
)

// ErrImmutable is returned by every mutating operation while the group is
// confirmed.
var ErrImmutable = errors.New("transaction is confirmed; unlock it to edit")

// Field names an editable entry field for UpdateEntry.
type Field string

const (
	FieldAccount     Field = "account"
	FieldDescription Field = "description"
	FieldDebit       Field = "debit"
	FieldCredit      Field = "credit"
)

// Saver is the persistence collaborator a session commits to.
type Saver interface {
	SaveTransaction(group *model.TransactionGroup) error
}

// Session is one open edit over a transaction group. It works on a private
// clone, so discarding a session never leaks partial edits.
type Session struct {
	group    model.TransactionGroup
	dir      balance.Directory
	resolver *funding.Resolver
	log      *zap.Logger

	bal balance.Info
	val balance.Result
}

// NewSession opens an edit session over group. A nil logger disables logging.
func NewSession(group model.TransactionGroup, dir balance.Directory, resolver *funding.Resolver, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{group: group.Clone(), dir: dir, resolver: resolver, log: log}
	s.resequence()
	s.recompute()
	return s
}

// Group returns a copy of the group as currently edited.
func (s *Session) Group() model.TransactionGroup {
	return s.group.Clone()
}

// Entries returns a copy of the current entry list.
func (s *Session) Entries() []model.Entry {
	return s.Group().Entries
}

// Balance returns the totals derived from the entries as of the last mutation.
func (s *Session) Balance() balance.Info {
	return s.bal
}

// Validation returns the editing-mode validation result as of the last
// mutation. Submission-strength checks run at confirmation time.
func (s *Session) Validation() balance.Result {
	return s.val
}

// Flow derives the presentational from->to account summary.
func (s *Session) Flow() funding.Flow {
	return funding.DeriveFlow(s.group.Entries, s.dir)
}

// AddEntry appends a blank entry and returns its index.
func (s *Session) AddEntry() (int, error) {
	if err := s.editable(); err != nil {
		return 0, err
	}
	s.group.Entries = append(s.group.Entries, model.Entry{})
	s.resequence()
	s.recompute()
	return len(s.group.Entries) - 1, nil
}

// RemoveEntry deletes the entry at index and closes the sequence gap.
func (s *Session) RemoveEntry(index int) error {
	if err := s.editable(); err != nil {
		return err
	}
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.group.Entries = append(s.group.Entries[:index], s.group.Entries[index+1:]...)
	s.resequence()
	s.recompute()
	return nil
}

// UpdateEntry sets one field on the entry at index. Amount values are parsed
// as decimals; setting one amount side zeroes the other, so mutual
// exclusivity is enforced here rather than left to the caller.
func (s *Session) UpdateEntry(index int, field Field, value string) error {
	if err := s.editable(); err != nil {
		return err
	}
	if err := s.checkIndex(index); err != nil {
		return err
	}

	e := &s.group.Entries[index]
	switch field {
	case FieldAccount:
		e.AccountID = value
	case FieldDescription:
		e.Description = value
	case FieldDebit:
		amt, err := parseAmount(value)
		if err != nil {
			return err
		}
		e.Debit = amt
		if amt.IsPositive() {
			e.Credit = decimal.Zero
		}
	case FieldCredit:
		amt, err := parseAmount(value)
		if err != nil {
			return err
		}
		e.Credit = amt
		if amt.IsPositive() {
			e.Debit = decimal.Zero
		}
	default:
		return fmt.Errorf("unknown entry field %q", field)
	}

	s.resequence()
	s.recompute()
	return nil
}

// QuickBalance adjusts the last entry so the group balances, leaving every
// other entry untouched. No-op when already balanced or fewer than 2 entries.
func (s *Session) QuickBalance() error {
	if err := s.editable(); err != nil {
		return err
	}
	if len(s.group.Entries) < 2 || s.bal.IsBalanced {
		return nil
	}

	rest := balance.Compute(s.group.Entries[:len(s.group.Entries)-1])
	last := &s.group.Entries[len(s.group.Entries)-1]
	diff := rest.TotalDebit.Sub(rest.TotalCredit)
	switch {
	case diff.IsPositive():
		last.Debit = decimal.Zero
		last.Credit = diff
	case diff.IsNegative():
		last.Debit = diff.Abs()
		last.Credit = decimal.Zero
	default:
		last.Debit = decimal.Zero
		last.Credit = decimal.Zero
	}

	s.recompute()
	return nil
}

// SwapDebitCredit exchanges the debit and credit amounts on every entry,
// reversing the whole transaction's direction without re-selecting accounts.
func (s *Session) SwapDebitCredit() error {
	if err := s.editable(); err != nil {
		return err
	}
	for i := range s.group.Entries {
		e := &s.group.Entries[i]
		e.Debit, e.Credit = e.Credit, e.Debit
	}
	s.recompute()
	return nil
}

// AttachFunding links the entry at index to a prior confirmed transaction.
func (s *Session) AttachFunding(index int, sourceID string) error {
	if err := s.editable(); err != nil {
		return err
	}
	if err := s.resolver.Attach(s.group.Entries, index, s.group.ID, sourceID); err != nil {
		return err
	}
	s.group.FundingType = model.FundingDerived
	s.recompute()
	return nil
}

// RemoveFunding clears the funding link on the entry at index.
func (s *Session) RemoveFunding(index int) error {
	if err := s.editable(); err != nil {
		return err
	}
	if err := funding.Remove(s.group.Entries, index); err != nil {
		return err
	}
	if !s.anyFunded() {
		s.group.FundingType = model.FundingOriginal
	}
	s.recompute()
	return nil
}

// FundingPath resolves the funding chain for the entry at index.
func (s *Session) FundingPath(index int) (funding.PathResult, error) {
	if err := s.checkIndex(index); err != nil {
		return funding.PathResult{}, err
	}
	return s.resolver.ResolvePath(s.group.Entries[index])
}

// Transition moves the group to target via the lifecycle rules. Confirmation
// re-validates against the entries present right now.
func (s *Session) Transition(target model.Status) error {
	if err := lifecycle.Transition(&s.group, target, s.dir); err != nil {
		return err
	}
	s.log.Info("transaction state changed",
		zap.String("transaction_id", s.group.ID),
		zap.String("status", string(target)))
	s.recompute()
	return nil
}

// Commit hands the edited group to the persistence collaborator. Derived
// funding paths are refreshed first so readers see a current chain.
func (s *Session) Commit(store Saver) error {
	for i := range s.group.Entries {
		e := &s.group.Entries[i]
		if e.SourceTransactionID == "" {
			e.FundingPath = nil
			continue
		}
		res, err := s.resolver.ResolvePath(*e)
		if err != nil {
			return fmt.Errorf("resolving funding path for entry %d: %w", i+1, err)
		}
		e.FundingPath = res.Path
	}

	group := s.group.Clone()
	if err := store.SaveTransaction(&group); err != nil {
		return fmt.Errorf("saving transaction %s: %w", s.group.ID, err)
	}
	return nil
}

func (s *Session) editable() error {
	if !lifecycle.IsMutable(s.group.Status) {
		return ErrImmutable
	}
	return nil
}

func (s *Session) checkIndex(index int) error {
	if index < 0 || index >= len(s.group.Entries) {
		return fmt.Errorf("entry index %d out of range (have %d entries)", index, len(s.group.Entries))
	}
	return nil
}

// resequence re-assigns contiguous 1..n sequence numbers in stable order.
func (s *Session) resequence() {
	for i := range s.group.Entries {
		s.group.Entries[i].Sequence = i + 1
	}
}

// recompute re-derives balance and validity from the entries present right
// now. Called after every mutation; derived state is never carried across one.
func (s *Session) recompute() {
	for i, e := range s.group.Entries {
		if e.Sequence != i+1 {
			// Only reachable if entries were mutated behind the session's
			// back. That is a programming error, not an operational one.
			panic(fmt.Sprintf("ledger: entry %d has sequence %d, entries mutated outside the session", i, e.Sequence))
		}
	}
	s.bal = balance.Compute(s.group.Entries)
	s.val = balance.ValidateEntries(s.group.Entries, s.dir, s.group.OrganizationID, balance.ModeEditing)
}

func (s *Session) anyFunded() bool {
	for _, e := range s.group.Entries {
		if e.SourceTransactionID != "" {
			return true
		}
	}
	return false
}

func parseAmount(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	amt, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", value, err)
	}
	if amt.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount %s must not be negative", amt)
	}
	return amt, nil
}
