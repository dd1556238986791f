package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botica-dev/botica/internal/funding"
	"github.com/botica-dev/botica/internal/model"
)

type mockDir map[string]model.AccountOption

func (d mockDir) Resolve(id string) (model.AccountOption, bool) {
	a, ok := d[id]
	return a, ok
}

var dir = mockDir{
	"1010": {ID: "1010", Code: "1010", AccountType: model.TypeAsset, IsActive: true},
	"4010": {ID: "4010", Code: "4010", AccountType: model.TypeRevenue, IsActive: true},
	"5010": {ID: "5010", Code: "5010", AccountType: model.TypeExpense, IsActive: true},
}

type arena map[string]*model.TransactionGroup

func (a arena) lookup(id string) (*model.TransactionGroup, error) {
	return a[id], nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestSession(t *testing.T, txns arena) *Session {
	t.Helper()
	group := model.TransactionGroup{
		ID:     "OWNER",
		Status: model.StatusDraft,
		Entries: []model.Entry{
			{AccountID: "1010", Debit: dec("100")},
			{AccountID: "4010", Credit: dec("100")},
		},
	}
	return NewSession(group, dir, funding.NewResolver(txns.lookup, nil), nil)
}

func TestSession_ScenarioA_ConfirmBalanced(t *testing.T) {
	s := newTestSession(t, nil)

	bal := s.Balance()
	assert.True(t, bal.TotalDebit.Equal(dec("100")))
	assert.True(t, bal.TotalCredit.Equal(dec("100")))
	assert.True(t, bal.Difference.IsZero())
	assert.True(t, bal.IsBalanced)

	require.NoError(t, s.Transition(model.StatusConfirmed))
	assert.Equal(t, model.StatusConfirmed, s.Group().Status)
}

func TestSession_ScenarioB_QuickBalance(t *testing.T) {
	s := newTestSession(t, nil)
	require.NoError(t, s.UpdateEntry(0, FieldDebit, "150"))

	bal := s.Balance()
	assert.False(t, bal.IsBalanced)
	assert.True(t, bal.Difference.Equal(dec("50")))

	require.NoError(t, s.QuickBalance())

	entries := s.Entries()
	assert.True(t, entries[0].Debit.Equal(dec("150")), "other entries untouched")
	assert.True(t, entries[1].Debit.IsZero())
	assert.True(t, entries[1].Credit.Equal(dec("150")))
	assert.True(t, s.Balance().IsBalanced)
}

func TestSession_QuickBalance_NoOpCases(t *testing.T) {
	s := newTestSession(t, nil)
	before := s.Entries()
	require.NoError(t, s.QuickBalance())
	assert.Equal(t, before, s.Entries(), "already balanced: no-op")

	// Fewer than 2 entries.
	require.NoError(t, s.RemoveEntry(1))
	require.NoError(t, s.QuickBalance())
	entries := s.Entries()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Debit.Equal(dec("100")))
}

func TestSession_QuickBalance_CreditHeavy(t *testing.T) {
	s := newTestSession(t, nil)
	require.NoError(t, s.UpdateEntry(1, FieldCredit, "250"))
	require.NoError(t, s.QuickBalance())

	entries := s.Entries()
	assert.True(t, entries[1].Credit.Equal(dec("100")))
	assert.True(t, s.Balance().IsBalanced)
}

func TestSession_ScenarioC_CycleRejected(t *testing.T) {
	txns := arena{}
	txns["X"] = &model.TransactionGroup{ID: "X", SourceTransactionID: "OWNER", Status: model.StatusConfirmed}
	txns["OWNER"] = &model.TransactionGroup{ID: "OWNER", Status: model.StatusConfirmed}
	s := newTestSession(t, txns)

	err := s.AttachFunding(0, "X")
	require.ErrorIs(t, err, funding.ErrFundingCycle)
	assert.Empty(t, s.Entries()[0].SourceTransactionID)
}

func TestSession_ScenarioD_LockUnlockEdit(t *testing.T) {
	s := newTestSession(t, nil)
	require.NoError(t, s.Transition(model.StatusConfirmed))

	err := s.UpdateEntry(0, FieldDebit, "200")
	require.ErrorIs(t, err, ErrImmutable)
	assert.True(t, s.Entries()[0].Debit.Equal(dec("100")), "entries unchanged after rejected edit")

	require.NoError(t, s.Transition(model.StatusDraft))
	require.NoError(t, s.UpdateEntry(0, FieldDebit, "200"))
	assert.True(t, s.Entries()[0].Debit.Equal(dec("200")))
}

func TestSession_LockEnforcement_AllOps(t *testing.T) {
	s := newTestSession(t, nil)
	require.NoError(t, s.Transition(model.StatusConfirmed))
	before := s.Entries()

	_, err := s.AddEntry()
	assert.ErrorIs(t, err, ErrImmutable)
	assert.ErrorIs(t, s.RemoveEntry(0), ErrImmutable)
	assert.ErrorIs(t, s.UpdateEntry(0, FieldCredit, "1"), ErrImmutable)
	assert.ErrorIs(t, s.QuickBalance(), ErrImmutable)
	assert.ErrorIs(t, s.SwapDebitCredit(), ErrImmutable)
	assert.ErrorIs(t, s.AttachFunding(0, "T9"), ErrImmutable)
	assert.ErrorIs(t, s.RemoveFunding(0), ErrImmutable)

	assert.Equal(t, before, s.Entries())
}

func TestSession_MutualExclusivity(t *testing.T) {
	s := newTestSession(t, nil)

	require.NoError(t, s.UpdateEntry(0, FieldCredit, "75"))
	e := s.Entries()[0]
	assert.True(t, e.Debit.IsZero())
	assert.True(t, e.Credit.Equal(dec("75")))

	require.NoError(t, s.UpdateEntry(0, FieldDebit, "40"))
	e = s.Entries()[0]
	assert.True(t, e.Debit.Equal(dec("40")))
	assert.True(t, e.Credit.IsZero())
}

func TestSession_SequenceStability(t *testing.T) {
	s := newTestSession(t, nil)

	idx, err := s.AddEntry()
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	require.NoError(t, s.RemoveEntry(0))

	for i, e := range s.Entries() {
		assert.Equal(t, i+1, e.Sequence)
	}
}

func TestSession_SwapTwiceRestores(t *testing.T) {
	s := newTestSession(t, nil)
	require.NoError(t, s.UpdateEntry(0, FieldDescription, "deposit"))
	before := s.Entries()

	require.NoError(t, s.SwapDebitCredit())
	mid := s.Entries()
	assert.True(t, mid[0].Debit.IsZero())
	assert.True(t, mid[0].Credit.Equal(dec("100")))
	assert.True(t, mid[1].Debit.Equal(dec("100")))

	require.NoError(t, s.SwapDebitCredit())
	assert.Equal(t, before, s.Entries())
}

func TestSession_RecomputeOnEveryMutation(t *testing.T) {
	s := newTestSession(t, nil)
	require.NoError(t, s.UpdateEntry(0, FieldDebit, "300"))
	assert.True(t, s.Balance().Difference.Equal(dec("200")))

	require.NoError(t, s.RemoveEntry(0))
	assert.True(t, s.Balance().Difference.Equal(dec("-100")))
}

func TestSession_ValidationSurfacesRowErrors(t *testing.T) {
	s := newTestSession(t, nil)
	require.NoError(t, s.UpdateEntry(1, FieldAccount, "nope"))

	res := s.Validation()
	require.False(t, res.IsValid)
	assert.Equal(t, 1, res.Errors[0].EntryIndex)
}

func TestSession_AttachAndRemoveFunding(t *testing.T) {
	txns := arena{}
	txns["T1"] = &model.TransactionGroup{ID: "T1", Status: model.StatusConfirmed}
	s := newTestSession(t, txns)

	require.NoError(t, s.AttachFunding(0, "T1"))
	assert.Equal(t, model.FundingDerived, s.Group().FundingType)

	res, err := s.FundingPath(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"T1"}, res.Path)

	require.NoError(t, s.RemoveFunding(0))
	assert.Equal(t, model.FundingOriginal, s.Group().FundingType)
	assert.Empty(t, s.Entries()[0].SourceTransactionID)
}

func TestSession_DiscardIsSafe(t *testing.T) {
	group := model.TransactionGroup{
		ID:     "T1",
		Status: model.StatusDraft,
		Entries: []model.Entry{
			{AccountID: "1010", Debit: dec("10")},
			{AccountID: "4010", Credit: dec("10")},
		},
	}
	s := NewSession(group, dir, funding.NewResolver(arena{}.lookup, nil), nil)
	require.NoError(t, s.UpdateEntry(0, FieldDebit, "9999"))

	// The caller's group is untouched; dropping the session loses the edit.
	assert.True(t, group.Entries[0].Debit.Equal(dec("10")))
}

func TestSession_UpdateEntry_BadInput(t *testing.T) {
	s := newTestSession(t, nil)
	require.Error(t, s.UpdateEntry(0, FieldDebit, "abc"))
	require.Error(t, s.UpdateEntry(0, FieldDebit, "-5"))
	require.Error(t, s.UpdateEntry(9, FieldDebit, "1"))
	require.Error(t, s.UpdateEntry(0, "bogus", "1"))
}

type captureSaver struct {
	saved *model.TransactionGroup
}

func (c *captureSaver) SaveTransaction(group *model.TransactionGroup) error {
	c.saved = group
	return nil
}

func TestSession_CommitRefreshesFundingPaths(t *testing.T) {
	txns := arena{}
	txns["T1"] = &model.TransactionGroup{ID: "T1", SourceTransactionID: "T0", Status: model.StatusConfirmed}
	txns["T0"] = &model.TransactionGroup{ID: "T0", Status: model.StatusConfirmed}
	s := newTestSession(t, txns)
	require.NoError(t, s.AttachFunding(1, "T1"))

	saver := &captureSaver{}
	require.NoError(t, s.Commit(saver))
	require.NotNil(t, saver.saved)
	assert.Equal(t, []string{"T1", "T0"}, saver.saved.Entries[1].FundingPath)
	assert.Nil(t, saver.saved.Entries[0].FundingPath)
}
