package model

// NormalBalance indicates which side of an entry increases an account.
type NormalBalance string

const (
	NormalDebit  NormalBalance = "debit"
	NormalCredit NormalBalance = "credit"
)

// System account type codes, seeded at initialization.
const (
	TypeAsset     = "asset"
	TypeLiability = "liability"
	TypeEquity    = "equity"
	TypeRevenue   = "revenue"
	TypeExpense   = "expense"
)

// AccountType classifies accounts in the chart of accounts. System types
// (IsSystem) are read-only seed data: immutable and undeletable.
type AccountType struct {
	Code           string
	Name           string
	Label          string
	NormalBalance  NormalBalance
	CodePrefix     string
	IsSystem       bool
	IsActive       bool
	SortOrder      int
	OrganizationID string // empty = global/system scope
}

// AccountOption is one selectable account from the directory, as consumed by
// the ledger core. The directory is read-only from the core's point of view.
type AccountOption struct {
	ID             string
	Code           string
	Name           string
	AccountType    string // AccountType.Code
	NormalBalance  NormalBalance
	IsActive       bool
	OrganizationID string // empty = global/system scope
}

// VisibleTo reports whether the account may be referenced by a transaction
// scoped to orgID. Global accounts are visible everywhere.
func (a AccountOption) VisibleTo(orgID string) bool {
	return a.OrganizationID == "" || a.OrganizationID == orgID
}
