// Package accounts is the chart-of-accounts directory the ledger core
// consumes read-only, plus the account-type registry with its immutable
// system seeds.
package accounts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/botica-dev/botica/internal/model"
)

// ErrSystemType is returned on attempts to mutate or delete a system-defined
// account type.
var ErrSystemType = errors.New("system account types are read-only")

// Directory provides in-memory lookup over the chart of accounts.
type Directory struct {
	accounts []model.AccountOption
	byID     map[string]model.AccountOption
}

// NewDirectory creates a Directory from a slice of account options.
func NewDirectory(accounts []model.AccountOption) *Directory {
	byID := make(map[string]model.AccountOption, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}
	return &Directory{accounts: accounts, byID: byID}
}

// Load reads chart-of-accounts.csv from a project root and returns a Directory.
func Load(root string) (*Directory, error) {
	path := filepath.Join(root, "accounts", "chart-of-accounts.csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewDirectory(accts), nil
}

// All returns every account, active or not.
func (d *Directory) All() []model.AccountOption {
	return d.accounts
}

// Resolve returns an account by ID.
func (d *Directory) Resolve(id string) (model.AccountOption, bool) {
	a, ok := d.byID[id]
	return a, ok
}

// Exists reports whether an account ID exists.
func (d *Directory) Exists(id string) bool {
	_, ok := d.byID[id]
	return ok
}

// ListActive returns accounts selectable by a transaction scoped to orgID:
// active, and either global or belonging to that organization.
func (d *Directory) ListActive(orgID string) []model.AccountOption {
	var result []model.AccountOption
	for _, a := range d.accounts {
		if a.IsActive && a.VisibleTo(orgID) {
			result = append(result, a)
		}
	}
	return result
}

// ByType returns all accounts of the given account type code.
func (d *Directory) ByType(typeCode string) []model.AccountOption {
	var result []model.AccountOption
	for _, a := range d.accounts {
		if a.AccountType == typeCode {
			result = append(result, a)
		}
	}
	return result
}

// Save writes the chart of accounts to accounts/chart-of-accounts.csv.
func (d *Directory) Save(root string) error {
	dir := filepath.Join(root, "accounts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	path := filepath.Join(dir, "chart-of-accounts.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, d.accounts); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}

// TypeRegistry holds account type definitions keyed by code and organization.
// A code is unique within its organization, or globally when system-defined.
type TypeRegistry struct {
	types map[typeKey]model.AccountType
}

type typeKey struct {
	code string
	org  string
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: make(map[typeKey]model.AccountType)}
}

// SeedSystemTypes registers the five system-defined types. Idempotent:
// re-running never duplicates or overwrites an existing code.
func (r *TypeRegistry) SeedSystemTypes() {
	for _, t := range SystemTypes() {
		key := typeKey{code: t.Code}
		if _, exists := r.types[key]; exists {
			continue
		}
		r.types[key] = t
	}
}

// Register adds an organization-scoped account type.
func (r *TypeRegistry) Register(t model.AccountType) error {
	if t.IsSystem {
		return ErrSystemType
	}
	if _, exists := r.types[typeKey{code: t.Code}]; exists {
		return fmt.Errorf("account type %q is globally defined", t.Code)
	}
	key := typeKey{code: t.Code, org: t.OrganizationID}
	if _, exists := r.types[key]; exists {
		return fmt.Errorf("account type %q already exists for organization %q", t.Code, t.OrganizationID)
	}
	r.types[key] = t
	return nil
}

// Update replaces a non-system account type.
func (r *TypeRegistry) Update(t model.AccountType) error {
	key := typeKey{code: t.Code, org: t.OrganizationID}
	existing, ok := r.types[key]
	if !ok {
		return fmt.Errorf("account type %q not found", t.Code)
	}
	if existing.IsSystem {
		return ErrSystemType
	}
	t.IsSystem = false
	r.types[key] = t
	return nil
}

// Delete removes a non-system account type.
func (r *TypeRegistry) Delete(code, orgID string) error {
	key := typeKey{code: code, org: orgID}
	existing, ok := r.types[key]
	if !ok {
		return fmt.Errorf("account type %q not found", code)
	}
	if existing.IsSystem {
		return ErrSystemType
	}
	delete(r.types, key)
	return nil
}

// Get returns an account type visible to orgID: the organization's own
// definition first, then a global/system one.
func (r *TypeRegistry) Get(code, orgID string) (model.AccountType, bool) {
	if orgID != "" {
		if t, ok := r.types[typeKey{code: code, org: orgID}]; ok {
			return t, true
		}
	}
	t, ok := r.types[typeKey{code: code}]
	return t, ok
}

// All returns every registered type in sort order.
func (r *TypeRegistry) All() []model.AccountType {
	result := make([]model.AccountType, 0, len(r.types))
	for _, t := range r.types {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].SortOrder != result[j].SortOrder {
			return result[i].SortOrder < result[j].SortOrder
		}
		return result[i].Code < result[j].Code
	})
	return result
}

// SystemTypes returns the read-only seed definitions.
func SystemTypes() []model.AccountType {
	return []model.AccountType{
		{Code: model.TypeAsset, Name: "Asset", Label: "Assets", NormalBalance: model.NormalDebit, CodePrefix: "1", IsSystem: true, IsActive: true, SortOrder: 1},
		{Code: model.TypeLiability, Name: "Liability", Label: "Liabilities", NormalBalance: model.NormalCredit, CodePrefix: "2", IsSystem: true, IsActive: true, SortOrder: 2},
		{Code: model.TypeEquity, Name: "Equity", Label: "Equity", NormalBalance: model.NormalCredit, CodePrefix: "3", IsSystem: true, IsActive: true, SortOrder: 3},
		{Code: model.TypeRevenue, Name: "Revenue", Label: "Revenue", NormalBalance: model.NormalCredit, CodePrefix: "4", IsSystem: true, IsActive: true, SortOrder: 4},
		{Code: model.TypeExpense, Name: "Expense", Label: "Expenses", NormalBalance: model.NormalDebit, CodePrefix: "5", IsSystem: true, IsActive: true, SortOrder: 5},
	}
}
