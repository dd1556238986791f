package accounts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botica-dev/botica/internal/model"
)

func sampleAccounts() []model.AccountOption {
	return []model.AccountOption{
		{ID: "1010", Code: "1010", Name: "Cash", AccountType: model.TypeAsset, NormalBalance: model.NormalDebit, IsActive: true},
		{ID: "1020", Code: "1020", Name: "Old Register", AccountType: model.TypeAsset, NormalBalance: model.NormalDebit, IsActive: false},
		{ID: "4010", Code: "4010", Name: "Branch Sales", AccountType: model.TypeRevenue, NormalBalance: model.NormalCredit, IsActive: true, OrganizationID: "branch-a"},
	}
}

func TestDirectory_Resolve(t *testing.T) {
	d := NewDirectory(sampleAccounts())

	a, ok := d.Resolve("1010")
	require.True(t, ok)
	assert.Equal(t, "Cash", a.Name)

	_, ok = d.Resolve("9999")
	assert.False(t, ok)
	assert.True(t, d.Exists("1010"))
	assert.False(t, d.Exists("9999"))
}

func TestDirectory_ListActive(t *testing.T) {
	d := NewDirectory(sampleAccounts())

	// Global scope sees only active global accounts.
	global := d.ListActive("")
	require.Len(t, global, 1)
	assert.Equal(t, "1010", global[0].ID)

	// Branch scope additionally sees its own accounts.
	branch := d.ListActive("branch-a")
	require.Len(t, branch, 2)

	// A different branch does not see branch-a's account.
	other := d.ListActive("branch-b")
	require.Len(t, other, 1)
	assert.Equal(t, "1010", other[0].ID)
}

func TestDirectory_ByType(t *testing.T) {
	d := NewDirectory(sampleAccounts())
	assets := d.ByType(model.TypeAsset)
	assert.Len(t, assets, 2)
}

func TestDirectory_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	d := NewDirectory(sampleAccounts())
	require.NoError(t, d.Save(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, d.All(), loaded.All())
}

func TestTypeRegistry_SeedIdempotent(t *testing.T) {
	r := NewTypeRegistry()
	r.SeedSystemTypes()
	r.SeedSystemTypes()

	all := r.All()
	require.Len(t, all, 5)
	assert.Equal(t, model.TypeAsset, all[0].Code)
	assert.Equal(t, model.TypeExpense, all[4].Code)
}

func TestTypeRegistry_SystemTypesImmutable(t *testing.T) {
	r := NewTypeRegistry()
	r.SeedSystemTypes()

	asset, ok := r.Get(model.TypeAsset, "")
	require.True(t, ok)
	asset.Name = "Hacked"
	assert.ErrorIs(t, r.Update(asset), ErrSystemType)
	assert.ErrorIs(t, r.Delete(model.TypeAsset, ""), ErrSystemType)
	assert.ErrorIs(t, r.Register(asset), ErrSystemType)
}

func TestTypeRegistry_OrganizationScopedTypes(t *testing.T) {
	r := NewTypeRegistry()
	r.SeedSystemTypes()

	custom := model.AccountType{Code: "controlled-substances", Name: "Controlled Substances", NormalBalance: model.NormalDebit, IsActive: true, OrganizationID: "branch-a", SortOrder: 10}
	require.NoError(t, r.Register(custom))

	// Unique per organization.
	require.Error(t, r.Register(custom))

	// Another organization can reuse the code.
	other := custom
	other.OrganizationID = "branch-b"
	require.NoError(t, r.Register(other))

	// May not shadow a system code.
	shadow := model.AccountType{Code: model.TypeAsset, OrganizationID: "branch-a"}
	require.Error(t, r.Register(shadow))

	got, ok := r.Get("controlled-substances", "branch-a")
	require.True(t, ok)
	assert.Equal(t, "branch-a", got.OrganizationID)

	// Updating and deleting non-system types works.
	got.Label = "Schedule II"
	require.NoError(t, r.Update(got))
	require.NoError(t, r.Delete("controlled-substances", "branch-b"))
	_, ok = r.Get("controlled-substances", "branch-b")
	assert.False(t, ok)
}

func TestDefaultChart_CoversSystemTypes(t *testing.T) {
	d := NewDirectory(DefaultChart())
	for _, code := range []string{model.TypeAsset, model.TypeLiability, model.TypeEquity, model.TypeRevenue, model.TypeExpense} {
		assert.NotEmpty(t, d.ByType(code), "default chart should have a %s account", code)
	}
}
