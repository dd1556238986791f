package accounts

import "github.com/botica-dev/botica/internal/model"

// DefaultChart returns the default pharmacy chart of accounts. Seed accounts
// use their code as the ID so references stay readable.
func DefaultChart() []model.AccountOption {
	mk := func(code, name, accountType string, nb model.NormalBalance) model.AccountOption {
		return model.AccountOption{ID: code, Code: code, Name: name, AccountType: accountType, NormalBalance: nb, IsActive: true}
	}
	return []model.AccountOption{
		mk("1010", "Cash on Hand", model.TypeAsset, model.NormalDebit),
		mk("1020", "Business Checking", model.TypeAsset, model.NormalDebit),
		mk("1200", "Pharmacy Inventory", model.TypeAsset, model.NormalDebit),
		mk("1300", "Insurance Receivables", model.TypeAsset, model.NormalDebit),
		mk("2010", "Accounts Payable", model.TypeLiability, model.NormalCredit),
		mk("2100", "Supplier Credit Line", model.TypeLiability, model.NormalCredit),
		mk("3010", "Owner's Equity", model.TypeEquity, model.NormalCredit),
		mk("4010", "Prescription Sales", model.TypeRevenue, model.NormalCredit),
		mk("4020", "OTC Sales", model.TypeRevenue, model.NormalCredit),
		mk("5010", "Cost of Goods Sold", model.TypeExpense, model.NormalDebit),
		mk("5100", "Payroll", model.TypeExpense, model.NormalDebit),
		mk("5200", "Shipping & Freight", model.TypeExpense, model.NormalDebit),
		mk("5300", "Rent & Utilities", model.TypeExpense, model.NormalDebit),
	}
}
