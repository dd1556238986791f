package funding

import (
	"github.com/botica-dev/botica/internal/balance"
	"github.com/botica-dev/botica/internal/model"
)

// Flow is a human-readable "from account -> to account" summary of where
// funds moved in a transaction. Strictly presentational: nothing in balance
// or lifecycle logic may depend on it.
type Flow struct {
	FromAccountID string
	ToAccountID   string
	HasFlow       bool
}

// flowRule orders a (credit-side type, debit-side type) pair. First match wins.
type flowRule struct {
	creditType string
	debitType  string
}

// Precedence table: revenue->asset, asset->expense, liability/equity->asset,
// asset->asset. Funds flow from the credited account to the debited one.
var flowRules = []flowRule{
	{model.TypeRevenue, model.TypeAsset},
	{model.TypeAsset, model.TypeExpense},
	{model.TypeLiability, model.TypeAsset},
	{model.TypeEquity, model.TypeAsset},
	{model.TypeAsset, model.TypeAsset},
}

// DeriveFlow pairs a debit entry with a credit entry on differing accounts
// and orders them using the precedence table. Best effort: when no rule
// matches, a lone pair falls back to credit->debit; anything ambiguous
// reports no flow.
func DeriveFlow(entries []model.Entry, dir balance.Directory) Flow {
	var debits, credits []model.Entry
	for _, e := range entries {
		switch {
		case e.Debit.IsPositive():
			debits = append(debits, e)
		case e.Credit.IsPositive():
			credits = append(credits, e)
		}
	}

	for _, rule := range flowRules {
		for _, c := range credits {
			cAcct, ok := dir.Resolve(c.AccountID)
			if !ok || cAcct.AccountType != rule.creditType {
				continue
			}
			for _, d := range debits {
				if d.AccountID == c.AccountID {
					continue
				}
				dAcct, ok := dir.Resolve(d.AccountID)
				if !ok || dAcct.AccountType != rule.debitType {
					continue
				}
				return Flow{FromAccountID: c.AccountID, ToAccountID: d.AccountID, HasFlow: true}
			}
		}
	}

	// Default: a single credit/debit pair on distinct accounts.
	if len(debits) == 1 && len(credits) == 1 && debits[0].AccountID != credits[0].AccountID {
		return Flow{FromAccountID: credits[0].AccountID, ToAccountID: debits[0].AccountID, HasFlow: true}
	}
	return Flow{}
}
