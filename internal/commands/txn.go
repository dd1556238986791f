package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/botica-dev/botica/internal/funding"
	"github.com/botica-dev/botica/internal/id"
	"github.com/botica-dev/botica/internal/ledger"
	"github.com/botica-dev/botica/internal/model"
)

const dateFormat = "2006-01-02"

func newTxnCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "txn",
		Short: "Create and manage ledger transactions",
	}
	cmd.AddCommand(newTxnCreateCommand())
	cmd.AddCommand(newTxnShowCommand())
	cmd.AddCommand(newTxnTransitionCommand("confirm", model.StatusConfirmed, "Confirm a balanced draft transaction"))
	cmd.AddCommand(newTxnTransitionCommand("unlock", model.StatusDraft, "Unlock a confirmed transaction for editing"))
	cmd.AddCommand(newTxnTransitionCommand("cancel", model.StatusCancelled, "Cancel a draft transaction"))
	cmd.AddCommand(newTxnLinkCommand())
	cmd.AddCommand(newTxnQuickBalanceCommand())
	cmd.AddCommand(newTxnSwapCommand())
	return cmd
}

func newTxnCreateCommand() *cobra.Command {
	var dateStr string
	var description string
	var debits []string
	var credits []string
	var quickBalance bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a draft transaction from debit/credit lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			date := time.Now()
			if dateStr != "" {
				date, err = time.Parse(dateFormat, dateStr)
				if err != nil {
					return fmt.Errorf("parsing date %q: %w", dateStr, err)
				}
			}

			seq, err := e.db.NextReferenceSeq(date.Year(), int(date.Month()))
			if err != nil {
				return err
			}

			group := model.TransactionGroup{
				ID:              id.NewTransactionID(),
				Reference:       id.FormatReference(date.Year(), int(date.Month()), seq),
				Description:     description,
				TransactionDate: date,
				OrganizationID:  e.cfg.Pharmacy.OrganizationID,
				Status:          model.StatusDraft,
				FundingType:     model.FundingOriginal,
				CreatedAt:       time.Now().UTC(),
			}

			session := newSession(e, group)
			for _, spec := range debits {
				if err := addLine(session, spec, ledger.FieldDebit); err != nil {
					return err
				}
			}
			for _, spec := range credits {
				if err := addLine(session, spec, ledger.FieldCredit); err != nil {
					return err
				}
			}
			if quickBalance {
				if err := session.QuickBalance(); err != nil {
					return err
				}
			}

			if res := session.Validation(); !res.IsValid {
				for _, verr := range res.Errors {
					fmt.Fprintln(os.Stderr, verr.Error())
				}
				return fmt.Errorf("transaction is not valid")
			}

			if err := session.Commit(e.db); err != nil {
				return err
			}
			fmt.Printf("Created %s (%s)\n", group.Reference, group.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&description, "desc", "", "transaction description")
	cmd.Flags().StringArrayVar(&debits, "debit", nil, "debit line as ACCOUNT=AMOUNT (repeatable)")
	cmd.Flags().StringArrayVar(&credits, "credit", nil, "credit line as ACCOUNT=AMOUNT (repeatable)")
	cmd.Flags().BoolVar(&quickBalance, "quick-balance", false, "auto-adjust the last line to balance")
	return cmd
}

// addLine appends one entry from an "ACCOUNT=AMOUNT" argument.
func addLine(session *ledger.Session, spec string, side ledger.Field) error {
	account, amount, ok := strings.Cut(spec, "=")
	if !ok {
		return fmt.Errorf("invalid line %q, want ACCOUNT=AMOUNT", spec)
	}
	idx, err := session.AddEntry()
	if err != nil {
		return err
	}
	if err := session.UpdateEntry(idx, ledger.FieldAccount, account); err != nil {
		return err
	}
	return session.UpdateEntry(idx, side, amount)
}

func newTxnShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id-or-reference>",
		Short: "Show a transaction's entries, balance, and fund flow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			group, err := findTxn(e, args[0])
			if err != nil {
				return err
			}

			session := newSession(e, *group)

			fmt.Printf("%s  %s  [%s]\n", group.Reference, group.Description, group.Status)

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"#", "Account", "Debit", "Credit", "Description", "Funded By"})
			for i, entry := range session.Entries() {
				funded := entry.SourceTransactionID
				if funded != "" {
					res, err := session.FundingPath(i)
					if err != nil {
						return err
					}
					funded = strings.Join(res.Path, " <- ")
					for _, w := range res.Warnings {
						fmt.Fprintf(os.Stderr, "warning: %s\n", w)
					}
				}
				t.AppendRow(table.Row{entry.Sequence, entry.AccountID, entry.Debit.StringFixed(2), entry.Credit.StringFixed(2), entry.Description, funded})
			}
			bal := session.Balance()
			t.AppendFooter(table.Row{"", "total", bal.TotalDebit.StringFixed(2), bal.TotalCredit.StringFixed(2), balancedLabel(bal.IsBalanced), ""})
			t.Render()

			if flow := session.Flow(); flow.HasFlow {
				from, _ := e.dir.Resolve(flow.FromAccountID)
				to, _ := e.dir.Resolve(flow.ToAccountID)
				fmt.Printf("Flow: %s -> %s\n", from.Name, to.Name)
			} else {
				fmt.Println("Flow: no flow")
			}
			return nil
		},
	}
	return cmd
}

func balancedLabel(balanced bool) string {
	if balanced {
		return "balanced"
	}
	return "NOT BALANCED"
}

func newTxnTransitionCommand(use string, target model.Status, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id-or-reference>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			group, err := findTxn(e, args[0])
			if err != nil {
				return err
			}

			session := newSession(e, *group)
			if err := session.Transition(target); err != nil {
				return err
			}
			if err := session.Commit(e.db); err != nil {
				return err
			}
			fmt.Printf("%s is now %s\n", group.Reference, target)
			return nil
		},
	}
}

func newTxnLinkCommand() *cobra.Command {
	var entryIndex int
	var sourceRef string
	var remove bool

	cmd := &cobra.Command{
		Use:   "link <id-or-reference>",
		Short: "Attach or remove an entry's funding source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			group, err := findTxn(e, args[0])
			if err != nil {
				return err
			}

			session := newSession(e, *group)
			if remove {
				if err := session.RemoveFunding(entryIndex); err != nil {
					return err
				}
			} else {
				source, err := findTxn(e, sourceRef)
				if err != nil {
					return err
				}
				if err := session.AttachFunding(entryIndex, source.ID); err != nil {
					return err
				}
			}
			return session.Commit(e.db)
		},
	}

	cmd.Flags().IntVar(&entryIndex, "entry", 0, "zero-based entry index")
	cmd.Flags().StringVar(&sourceRef, "source", "", "funding source transaction id or reference")
	cmd.Flags().BoolVar(&remove, "remove", false, "remove the funding link instead")
	return cmd
}

func newTxnQuickBalanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "quick-balance <id-or-reference>",
		Short: "Adjust the last entry so debits equal credits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			group, err := findTxn(e, args[0])
			if err != nil {
				return err
			}

			session := newSession(e, *group)
			if err := session.QuickBalance(); err != nil {
				return err
			}
			return session.Commit(e.db)
		},
	}
}

func newTxnSwapCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "swap <id-or-reference>",
		Short: "Swap debit and credit on every entry, reversing the transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			group, err := findTxn(e, args[0])
			if err != nil {
				return err
			}

			session := newSession(e, *group)
			if err := session.SwapDebitCredit(); err != nil {
				return err
			}
			return session.Commit(e.db)
		},
	}
}

func newSession(e *env, group model.TransactionGroup) *ledger.Session {
	resolver := funding.NewResolver(e.db.GetTransaction, e.log)
	return ledger.NewSession(group, e.dir, resolver, e.log)
}

// findTxn resolves an argument as a transaction id first, then a reference.
func findTxn(e *env, idOrRef string) (*model.TransactionGroup, error) {
	group, err := e.db.GetTransaction(idOrRef)
	if err != nil {
		return nil, err
	}
	if group == nil {
		group, err = e.db.GetByReference(idOrRef)
		if err != nil {
			return nil, err
		}
	}
	if group == nil {
		return nil, fmt.Errorf("transaction %q not found", idOrRef)
	}
	return group, nil
}
