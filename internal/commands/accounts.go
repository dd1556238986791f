package commands

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newAccountsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Work with the chart of accounts",
	}
	cmd.AddCommand(newAccountsListCommand())
	return cmd
}

func newAccountsListCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts selectable for transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			opts := e.dir.ListActive(e.cfg.Pharmacy.OrganizationID)
			if all {
				opts = e.dir.All()
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Code", "Name", "Type", "Normal", "Active", "Org"})
			for _, a := range opts {
				t.AppendRow(table.Row{a.Code, a.Name, a.AccountType, a.NormalBalance, a.IsActive, a.OrganizationID})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include inactive and foreign-organization accounts")
	return cmd
}
