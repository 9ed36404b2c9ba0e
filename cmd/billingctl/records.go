package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"billing-backend/internal/billing"
	"billing-backend/internal/listing"
	"billing-backend/internal/models"
	"billing-backend/internal/render"
)

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Work with invoices",
}

var contractsCmd = &cobra.Command{
	Use:   "contracts",
	Short: "Work with contracts",
}

var expensesCmd = &cobra.Command{
	Use:   "expenses",
	Short: "Work with expenses",
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// invoiceAction builds "invoices <verb> <id>".
func invoiceAction(use, short string, call func(ctx context.Context, id int) (*models.Invoice, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			inv, err := call(ctx, id)
			if err != nil {
				return err
			}
			printf(cmd, "Invoice %s is now %s\n", inv.InvoiceNumber, inv.Status)
			return nil
		},
	}
}

func contractAction(use, short string, call func(ctx context.Context, id int, args []string) (*models.Contract, error), nargs int) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			c, err := call(ctx, id, args[1:])
			if err != nil {
				return err
			}
			printf(cmd, "Contract %q is now %s\n", c.Title, c.Status)
			return nil
		},
	}
}

// exportCommand builds "<kind> export", rendered server side.
func exportCommand(kind string, all []string) *cobra.Command {
	var f listFlags
	var format, outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export " + kind + " as pdf, html, xlsx or csv",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.params()
			if err != nil {
				return err
			}
			format = strings.ToLower(format)
			if _, err := render.ForFormat(format); err != nil {
				return fmt.Errorf("unsupported --format %q: expected one of %s", format, strings.Join(render.Formats, ", "))
			}
			var columns []string
			if f.columns != "" {
				columns = billing.OnlyColumns(all, strings.Split(f.columns, ",")).Visible(all)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			doc, err := newClient().Export(ctx, kind, format, p, columns)
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = kind + "." + format
			}
			if err := os.WriteFile(outPath, doc.Body, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			printf(cmd, "Wrote %s (%d bytes)\n", outPath, len(doc.Body))
			return nil
		},
	}
	f.register(cmd, kind)
	cmd.Flags().StringVar(&format, "format", render.FormatXLSX, "output format: "+strings.Join(render.Formats, ", "))
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <kind>.<format>)")
	return cmd
}

func init() {
	invoicesCmd.AddCommand(
		listCommand(billing.KindInvoices, listing.Invoices, listing.InvoiceColumns, func(ctx context.Context) ([]models.Invoice, error) {
			return newClient().ListInvoices(ctx, billing.ListFilter{})
		}),
		invoiceAction("send", "Mark an invoice as sent", func(ctx context.Context, id int) (*models.Invoice, error) {
			return newClient().SendInvoice(ctx, id)
		}),
		invoiceAction("paid", "Mark an invoice as paid", func(ctx context.Context, id int) (*models.Invoice, error) {
			return newClient().MarkInvoicePaid(ctx, id)
		}),
		invoiceAction("cancel", "Cancel an invoice", func(ctx context.Context, id int) (*models.Invoice, error) {
			return newClient().CancelInvoice(ctx, id)
		}),
		exportCommand(billing.KindInvoices, listing.ColumnKeys(listing.InvoiceColumns)),
	)

	contractsCmd.AddCommand(
		listCommand(billing.KindContracts, listing.Contracts, listing.ContractColumns, func(ctx context.Context) ([]models.Contract, error) {
			return newClient().ListContracts(ctx, billing.ListFilter{})
		}),
		contractAction("send <id>", "Mark a contract as sent", func(ctx context.Context, id int, _ []string) (*models.Contract, error) {
			return newClient().SendContract(ctx, id)
		}, 1),
		contractAction("sign <id> <signer name>", "Record a contract signature", func(ctx context.Context, id int, rest []string) (*models.Contract, error) {
			return newClient().SignContract(ctx, id, rest[0])
		}, 2),
		contractAction("cancel <id>", "Cancel a contract", func(ctx context.Context, id int, _ []string) (*models.Contract, error) {
			return newClient().CancelContract(ctx, id)
		}, 1),
		exportCommand(billing.KindContracts, listing.ColumnKeys(listing.ContractColumns)),
	)

	expensesCmd.AddCommand(
		listCommand(billing.KindExpenses, listing.Expenses, listing.ExpenseColumns, func(ctx context.Context) ([]models.Expense, error) {
			return newClient().ListExpenses(ctx, billing.ListFilter{})
		}),
		exportCommand(billing.KindExpenses, listing.ColumnKeys(listing.ExpenseColumns)),
	)
}
