package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"billing-backend/internal/billing"
	"billing-backend/internal/models"
)

type InvoiceRepository struct {
	DB *pgxpool.Pool
}

func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{DB: db}
}

var invoiceSelect = `
	SELECT id, account_id, account_name, invoice_number, title, status, currency,
	       subtotal, tax_percent, tax_amount, discount_amount, total, line_items,
	       notes, payment_info, ` + dateCol("issued_date") + `, ` + dateCol("due_date") + `,
	       sent_at, paid_at, viewed_at, viewed_count, view_token::text, created_at, updated_at
	FROM invoices`

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	inv := &models.Invoice{}
	err := row.Scan(
		&inv.ID, &inv.AccountID, &inv.AccountName, &inv.InvoiceNumber, &inv.Title,
		&inv.Status, &inv.Currency, &inv.Subtotal, &inv.TaxPercent, &inv.TaxAmount,
		&inv.DiscountAmount, &inv.Total, &inv.LineItems, &inv.Notes, &inv.PaymentInfo,
		&inv.IssuedDate, &inv.DueDate, &inv.SentAt, &inv.PaidAt, &inv.ViewedAt,
		&inv.ViewedCount, &inv.ViewToken, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	if inv.LineItems == nil {
		inv.LineItems = []models.LineItem{}
	}
	return inv, nil
}

// GenerateInvoiceNumber returns the next INV-000001 style number
func (r *InvoiceRepository) GenerateInvoiceNumber(ctx context.Context, q pgx.Tx) (string, error) {
	var nextNum int
	if err := q.QueryRow(ctx, "SELECT nextval('invoice_number_seq')").Scan(&nextNum); err != nil {
		return "", fmt.Errorf("failed to get next invoice number: %w", err)
	}
	return fmt.Sprintf("INV-%06d", nextNum), nil
}

// List returns invoices whose issued date (or created_at) falls in the filter
func (r *InvoiceRepository) List(ctx context.Context, f billing.ListFilter) ([]models.Invoice, error) {
	query := invoiceSelect + `
	WHERE ($1 = 0 OR EXTRACT(YEAR FROM COALESCE(issued_date, created_at::date))::int = $1)
	  AND ($2 = 0 OR EXTRACT(QUARTER FROM COALESCE(issued_date, created_at::date))::int = $2)
	ORDER BY COALESCE(issued_date, created_at::date) DESC, id DESC`

	rows, err := r.DB.Query(ctx, query, f.Year, f.Quarter.Rank())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := []models.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	return invoices, rows.Err()
}

func (r *InvoiceRepository) Get(ctx context.Context, id int) (*models.Invoice, error) {
	return scanInvoice(r.DB.QueryRow(ctx, invoiceSelect+` WHERE id = $1`, id))
}

func (r *InvoiceRepository) GetByViewToken(ctx context.Context, token string) (*models.Invoice, error) {
	return scanInvoice(r.DB.QueryRow(ctx, invoiceSelect+` WHERE view_token::text = $1`, token))
}

// Create inserts inv, assigning a number from the sequence when it has none
func (r *InvoiceRepository) Create(ctx context.Context, inv *models.Invoice) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if inv.InvoiceNumber == "" {
		number, err := r.GenerateInvoiceNumber(ctx, tx)
		if err != nil {
			return err
		}
		inv.InvoiceNumber = number
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO invoices(account_id, account_name, invoice_number, title, status, currency,
		        subtotal, tax_percent, tax_amount, discount_amount, total, line_items,
		        notes, payment_info, issued_date, due_date, view_token)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        NULLIF($15, '')::date, NULLIF($16, '')::date, $17::uuid)
		 RETURNING id, created_at, updated_at`,
		inv.AccountID, inv.AccountName, inv.InvoiceNumber, inv.Title, inv.Status, inv.Currency,
		inv.Subtotal, inv.TaxPercent, inv.TaxAmount, inv.DiscountAmount, inv.Total, lineItems(inv),
		inv.Notes, inv.PaymentInfo, inv.IssuedDate, inv.DueDate, inv.ViewToken,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Update writes every mutable column of inv
func (r *InvoiceRepository) Update(ctx context.Context, inv *models.Invoice) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE invoices SET
		        account_id = $2, account_name = $3, invoice_number = $4, title = $5, status = $6,
		        currency = $7, subtotal = $8, tax_percent = $9, tax_amount = $10,
		        discount_amount = $11, total = $12, line_items = $13, notes = $14,
		        payment_info = $15, issued_date = NULLIF($16, '')::date,
		        due_date = NULLIF($17, '')::date, sent_at = $18, paid_at = $19,
		        updated_at = NOW()
		 WHERE id = $1
		 RETURNING updated_at`,
		inv.ID, inv.AccountID, inv.AccountName, inv.InvoiceNumber, inv.Title, inv.Status,
		inv.Currency, inv.Subtotal, inv.TaxPercent, inv.TaxAmount,
		inv.DiscountAmount, inv.Total, lineItems(inv), inv.Notes,
		inv.PaymentInfo, inv.IssuedDate, inv.DueDate, inv.SentAt, inv.PaidAt,
	).Scan(&inv.UpdatedAt)
	return notFound(err)
}

func (r *InvoiceRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound(pgx.ErrNoRows)
	}
	return nil
}

// RecordView bumps the view counter and moves Sent to Viewed
func (r *InvoiceRepository) RecordView(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE invoices SET
		        viewed_count = viewed_count + 1,
		        viewed_at = NOW(),
		        status = CASE WHEN status = 'Sent' THEN 'Viewed' ELSE status END
		 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound(pgx.ErrNoRows)
	}
	return nil
}

func lineItems(inv *models.Invoice) []models.LineItem {
	if inv.LineItems == nil {
		return []models.LineItem{}
	}
	return inv.LineItems
}
