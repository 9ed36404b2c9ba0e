package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"billing-backend/internal/billing"
	"billing-backend/internal/models"
)

type ExpenseRepository struct {
	DB *pgxpool.Pool
}

func NewExpenseRepository(db *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{DB: db}
}

var expenseSelect = `
	SELECT id, ` + dateCol("date") + `, COALESCE(year, 0), COALESCE(quarter, ''),
	       supplier, country, invoice_number, description, currency,
	       amount_excl_vat, vat_rate_pct, vat_amount, total_amount,
	       nl_btw_deductible, notes, pdf_path, created_at, updated_at
	FROM expenses`

func scanExpense(row pgx.Row) (*models.Expense, error) {
	e := &models.Expense{}
	err := row.Scan(
		&e.ID, &e.Date, &e.Year, &e.Quarter,
		&e.Supplier, &e.Country, &e.InvoiceNumber, &e.Description, &e.Currency,
		&e.AmountExclVat, &e.VatRatePct, &e.VatAmount, &e.TotalAmount,
		&e.NlBtwDeductible, &e.Notes, &e.PdfPath, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

// List filters on the stored year/quarter, falling back to the expense date
func (r *ExpenseRepository) List(ctx context.Context, f billing.ListFilter) ([]models.Expense, error) {
	query := expenseSelect + `
	WHERE ($1 = 0 OR COALESCE(year, EXTRACT(YEAR FROM date)::int) = $1)
	  AND ($2 = '' OR COALESCE(NULLIF(quarter, ''), 'Q' || EXTRACT(QUARTER FROM date)::int) = $2)
	ORDER BY date DESC, id DESC`

	rows, err := r.DB.Query(ctx, query, f.Year, string(f.Quarter))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}

func (r *ExpenseRepository) Get(ctx context.Context, id int) (*models.Expense, error) {
	return scanExpense(r.DB.QueryRow(ctx, expenseSelect+` WHERE id = $1`, id))
}

func (r *ExpenseRepository) Create(ctx context.Context, e *models.Expense) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO expenses(date, year, quarter, supplier, country, invoice_number,
		        description, currency, amount_excl_vat, vat_rate_pct, vat_amount,
		        total_amount, nl_btw_deductible, notes, pdf_path)
		 VALUES($1::date, NULLIF($2, 0), NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11,
		        $12, $13, $14, $15)
		 RETURNING id, created_at, updated_at`,
		e.Date, e.Year, e.Quarter, e.Supplier, e.Country, e.InvoiceNumber,
		e.Description, e.Currency, e.AmountExclVat, e.VatRatePct, e.VatAmount,
		e.TotalAmount, e.NlBtwDeductible, e.Notes, e.PdfPath,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *ExpenseRepository) Update(ctx context.Context, e *models.Expense) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE expenses SET
		        date = $2::date, year = NULLIF($3, 0), quarter = NULLIF($4, ''),
		        supplier = $5, country = $6, invoice_number = $7, description = $8,
		        currency = $9, amount_excl_vat = $10, vat_rate_pct = $11, vat_amount = $12,
		        total_amount = $13, nl_btw_deductible = $14, notes = $15, pdf_path = $16,
		        updated_at = NOW()
		 WHERE id = $1
		 RETURNING updated_at`,
		e.ID, e.Date, e.Year, e.Quarter,
		e.Supplier, e.Country, e.InvoiceNumber, e.Description,
		e.Currency, e.AmountExclVat, e.VatRatePct, e.VatAmount,
		e.TotalAmount, e.NlBtwDeductible, e.Notes, e.PdfPath,
	).Scan(&e.UpdatedAt)
	return notFound(err)
}

func (r *ExpenseRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound(pgx.ErrNoRows)
	}
	return nil
}
