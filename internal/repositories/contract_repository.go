package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"billing-backend/internal/billing"
	"billing-backend/internal/models"
)

type ContractRepository struct {
	DB *pgxpool.Pool
}

func NewContractRepository(db *pgxpool.Pool) *ContractRepository {
	return &ContractRepository{DB: db}
}

var contractSelect = `
	SELECT id, account_id, account_name, title, status, description,
	       file_name, file_size, mime_type, object_key,
	       ` + dateCol("start_date") + `, ` + dateCol("end_date") + `,
	       signed_at, sent_at, viewed_at, viewed_count, view_token::text,
	       deal_type, payment_trigger, value_per_booking, fixed_fee_amount,
	       deposit_amount, monthly_fee, cost_passthrough_rate, currency,
	       invoice_cadence, contract_text, signer_name, created_at, updated_at
	FROM contracts`

func scanContract(row pgx.Row) (*models.Contract, error) {
	c := &models.Contract{}
	var (
		fileName, mimeType, objectKey *string
		fileSize                      *int64
	)
	err := row.Scan(
		&c.ID, &c.AccountID, &c.AccountName, &c.Title, &c.Status, &c.Description,
		&fileName, &fileSize, &mimeType, &objectKey,
		&c.StartDate, &c.EndDate,
		&c.SignedAt, &c.SentAt, &c.ViewedAt, &c.ViewedCount, &c.ViewToken,
		&c.DealType, &c.PaymentTrigger, &c.ValuePerBooking, &c.FixedFeeAmount,
		&c.DepositAmount, &c.MonthlyFee, &c.CostPassthroughRate, &c.Currency,
		&c.InvoiceCadence, &c.ContractText, &c.SignerName, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	if objectKey != nil && *objectKey != "" {
		c.Attachment = &models.Attachment{ObjectKey: *objectKey}
		if fileName != nil {
			c.Attachment.FileName = *fileName
		}
		if fileSize != nil {
			c.Attachment.FileSize = *fileSize
		}
		if mimeType != nil {
			c.Attachment.MimeType = *mimeType
		}
	}
	return c, nil
}

// List returns contracts whose start date (or created_at) falls in the filter
func (r *ContractRepository) List(ctx context.Context, f billing.ListFilter) ([]models.Contract, error) {
	query := contractSelect + `
	WHERE ($1 = 0 OR EXTRACT(YEAR FROM COALESCE(start_date, created_at::date))::int = $1)
	  AND ($2 = 0 OR EXTRACT(QUARTER FROM COALESCE(start_date, created_at::date))::int = $2)
	ORDER BY created_at DESC, id DESC`

	rows, err := r.DB.Query(ctx, query, f.Year, f.Quarter.Rank())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contracts := []models.Contract{}
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, *c)
	}
	return contracts, rows.Err()
}

func (r *ContractRepository) Get(ctx context.Context, id int) (*models.Contract, error) {
	return scanContract(r.DB.QueryRow(ctx, contractSelect+` WHERE id = $1`, id))
}

func (r *ContractRepository) GetByViewToken(ctx context.Context, token string) (*models.Contract, error) {
	return scanContract(r.DB.QueryRow(ctx, contractSelect+` WHERE view_token::text = $1`, token))
}

func (r *ContractRepository) Create(ctx context.Context, c *models.Contract) error {
	fileName, fileSize, mimeType, objectKey := attachmentArgs(c.Attachment)
	return r.DB.QueryRow(ctx,
		`INSERT INTO contracts(account_id, account_name, title, status, description,
		        file_name, file_size, mime_type, object_key, start_date, end_date,
		        view_token, deal_type, payment_trigger, value_per_booking, fixed_fee_amount,
		        deposit_amount, monthly_fee, cost_passthrough_rate, currency,
		        invoice_cadence, contract_text, signer_name)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, '')::date, NULLIF($11, '')::date,
		        $12::uuid, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		 RETURNING id, created_at, updated_at`,
		c.AccountID, c.AccountName, c.Title, c.Status, c.Description,
		fileName, fileSize, mimeType, objectKey, c.StartDate, c.EndDate,
		c.ViewToken, c.DealType, c.PaymentTrigger, c.ValuePerBooking, c.FixedFeeAmount,
		c.DepositAmount, c.MonthlyFee, c.CostPassthroughRate, c.Currency,
		c.InvoiceCadence, c.ContractText, c.SignerName,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// Update writes every mutable column of c, including the attachment columns
func (r *ContractRepository) Update(ctx context.Context, c *models.Contract) error {
	fileName, fileSize, mimeType, objectKey := attachmentArgs(c.Attachment)
	err := r.DB.QueryRow(ctx,
		`UPDATE contracts SET
		        account_id = $2, account_name = $3, title = $4, status = $5, description = $6,
		        file_name = $7, file_size = $8, mime_type = $9, object_key = $10,
		        start_date = NULLIF($11, '')::date, end_date = NULLIF($12, '')::date,
		        signed_at = $13, sent_at = $14, deal_type = $15, payment_trigger = $16,
		        value_per_booking = $17, fixed_fee_amount = $18, deposit_amount = $19,
		        monthly_fee = $20, cost_passthrough_rate = $21, currency = $22,
		        invoice_cadence = $23, contract_text = $24, signer_name = $25,
		        updated_at = NOW()
		 WHERE id = $1
		 RETURNING updated_at`,
		c.ID, c.AccountID, c.AccountName, c.Title, c.Status, c.Description,
		fileName, fileSize, mimeType, objectKey,
		c.StartDate, c.EndDate,
		c.SignedAt, c.SentAt, c.DealType, c.PaymentTrigger,
		c.ValuePerBooking, c.FixedFeeAmount, c.DepositAmount,
		c.MonthlyFee, c.CostPassthroughRate, c.Currency,
		c.InvoiceCadence, c.ContractText, c.SignerName,
	).Scan(&c.UpdatedAt)
	return notFound(err)
}

func (r *ContractRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM contracts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound(pgx.ErrNoRows)
	}
	return nil
}

// RecordView bumps the view counter and moves Sent to Viewed
func (r *ContractRepository) RecordView(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE contracts SET
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

func attachmentArgs(a *models.Attachment) (fileName *string, fileSize *int64, mimeType, objectKey *string) {
	if a == nil {
		return nil, nil, nil, nil
	}
	return &a.FileName, &a.FileSize, &a.MimeType, &a.ObjectKey
}
