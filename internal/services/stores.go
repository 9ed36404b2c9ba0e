package services

import (
	"context"

	"billing-backend/internal/billing"
	"billing-backend/internal/models"
)

// InvoiceStore is the persistence the invoice service needs.
// *repositories.InvoiceRepository implements it.
type InvoiceStore interface {
	List(ctx context.Context, f billing.ListFilter) ([]models.Invoice, error)
	Get(ctx context.Context, id int) (*models.Invoice, error)
	GetByViewToken(ctx context.Context, token string) (*models.Invoice, error)
	Create(ctx context.Context, inv *models.Invoice) error
	Update(ctx context.Context, inv *models.Invoice) error
	Delete(ctx context.Context, id int) error
	RecordView(ctx context.Context, id int) error
}

// ContractStore is implemented by *repositories.ContractRepository.
type ContractStore interface {
	List(ctx context.Context, f billing.ListFilter) ([]models.Contract, error)
	Get(ctx context.Context, id int) (*models.Contract, error)
	GetByViewToken(ctx context.Context, token string) (*models.Contract, error)
	Create(ctx context.Context, c *models.Contract) error
	Update(ctx context.Context, c *models.Contract) error
	Delete(ctx context.Context, id int) error
	RecordView(ctx context.Context, id int) error
}

// ExpenseStore is implemented by *repositories.ExpenseRepository.
type ExpenseStore interface {
	List(ctx context.Context, f billing.ListFilter) ([]models.Expense, error)
	Get(ctx context.Context, id int) (*models.Expense, error)
	Create(ctx context.Context, e *models.Expense) error
	Update(ctx context.Context, e *models.Expense) error
	Delete(ctx context.Context, id int) error
}

type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id int) (*models.User, error)
}

type SettingStore interface {
	Get(ctx context.Context, key string) (*models.SystemSetting, error)
	Upsert(ctx context.Context, key, value, description string) (*models.SystemSetting, error)
}

// ObjectStore holds uploaded files. *storage.S3Store and *storage.MemoryStore
// implement it.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	Get(ctx context.Context, key string) ([]byte, string, error)
	Delete(ctx context.Context, key string) error
}

// Extractor reads expense fields out of a PDF.
type Extractor interface {
	Extract(ctx context.Context, pdf []byte) (*models.ExtractedExpense, error)
}
