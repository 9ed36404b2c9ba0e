package services

import (
	"context"
	"fmt"
	"time"

	"billing-backend/internal/billing"
	"billing-backend/internal/models"
	"billing-backend/internal/render"
	"billing-backend/internal/timeutil"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func fixClock() func() {
	return timeutil.SetClock(func() time.Time { return testNow })
}

type memInvoices struct {
	rows   map[int]models.Invoice
	nextID int
	seq    int
	views  int
}

func newMemInvoices() *memInvoices {
	return &memInvoices{rows: map[int]models.Invoice{}}
}

func (m *memInvoices) List(_ context.Context, _ billing.ListFilter) ([]models.Invoice, error) {
	out := make([]models.Invoice, 0, len(m.rows))
	for id := 1; id <= m.nextID; id++ {
		if inv, ok := m.rows[id]; ok {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *memInvoices) Get(_ context.Context, id int) (*models.Invoice, error) {
	inv, ok := m.rows[id]
	if !ok {
		return nil, billing.ErrNotFound
	}
	return &inv, nil
}

func (m *memInvoices) GetByViewToken(_ context.Context, token string) (*models.Invoice, error) {
	for _, inv := range m.rows {
		if inv.ViewToken == token {
			return &inv, nil
		}
	}
	return nil, billing.ErrNotFound
}

func (m *memInvoices) Create(_ context.Context, inv *models.Invoice) error {
	m.nextID++
	inv.ID = m.nextID
	if inv.InvoiceNumber == "" {
		m.seq++
		inv.InvoiceNumber = fmt.Sprintf("INV-%06d", m.seq)
	}
	inv.CreatedAt = testNow
	m.rows[inv.ID] = *inv
	return nil
}

func (m *memInvoices) Update(_ context.Context, inv *models.Invoice) error {
	if _, ok := m.rows[inv.ID]; !ok {
		return billing.ErrNotFound
	}
	m.rows[inv.ID] = *inv
	return nil
}

func (m *memInvoices) Delete(_ context.Context, id int) error {
	if _, ok := m.rows[id]; !ok {
		return billing.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memInvoices) RecordView(_ context.Context, id int) error {
	inv, ok := m.rows[id]
	if !ok {
		return billing.ErrNotFound
	}
	m.views++
	inv.ViewedCount++
	if inv.Status == billing.StatusSent {
		inv.Status = billing.StatusViewed
	}
	m.rows[id] = inv
	return nil
}

type memContracts struct {
	rows   map[int]models.Contract
	nextID int
}

func newMemContracts() *memContracts {
	return &memContracts{rows: map[int]models.Contract{}}
}

func (m *memContracts) List(_ context.Context, _ billing.ListFilter) ([]models.Contract, error) {
	out := make([]models.Contract, 0, len(m.rows))
	for id := 1; id <= m.nextID; id++ {
		if c, ok := m.rows[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memContracts) Get(_ context.Context, id int) (*models.Contract, error) {
	c, ok := m.rows[id]
	if !ok {
		return nil, billing.ErrNotFound
	}
	if c.Attachment != nil {
		a := *c.Attachment
		c.Attachment = &a
	}
	return &c, nil
}

func (m *memContracts) GetByViewToken(_ context.Context, token string) (*models.Contract, error) {
	for id := range m.rows {
		if m.rows[id].ViewToken == token {
			return m.Get(context.Background(), id)
		}
	}
	return nil, billing.ErrNotFound
}

func (m *memContracts) Create(_ context.Context, c *models.Contract) error {
	m.nextID++
	c.ID = m.nextID
	c.CreatedAt = testNow
	m.rows[c.ID] = *c
	return nil
}

func (m *memContracts) Update(_ context.Context, c *models.Contract) error {
	if _, ok := m.rows[c.ID]; !ok {
		return billing.ErrNotFound
	}
	m.rows[c.ID] = *c
	return nil
}

func (m *memContracts) Delete(_ context.Context, id int) error {
	if _, ok := m.rows[id]; !ok {
		return billing.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memContracts) RecordView(_ context.Context, id int) error {
	c, ok := m.rows[id]
	if !ok {
		return billing.ErrNotFound
	}
	c.ViewedCount++
	if c.Status == billing.StatusSent {
		c.Status = billing.StatusViewed
	}
	m.rows[id] = c
	return nil
}

type memExpenses struct {
	rows   map[int]models.Expense
	nextID int
}

func newMemExpenses() *memExpenses {
	return &memExpenses{rows: map[int]models.Expense{}}
}

func (m *memExpenses) List(_ context.Context, _ billing.ListFilter) ([]models.Expense, error) {
	out := make([]models.Expense, 0, len(m.rows))
	for id := 1; id <= m.nextID; id++ {
		if e, ok := m.rows[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memExpenses) Get(_ context.Context, id int) (*models.Expense, error) {
	e, ok := m.rows[id]
	if !ok {
		return nil, billing.ErrNotFound
	}
	return &e, nil
}

func (m *memExpenses) Create(_ context.Context, e *models.Expense) error {
	m.nextID++
	e.ID = m.nextID
	e.CreatedAt = testNow
	m.rows[e.ID] = *e
	return nil
}

func (m *memExpenses) Update(_ context.Context, e *models.Expense) error {
	if _, ok := m.rows[e.ID]; !ok {
		return billing.ErrNotFound
	}
	m.rows[e.ID] = *e
	return nil
}

func (m *memExpenses) Delete(_ context.Context, id int) error {
	if _, ok := m.rows[id]; !ok {
		return billing.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type memUsers map[int]models.User

func (m memUsers) List(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(m))
	for _, u := range m {
		out = append(out, u)
	}
	return out, nil
}

func (m memUsers) Get(_ context.Context, id int) (*models.User, error) {
	u, ok := m[id]
	if !ok {
		return nil, billing.ErrNotFound
	}
	return &u, nil
}

type memSettings map[string]models.SystemSetting

func (m memSettings) Get(_ context.Context, key string) (*models.SystemSetting, error) {
	s, ok := m[key]
	if !ok {
		return nil, billing.ErrNotFound
	}
	return &s, nil
}

func (m memSettings) Upsert(_ context.Context, key, value, description string) (*models.SystemSetting, error) {
	s := models.SystemSetting{ID: len(m) + 1, SettingKey: key, SettingValue: value, Description: description, UpdatedAt: testNow}
	m[key] = s
	return &s, nil
}

type fakeExtractor struct {
	out *models.ExtractedExpense
	err error
}

func (f fakeExtractor) Extract(_ context.Context, _ []byte) (*models.ExtractedExpense, error) {
	return f.out, f.err
}

func money(v float64) *models.Money {
	m := models.Money(v)
	return &m
}

func str(s string) *string { return &s }

func renderField(label, value string) render.Field {
	return render.Field{Label: label, Value: value}
}
