package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"billing-backend/internal/billing"
	"billing-backend/internal/cache"
	"billing-backend/internal/listing"
	"billing-backend/internal/models"
	"billing-backend/internal/storage"
	"billing-backend/internal/timeutil"
)

const contractEntity = "contracts"

// MaxAttachmentSize caps contract files and expense PDFs.
const MaxAttachmentSize = 20 << 20

type ContractService struct {
	Repo      ContractStore
	Files     ObjectStore
	PublicURL string
	Currency  string
	ListTTL   time.Duration
}

func NewContractService(repo ContractStore, files ObjectStore, publicURL, currency string) *ContractService {
	currency = currencyOr(currency, billing.DefaultCurrency)
	return &ContractService{
		Repo:      repo,
		Files:     files,
		PublicURL: strings.TrimRight(publicURL, "/"),
		Currency:  currency,
	}
}

func (s *ContractService) List(ctx context.Context, f billing.ListFilter) ([]models.Contract, error) {
	contracts, err := cachedList(ctx, contractEntity, f, s.ListTTL, func() ([]models.Contract, error) {
		return s.Repo.List(ctx, f)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	now := timeutil.Now()
	for i := range contracts {
		contracts[i].DeriveStatus(now)
	}
	return contracts, nil
}

func (s *ContractService) Project(ctx context.Context, p billing.ViewParams) (billing.Projection[models.Contract], error) {
	contracts, err := s.List(ctx, billing.ListFilter{})
	if err != nil {
		return billing.Projection[models.Contract]{}, err
	}
	return listing.Contracts.Apply(contracts, p, timeutil.Now()), nil
}

func (s *ContractService) Get(ctx context.Context, id int) (*models.Contract, error) {
	c, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.DeriveStatus(timeutil.Now())
	return c, nil
}

func (s *ContractService) Create(ctx context.Context, req *models.CreateContractRequest) (*models.Contract, error) {
	if err := merge(validateStruct(req), checkDates(req.StartDate, req.EndDate)); err != nil {
		return nil, err
	}

	c := &models.Contract{
		AccountID:           req.AccountID,
		AccountName:         strings.TrimSpace(req.AccountName),
		Title:               strings.TrimSpace(req.Title),
		Status:              billing.StatusDraft,
		Description:         req.Description,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		ViewToken:           uuid.NewString(),
		DealType:            req.DealType,
		PaymentTrigger:      req.PaymentTrigger,
		ValuePerBooking:     req.ValuePerBooking,
		FixedFeeAmount:      req.FixedFeeAmount,
		DepositAmount:       req.DepositAmount,
		MonthlyFee:          req.MonthlyFee,
		CostPassthroughRate: req.CostPassthroughRate,
		Currency:            currencyOr(req.Currency, s.Currency),
		InvoiceCadence:      req.InvoiceCadence,
		ContractText:        req.ContractText,
	}

	if err := s.Repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}
	cache.InvalidateEntity(ctx, contractEntity)

	log.Info().Int("contract_id", c.ID).Str("deal_type", c.DealType).Msg("Contract created")
	c.DeriveStatus(timeutil.Now())
	return c, nil
}

// Update applies the non-nil fields of req. Setting contract text removes
// any attached file.
func (s *ContractService) Update(ctx context.Context, id int, req *models.UpdateContractRequest) (*models.Contract, error) {
	extra := &billing.ValidationError{}
	var status string
	if req.Status != nil {
		var verr *billing.ValidationError
		if status, verr = checkStoredStatus(*req.Status, billing.ContractStatuses); verr != nil {
			extra = verr
		}
	}
	if err := merge(validateStruct(req), extra); err != nil {
		return nil, err
	}

	c, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.AccountID != nil {
		c.AccountID = req.AccountID
	}
	setString(&c.AccountName, req.AccountName)
	setString(&c.Title, req.Title)
	setString(&c.Description, req.Description)
	setString(&c.StartDate, req.StartDate)
	setString(&c.EndDate, req.EndDate)
	setString(&c.DealType, req.DealType)
	setString(&c.PaymentTrigger, req.PaymentTrigger)
	setString(&c.InvoiceCadence, req.InvoiceCadence)
	setString(&c.SignerName, req.SignerName)
	if req.Currency != nil {
		c.Currency = currencyOr(*req.Currency, s.Currency)
	}
	if req.ValuePerBooking != nil {
		c.ValuePerBooking = req.ValuePerBooking
	}
	if req.FixedFeeAmount != nil {
		c.FixedFeeAmount = req.FixedFeeAmount
	}
	if req.DepositAmount != nil {
		c.DepositAmount = req.DepositAmount
	}
	if req.MonthlyFee != nil {
		c.MonthlyFee = req.MonthlyFee
	}
	if req.CostPassthroughRate != nil {
		c.CostPassthroughRate = req.CostPassthroughRate
	}
	if verr := checkDates(c.StartDate, c.EndDate); verr.HasErrors() {
		return nil, verr
	}

	var orphan string
	if req.ContractText != nil {
		c.ContractText = *req.ContractText
		if c.ContractText != "" && c.Attachment != nil {
			orphan = c.Attachment.ObjectKey
			c.Attachment = nil
		}
	}

	if req.SentAt != nil {
		c.SentAt = req.SentAt
	}
	if req.SignedAt != nil {
		c.SignedAt = req.SignedAt
	}
	if status != "" && status != c.Status {
		now := timeutil.Now()
		switch status {
		case billing.StatusSent:
			if c.SentAt == nil {
				c.SentAt = &now
			}
		case billing.StatusSigned:
			if c.SignedAt == nil {
				c.SignedAt = &now
			}
		}
		c.Status = status
		recordTransition("contract", status)
	}

	if err := s.Repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update contract %d: %w", id, err)
	}
	cache.InvalidateEntity(ctx, contractEntity)
	s.removeObject(ctx, orphan)

	c.DeriveStatus(timeutil.Now())
	return c, nil
}

func (s *ContractService) Delete(ctx context.Context, id int) error {
	c, err := s.Repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateEntity(ctx, contractEntity)
	if c.Attachment != nil {
		s.removeObject(ctx, c.Attachment.ObjectKey)
	}
	log.Info().Int("contract_id", id).Msg("Contract deleted")
	return nil
}

func (s *ContractService) MarkSent(ctx context.Context, id int) (*models.Contract, error) {
	return s.transition(ctx, id, ActionSend, "")
}

// Sign records the signer and moves the contract to Signed.
func (s *ContractService) Sign(ctx context.Context, id int, req *models.SignContractRequest) (*models.Contract, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, ActionSign, strings.TrimSpace(req.SignerName))
}

func (s *ContractService) Cancel(ctx context.Context, id int) (*models.Contract, error) {
	return s.transition(ctx, id, ActionCancel, "")
}

func (s *ContractService) transition(ctx context.Context, id int, action, signer string) (*models.Contract, error) {
	c, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := nextStatus(action, c.Status)
	if err != nil {
		return nil, err
	}

	now := timeutil.Now()
	switch action {
	case ActionSend:
		c.SentAt = &now
	case ActionSign:
		c.SignedAt = &now
		c.SignerName = signer
	}
	c.Status = next

	if err := s.Repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to %s contract %d: %w", action, id, err)
	}
	cache.InvalidateEntity(ctx, contractEntity)
	recordTransition("contract", next)

	log.Info().Int("contract_id", id).Str("action", action).Str("status", next).Msg("Contract status changed")
	c.DeriveStatus(now)
	return c, nil
}

// AttachFile stores body as the contract's file, replacing any previous file
// and clearing the contract text.
func (s *ContractService) AttachFile(ctx context.Context, id int, fileName, mimeType string, body []byte) (*models.Contract, error) {
	if verr := checkUpload(fileName, body); verr != nil {
		return nil, verr
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(body)
	}

	c, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	key := storage.ObjectKey(contractEntity, id, fileName)
	if err := s.Files.Put(ctx, key, mimeType, body); err != nil {
		return nil, fmt.Errorf("failed to store contract file: %w", err)
	}

	var previous string
	if c.Attachment != nil {
		previous = c.Attachment.ObjectKey
	}
	c.Attachment = &models.Attachment{
		FileName:  fileName,
		FileSize:  int64(len(body)),
		MimeType:  mimeType,
		ObjectKey: key,
	}
	c.ContractText = ""

	if err := s.Repo.Update(ctx, c); err != nil {
		s.removeObject(ctx, key)
		return nil, fmt.Errorf("failed to update contract %d: %w", id, err)
	}
	cache.InvalidateEntity(ctx, contractEntity)
	s.removeObject(ctx, previous)

	log.Info().Int("contract_id", id).Str("file", fileName).Int("size", len(body)).Msg("Contract file attached")
	c.DeriveStatus(timeutil.Now())
	return c, nil
}

func (s *ContractService) RemoveFile(ctx context.Context, id int) (*models.Contract, error) {
	c, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Attachment == nil {
		return nil, billing.ErrNoAttachment
	}
	key := c.Attachment.ObjectKey
	c.Attachment = nil

	if err := s.Repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update contract %d: %w", id, err)
	}
	cache.InvalidateEntity(ctx, contractEntity)
	s.removeObject(ctx, key)

	c.DeriveStatus(timeutil.Now())
	return c, nil
}

// OpenFile returns the attachment metadata and its bytes.
func (s *ContractService) OpenFile(ctx context.Context, id int) (*models.Attachment, []byte, error) {
	c, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if c.Attachment == nil {
		return nil, nil, billing.ErrNoAttachment
	}
	body, _, err := s.Files.Get(ctx, c.Attachment.ObjectKey)
	if err != nil {
		return nil, nil, err
	}
	return c.Attachment, body, nil
}

func (s *ContractService) GetByViewToken(ctx context.Context, token string) (*models.Contract, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, billing.ErrNotFound
	}
	c, err := s.Repo.GetByViewToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.RecordView(ctx, c.ID); err != nil {
		return nil, fmt.Errorf("failed to record contract view: %w", err)
	}
	cache.InvalidateEntity(ctx, contractEntity)

	now := timeutil.Now()
	applyView(&c.Status, &c.ViewedAt, &c.ViewedCount, now)
	c.DeriveStatus(now)
	return c, nil
}

func (s *ContractService) ShareLink(ctx context.Context, id int) (string, error) {
	c, err := s.Repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return viewURL(s.PublicURL, contractEntity, c.ViewToken), nil
}

// removeObject deletes key best-effort; a leftover object is only logged.
func (s *ContractService) removeObject(ctx context.Context, key string) {
	if key == "" || s.Files == nil {
		return
	}
	if err := s.Files.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to delete contract file")
	}
}

// checkDates rejects an end date before the start date.
func checkDates(start, end string) *billing.ValidationError {
	s, sok := billing.ParseDate(start)
	e, eok := billing.ParseDate(end)
	if sok && eok && e.Before(s) {
		return billing.NewValidationError("end_date", "gtefield")
	}
	return &billing.ValidationError{}
}

func checkUpload(fileName string, body []byte) *billing.ValidationError {
	switch {
	case strings.TrimSpace(fileName) == "":
		return billing.NewValidationError("file", "required")
	case len(body) == 0:
		return billing.NewValidationError("file", "required")
	case len(body) > MaxAttachmentSize:
		return billing.NewValidationError("file", "max")
	}
	return nil
}
