package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/aulaeco/recicla-backend/internal/materials"
	"github.com/aulaeco/recicla-backend/pkg/config"
	"github.com/aulaeco/recicla-backend/pkg/db/models"
	"github.com/aulaeco/recicla-backend/pkg/errors"
)

// SubmitInput is a new recycling submission after transport validation.
type SubmitInput struct {
	UserID   uint
	Material string
	Quantity float64
	Item     string
	Date     string
}

// Record is the API shape of a ledger row. Material is always the canonical
// label regardless of what the row stores.
type Record struct {
	ID       uint    `json:"id"`
	UserID   uint    `json:"user_id"`
	Material string  `json:"material"`
	Quantity float64 `json:"quantity"`
	Points   int     `json:"points"`
	Item     string  `json:"item"`
	Date     string  `json:"date"`
	Center   string  `json:"center"`
}

// AdminRecord adds the owning username for the back-office listing.
type AdminRecord struct {
	Record
	Username string `json:"username"`
}

// Service is the read/submit surface the HTTP layer consumes. Maintenance
// passes live on Auditor and Rebalancer, not here.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*Record, error)
	RecordsForUser(ctx context.Context, userID uint, from string) ([]Record, error)
	PublicRecords(ctx context.Context, from string) ([]Record, error)
	AdminRecords(ctx context.Context, from string) ([]AdminRecord, error)
	UserStats(ctx context.Context, userID uint, from string) ([]MaterialTotal, error)
	LedgerStats(ctx context.Context, from string) ([]MaterialTotal, error)
	GlobalStats(ctx context.Context, from string) (*GlobalTotals, error)
	Evolution(ctx context.Context, userID uint, from string) ([]MonthTotal, error)
	GlobalEvolution(ctx context.Context, from string) ([]MonthTotal, error)
}

type service struct {
	repo Repository
	cfg  config.LedgerConfig
	now  func() time.Time
}

// NewService wires the ledger service. now is injectable for tests.
func NewService(repo Repository, cfg config.LedgerConfig, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, errors.New(errors.CodeInternal, "ledger service requires a repository")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, cfg: cfg, now: now}, nil
}

// Submit normalizes, prices and stores one submission. Only enforced
// materials are accepted; the configured center always wins over client
// input.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*Record, error) {
	material := materials.Normalize(input.Material)
	if !material.IsEnforced() {
		return nil, errors.New(errors.CodeValidation, "material is not accepted").
			WithDetails(map[string]any{
				"material": input.Material,
				"accepted": materials.Enforced(),
			})
	}

	quantity := float64(int(input.Quantity))
	if quantity != input.Quantity || quantity < 1 {
		return nil, errors.New(errors.CodeValidation, "quantity must be a whole number of units, at least 1")
	}

	item := strings.TrimSpace(input.Item)
	if item == "" {
		item = materials.DefaultItem(material)
	}
	date := strings.TrimSpace(input.Date)
	if date == "" {
		date = s.now().UTC().Format("2006-01-02")
	}

	record := models.Recycling{
		UserID:   input.UserID,
		Material: string(material),
		Quantity: quantity,
		Points:   materials.Points(material, quantity),
		Item:     item,
		Date:     date,
		Center:   s.cfg.Center,
	}
	if err := s.repo.Create(ctx, &record); err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "storing recycling record")
	}
	out := toRecord(record)
	return &out, nil
}

func (s *service) RecordsForUser(ctx context.Context, userID uint, from string) ([]Record, error) {
	records, err := s.repo.ListForUser(ctx, userID, from)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing user records")
	}
	return toRecords(records), nil
}

func (s *service) PublicRecords(ctx context.Context, from string) ([]Record, error) {
	records, err := s.repo.ListByDate(ctx, from)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing public records")
	}
	return toRecords(records), nil
}

func (s *service) AdminRecords(ctx context.Context, from string) ([]AdminRecord, error) {
	records, err := s.repo.ListWithUsernames(ctx, from)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing admin records")
	}
	out := make([]AdminRecord, len(records))
	for i, rec := range records {
		out[i] = AdminRecord{Record: toRecord(rec.Recycling), Username: rec.Username}
	}
	return out, nil
}

func (s *service) UserStats(ctx context.Context, userID uint, from string) ([]MaterialTotal, error) {
	records, err := s.repo.ListForUser(ctx, userID, from)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading user stats snapshot")
	}
	return PerMaterialTotals(records), nil
}

// LedgerStats is the whole-ledger version of UserStats, served to admins.
func (s *service) LedgerStats(ctx context.Context, from string) ([]MaterialTotal, error) {
	records, err := s.repo.ListByDate(ctx, from)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading ledger stats snapshot")
	}
	return PerMaterialTotals(records), nil
}

func (s *service) GlobalStats(ctx context.Context, from string) (*GlobalTotals, error) {
	records, err := s.repo.ListByDate(ctx, from)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading global stats snapshot")
	}
	totals := ComputeGlobalTotals(records)
	return &totals, nil
}

func (s *service) Evolution(ctx context.Context, userID uint, from string) ([]MonthTotal, error) {
	records, err := s.repo.ListForUser(ctx, userID, from)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading evolution snapshot")
	}
	return MonthlyEvolution(records), nil
}

func (s *service) GlobalEvolution(ctx context.Context, from string) ([]MonthTotal, error) {
	records, err := s.repo.ListByDate(ctx, from)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading evolution snapshot")
	}
	return MonthlyEvolution(records), nil
}

func toRecord(rec models.Recycling) Record {
	return Record{
		ID:       rec.ID,
		UserID:   rec.UserID,
		Material: string(materials.Normalize(rec.Material)),
		Quantity: rec.Quantity,
		Points:   rec.Points,
		Item:     rec.Item,
		Date:     rec.Date,
		Center:   rec.Center,
	}
}

func toRecords(records []models.Recycling) []Record {
	out := make([]Record, len(records))
	for i, rec := range records {
		out[i] = toRecord(rec)
	}
	return out
}
