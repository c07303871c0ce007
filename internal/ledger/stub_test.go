package ledger

import (
	"context"
	"sort"
	"strings"

	"github.com/aulaeco/recicla-backend/pkg/db/models"
)

// stubLedgerRepo is an in-memory Repository. Individual methods can be
// overridden per test; defaults behave like the real store.
type stubLedgerRepo struct {
	records []models.Recycling
	nextID  uint

	create                  func(ctx context.Context, record *models.Recycling) error
	listByMaterialOldest    func(ctx context.Context, material string, limit int) ([]models.Recycling, error)
	updateMaterialAndPoints func(ctx context.Context, id uint, material string, points int) error
}

func newStubLedgerRepo(seed ...models.Recycling) *stubLedgerRepo {
	repo := &stubLedgerRepo{nextID: 1}
	for _, rec := range seed {
		rec := rec
		repo.records = append(repo.records, rec)
		if rec.ID >= repo.nextID {
			repo.nextID = rec.ID + 1
		}
	}
	return repo
}

func (s *stubLedgerRepo) Create(ctx context.Context, record *models.Recycling) error {
	if s.create != nil {
		return s.create(ctx, record)
	}
	if record.ID == 0 {
		record.ID = s.nextID
		s.nextID++
	}
	s.records = append(s.records, *record)
	return nil
}

func (s *stubLedgerRepo) DeleteAll(ctx context.Context) error {
	s.records = nil
	return nil
}

func (s *stubLedgerRepo) ListAll(ctx context.Context) ([]models.Recycling, error) {
	out := append([]models.Recycling(nil), s.records...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubLedgerRepo) ListForUser(ctx context.Context, userID uint, from string) ([]models.Recycling, error) {
	var out []models.Recycling
	for _, rec := range s.records {
		if rec.UserID == userID && (from == "" || rec.Date >= from) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (s *stubLedgerRepo) ListByDate(ctx context.Context, from string) ([]models.Recycling, error) {
	var out []models.Recycling
	for _, rec := range s.records {
		if from == "" || rec.Date >= from {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (s *stubLedgerRepo) ListByMaterialOldest(ctx context.Context, material string, limit int) ([]models.Recycling, error) {
	if s.listByMaterialOldest != nil {
		return s.listByMaterialOldest(ctx, material, limit)
	}
	var out []models.Recycling
	for _, rec := range s.records {
		if rec.Material == material {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubLedgerRepo) ListWithUsernames(ctx context.Context, from string) ([]RecordWithUsername, error) {
	var out []RecordWithUsername
	for _, rec := range s.records {
		if from == "" || rec.Date >= from {
			out = append(out, RecordWithUsername{Recycling: rec, Username: "user"})
		}
	}
	return out, nil
}

func (s *stubLedgerRepo) CountTotal(ctx context.Context) (int64, error) {
	return int64(len(s.records)), nil
}

func (s *stubLedgerRepo) CountByUser(ctx context.Context) (map[uint]int64, error) {
	out := make(map[uint]int64)
	for _, rec := range s.records {
		out[rec.UserID]++
	}
	return out, nil
}

func (s *stubLedgerRepo) CountByMaterial(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, rec := range s.records {
		out[rec.Material]++
	}
	return out, nil
}

func (s *stubLedgerRepo) UpdateMaterialAndPoints(ctx context.Context, id uint, material string, points int) error {
	if s.updateMaterialAndPoints != nil {
		return s.updateMaterialAndPoints(ctx, id, material, points)
	}
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Material = material
			s.records[i].Points = points
		}
	}
	return nil
}

func (s *stubLedgerRepo) UpdateItemAndMaterial(ctx context.Context, id uint, item, material string) error {
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Item = item
			s.records[i].Material = material
		}
	}
	return nil
}

func (s *stubLedgerRepo) UpdateCenterAll(ctx context.Context, center string) error {
	for i := range s.records {
		if !strings.EqualFold(s.records[i].Center, center) {
			s.records[i].Center = center
		}
	}
	return nil
}

func (s *stubLedgerRepo) countByMaterial(material string) int {
	n := 0
	for _, rec := range s.records {
		if rec.Material == material {
			n++
		}
	}
	return n
}
