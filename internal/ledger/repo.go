package ledger

import (
	"context"

	"github.com/aulaeco/recicla-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository is the store surface the ledger maintenance and query paths
// consume. It deliberately exposes only whole-ledger and by-id operations;
// nothing here deletes individual records.
type Repository interface {
	Create(ctx context.Context, record *models.Recycling) error
	DeleteAll(ctx context.Context) error
	ListAll(ctx context.Context) ([]models.Recycling, error)
	ListForUser(ctx context.Context, userID uint, from string) ([]models.Recycling, error)
	ListByDate(ctx context.Context, from string) ([]models.Recycling, error)
	ListByMaterialOldest(ctx context.Context, material string, limit int) ([]models.Recycling, error)
	ListWithUsernames(ctx context.Context, from string) ([]RecordWithUsername, error)
	CountTotal(ctx context.Context) (int64, error)
	CountByUser(ctx context.Context) (map[uint]int64, error)
	CountByMaterial(ctx context.Context) (map[string]int64, error)
	UpdateMaterialAndPoints(ctx context.Context, id uint, material string, points int) error
	UpdateItemAndMaterial(ctx context.Context, id uint, item, material string) error
	UpdateCenterAll(ctx context.Context, center string) error
}

// RecordWithUsername joins a record with its submitting user's name for the
// admin listing.
type RecordWithUsername struct {
	models.Recycling
	Username string `gorm:"column:username"`
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, record *models.Recycling) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.Recycling{}).Error
}

func (r *repository) ListAll(ctx context.Context) ([]models.Recycling, error) {
	var records []models.Recycling
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) ListForUser(ctx context.Context, userID uint, from string) ([]models.Recycling, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if from != "" {
		query = query.Where("date >= ?", from)
	}
	var records []models.Recycling
	if err := query.Order("date DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) ListByDate(ctx context.Context, from string) ([]models.Recycling, error) {
	query := r.db.WithContext(ctx)
	if from != "" {
		query = query.Where("date >= ?", from)
	}
	var records []models.Recycling
	if err := query.Order("date DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) ListByMaterialOldest(ctx context.Context, material string, limit int) ([]models.Recycling, error) {
	var records []models.Recycling
	if err := r.db.WithContext(ctx).
		Where("material = ?", material).
		Order("id ASC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) ListWithUsernames(ctx context.Context, from string) ([]RecordWithUsername, error) {
	query := r.db.WithContext(ctx).
		Table("recyclings").
		Select("recyclings.*, users.username AS username").
		Joins("JOIN users ON users.id = recyclings.user_id")
	if from != "" {
		query = query.Where("recyclings.date >= ?", from)
	}
	var records []RecordWithUsername
	if err := query.Order("recyclings.date DESC").Scan(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) CountTotal(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Recycling{}).Count(&count).Error
	return count, err
}

type groupCount struct {
	Key   string `gorm:"column:key"`
	Count int64  `gorm:"column:count"`
}

func (r *repository) CountByUser(ctx context.Context) (map[uint]int64, error) {
	var rows []struct {
		UserID uint  `gorm:"column:user_id"`
		Count  int64 `gorm:"column:count"`
	}
	err := r.db.WithContext(ctx).
		Model(&models.Recycling{}).
		Select("user_id, COUNT(*) AS count").
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]int64, len(rows))
	for _, row := range rows {
		out[row.UserID] = row.Count
	}
	return out, nil
}

func (r *repository) CountByMaterial(ctx context.Context) (map[string]int64, error) {
	var rows []groupCount
	err := r.db.WithContext(ctx).
		Model(&models.Recycling{}).
		Select("material AS key, COUNT(*) AS count").
		Group("material").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Count
	}
	return out, nil
}

func (r *repository) UpdateMaterialAndPoints(ctx context.Context, id uint, material string, points int) error {
	return r.db.WithContext(ctx).
		Model(&models.Recycling{}).
		Where("id = ?", id).
		Updates(map[string]any{"material": material, "points": points}).Error
}

func (r *repository) UpdateItemAndMaterial(ctx context.Context, id uint, item, material string) error {
	return r.db.WithContext(ctx).
		Model(&models.Recycling{}).
		Where("id = ?", id).
		Updates(map[string]any{"item": item, "material": material}).Error
}

func (r *repository) UpdateCenterAll(ctx context.Context, center string) error {
	return r.db.WithContext(ctx).
		Model(&models.Recycling{}).
		Where("center IS NULL OR center <> ?", center).
		Update("center", center).Error
}
