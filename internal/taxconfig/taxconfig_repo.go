package taxconfig

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=taxconfig_repo.go -destination=mock/taxconfig_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, cfg *TaxConfiguration) error
	FindByID(ctx context.Context, id string) (*TaxConfiguration, error)
	FindAll(ctx context.Context, taxType string) ([]TaxConfiguration, error)
	ListActiveByType(ctx context.Context, taxType string) ([]TaxConfiguration, error)
	ExistsActiveForTypeAndFrom(ctx context.Context, taxType string, effectiveFrom time.Time) (bool, error)
	Update(ctx context.Context, cfg *TaxConfiguration) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, cfg *TaxConfiguration) error {
	return r.db.WithContext(ctx).Create(cfg).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*TaxConfiguration, error) {
	var cfg TaxConfiguration
	err := r.db.WithContext(ctx).First(&cfg, "id = ?", id).Error
	return &cfg, err
}

func (r *repository) FindAll(ctx context.Context, taxType string) ([]TaxConfiguration, error) {
	db := r.db.WithContext(ctx).Order("tax_type ASC, effective_from DESC")
	if taxType != "" {
		db = db.Where("tax_type = ?", taxType)
	}

	var configs []TaxConfiguration
	err := db.Find(&configs).Error
	return configs, err
}

func (r *repository) ListActiveByType(ctx context.Context, taxType string) ([]TaxConfiguration, error) {
	var configs []TaxConfiguration
	err := r.db.WithContext(ctx).
		Where("tax_type = ? AND is_active = ?", taxType, true).
		Order("effective_from DESC").
		Find(&configs).Error
	return configs, err
}

func (r *repository) ExistsActiveForTypeAndFrom(
	ctx context.Context,
	taxType string,
	effectiveFrom time.Time,
) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&TaxConfiguration{}).
		Where("tax_type = ? AND effective_from = ? AND is_active = ?", taxType, effectiveFrom, true).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, cfg *TaxConfiguration) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}
