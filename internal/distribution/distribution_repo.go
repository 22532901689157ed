package distribution

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=distribution_repo.go -destination=mock/distribution_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreateDistribution(ctx context.Context, d *PayslipDistribution) error
	FindDistributionByID(ctx context.Context, id string) (*PayslipDistribution, error)
	ListForRun(ctx context.Context, runID string) ([]PayslipDistribution, error)
	UpdateDistribution(ctx context.Context, d *PayslipDistribution) error

	CreateItems(ctx context.Context, items []DistributionItem) error
	ListItems(ctx context.Context, distributionID string) ([]DistributionItem, error)
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

func (r *repository) CreateDistribution(ctx context.Context, d *PayslipDistribution) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *repository) FindDistributionByID(ctx context.Context, id string) (*PayslipDistribution, error) {
	var d PayslipDistribution
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	return &d, err
}

func (r *repository) ListForRun(ctx context.Context, runID string) ([]PayslipDistribution, error) {
	var distributions []PayslipDistribution
	err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("created_at DESC").
		Find(&distributions).Error
	return distributions, err
}

func (r *repository) UpdateDistribution(ctx context.Context, d *PayslipDistribution) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *repository) CreateItems(ctx context.Context, items []DistributionItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(items, 200).Error
}

func (r *repository) ListItems(ctx context.Context, distributionID string) ([]DistributionItem, error) {
	var items []DistributionItem
	err := r.db.WithContext(ctx).
		Where("distribution_id = ?", distributionID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}
