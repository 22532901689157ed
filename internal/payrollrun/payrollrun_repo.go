package payrollrun

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payrollrun_repo.go -destination=mock/payrollrun_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreateRun(ctx context.Context, run *PayrollRun) error
	FindRunByID(ctx context.Context, id string) (*PayrollRun, error)
	FindAllRuns(ctx context.Context) ([]PayrollRun, error)
	UpdateRun(ctx context.Context, run *PayrollRun) error

	CreateEntries(ctx context.Context, entries []PayrollEntry) error
	DeleteEntriesForRun(ctx context.Context, runID string) error
	ListEntriesForRun(ctx context.Context, runID string) ([]PayrollEntry, error)
	FindEntryByID(ctx context.Context, id string) (*PayrollEntry, error)
	UpdateEntry(ctx context.Context, entry *PayrollEntry) error
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

func (r *repository) CreateRun(ctx context.Context, run *PayrollRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *repository) FindRunByID(ctx context.Context, id string) (*PayrollRun, error) {
	var run PayrollRun
	err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error
	return &run, err
}

func (r *repository) FindAllRuns(ctx context.Context) ([]PayrollRun, error) {
	var runs []PayrollRun
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&runs).Error
	return runs, err
}

func (r *repository) UpdateRun(ctx context.Context, run *PayrollRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

func (r *repository) CreateEntries(ctx context.Context, entries []PayrollEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(entries, 100).Error
}

func (r *repository) DeleteEntriesForRun(ctx context.Context, runID string) error {
	return r.db.WithContext(ctx).
		Delete(&PayrollEntry{}, "run_id = ?", runID).Error
}

func (r *repository) ListEntriesForRun(ctx context.Context, runID string) ([]PayrollEntry, error) {
	var entries []PayrollEntry
	err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) FindEntryByID(ctx context.Context, id string) (*PayrollEntry, error) {
	var entry PayrollEntry
	err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	return &entry, err
}

func (r *repository) UpdateEntry(ctx context.Context, entry *PayrollEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}
