package variablepay

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=variablepay_repo.go -destination=mock/variablepay_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreateOvertime(ctx context.Context, rec *OvertimeRecord) error
	FindOvertimeByID(ctx context.Context, id string) (*OvertimeRecord, error)
	UpdateOvertime(ctx context.Context, rec *OvertimeRecord) error
	ListApprovedOvertime(ctx context.Context, employeeID string, start, end time.Time) ([]OvertimeRecord, error)

	CreateBonus(ctx context.Context, b *Bonus) error
	ListBonuses(ctx context.Context, employeeID string, start, end time.Time) ([]Bonus, error)

	CreateCommission(ctx context.Context, cm *Commission) error
	ListCommissions(ctx context.Context, employeeID string, start, end time.Time) ([]Commission, error)

	CreateDeduction(ctx context.Context, d *Deduction) error
	FindDeductionByID(ctx context.Context, id string) (*Deduction, error)
	UpdateDeduction(ctx context.Context, d *Deduction) error
	ListActiveDeductions(ctx context.Context, employeeID string) ([]Deduction, error)
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

func (r *repository) CreateOvertime(ctx context.Context, rec *OvertimeRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) FindOvertimeByID(ctx context.Context, id string) (*OvertimeRecord, error) {
	var rec OvertimeRecord
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	return &rec, err
}

func (r *repository) UpdateOvertime(ctx context.Context, rec *OvertimeRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *repository) ListApprovedOvertime(ctx context.Context, employeeID string, start, end time.Time) ([]OvertimeRecord, error) {
	var records []OvertimeRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND approved = ? AND date BETWEEN ? AND ?", employeeID, true, start, end).
		Order("date ASC").
		Find(&records).Error
	return records, err
}

func (r *repository) CreateBonus(ctx context.Context, b *Bonus) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) ListBonuses(ctx context.Context, employeeID string, start, end time.Time) ([]Bonus, error) {
	var bonuses []Bonus
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND date BETWEEN ? AND ?", employeeID, start, end).
		Order("date ASC").
		Find(&bonuses).Error
	return bonuses, err
}

func (r *repository) CreateCommission(ctx context.Context, cm *Commission) error {
	return r.db.WithContext(ctx).Create(cm).Error
}

func (r *repository) ListCommissions(ctx context.Context, employeeID string, start, end time.Time) ([]Commission, error) {
	var commissions []Commission
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND date BETWEEN ? AND ?", employeeID, start, end).
		Order("date ASC").
		Find(&commissions).Error
	return commissions, err
}

func (r *repository) CreateDeduction(ctx context.Context, d *Deduction) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *repository) FindDeductionByID(ctx context.Context, id string) (*Deduction, error) {
	var d Deduction
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	return &d, err
}

func (r *repository) UpdateDeduction(ctx context.Context, d *Deduction) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *repository) ListActiveDeductions(ctx context.Context, employeeID string) ([]Deduction, error) {
	var deductions []Deduction
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND is_active = ?", employeeID, true).
		Order("created_at ASC").
		Find(&deductions).Error
	return deductions, err
}
