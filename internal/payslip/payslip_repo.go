package payslip

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payslip_repo.go -destination=mock/payslip_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreateTemplate(ctx context.Context, tpl *PayslipTemplate) error
	FindTemplateByCode(ctx context.Context, code string) (*PayslipTemplate, error)
	FindTemplateByID(ctx context.Context, id string) (*PayslipTemplate, error)
	ListTemplates(ctx context.Context) ([]PayslipTemplate, error)

	CreatePayslip(ctx context.Context, p *Payslip) error
	FindPayslipByID(ctx context.Context, id string) (*Payslip, error)
	FindCurrentForEntryAndTemplate(ctx context.Context, entryID, templateID string) (*Payslip, error)
	ListForEmployee(ctx context.Context, employeeID string) ([]Payslip, error)
	ListCurrentForRun(ctx context.Context, runID string) ([]Payslip, error)
	UpdatePayslip(ctx context.Context, p *Payslip) error
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

func (r *repository) CreateTemplate(ctx context.Context, tpl *PayslipTemplate) error {
	return r.db.WithContext(ctx).Create(tpl).Error
}

func (r *repository) FindTemplateByCode(ctx context.Context, code string) (*PayslipTemplate, error) {
	var tpl PayslipTemplate
	err := r.db.WithContext(ctx).First(&tpl, "code = ?", code).Error
	return &tpl, err
}

func (r *repository) FindTemplateByID(ctx context.Context, id string) (*PayslipTemplate, error) {
	var tpl PayslipTemplate
	err := r.db.WithContext(ctx).First(&tpl, "id = ?", id).Error
	return &tpl, err
}

func (r *repository) ListTemplates(ctx context.Context) ([]PayslipTemplate, error) {
	var templates []PayslipTemplate
	err := r.db.WithContext(ctx).
		Order("code ASC").
		Find(&templates).Error
	return templates, err
}

func (r *repository) CreatePayslip(ctx context.Context, p *Payslip) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindPayslipByID(ctx context.Context, id string) (*Payslip, error) {
	var p Payslip
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) FindCurrentForEntryAndTemplate(ctx context.Context, entryID, templateID string) (*Payslip, error) {
	var p Payslip
	err := r.db.WithContext(ctx).
		Where("entry_id = ? AND template_id = ? AND superseded = ?", entryID, templateID, false).
		Order("version DESC").
		First(&p).Error
	return &p, err
}

func (r *repository) ListForEmployee(ctx context.Context, employeeID string) ([]Payslip, error) {
	var payslips []Payslip
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&payslips).Error
	return payslips, err
}

func (r *repository) ListCurrentForRun(ctx context.Context, runID string) ([]Payslip, error) {
	var payslips []Payslip
	err := r.db.WithContext(ctx).
		Where("run_id = ? AND superseded = ?", runID, false).
		Order("payslip_number ASC").
		Find(&payslips).Error
	return payslips, err
}

func (r *repository) UpdatePayslip(ctx context.Context, p *Payslip) error {
	return r.db.WithContext(ctx).Save(p).Error
}
