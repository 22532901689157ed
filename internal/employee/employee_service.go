package employee

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/salary"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Deactivate(ctx context.Context, id string) error

	// ListActiveProfiles feeds the payroll run processor: the snapshot of
	// every active employee's pay parameters. Profile serves single
	// lookups for breakdown previews.
	ListActiveProfiles(ctx context.Context) ([]salary.EmployeeProfile, error)
	Profile(ctx context.Context, employeeID string) (salary.EmployeeProfile, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counterRepo counter.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{db: db, repo: repo, counter: counterRepo, logger: l}
}

func (s *service) Create(
	ctx context.Context,
	req CreateEmployeeRequest,
) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("department", req.Department),
	)

	if err := validateSalaryFields(req.BasicSalary, req.HourlyRate); err != nil {
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	number := req.EmployeeNumber
	if number == "" {
		nextVal, err := s.counter.GetNextValue(ctx, "employee_number")
		if err != nil {
			s.logger.Error("generate employee number failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		number = fmt.Sprintf("EMP-%04d", nextVal)
	}

	emp := &Employee{
		ID:             uuid.New(),
		EmployeeNumber: number,
		FullName:       req.FullName,
		Department:     req.Department,
		Position:       req.Position,
		BasicSalary:    req.BasicSalary,
		HourlyRate:     req.HourlyRate,
		IsActive:       true,
	}

	if err := qtx.Create(ctx, emp); err != nil {
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, err
	}

	return mapToResponse(*emp), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	employees, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	return mapToListResponse(employees), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	emp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
	}

	return mapToResponse(*emp), nil
}

func (s *service) Update(
	ctx context.Context,
	id string,
	req UpdateEmployeeRequest,
) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	if err := validateSalaryFields(req.BasicSalary, req.HourlyRate); err != nil {
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	emp, err := qtx.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
	}

	emp.FullName = req.FullName
	emp.Department = req.Department
	emp.Position = req.Position
	emp.BasicSalary = req.BasicSalary
	emp.HourlyRate = req.HourlyRate
	if req.IsActive != nil {
		emp.IsActive = *req.IsActive
	}
	emp.UpdatedAt = time.Now().UTC()

	if err := qtx.Update(ctx, emp); err != nil {
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, err
	}

	return mapToResponse(*emp), nil
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	emp, err := qtx.FindByID(ctx, id)
	if err != nil {
		return employeeerrors.ErrEmployeeNotFound
	}

	emp.IsActive = false
	if err := qtx.Update(ctx, emp); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *service) ListActiveProfiles(ctx context.Context) ([]salary.EmployeeProfile, error) {
	employees, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	profiles := make([]salary.EmployeeProfile, len(employees))
	for i, emp := range employees {
		profiles[i] = salary.EmployeeProfile{
			EmployeeID:  emp.ID,
			BasicSalary: emp.BasicSalary,
			HourlyRate:  emp.HourlyRate,
		}
	}
	return profiles, nil
}

func (s *service) Profile(ctx context.Context, employeeID string) (salary.EmployeeProfile, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return salary.EmployeeProfile{}, employeeerrors.ErrInvalidEmployeeID
	}

	emp, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		return salary.EmployeeProfile{}, employeeerrors.ErrEmployeeNotFound
	}

	return salary.EmployeeProfile{
		EmployeeID:  emp.ID,
		BasicSalary: emp.BasicSalary,
		HourlyRate:  emp.HourlyRate,
	}, nil
}

func validateSalaryFields(basic decimal.Decimal, hourly *decimal.Decimal) error {
	if !basic.IsPositive() {
		return employeeerrors.ErrInvalidBasicSalary
	}
	if hourly != nil && !hourly.IsPositive() {
		return employeeerrors.ErrInvalidHourlyRate
	}
	return nil
}

func mapToResponse(emp Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             emp.ID.String(),
		EmployeeNumber: emp.EmployeeNumber,
		FullName:       emp.FullName,
		Department:     emp.Department,
		Position:       emp.Position,
		BasicSalary:    emp.BasicSalary.StringFixed(2),
		IsActive:       emp.IsActive,
	}

	if emp.HourlyRate != nil {
		v := emp.HourlyRate.StringFixed(2)
		resp.HourlyRate = &v
	}

	return resp
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(employees))
	for i, emp := range employees {
		resp[i] = mapToResponse(emp)
	}
	return resp
}
