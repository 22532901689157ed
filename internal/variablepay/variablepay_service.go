package variablepay

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/salary"
	variablepayerrors "go-payroll/internal/variablepay/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var allowedMultipliers = []decimal.Decimal{
	decimal.RequireFromString("1.5"),
	decimal.RequireFromString("2.0"),
	decimal.RequireFromString("2.5"),
}

//go:generate mockgen -source=variablepay_service.go -destination=mock/variablepay_service_mock.go -package=mock
type Service interface {
	SubmitOvertime(ctx context.Context, req SubmitOvertimeRequest) (OvertimeResponse, error)
	ApproveOvertime(ctx context.Context, id string) (OvertimeResponse, error)
	SubmitBonus(ctx context.Context, req SubmitBonusRequest) (EarningResponse, error)
	SubmitCommission(ctx context.Context, req SubmitCommissionRequest) (EarningResponse, error)
	SubmitDeduction(ctx context.Context, req SubmitDeductionRequest) (DeductionResponse, error)
	CancelDeduction(ctx context.Context, id string) (DeductionResponse, error)

	// InputsForPeriod assembles the variable components the calculator
	// consumes for one employee over a pay period.
	InputsForPeriod(ctx context.Context, employeeID string, start, end time.Time) (salary.Inputs, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("variablepay.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("variablepay.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) SubmitOvertime(ctx context.Context, req SubmitOvertimeRequest) (OvertimeResponse, error) {
	if _, err := uuid.Parse(req.EmployeeID); err != nil {
		return OvertimeResponse{}, variablepayerrors.ErrInvalidEmployeeID
	}
	day, err := parseDate(req.Date)
	if err != nil {
		return OvertimeResponse{}, err
	}
	if !req.Hours.IsPositive() {
		return OvertimeResponse{}, variablepayerrors.ErrInvalidHours
	}
	if !isAllowedMultiplier(req.Multiplier) {
		return OvertimeResponse{}, variablepayerrors.ErrInvalidMultiplier
	}

	rec := &OvertimeRecord{
		ID:         uuid.New(),
		EmployeeID: uuid.MustParse(req.EmployeeID),
		Date:       day,
		Hours:      req.Hours,
		Multiplier: req.Multiplier,
	}
	if err := s.repo.CreateOvertime(ctx, rec); err != nil {
		return OvertimeResponse{}, err
	}

	return mapOvertime(*rec), nil
}

func (s *service) ApproveOvertime(ctx context.Context, id string) (OvertimeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return OvertimeResponse{}, variablepayerrors.ErrOvertimeNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return OvertimeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rec, err := qtx.FindOvertimeByID(ctx, id)
	if err != nil {
		return OvertimeResponse{}, variablepayerrors.ErrOvertimeNotFound
	}

	if !rec.Approved {
		now := time.Now().UTC()
		rec.Approved = true
		rec.ApprovedAt = &now
		if err := qtx.UpdateOvertime(ctx, rec); err != nil {
			return OvertimeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return OvertimeResponse{}, err
	}

	return mapOvertime(*rec), nil
}

func (s *service) SubmitBonus(ctx context.Context, req SubmitBonusRequest) (EarningResponse, error) {
	if _, err := uuid.Parse(req.EmployeeID); err != nil {
		return EarningResponse{}, variablepayerrors.ErrInvalidEmployeeID
	}
	day, err := parseDate(req.Date)
	if err != nil {
		return EarningResponse{}, err
	}
	if !req.Amount.IsPositive() {
		return EarningResponse{}, variablepayerrors.ErrInvalidAmount
	}
	if req.Category == "" {
		return EarningResponse{}, variablepayerrors.ErrMissingCategory
	}

	b := &Bonus{
		ID:          uuid.New(),
		EmployeeID:  uuid.MustParse(req.EmployeeID),
		Date:        day,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
	}
	if err := s.repo.CreateBonus(ctx, b); err != nil {
		return EarningResponse{}, err
	}

	return EarningResponse{
		ID:          b.ID.String(),
		EmployeeID:  b.EmployeeID.String(),
		Date:        b.Date.Format("2006-01-02"),
		Amount:      b.Amount.String(),
		Category:    b.Category,
		Description: b.Description,
	}, nil
}

func (s *service) SubmitCommission(ctx context.Context, req SubmitCommissionRequest) (EarningResponse, error) {
	if _, err := uuid.Parse(req.EmployeeID); err != nil {
		return EarningResponse{}, variablepayerrors.ErrInvalidEmployeeID
	}
	day, err := parseDate(req.Date)
	if err != nil {
		return EarningResponse{}, err
	}
	if !req.Amount.IsPositive() {
		return EarningResponse{}, variablepayerrors.ErrInvalidAmount
	}

	cm := &Commission{
		ID:          uuid.New(),
		EmployeeID:  uuid.MustParse(req.EmployeeID),
		Date:        day,
		Amount:      req.Amount,
		Description: req.Description,
	}
	if err := s.repo.CreateCommission(ctx, cm); err != nil {
		return EarningResponse{}, err
	}

	return EarningResponse{
		ID:          cm.ID.String(),
		EmployeeID:  cm.EmployeeID.String(),
		Date:        cm.Date.Format("2006-01-02"),
		Amount:      cm.Amount.String(),
		Description: cm.Description,
	}, nil
}

func (s *service) SubmitDeduction(ctx context.Context, req SubmitDeductionRequest) (DeductionResponse, error) {
	if _, err := uuid.Parse(req.EmployeeID); err != nil {
		return DeductionResponse{}, variablepayerrors.ErrInvalidEmployeeID
	}
	if req.Category == "" {
		return DeductionResponse{}, variablepayerrors.ErrMissingCategory
	}
	if (req.Amount == nil) == (req.Percentage == nil) {
		return DeductionResponse{}, variablepayerrors.ErrAmountOrPercentage
	}
	if req.Amount != nil && !req.Amount.IsPositive() {
		return DeductionResponse{}, variablepayerrors.ErrInvalidAmount
	}
	if req.Percentage != nil &&
		(!req.Percentage.IsPositive() || req.Percentage.GreaterThan(decimal.NewFromInt(100))) {
		return DeductionResponse{}, variablepayerrors.ErrInvalidPercentage
	}

	d := &Deduction{
		ID:          uuid.New(),
		EmployeeID:  uuid.MustParse(req.EmployeeID),
		Category:    req.Category,
		Amount:      req.Amount,
		Percentage:  req.Percentage,
		Mandatory:   req.Mandatory,
		Description: req.Description,
		IsActive:    true,
	}
	if err := s.repo.CreateDeduction(ctx, d); err != nil {
		return DeductionResponse{}, err
	}

	return mapDeduction(*d), nil
}

func (s *service) CancelDeduction(ctx context.Context, id string) (DeductionResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DeductionResponse{}, variablepayerrors.ErrDeductionNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DeductionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	d, err := qtx.FindDeductionByID(ctx, id)
	if err != nil {
		return DeductionResponse{}, variablepayerrors.ErrDeductionNotFound
	}

	if d.IsActive {
		d.IsActive = false
		if err := qtx.UpdateDeduction(ctx, d); err != nil {
			return DeductionResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return DeductionResponse{}, err
	}

	return mapDeduction(*d), nil
}

func (s *service) InputsForPeriod(ctx context.Context, employeeID string, start, end time.Time) (salary.Inputs, error) {
	var inputs salary.Inputs

	overtime, err := s.repo.ListApprovedOvertime(ctx, employeeID, start, end)
	if err != nil {
		return salary.Inputs{}, err
	}
	for _, rec := range overtime {
		inputs.Overtime = append(inputs.Overtime, rec.Input())
	}

	bonuses, err := s.repo.ListBonuses(ctx, employeeID, start, end)
	if err != nil {
		return salary.Inputs{}, err
	}
	for _, b := range bonuses {
		inputs.Bonuses = append(inputs.Bonuses, b.Input())
	}

	commissions, err := s.repo.ListCommissions(ctx, employeeID, start, end)
	if err != nil {
		return salary.Inputs{}, err
	}
	for _, cm := range commissions {
		inputs.Commissions = append(inputs.Commissions, cm.Input())
	}

	deductions, err := s.repo.ListActiveDeductions(ctx, employeeID)
	if err != nil {
		return salary.Inputs{}, err
	}
	for _, d := range deductions {
		inputs.Deductions = append(inputs.Deductions, d.Input())
	}

	return inputs, nil
}

func isAllowedMultiplier(m decimal.Decimal) bool {
	for _, allowed := range allowedMultipliers {
		if m.Equal(allowed) {
			return true
		}
	}
	return false
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, variablepayerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapOvertime(rec OvertimeRecord) OvertimeResponse {
	resp := OvertimeResponse{
		ID:         rec.ID.String(),
		EmployeeID: rec.EmployeeID.String(),
		Date:       rec.Date.Format("2006-01-02"),
		Hours:      rec.Hours.String(),
		Multiplier: rec.Multiplier.String(),
		Approved:   rec.Approved,
	}
	if rec.ApprovedAt != nil {
		v := rec.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}

func mapDeduction(d Deduction) DeductionResponse {
	resp := DeductionResponse{
		ID:          d.ID.String(),
		EmployeeID:  d.EmployeeID.String(),
		Category:    d.Category,
		Mandatory:   d.Mandatory,
		Description: d.Description,
		IsActive:    d.IsActive,
	}
	if d.Amount != nil {
		v := d.Amount.String()
		resp.Amount = &v
	}
	if d.Percentage != nil {
		v := d.Percentage.String()
		resp.Percentage = &v
	}
	return resp
}
