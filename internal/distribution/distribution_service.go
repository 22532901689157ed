package distribution

import (
	"context"
	"database/sql"
	"time"

	distributionerrors "go-payroll/internal/distribution/errors"
	"go-payroll/internal/payslip"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers     = 4
	defaultItemTimeout = 10 * time.Second
)

// PayslipDirectory supplies the run's current, non-superseded payslips.
type PayslipDirectory interface {
	ListCurrentForRun(ctx context.Context, runID string) ([]payslip.PayslipResponse, error)
}

//go:generate mockgen -source=distribution_service.go -destination=mock/distribution_service_mock.go -package=mock
type Service interface {
	// Distribute dispatches every current payslip of a run over the
	// requested channels. Re-running it opens a fresh batch, so failed or
	// partial batches can simply be sent again.
	Distribute(ctx context.Context, req DistributeRequest) (DistributionResponse, error)
	GetByID(ctx context.Context, id string) (DistributionDetailResponse, error)
	ListForRun(ctx context.Context, runID string) ([]DistributionResponse, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	payslips    PayslipDirectory
	dispatchers map[string]Dispatcher
	limiter     *rate.Limiter
	workers     int
	itemTimeout time.Duration
	logger      *zap.Logger
}

type Option func(*service)

func WithLogger(logger *zap.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger.Named("distribution.service")
		}
	}
}

func WithWorkers(n int) Option {
	return func(s *service) {
		if n > 0 {
			s.workers = n
		}
	}
}

func WithItemTimeout(d time.Duration) Option {
	return func(s *service) {
		if d > 0 {
			s.itemTimeout = d
		}
	}
}

func WithRateLimiter(l *rate.Limiter) Option {
	return func(s *service) {
		if l != nil {
			s.limiter = l
		}
	}
}

func NewService(
	db *sql.DB,
	repo Repository,
	payslips PayslipDirectory,
	dispatchers []Dispatcher,
	opts ...Option,
) Service {
	byChannel := make(map[string]Dispatcher, len(dispatchers))
	for _, d := range dispatchers {
		byChannel[d.Channel()] = d
	}

	s := &service{
		db:          db,
		repo:        repo,
		payslips:    payslips,
		dispatchers: byChannel,
		// Pace dispatches so a large hospital run does not flood the mail
		// transport or the portal store.
		limiter:     rate.NewLimiter(rate.Limit(50), 50),
		workers:     defaultWorkers,
		itemTimeout: defaultItemTimeout,
		logger:      zap.L().Named("distribution.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) channelsFor(method string) ([]Dispatcher, error) {
	var channels []string
	switch method {
	case MethodEmail:
		channels = []string{MethodEmail}
	case MethodPortal:
		channels = []string{MethodPortal}
	case MethodBoth:
		channels = []string{MethodEmail, MethodPortal}
	default:
		return nil, distributionerrors.ErrInvalidMethod
	}

	dispatchers := make([]Dispatcher, 0, len(channels))
	for _, ch := range channels {
		d, ok := s.dispatchers[ch]
		if !ok {
			return nil, distributionerrors.ErrInvalidMethod
		}
		dispatchers = append(dispatchers, d)
	}
	return dispatchers, nil
}

type dispatchResult struct {
	payslipID uuid.UUID
	channel   string
	err       error
	attempted bool
}

func (s *service) Distribute(ctx context.Context, req DistributeRequest) (DistributionResponse, error) {
	if _, err := uuid.Parse(req.RunID); err != nil {
		return DistributionResponse{}, distributionerrors.ErrInvalidRunID
	}

	dispatchers, err := s.channelsFor(req.Method)
	if err != nil {
		return DistributionResponse{}, err
	}

	slips, err := s.payslips.ListCurrentForRun(ctx, req.RunID)
	if err != nil {
		return DistributionResponse{}, err
	}
	if len(slips) == 0 {
		return DistributionResponse{}, distributionerrors.ErrNoPayslips
	}

	dist := &PayslipDistribution{
		ID:     uuid.New(),
		RunID:  uuid.MustParse(req.RunID),
		Method: req.Method,
		Status: StatusInProgress,
		Total:  len(slips) * len(dispatchers),
	}
	if err := s.repo.CreateDistribution(ctx, dist); err != nil {
		return DistributionResponse{}, err
	}

	rid := contextutil.GetRequestID(ctx)
	s.logger.Info("distribution started",
		zap.String("request_id", rid),
		zap.String("distribution_id", dist.ID.String()),
		zap.String("method", req.Method),
		zap.Int("total", dist.Total),
	)

	results := make([]dispatchResult, dist.Total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	idx := 0
scheduling:
	for _, slip := range slips {
		for _, dispatcher := range dispatchers {
			if gctx.Err() != nil {
				break scheduling
			}
			i := idx
			dispatcher, slip := dispatcher, slip
			g.Go(func() error {
				results[i] = s.dispatchOne(gctx, dist.ID.String(), dispatcher, slip)
				return nil
			})
			idx++
		}
	}
	_ = g.Wait()

	items, sent, failed := buildItems(dist.ID, results)

	tx, err := s.db.BeginTx(context.WithoutCancel(ctx), nil)
	if err != nil {
		return DistributionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.CreateItems(context.WithoutCancel(ctx), items); err != nil {
		return DistributionResponse{}, err
	}

	dist.Sent = sent
	dist.Failed = failed
	dist.Status = outcomeStatus(dist.Total, sent, failed)
	now := time.Now().UTC()
	dist.CompletedAt = &now

	if err := qtx.UpdateDistribution(context.WithoutCancel(ctx), dist); err != nil {
		return DistributionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return DistributionResponse{}, err
	}

	s.logger.Info("distribution finished",
		zap.String("request_id", rid),
		zap.String("distribution_id", dist.ID.String()),
		zap.String("status", dist.Status),
		zap.Int("sent", sent),
		zap.Int("failed", failed),
	)

	return mapDistribution(*dist), nil
}

// dispatchOne delivers a single item under its own deadline. A timeout
// or dispatcher error fails this item only.
func (s *service) dispatchOne(ctx context.Context, distributionID string, dispatcher Dispatcher, slip payslip.PayslipResponse) dispatchResult {
	res := dispatchResult{
		payslipID: uuid.MustParse(slip.ID),
		channel:   dispatcher.Channel(),
		attempted: true,
	}

	if err := s.limiter.Wait(ctx); err != nil {
		res.err = err
		return res
	}

	itemCtx, cancel := context.WithTimeout(ctx, s.itemTimeout)
	defer cancel()

	if err := dispatcher.Dispatch(itemCtx, distributionID, slip); err != nil {
		s.logger.Warn("payslip dispatch failed",
			zap.String("payslip_id", slip.ID),
			zap.String("channel", dispatcher.Channel()),
			zap.Error(err),
		)
		res.err = err
	}
	return res
}

func buildItems(distributionID uuid.UUID, results []dispatchResult) (items []DistributionItem, sent, failed int) {
	items = make([]DistributionItem, 0, len(results))
	for _, res := range results {
		if !res.attempted {
			// Never scheduled before cancellation; not counted either way.
			continue
		}

		item := DistributionItem{
			ID:             uuid.New(),
			DistributionID: distributionID,
			PayslipID:      res.payslipID,
			Channel:        res.channel,
		}
		if res.err != nil {
			item.Status = ItemStatusFailed
			item.ErrorMessage = res.err.Error()
			failed++
		} else {
			item.Status = ItemStatusSent
			sent++
		}
		items = append(items, item)
	}
	return items, sent, failed
}

// outcomeStatus closes the batch as completed once every member item
// holds a terminal outcome, sent or failed alike. Partial marks a
// summary issued before all outcomes were known, such as a cancelled
// batch with unattempted items.
func outcomeStatus(total, sent, failed int) string {
	if sent+failed < total {
		return StatusPartial
	}
	return StatusCompleted
}

func (s *service) GetByID(ctx context.Context, id string) (DistributionDetailResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DistributionDetailResponse{}, distributionerrors.ErrDistributionNotFound
	}

	dist, err := s.repo.FindDistributionByID(ctx, id)
	if err != nil {
		return DistributionDetailResponse{}, distributionerrors.ErrDistributionNotFound
	}

	items, err := s.repo.ListItems(ctx, id)
	if err != nil {
		return DistributionDetailResponse{}, err
	}

	detail := DistributionDetailResponse{DistributionResponse: mapDistribution(*dist)}
	detail.Items = make([]DistributionItemResponse, len(items))
	for i, item := range items {
		detail.Items[i] = DistributionItemResponse{
			ID:           item.ID.String(),
			PayslipID:    item.PayslipID.String(),
			Channel:      item.Channel,
			Status:       item.Status,
			ErrorMessage: item.ErrorMessage,
		}
	}
	return detail, nil
}

func (s *service) ListForRun(ctx context.Context, runID string) ([]DistributionResponse, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return nil, distributionerrors.ErrInvalidRunID
	}

	distributions, err := s.repo.ListForRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	resp := make([]DistributionResponse, len(distributions))
	for i, dist := range distributions {
		resp[i] = mapDistribution(dist)
	}
	return resp, nil
}

func mapDistribution(d PayslipDistribution) DistributionResponse {
	resp := DistributionResponse{
		ID:     d.ID.String(),
		RunID:  d.RunID.String(),
		Method: d.Method,
		Status: d.Status,
		Total:  d.Total,
		Sent:   d.Sent,
		Failed: d.Failed,
	}
	if d.CompletedAt != nil {
		v := d.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &v
	}
	return resp
}
