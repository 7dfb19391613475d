package taxrate

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"kazini-payroll/internal/payrollcalc"
	"kazini-payroll/internal/shared/contextutil"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const CurrentRateSetKey = "tax_rates:current"

//go:generate mockgen -source=taxrate_service.go -destination=mock/taxrate_service_mock.go -package=mock
type Service interface {
	GetCurrent(ctx context.Context) (TaxRateSetResponse, error)
	CurrentRateSet(ctx context.Context) (payrollcalc.RateSet, error)
	RateSetAt(ctx context.Context, at time.Time) (payrollcalc.RateSet, error)
	List(ctx context.Context) ([]TaxRateSetResponse, error)
	Create(ctx context.Context, actorID string, req CreateTaxRateRequest) (TaxRateSetResponse, error)
	InvalidateCache(ctx context.Context) error
	Seed(ctx context.Context, sets []CreateTaxRateRequest) (int, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	rdb      *redis.Client
	cacheTTL time.Duration
	sf       *singleflight.Group
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, cacheTTL time.Duration, logger ...*zap.Logger) Service {
	l := zap.L().Named("taxrate.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("taxrate.service")
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}
	return &service{
		db:       db,
		repo:     repo,
		rdb:      rdb,
		cacheTTL: cacheTTL,
		sf:       &singleflight.Group{},
		now:      time.Now,
		logger:   l,
	}
}

// GetCurrent serves the rate set in effect, from Redis when possible.
// Concurrent misses share one database read.
func (s *service) GetCurrent(ctx context.Context) (TaxRateSetResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, CurrentRateSetKey).Result(); err == nil {
			var resp TaxRateSetResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(CurrentRateSetKey, func() (any, error) {
		set, err := s.repo.FindCurrent(ctx, s.now())
		if err != nil {
			return nil, mapRepositoryError(err)
		}
		resp := mapToResponse(*set)

		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, CurrentRateSetKey, data, s.cacheTTL).Err(); err != nil {
					s.logger.Warn("cache current tax rates failed", zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		s.logger.Error("load current tax rates failed", zap.Error(err))
		return TaxRateSetResponse{}, err
	}

	return v.(TaxRateSetResponse), nil
}

func (s *service) CurrentRateSet(ctx context.Context) (payrollcalc.RateSet, error) {
	resp, err := s.GetCurrent(ctx)
	if err != nil {
		return payrollcalc.RateSet{}, err
	}
	return resp.ToEngine(), nil
}

// RateSetAt returns the rate set in effect on at. Dates the current set
// covers are served through the cache; earlier dates read the history.
func (s *service) RateSetAt(ctx context.Context, at time.Time) (payrollcalc.RateSet, error) {
	current, err := s.GetCurrent(ctx)
	if err != nil {
		return payrollcalc.RateSet{}, err
	}
	if from, err := time.Parse(dateLayout, current.EffectiveFrom); err == nil && !at.Before(from) {
		return current.ToEngine(), nil
	}

	set, err := s.repo.FindCurrent(ctx, at)
	if err != nil {
		return payrollcalc.RateSet{}, mapRepositoryError(err)
	}
	return mapToResponse(*set).ToEngine(), nil
}

func (s *service) List(ctx context.Context) ([]TaxRateSetResponse, error) {
	sets, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("list tax rates failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(sets), nil
}

// Create stores a new version for the tax year and makes it the active one.
func (s *service) Create(ctx context.Context, actorID string, req CreateTaxRateRequest) (TaxRateSetResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	effectiveFrom, err := validateRequest(req)
	if err != nil {
		log.Warn("create tax rates rejected", zap.Int("tax_year", req.TaxYear), zap.Error(err))
		return TaxRateSetResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create tax rates begin tx failed", zap.Error(err))
		return TaxRateSetResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	version, err := qtx.NextVersion(ctx, req.TaxYear)
	if err != nil {
		log.Error("create tax rates next version failed", zap.Error(err))
		return TaxRateSetResponse{}, err
	}
	if err := qtx.DeactivateYear(ctx, req.TaxYear); err != nil {
		log.Error("create tax rates deactivate previous failed", zap.Error(err))
		return TaxRateSetResponse{}, err
	}

	set := toEntity(req, effectiveFrom, version, actorID)
	if err := qtx.Create(ctx, set); err != nil {
		log.Error("create tax rates persist failed", zap.Error(err))
		return TaxRateSetResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("create tax rates commit failed", zap.Error(err))
		return TaxRateSetResponse{}, err
	}

	if err := s.InvalidateCache(ctx); err != nil {
		log.Error("invalidate tax rate cache failed", zap.Error(err))
	}

	log.Info("tax rate set created",
		zap.Int("tax_year", set.TaxYear),
		zap.Int("version", set.Version),
	)
	return mapToResponse(*set), nil
}

func (s *service) InvalidateCache(ctx context.Context) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, CurrentRateSetKey).Err()
}

// Seed creates the given sets only when no rate set exists yet.
func (s *service) Seed(ctx context.Context, sets []CreateTaxRateRequest) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Debug("tax rates already present, skipping seed", zap.Int64("count", n))
		return 0, nil
	}

	created := 0
	for _, req := range sets {
		if _, err := s.Create(ctx, "", req); err != nil {
			return created, err
		}
		created++
	}
	s.logger.Info("tax rates seeded", zap.Int("count", created))
	return created, nil
}
