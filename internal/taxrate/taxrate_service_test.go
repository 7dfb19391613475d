package taxrate_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"kazini-payroll/internal/payrollcalc"
	"kazini-payroll/internal/taxrate"
	taxrateerrors "kazini-payroll/internal/taxrate/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	findCurrentFn    func(ctx context.Context, at time.Time) (*taxrate.TaxRateSet, error)
	findAllFn        func(ctx context.Context) ([]taxrate.TaxRateSet, error)
	countFn          func(ctx context.Context) (int64, error)
	nextVersionFn    func(ctx context.Context, taxYear int) (int, error)
	deactivateYearFn func(ctx context.Context, taxYear int) error
	createFn         func(ctx context.Context, set *taxrate.TaxRateSet) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) taxrate.Repository { return f }

func (f *fakeRepo) FindCurrent(ctx context.Context, at time.Time) (*taxrate.TaxRateSet, error) {
	return f.findCurrentFn(ctx, at)
}

func (f *fakeRepo) FindAll(ctx context.Context) ([]taxrate.TaxRateSet, error) {
	return f.findAllFn(ctx)
}

func (f *fakeRepo) Count(ctx context.Context) (int64, error) { return f.countFn(ctx) }

func (f *fakeRepo) NextVersion(ctx context.Context, taxYear int) (int, error) {
	return f.nextVersionFn(ctx, taxYear)
}

func (f *fakeRepo) DeactivateYear(ctx context.Context, taxYear int) error {
	return f.deactivateYearFn(ctx, taxYear)
}

func (f *fakeRepo) Create(ctx context.Context, set *taxrate.TaxRateSet) error {
	return f.createFn(ctx, set)
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func storedSet() *taxrate.TaxRateSet {
	id := uuid.New()
	top := int64(2400000)
	return &taxrate.TaxRateSet{
		ID:                             id,
		TaxYear:                        2024,
		Version:                        3,
		EffectiveFrom:                  time.Date(2024, 12, 27, 0, 0, 0, 0, time.UTC),
		IsActive:                       true,
		PersonalRelief:                 240000,
		HealthScheme:                   "SHIF",
		HealthRatePercent:              decimal.RequireFromString("2.75"),
		HealthFloor:                    30000,
		NSSFTier1RatePercent:           decimal.NewFromInt(6),
		NSSFTier1Limit:                 700000,
		NSSFTier2RatePercent:           decimal.NewFromInt(6),
		NSSFTier2Limit:                 3600000,
		HousingLevyEmployeeRatePercent: decimal.RequireFromString("1.5"),
		HousingLevyEmployerRatePercent: decimal.RequireFromString("1.5"),
		Bands: []taxrate.TaxBand{
			{RateSetID: id, Position: 0, MinIncome: 0, MaxIncome: &top, RatePercent: decimal.NewFromInt(10)},
			{RateSetID: id, Position: 1, MinIncome: top, RatePercent: decimal.NewFromInt(25)},
		},
	}
}

func TestTaxRateService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success - new version becomes active", func(t *testing.T) {
		db, mock, _ := sqlmock.New()
		defer db.Close()
		rdb, redisMock := redismock.NewClientMock()

		deactivated := false
		repo := &fakeRepo{
			nextVersionFn: func(ctx context.Context, taxYear int) (int, error) {
				assert.Equal(t, 2024, taxYear)
				return 3, nil
			},
			deactivateYearFn: func(ctx context.Context, taxYear int) error {
				deactivated = true
				return nil
			},
			createFn: func(ctx context.Context, set *taxrate.TaxRateSet) error {
				assert.True(t, set.IsActive)
				assert.Equal(t, 3, set.Version)
				assert.Len(t, set.Bands, 5)
				assert.Nil(t, set.Bands[4].MaxIncome)
				assert.Equal(t, set.ID, set.Bands[0].RateSetID)
				assert.Equal(t, "admin-1", *set.CreatedBy)
				return nil
			},
		}
		svc := taxrate.NewService(db, repo, rdb, time.Hour)

		expectTx(t, mock, true)
		redisMock.ExpectDel(taxrate.CurrentRateSetKey).SetVal(1)

		resp, err := svc.Create(ctx, "admin-1", taxrate.CreateTaxRateRequest{
			TaxYear:       2024,
			EffectiveFrom: "2024-12-27",
			RateTables:    kenyaTables(),
		})

		assert.NoError(t, err)
		assert.True(t, deactivated)
		assert.Equal(t, 3, resp.Version)
		assert.Equal(t, "2024-12-27", resp.EffectiveFrom)
		assert.Equal(t, 32.5, resp.Bands[3].RatePercent)
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("gap between bands is rejected before any write", func(t *testing.T) {
		db, mock, _ := sqlmock.New()
		defer db.Close()
		svc := taxrate.NewService(db, &fakeRepo{}, nil, time.Hour)

		tables := kenyaTables()
		tables.Bands[1].MinIncome = 2500000

		_, err := svc.Create(ctx, "admin-1", taxrate.CreateTaxRateRequest{TaxYear: 2024, EffectiveFrom: "2024-12-27", RateTables: tables})

		assert.ErrorIs(t, err, taxrateerrors.ErrInvalidRateSet)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("bad effective date", func(t *testing.T) {
		db, _, _ := sqlmock.New()
		defer db.Close()
		svc := taxrate.NewService(db, &fakeRepo{}, nil, time.Hour)

		_, err := svc.Create(ctx, "", taxrate.CreateTaxRateRequest{TaxYear: 2024, EffectiveFrom: "27/12/2024", RateTables: kenyaTables()})

		assert.ErrorIs(t, err, taxrateerrors.ErrInvalidEffectiveFrom)
	})

	t.Run("persist failure rolls back", func(t *testing.T) {
		db, mock, _ := sqlmock.New()
		defer db.Close()
		repo := &fakeRepo{
			nextVersionFn:    func(context.Context, int) (int, error) { return 1, nil },
			deactivateYearFn: func(context.Context, int) error { return nil },
			createFn:         func(context.Context, *taxrate.TaxRateSet) error { return errors.New("insert failed") },
		}
		svc := taxrate.NewService(db, repo, nil, time.Hour)

		expectTx(t, mock, false)

		_, err := svc.Create(ctx, "", taxrate.CreateTaxRateRequest{TaxYear: 2025, EffectiveFrom: "2025-01-01", RateTables: kenyaTables()})

		assert.EqualError(t, err, "insert failed")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTaxRateService_GetCurrent(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips the database", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		cached, _ := json.Marshal(taxrate.TaxRateSetResponse{TaxYear: 2024, Version: 7})
		redisMock.ExpectGet(taxrate.CurrentRateSetKey).SetVal(string(cached))

		repo := &fakeRepo{findCurrentFn: func(context.Context, time.Time) (*taxrate.TaxRateSet, error) {
			t.Fatal("repository must not be called on a cache hit")
			return nil, nil
		}}
		svc := taxrate.NewService(nil, repo, rdb, time.Hour)

		resp, err := svc.GetCurrent(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 7, resp.Version)
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		redisMock.ExpectGet(taxrate.CurrentRateSetKey).RedisNil()
		redisMock.Regexp().ExpectSet(taxrate.CurrentRateSetKey, `.*`, time.Hour).SetVal("OK")

		repo := &fakeRepo{findCurrentFn: func(context.Context, time.Time) (*taxrate.TaxRateSet, error) {
			return storedSet(), nil
		}}
		svc := taxrate.NewService(nil, repo, rdb, time.Hour)

		resp, err := svc.GetCurrent(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 2024, resp.TaxYear)
		assert.Len(t, resp.Bands, 2)
		assert.Equal(t, 2.75, resp.Health.RatePercent)
	})

	t.Run("nothing in effect", func(t *testing.T) {
		repo := &fakeRepo{findCurrentFn: func(context.Context, time.Time) (*taxrate.TaxRateSet, error) {
			return nil, gorm.ErrRecordNotFound
		}}
		svc := taxrate.NewService(nil, repo, nil, time.Hour)

		_, err := svc.GetCurrent(ctx)

		assert.ErrorIs(t, err, taxrateerrors.ErrNoActiveRateSet)
	})
}

func TestTaxRateService_CurrentRateSetDrivesTheEngine(t *testing.T) {
	resp := taxrate.TaxRateSetResponse{TaxYear: 2024, Version: 3, EffectiveFrom: "2024-12-27", RateTables: kenyaTables()}
	cached, _ := json.Marshal(resp)
	rdb, redisMock := redismock.NewClientMock()
	redisMock.ExpectGet(taxrate.CurrentRateSetKey).SetVal(string(cached))
	svc := taxrate.NewService(nil, &fakeRepo{}, rdb, time.Hour)

	rates, err := svc.CurrentRateSet(context.Background())
	assert.NoError(t, err)

	res, err := payrollcalc.Calculate(payrollcalc.PayrollInput{
		BasicSalary:        decimal.NewFromInt(125000),
		Allowances:         decimal.NewFromInt(8000),
		IncomePeriod:       payrollcalc.PeriodMonthly,
		IncludeNhif:        true,
		IncludeNssf:        true,
		IncludeHousingLevy: true,
		IsPensionable:      true,
		CalculationDate:    time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}, rates)

	assert.NoError(t, err)
	assert.Equal(t, "29939.60", res.Paye.StringFixed(2))
	assert.Equal(t, "95247.90", res.NetSalary.StringFixed(2))
	assert.Equal(t, 3, res.RateSetVersion)
}

func TestTaxRateService_RateSetAt(t *testing.T) {
	ctx := context.Background()
	current, _ := json.Marshal(taxrate.TaxRateSetResponse{TaxYear: 2024, Version: 3, EffectiveFrom: "2024-12-27", RateTables: kenyaTables()})

	t.Run("date covered by the current set uses the cache", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		redisMock.ExpectGet(taxrate.CurrentRateSetKey).SetVal(string(current))
		repo := &fakeRepo{findCurrentFn: func(context.Context, time.Time) (*taxrate.TaxRateSet, error) {
			t.Fatal("repository must not be called for a current date")
			return nil, nil
		}}
		svc := taxrate.NewService(nil, repo, rdb, time.Hour)

		rates, err := svc.RateSetAt(ctx, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC))

		assert.NoError(t, err)
		assert.Equal(t, 3, rates.Version)
	})

	t.Run("earlier date reads the set in force then", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		redisMock.ExpectGet(taxrate.CurrentRateSetKey).SetVal(string(current))
		at := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
		var asked time.Time
		repo := &fakeRepo{findCurrentFn: func(_ context.Context, when time.Time) (*taxrate.TaxRateSet, error) {
			asked = when
			old := storedSet()
			old.Version = 1
			old.EffectiveFrom = time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)
			return old, nil
		}}
		svc := taxrate.NewService(nil, repo, rdb, time.Hour)

		rates, err := svc.RateSetAt(ctx, at)

		assert.NoError(t, err)
		assert.Equal(t, at, asked)
		assert.Equal(t, 1, rates.Version)
	})

	t.Run("date before any set", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		redisMock.ExpectGet(taxrate.CurrentRateSetKey).SetVal(string(current))
		repo := &fakeRepo{findCurrentFn: func(context.Context, time.Time) (*taxrate.TaxRateSet, error) {
			return nil, gorm.ErrRecordNotFound
		}}
		svc := taxrate.NewService(nil, repo, rdb, time.Hour)

		_, err := svc.RateSetAt(ctx, time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC))

		assert.ErrorIs(t, err, taxrateerrors.ErrNoActiveRateSet)
	})
}

func TestTaxRateService_Seed(t *testing.T) {
	t.Run("skips when rates exist", func(t *testing.T) {
		repo := &fakeRepo{countFn: func(context.Context) (int64, error) { return 2, nil }}
		svc := taxrate.NewService(nil, repo, nil, time.Hour)

		n, err := svc.Seed(context.Background(), []taxrate.CreateTaxRateRequest{{TaxYear: 2024}})

		assert.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("creates every set on an empty table", func(t *testing.T) {
		db, mock, _ := sqlmock.New()
		defer db.Close()
		created := 0
		repo := &fakeRepo{
			countFn:          func(context.Context) (int64, error) { return 0, nil },
			nextVersionFn:    func(context.Context, int) (int, error) { return 1, nil },
			deactivateYearFn: func(context.Context, int) error { return nil },
			createFn: func(context.Context, *taxrate.TaxRateSet) error {
				created++
				return nil
			},
		}
		svc := taxrate.NewService(db, repo, nil, time.Hour)
		expectTx(t, mock, true)

		n, err := svc.Seed(context.Background(), []taxrate.CreateTaxRateRequest{
			{TaxYear: 2024, EffectiveFrom: "2024-12-27", RateTables: kenyaTables()},
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, 1, created)
	})
}
