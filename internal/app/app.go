package app

import (
	"context"
	"database/sql"
	"fmt"

	"kazini-payroll/internal/bankcode"
	"kazini-payroll/internal/company"
	"kazini-payroll/internal/messaging/kafka"
	"kazini-payroll/internal/messaging/kafka/consumer"
	"kazini-payroll/internal/payrollconfig"
	"kazini-payroll/internal/payrollcycle"
	"kazini-payroll/internal/payrollemployee"
	"kazini-payroll/internal/rbac"
	"kazini-payroll/internal/shared/config"
	"kazini-payroll/internal/shared/connection"
	"kazini-payroll/internal/shared/counter"
	"kazini-payroll/internal/taxrate"
	"kazini-payroll/internal/wallet"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BuildApp connects the backing stores, migrates and seeds them when asked,
// and mounts every module on router. The returned func releases the connections.
func BuildApp(ctx context.Context, router *gin.Engine, cfg config.Config) (func(), error) {
	logger := zap.L().Named("app")

	gormDB, sqlDB, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established", zap.String("host", cfg.Database.Host))

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.ConnectRetries)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	logger.Info("redis connection established", zap.String("addr", cfg.RedisAddr))

	cleanup := func() {
		_ = redisClient.Close()
		_ = sqlDB.Close()
	}

	if cfg.Database.AutoMigrate {
		if err := migrate(gormDB); err != nil {
			cleanup()
			return nil, err
		}
		logger.Info("schema migrated")
	}

	if err := registerModules(ctx, router, cfg, sqlDB, gormDB, redisClient); err != nil {
		cleanup()
		return nil, err
	}
	return cleanup, nil
}

func openDatabase(cfg config.Config) (*gorm.DB, *sql.DB, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, cfg.ConnectRetries)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, err
	}
	return gormDB, sqlDB, nil
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&company.Company{},
		&wallet.Wallet{},
		&wallet.WalletTransaction{},
		&wallet.WalletFundingRequest{},
		&payrollemployee.PayrollEmployee{},
		&payrollconfig.PayrollConfig{},
		&payrollcycle.PayrollCycle{},
		&payrollcycle.PayrollCycleItem{},
		&taxrate.TaxRateSet{},
		&taxrate.TaxBand{},
		&taxrate.NHIFBracket{},
		&bankcode.BankCode{},
		&rbac.UserRole{},
		&rbac.RolePermission{},
		&counter.CompanyCounter{},
		&kafka.OutboxEvent{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// cycleReports exposes only report generation of a payroll cycle service
// built without the wallet, rates or disbursement guard.
func cycleReports(cfg config.Config, sqlDB *sql.DB, gormDB *gorm.DB) consumer.ReportGenerator {
	svc := payrollcycle.NewService(
		payrollcycle.Deps{DB: sqlDB, Repo: payrollcycle.NewRepository(gormDB)},
		payrollcycle.Options{DisburseTimeout: cfg.DisburseTimeout, ReportDir: cfg.ReportDir},
	)
	return reportGenerator{svc: svc}
}

type reportGenerator struct {
	svc payrollcycle.Service
}

func (g reportGenerator) GenerateReport(ctx context.Context, companyID, cycleID string) (string, error) {
	return g.svc.GenerateReport(ctx, companyID, cycleID)
}

