package app

import (
	"context"
	"database/sql"
	"fmt"

	"kazini-payroll/internal/bankcode"
	"kazini-payroll/internal/calculator"
	"kazini-payroll/internal/company"
	"kazini-payroll/internal/forms"
	"kazini-payroll/internal/messaging/kafka"
	"kazini-payroll/internal/payrollconfig"
	"kazini-payroll/internal/payrollcycle"
	"kazini-payroll/internal/payrollemployee"
	"kazini-payroll/internal/rbac"
	"kazini-payroll/internal/rbac/infra"
	"kazini-payroll/internal/seed"
	"kazini-payroll/internal/shared/config"
	"kazini-payroll/internal/shared/counter"
	"kazini-payroll/internal/taxrate"
	"kazini-payroll/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	ctx context.Context,
	router *gin.Engine,
	cfg config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	registry, err := forms.NewRegistry()
	if err != nil {
		return fmt.Errorf("load form rules: %w", err)
	}

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	bankCodeRepo := bankcode.NewRepository(gormDB)
	companyRepo := company.NewRepository(gormDB)
	payrollConfigRepo := payrollconfig.NewRepository(gormDB)
	payrollCycleRepo := payrollcycle.NewRepository(gormDB)
	payrollEmployeeRepo := payrollemployee.NewRepository(gormDB)
	taxRateRepo := taxrate.NewRepository(gormDB)
	walletRepo := wallet.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(cfg.RBACModelPath)
	if err != nil {
		return fmt.Errorf("load rbac model: %w", err)
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)

	// --- Services ---
	bankCodeService := bankcode.NewService(bankCodeRepo, logger)
	taxRateService := taxrate.NewService(db, taxRateRepo, rdb, cfg.TaxRateCacheTTL, logger)
	formsService := forms.NewService(registry, logger)
	calculatorService := calculator.NewService(taxRateService, logger)
	walletService := wallet.NewService(db, walletRepo, counterRepo, outboxRepo, registry, logger)
	companyService := company.NewService(db, companyRepo, walletService, rbacRepo, registry, logger)
	payrollConfigService := payrollconfig.NewService(payrollConfigRepo, registry, cfg.ServiceFeeRateBps, logger)
	payrollEmployeeService := payrollemployee.NewService(db, payrollEmployeeRepo, bankCodeService, registry, logger)
	payrollCycleService := payrollcycle.NewService(
		payrollcycle.Deps{
			DB:        db,
			Repo:      payrollCycleRepo,
			Employees: payrollEmployeeRepo,
			Rates:     taxRateService,
			Configs:   payrollConfigService,
			Counters:  counterRepo,
			Outbox:    outboxRepo,
			Wallet:    walletService,
			Guard:     payrollcycle.NewRedisGuard(rdb, cfg.DisburseLockTTL),
		},
		payrollcycle.Options{DisburseTimeout: cfg.DisburseTimeout, ReportDir: cfg.ReportDir},
		logger,
	)

	// --- Reference data ---
	if err := rbacService.SeedPermissions(ctx); err != nil {
		return fmt.Errorf("seed permissions: %w", err)
	}
	seedFile, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return err
	}
	if err := seed.Apply(ctx, seedFile, taxRateService, bankCodeService, logger); err != nil {
		return err
	}

	// --- Handlers ---
	bankCodeHandler := bankcode.NewHandler(bankCodeService)
	calculatorHandler := calculator.NewHandler(calculatorService)
	companyHandler := company.NewHandler(companyService)
	formsHandler := forms.NewHandler(formsService)
	payrollConfigHandler := payrollconfig.NewHandler(payrollConfigService)
	payrollCycleHandler := payrollcycle.NewHandler(payrollCycleService)
	payrollEmployeeHandler := payrollemployee.NewHandler(payrollEmployeeService)
	rbacHandler := rbac.NewHandler(rbacService)
	taxRateHandler := taxrate.NewHandler(taxRateService)
	walletHandler := wallet.NewHandler(walletService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		bankcode.RegisterRoutes(api, bankCodeHandler)
		calculator.RegisterRoutes(api, calculatorHandler)
		company.RegisterRoutes(api, companyHandler, rbacService)
		forms.RegisterRoutes(api, formsHandler)
		payrollconfig.RegisterRoutes(api, payrollConfigHandler, rbacService)
		payrollcycle.RegisterRoutes(api, payrollCycleHandler, rbacService, rdb)
		payrollemployee.RegisterRoutes(api, payrollEmployeeHandler, rbacService)
		rbac.RegisterRoutes(api, rbacHandler, rbacService)
		taxrate.RegisterRoutes(api, taxRateHandler, rbacService)
		wallet.RegisterRoutes(api, walletHandler, rbacService, wallet.RouteOptions{
			Redis:               rdb,
			VerifyRatePerSecond: cfg.VerifyRatePerSecond,
			VerifyRateBurst:     cfg.VerifyRateBurst,
		})
	}

	return nil
}
