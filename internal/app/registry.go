package app

import (
	"database/sql"

	"go-payroll/internal/distribution"
	"go-payroll/internal/employee"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/middleware"
	"go-payroll/internal/payrollrun"
	"go-payroll/internal/payslip"
	"go-payroll/internal/salary"
	"go-payroll/internal/shared/counter"
	"go-payroll/internal/taxconfig"
	"go-payroll/internal/variablepay"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	variablePayRepo := variablepay.NewRepository(gormDB)
	taxConfigRepo := taxconfig.NewRepository(gormDB)
	payrollRunRepo := payrollrun.NewRepository(gormDB)
	payslipRepo := payslip.NewRepository(gormDB)
	distributionRepo := distribution.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	employeeService := employee.NewService(db, employeeRepo, counterRepo)
	variablePayService := variablepay.NewService(db, variablePayRepo)
	taxConfigService := taxconfig.NewService(db, taxConfigRepo, rdb)

	calculator := salary.NewCalculator(salary.DefaultAllowancePolicy(), taxConfigService)

	payrollRunService := payrollrun.NewService(
		db, payrollRunRepo, counterRepo,
		employeeService, variablePayService, calculator, rdb,
	)
	payslipService := payslip.NewService(db, payslipRepo, counterRepo, payrollRunService)

	distributionService := distribution.NewService(
		db, distributionRepo, payslipService,
		[]distribution.Dispatcher{
			distribution.NewEmailDispatcher(outboxRepo),
			distribution.NewPortalDispatcher(payslipService),
		},
	)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	variablePayHandler := variablepay.NewHandler(variablePayService)
	taxConfigHandler := taxconfig.NewHandler(taxConfigService)
	payrollRunHandler := payrollrun.NewHandler(payrollRunService)
	payslipHandler := payslip.NewHandler(payslipService)
	distributionHandler := distribution.NewHandler(distributionService)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(20), 40))

	api := router.Group("/api/v1")
	api.Use(middleware.Idempotency(rdb))
	{
		employee.RegisterRoutes(api, employeeHandler)
		variablepay.RegisterRoutes(api, variablePayHandler)
		taxconfig.RegisterRoutes(api, taxConfigHandler)
		payrollrun.RegisterRoutes(api, payrollRunHandler)
		payslip.RegisterRoutes(api, payslipHandler)
		distribution.RegisterRoutes(api, distributionHandler)
	}

	return nil
}
