package models

import (
	"github.com/mmdatafocus/gmcalc_backend/config"
)

// MigrateTable runs AutoMigrate for every model. Callers gate this behind
// SKIP_MIGRATIONS for environments where schema is managed externally.
func MigrateTable() {
	logger := config.GetLogger()
	err := config.GetDB().AutoMigrate(
		&Role{},
		&User{},
		&Employee{},
		&Project{},
		&DeliveryInvestmentReport{},
		&SalarySheet{},
		&RevenueSheet{},
		&USExchangeRate{},
		&AdditionalCost{},
		&InterimCostCalculation{},
		&InterimProjectGm{},
		&EmployeeProjectCalculation{},
		&ProjectMetric{},
		&MonthlySheet{},
		&MonthlyUploadedSheet{},
		&Upload{},
	)
	if err != nil {
		logger.Fatalf("migration failed: %v", err)
	}
}
