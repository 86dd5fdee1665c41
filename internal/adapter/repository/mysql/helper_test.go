package mysql

import (
	"testing"
	"time"

	customerDomain "credit-approval/internal/domain/customer"
	loanDomain "credit-approval/internal/domain/loan"
	"credit-approval/internal/infrastructure/db"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB creates an in-memory sqlite DB with the production schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// a second connection would see a different empty database
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return gdb
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func makeCustomer(first string, salary int64) *customerDomain.Customer {
	return customerDomain.New(customerDomain.Registration{
		FirstName:     first,
		LastName:      "Tester",
		Age:           30,
		PhoneNumber:   9000000000,
		MonthlySalary: decimal.NewFromInt(salary),
	})
}

func makeLoan(t *testing.T, customerID uint64, amount int64, tenure int, start time.Time) *loanDomain.Loan {
	t.Helper()
	l, err := loanDomain.New(customerID, decimal.NewFromInt(amount), decimal.NewFromInt(12), tenure, start)
	if err != nil {
		t.Fatalf("loan.New: %v", err)
	}
	return l
}
