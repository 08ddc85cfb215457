package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// tableLabels names tables for not found messages.
var tableLabels = map[string]string{
	"users":                "usuario",
	"services":             "servicio",
	"products":             "producto",
	"suppliers":            "proveedor",
	"appointments":         "cita",
	"appointment_products": "producto de la cita",
	"treasury_entries":     "movimiento de tesorería",
	"fixed_expenses":       "gasto fijo",
	"purchases":            "compra",
	"suggestions":          "sugerencia",
}

func config() *gorm.Config {
	return &gorm.Config{
		// Set generated timestamps in UTC
		NowFunc: func() time.Time {
			return time.Now().In(time.UTC)
		},
		Logger: &logger{
			Logger: log.Logger,
		},
	}
}

// Connect opens the SQLite database at path, migrates the schema and
// configures the connection pool.
func Connect(path string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := gorm.Open(sqlite.Open(dsn), config())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	// Get new connections after one hour
	sqlDB.SetConnMaxLifetime(time.Hour)

	// SQLite allows one writer. A single connection serializes
	// all statements and prevents SQLITE_BUSY errors.
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	return setup(db)
}

// ConnectPostgres opens the PostgreSQL database for dsn and migrates the schema.
func ConnectPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), config())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return setup(db)
}

func setup(db *gorm.DB) (*gorm.DB, error) {
	err := migrate(db)
	if err != nil {
		return nil, err
	}

	callbacks := []struct {
		processor interface {
			Register(string, func(*gorm.DB)) error
		}
		name string
		fn   func(*gorm.DB)
	}{
		{db.Callback().Query().After("*"), "salonspa:after_query", queryCallback},
		{db.Callback().Query().After("*"), "salonspa:after_query_general", generalCallback},
		{db.Callback().Create().After("*"), "salonspa:after_create", createUpdateCallback},
		{db.Callback().Create().After("*"), "salonspa:after_create_general", generalCallback},
		{db.Callback().Update().After("*"), "salonspa:after_update", createUpdateCallback},
		{db.Callback().Update().After("*"), "salonspa:after_update_general", generalCallback},
		{db.Callback().Delete().After("*"), "salonspa:after_delete_general", generalCallback},
		{db.Callback().Raw().After("*"), "salonspa:after_raw_general", generalCallback},
		{db.Callback().Row().After("*"), "salonspa:after_row_general", generalCallback},
	}

	for _, c := range callbacks {
		if err := c.processor.Register(c.name, c.fn); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// queryCallback replaces the generic "no record" error with a more user
// friendly one.
func queryCallback(db *gorm.DB) {
	if errors.Is(db.Error, gorm.ErrRecordNotFound) {
		name, ok := tableLabels[db.Statement.Table]
		if !ok {
			name = strings.ReplaceAll(db.Statement.Table, "_", " ")
		}

		db.Error = fmt.Errorf("%w %s con ese identificador", ErrResourceNotFound, name)
	}
}

// createUpdateCallback inspects errors returned by the database for create
// and update calls and replaces them with user friendly ones.
func createUpdateCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	msg := db.Error.Error()

	// SQLite and PostgreSQL report unique violations differently
	if strings.Contains(msg, "UNIQUE constraint failed: users.email") || strings.Contains(msg, "idx_users_email") {
		db.Error = ErrUserEmailNotUnique
		return
	}

	if strings.Contains(msg, "UNIQUE constraint failed: suppliers.email") || strings.Contains(msg, "idx_suppliers_email") {
		db.Error = ErrSupplierEmailNotUnique
		return
	}

	if strings.Contains(msg, "stock_non_negative") {
		db.Error = ErrInsufficientStock
		return
	}

	if strings.Contains(msg, "FOREIGN KEY constraint failed") || strings.Contains(msg, "violates foreign key constraint") {
		db.Error = fmt.Errorf("%w recurso para el identificador referenciado", ErrResourceNotFound)
	}
}

// generalCallback handles unspecified errors.
//
// For these errors, we cannot provide the user with a helpful message.
// Instead, the error is logged and we return a general message to users.
func generalCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	// "sql: database is closed" is hard-coded in the sql module
	if db.Error.Error() == "sql: database is closed" || reflect.TypeOf(db.Error) == reflect.TypeOf(&go_sqlite.Error{}) {
		log.Error().Msgf("%T: %v", db.Error, db.Error.Error())
		db.Error = ErrGeneral
	}
}

// migrate migrates all models to the schema defined in the code.
func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		User{},
		Service{},
		Product{},
		Supplier{},
		Appointment{},
		AppointmentProduct{},
		TreasuryEntry{},
		FixedExpense{},
		Purchase{},
		Suggestion{},
	)
	if err != nil {
		return fmt.Errorf("error during DB migration: %w", err)
	}

	return nil
}
