package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// uniqueConstraints maps unique indexes to the errors returned when
// they are violated. sqlite reports the columns, postgres the index name.
var uniqueConstraints = []struct {
	index   string
	columns string
	err     error
}{
	{"user_email", "users.email", ErrEmailInUse},
	{"payment_session", "payment_transactions.session_id", ErrPaymentSessionNotUnique},
	{"bank_connection_reference", "bank_connections.reference", ErrConnectionNotUnique},
	{"imported_transaction_external", "imported_transactions.user_id, imported_transactions.external_id", ErrAlreadyImported},
}

var plural = regexp.MustCompile("ies$")

// Connect opens the database, registers the error callbacks and migrates
// all models.
//
// DSNs starting with postgres:// or postgresql:// use PostgreSQL, everything
// else is treated as the path to an SQLite database.
func Connect(dsn string) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger: &logger{
			Logger: log.Logger,
		},
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	usePostgres := IsPostgres(dsn)

	dialector := sqlite.Open(dsn)
	if usePostgres {
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	// Get new connections after one hour
	sqlDB.SetConnMaxLifetime(time.Hour)

	// SQLite only allows one writer, serializing access prevents SQLITE_BUSY errors
	if !usePostgres {
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetMaxOpenConns(1)
	}

	err = registerCallbacks(db)
	if err != nil {
		return nil, err
	}

	err = Migrate(db)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// IsPostgres reports if the DSN selects the PostgreSQL driver.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func registerCallbacks(db *gorm.DB) error {
	callbacks := []struct {
		processor interface {
			Register(string, func(*gorm.DB)) error
		}
		name string
		fn   func(*gorm.DB)
	}{
		{db.Callback().Query().After("*"), "walleta:after_query", queryCallback},
		{db.Callback().Query().After("*"), "walleta:after_query_general", generalCallback},
		{db.Callback().Create().After("*"), "walleta:after_create", createUpdateCallback},
		{db.Callback().Create().After("*"), "walleta:after_create_general", generalCallback},
		{db.Callback().Update().After("*"), "walleta:after_update", createUpdateCallback},
		{db.Callback().Update().After("*"), "walleta:after_update_general", generalCallback},
		{db.Callback().Delete().After("*"), "walleta:after_delete_general", generalCallback},
	}

	for _, c := range callbacks {
		if err := c.processor.Register(c.name, c.fn); err != nil {
			return fmt.Errorf("failed to register %s callback: %w", c.name, err)
		}
	}

	return nil
}

// queryCallback replaces the generic "no record" error with a more user
// friendly one
func queryCallback(db *gorm.DB) {
	if errors.Is(db.Error, gorm.ErrRecordNotFound) {
		// Use the table name as information about the type of resource
		name := strings.ReplaceAll(db.Statement.Table, "_", " ")
		name = plural.ReplaceAllString(name, "y")
		name = strings.TrimSuffix(name, "s")

		db.Error = fmt.Errorf("%w %s matching your query", ErrResourceNotFound, name)
	}
}

// createUpdateCallback replaces unique constraint violations with user
// friendly errors
func createUpdateCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	msg := db.Error.Error()
	for _, c := range uniqueConstraints {
		if strings.Contains(msg, "UNIQUE constraint failed: "+c.columns) || (strings.Contains(msg, "duplicate key value") && strings.Contains(msg, `"`+c.index+`"`)) {
			db.Error = c.err
			return
		}
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

	if errors.Is(db.Error, ErrValidation) || errors.Is(db.Error, ErrResourceNotFound) || errors.Is(db.Error, ErrGeneral) {
		return
	}

	// A general error where we cannot provide more useful information to the end user
	// We log the error and provide a general error message so that server admins can debug
	var sqliteErr *go_sqlite.Error
	log.Error().Bool("sqlite", errors.As(db.Error, &sqliteErr)).Msgf("%T: %v", db.Error, db.Error.Error())

	db.Error = ErrGeneral
}

// Migrate migrates all models to the schema defined in the code.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		User{},
		Budget{},
		Expense{},
		Income{},
		Loan{},
		SavingsGoal{},
		PaymentTransaction{},
		BankConnection{},
		ImportedTransaction{},
	)
	if err != nil {
		return fmt.Errorf("error during DB migration: %w", err)
	}

	return nil
}
