// Copyright (c) 2026 ToeiRei
// Signet - keypair wallet account manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db provides the data access layer for Signet. It abstracts the
// underlying database (SQLite, PostgreSQL or MySQL) behind a consistent
// interface, allowing the rest of the application to interact with the
// database in a uniform way.
package db // import "github.com/toeirei/signet/internal/db"

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/toeirei/signet/internal/logging"
	"github.com/toeirei/signet/internal/model"
	"github.com/toeirei/signet/internal/security"

	// SQL drivers required for integration tests and runtime.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

var (
	store Store
	//go:embed migrations
	embeddedMigrations embed.FS
	// sqlOpenFunc allows tests to override database opening behavior.
	sqlOpenFunc = sql.Open
)

// InitDB initializes the database connection based on the provided type and
// DSN, runs pending migrations and sets the package-level store used by the
// package helpers.
func InitDB(dbType, dsn string) error {
	s, err := NewStoreFromDSN(dbType, dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	store = s
	return nil
}

// IsInitialized reports whether the package-level store has been set.
func IsInitialized() bool {
	return store != nil
}

// SetStore overrides the package-level store. Intended for tests that want
// to inject a fake.
func SetStore(s Store) {
	store = s
}

// GetStore returns the active store, for callers that need to hand it to
// helpers like the backup writer.
func GetStore() Store {
	return store
}

// NewStoreFromDSN opens a sql.DB for the given DSN, runs migrations, and
// returns a Store backed by a long-lived *bun.DB. This hides *sql.DB usage
// from higher-level callers.
func NewStoreFromDSN(dbType, dsn string) (Store, error) {
	driverName := dbType
	// The pgx stdlib registers driver name "pgx"; map "postgres" to that driver.
	if dbType == "postgres" {
		driverName = "pgx"
	}
	sqlDB, err := sqlOpenFunc(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	maxOpen := 25
	maxIdle := 25
	// For in-memory SQLite databases, force a single open connection: each
	// SQLite connection gets its own in-memory database, which would make
	// schema changes invisible across connections. Tests rely on ":memory:".
	if dbType == "sqlite" && strings.Contains(dsn, ":memory:") {
		maxOpen = 1
		maxIdle = 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := RunMigrations(sqlDB, dbType); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logging.Debugf("db: opened %s and ran migrations", dbType)

	return &BunStore{bun: createBunDB(sqlDB, dbType)}, nil
}

// createBunDB constructs a *bun.DB for the provided *sql.DB and dbType.
func createBunDB(sqlDB *sql.DB, dbType string) *bun.DB {
	switch dbType {
	case "sqlite":
		return bun.NewDB(sqlDB, sqlitedialect.New())
	case "postgres":
		return bun.NewDB(sqlDB, pgdialect.New())
	case "mysql":
		return bun.NewDB(sqlDB, mysqldialect.New())
	default:
		// Fallback to SQLite dialect as a safe default; callers should validate dbType earlier.
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}

// RunMigrations applies the necessary database migrations for a given
// database connection. Migration files are embedded per dialect under
// migrations/<dbType>/NNNN_name.up.sql and applied in lexical order; each
// applied version is recorded in schema_migrations.
func RunMigrations(db *sql.DB, dbType string) error {
	migrationsPath := fmt.Sprintf("migrations/%s", dbType)

	entries, err := fs.ReadDir(embeddedMigrations, migrationsPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// No migrations embedded for this DB type.
			return nil
		}
		return fmt.Errorf("failed to read embedded migrations (%s): %w", migrationsPath, err)
	}

	var ups []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".up.sql") {
			ups = append(ups, e.Name())
		}
	}
	sort.Strings(ups)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version VARCHAR(255) PRIMARY KEY, applied_at VARCHAR(64))`); err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}

	for _, fname := range ups {
		version := strings.TrimSuffix(fname, ".up.sql")

		var exists int
		query := "SELECT 1 FROM schema_migrations WHERE version = ?"
		if dbType == "postgres" {
			query = "SELECT 1 FROM schema_migrations WHERE version = $1"
		}
		err := db.QueryRow(query, version).Scan(&exists)
		if err == nil {
			continue // already applied
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("failed to check migration version %s: %w", version, err)
		}

		data, err := embeddedMigrations.ReadFile(path.Join(migrationsPath, fname))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", fname, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %s: %w", version, err)
		}
		if _, err := tx.Exec(string(data)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to execute migration %s: %w", version, err)
		}
		insertQuery := "INSERT INTO schema_migrations(version, applied_at) VALUES(?, ?)"
		if dbType == "postgres" {
			insertQuery = "INSERT INTO schema_migrations(version, applied_at) VALUES($1, $2)"
		}
		if _, err := tx.Exec(insertQuery, version, time.Now().UTC().Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %s: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to commit migration %s: %w", version, err)
		}
	}

	return nil
}

// Package-level helpers delegating to the initialized store. The TUI and
// CLI call these rather than carrying a Store handle around.

// GetAllAccounts retrieves all accounts.
func GetAllAccounts() ([]model.Account, error) { return store.GetAllAccounts() }

// GetAccountByAlias looks an account up by its alias.
func GetAccountByAlias(alias string) (*model.Account, error) { return store.GetAccountByAlias(alias) }

// ImportAccount registers an account (created or imported) with the store.
func ImportAccount(alias, publicKey string, secret security.Secret, algorithm string, isImported bool) (int, error) {
	return store.ImportAccount(alias, publicKey, secret, algorithm, isImported)
}

// DeleteAccount removes an account by id.
func DeleteAccount(id int) error { return store.DeleteAccount(id) }

// RenameAccount changes an account's alias.
func RenameAccount(id int, alias string) error { return store.RenameAccount(id, alias) }

// SetPassphraseVerifier stores the wallet passphrase verifier.
func SetPassphraseVerifier(salt, hash []byte) error { return store.SetPassphraseVerifier(salt, hash) }

// GetPassphraseVerifier loads the wallet passphrase verifier. Both return
// values are nil when no passphrase has been set.
func GetPassphraseVerifier() (salt, hash []byte, err error) { return store.GetPassphraseVerifier() }

// GetAllAuditLogEntries returns the audit trail, newest first.
func GetAllAuditLogEntries() ([]model.AuditLogEntry, error) { return store.GetAllAuditLogEntries() }

// LogAction records a state-changing action in the audit log.
func LogAction(action, details string) error { return store.LogAction(action, details) }
