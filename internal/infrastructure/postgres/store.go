package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goodspace/backend/internal/domain"
	"github.com/goodspace/backend/internal/infrastructure/postgres/migrations"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Store vends transaction-bound repositories. It is the only implementation
// of domain.Store.
type Store struct {
	db *sql.DB
}

// Open connects to the database and verifies the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return &Store{db: db}, nil
}

// RunMigrations applies the embedded schema migrations.
func (s *Store) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, s.db, "."); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

type storeTx struct {
	tx DBTX
}

func (t *storeTx) Users() domain.UserRepository                 { return &UserRepo{db: t.tx} }
func (t *storeTx) Verifications() domain.VerificationRepository { return &VerificationRepo{db: t.tx} }

// WithTx runs fn inside one database transaction. A request never holds more
// than this single connection.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx domain.Tx) error) error {
	return withTx(ctx, s.db, func(ctx context.Context, tx DBTX) error {
		return fn(ctx, &storeTx{tx: tx})
	})
}

// isUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
