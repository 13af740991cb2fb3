package tokenstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	intconfig "invenso/internal/config"

	_ "github.com/mattn/go-sqlite3"
)

const (
	DialectSQLite = "sqlite"
	DialectMySQL  = "mysql"
)

// SQLStore keeps tokens in a two-column key/value table named
// <prefix>_kv (or kv without a prefix).
type SQLStore struct {
	connection *sql.DB
	dialect    string
	table      string
	key        string
	owned      bool
}

// NewSQLStore wraps an existing connection. The caller keeps ownership
// of db; Close is a no-op.
func NewSQLStore(db *sql.DB, dialect, prefix, key string) (*SQLStore, error) {
	if !identRe.MatchString(prefix) {
		return nil, fmt.Errorf("token store prefix %q tidak valid", prefix)
	}
	if key == "" {
		key = DefaultKey
	}
	table := "kv"
	if prefix != "" {
		table = prefix + "_kv"
	}
	return &SQLStore{connection: db, dialect: dialect, table: table, key: key}, nil
}

// OpenSQLiteStore opens the sqlite file at opts.SQLitePath and makes
// sure the table exists.
func OpenSQLiteStore(opts Options) (*SQLStore, error) {
	if opts.SQLitePath == "" {
		return nil, fmt.Errorf("token store sqlite: path kosong")
	}
	db, err := sql.Open("sqlite3", opts.SQLitePath)
	if err != nil {
		return nil, err
	}
	s, err := NewSQLStore(db, DialectSQLite, opts.Prefix, opts.Key)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.owned = true
	if err := s.Install(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// OpenMySQLStore uses the shared MySQL connection from config.
func OpenMySQLStore(opts Options) (*SQLStore, error) {
	db, err := intconfig.ConnectDB(opts.MySQLDSN)
	if err != nil {
		return nil, err
	}
	s, err := NewSQLStore(db, DialectMySQL, opts.Prefix, opts.Key)
	if err != nil {
		return nil, err
	}
	if err := s.Install(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// Install creates the key/value table when missing.
func (s *SQLStore) Install(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    token_key VARCHAR(191) NOT NULL PRIMARY KEY,
    token_value TEXT NOT NULL
)`, s.table)
	_, err := s.connection.ExecContext(ctx, ddl)
	return err
}

func (s *SQLStore) Token(ctx context.Context) (string, error) {
	var v string
	err := s.connection.QueryRowContext(ctx,
		fmt.Sprintf("SELECT token_value FROM %s WHERE token_key = ?", s.table), s.key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *SQLStore) SetToken(ctx context.Context, token string) error {
	var q string
	switch s.dialect {
	case DialectMySQL:
		q = fmt.Sprintf("INSERT INTO %s (token_key, token_value) VALUES (?, ?) ON DUPLICATE KEY UPDATE token_value = VALUES(token_value)", s.table)
	default:
		q = fmt.Sprintf("INSERT INTO %s (token_key, token_value) VALUES (?, ?) ON CONFLICT(token_key) DO UPDATE SET token_value = excluded.token_value", s.table)
	}
	_, err := s.connection.ExecContext(ctx, q, s.key, token)
	return err
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.connection.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	if s.owned {
		return s.connection.Close()
	}
	if s.dialect == DialectMySQL {
		intconfig.CloseDB()
	}
	return nil
}
