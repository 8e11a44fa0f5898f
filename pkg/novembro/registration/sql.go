package registration

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/models"
	_ "modernc.org/sqlite"
)

const createTable = `
CREATE TABLE IF NOT EXISTS registrations (
	id VARCHAR(36) PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	age INTEGER NOT NULL,
	cpf VARCHAR(11) NOT NULL,
	health_card_id TEXT NOT NULL,
	family_history TEXT NOT NULL,
	submitted_at VARCHAR(19) NOT NULL,
	seq BIGINT NOT NULL
)`

// SQLStore keeps registrations in a SQL table (sqlite or mysql).
type SQLStore struct {
	db *sql.DB

	mu      sync.Mutex
	lastSeq int64
}

// OpenDB opens a database for the given driver.
// mysql accepts either a native DSN or a mysql:// / mariadb:// URL.
func OpenDB(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverSQLite:
	case DriverMySQL:
		converted, err := toMySQLDSN(dsn)
		if err != nil {
			return nil, err
		}
		dsn = converted
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	if driver == DriverSQLite {
		// sqlite allows one writer at a time.
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// NewSQLStore creates the registrations table if needed.
func NewSQLStore(ctx context.Context, db *sql.DB) (*SQLStore, error) {
	if _, err := db.ExecContext(ctx, createTable); err != nil {
		return nil, fmt.Errorf("create registrations table: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// Save inserts one registration. A missing ID is generated.
func (s *SQLStore) Save(ctx context.Context, rec models.Registration) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO registrations
			(id, name, email, age, cpf, health_card_id, family_history, submitted_at, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Email, rec.Age, rec.CPF, rec.HealthCardID,
		rec.FamilyHistory, rec.SubmittedAt, s.nextSeq(),
	)
	if err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

// nextSeq returns a strictly increasing insertion key.
func (s *SQLStore) nextSeq() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	seq := time.Now().UnixNano()
	if seq <= s.lastSeq {
		seq = s.lastSeq + 1
	}
	s.lastSeq = seq
	return seq
}

// List returns the registrations in insertion order.
func (s *SQLStore) List(ctx context.Context) ([]models.Registration, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, age, cpf, health_card_id, family_history, submitted_at
		FROM registrations
		ORDER BY seq, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Registration
	for rows.Next() {
		var rec models.Registration
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.Age, &rec.CPF,
			&rec.HealthCardID, &rec.FamilyHistory, &rec.SubmittedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func toMySQLDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "mariadb://") || strings.HasPrefix(dsn, "mysql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse dsn: %w", err)
		}
		user := ""
		pass := ""
		if u.User != nil {
			user = u.User.Username()
			pass, _ = u.User.Password()
		}
		host := u.Host
		db := strings.TrimPrefix(u.Path, "/")
		if user == "" || host == "" || db == "" {
			return "", fmt.Errorf("dsn incomplete (user/host/db)")
		}
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4",
			user, pass, host, db), nil
	}
	return dsn, nil
}

// OpenStore opens the store named by driver. For csv, target is the file path;
// otherwise it is the database DSN.
func OpenStore(ctx context.Context, driver, target string) (Store, error) {
	if driver == "" || driver == DriverCSV {
		return NewCSVStore(target), nil
	}
	db, err := OpenDB(driver, target)
	if err != nil {
		return nil, err
	}
	store, err := NewSQLStore(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}
