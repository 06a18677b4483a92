package shops

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var ErrNotFound = stderrors.New("shop not found")

// Shop is one salon and the URL customers are sent to for reviews.
type Shop struct {
	ID        string    `json:"id" yaml:"id"`
	SalonName string    `json:"salon_name" yaml:"salon_name"`
	URL       string    `json:"url" yaml:"url"`
	UpdatedAt time.Time `json:"updated_at,omitempty" yaml:"-"`
}

// DefaultShops seeds an empty store.
var DefaultShops = []Shop{
	{ID: "shop_001", SalonName: "Review Salon Aoyama", URL: "https://g.page/r/example1/review"},
	{ID: "shop_002", SalonName: "Review Salon Shibuya", URL: "https://g.page/r/example2/review"},
	{ID: "shop_003", SalonName: "Review Salon Ginza", URL: "https://g.page/r/example3/review"},
}

type Store struct {
	db *sql.DB
}

// Open opens (and creates if needed) the SQLite store at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return s, nil
}

func (s *Store) init() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS shops (
			id TEXT PRIMARY KEY,
			salon_name TEXT NOT NULL,
			url TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_shops_salon_name ON shops(salon_name)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, id string) (Shop, error) {
	var shop Shop
	err := s.db.QueryRowContext(ctx,
		`SELECT id, salon_name, url, updated_at FROM shops WHERE id = ?`, id,
	).Scan(&shop.ID, &shop.SalonName, &shop.URL, &shop.UpdatedAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return Shop{}, ErrNotFound
	}
	if err != nil {
		return Shop{}, fmt.Errorf("failed to query shop: %w", err)
	}
	return shop, nil
}

func (s *Store) List(ctx context.Context) ([]Shop, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, salon_name, url, updated_at FROM shops ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query shops: %w", err)
	}
	defer rows.Close()

	shops := []Shop{}
	for rows.Next() {
		var shop Shop
		if err := rows.Scan(&shop.ID, &shop.SalonName, &shop.URL, &shop.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shop: %w", err)
		}
		shops = append(shops, shop)
	}
	return shops, rows.Err()
}

func (s *Store) Upsert(ctx context.Context, shop Shop) error {
	if shop.ID == "" || shop.URL == "" {
		return fmt.Errorf("shop id and url are required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shops (id, salon_name, url, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			salon_name = excluded.salon_name,
			url = excluded.url,
			updated_at = CURRENT_TIMESTAMP
	`, shop.ID, shop.SalonName, shop.URL)
	if err != nil {
		return fmt.Errorf("failed to upsert shop: %w", err)
	}
	return nil
}

// Seed inserts shops in one transaction when the store is empty.
// It reports how many rows were written.
func (s *Store) Seed(ctx context.Context, shops []Shop) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shops`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count shops: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO shops (id, salon_name, url) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, shop := range shops {
		if _, err := stmt.ExecContext(ctx, shop.ID, shop.SalonName, shop.URL); err != nil {
			return 0, fmt.Errorf("failed to insert shop %s: %w", shop.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return len(shops), nil
}
