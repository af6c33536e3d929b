package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/gastos/internal/expense"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// FindCategory returns the category of the longest learned pattern that
// merchant contains literally.
func (s *Store) FindCategory(ctx context.Context, merchant string) (expense.Category, error) {
	query := `
		SELECT category
		FROM merchant_categories
		WHERE strpos(upper($1), upper(merchant_pattern)) > 0
		ORDER BY LENGTH(merchant_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var category string

	err := s.db.QueryRowContext(ctx, query, merchant).Scan(&category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding merchant category: %w", err)
	}

	return expense.Category(category), nil
}

func (s *Store) SaveMapping(ctx context.Context, pattern string, category expense.Category) error {
	query := `
		INSERT INTO merchant_categories (merchant_pattern, category, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (merchant_pattern) DO UPDATE SET category = EXCLUDED.category, created_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, pattern, category); err != nil {
		return fmt.Errorf("saving merchant category: %w", err)
	}

	return nil
}
