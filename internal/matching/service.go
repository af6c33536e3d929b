package matching

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/gastos/internal/expense"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	FindCategory(ctx context.Context, merchant string) (expense.Category, error)
	SaveMapping(ctx context.Context, pattern string, category expense.Category) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the category last learned for the longest pattern contained
// in merchant. Returns an empty category if nothing matches.
func (s *Service) Suggest(ctx context.Context, merchant string) (expense.Category, error) {
	merchant = Normalize(merchant)
	if merchant == "" {
		return "", nil
	}

	return s.repo.FindCategory(ctx, merchant)
}

// Learn remembers that expenses at merchant go to category.
func (s *Service) Learn(ctx context.Context, merchant string, category expense.Category) error {
	if !category.Valid() {
		ve := &expense.ValidationError{}
		ve.Add("category", fmt.Sprintf("unknown category %q", category))

		return ve
	}

	pattern := Normalize(merchant)
	if pattern == "" {
		return nil
	}

	return s.repo.SaveMapping(ctx, pattern, category)
}

// Normalize upper-cases merchant and collapses runs of whitespace.
func Normalize(merchant string) string {
	return strings.ToUpper(strings.Join(strings.Fields(merchant), " "))
}
