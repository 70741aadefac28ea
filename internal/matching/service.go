// Package matching learns which category a statement description belongs to.
package matching

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

type Repository interface {
	FindMatch(ctx context.Context, description string) (string, error)
	CreateMapping(ctx context.Context, pattern, category string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the category learned for description, or "" when none matches.
func (s *Service) Suggest(ctx context.Context, description string) (string, error) {
	return s.repo.FindMatch(ctx, description)
}

// Learn remembers that descriptions containing pattern belong to category.
func (s *Service) Learn(ctx context.Context, pattern, category string) error {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" || category == "" {
		return fmt.Errorf("pattern and category are required")
	}

	return s.repo.CreateMapping(ctx, pattern, category)
}

// Categorize replaces the category of drafts still marked "other" with a
// learned one. It returns how many drafts changed.
func (s *Service) Categorize(ctx context.Context, drafts []transaction.Draft) (int, error) {
	var n int

	for i := range drafts {
		if drafts[i].Category != transaction.CategoryOther || drafts[i].Note == "" {
			continue
		}

		category, err := s.Suggest(ctx, drafts[i].Note)
		if err != nil {
			return n, fmt.Errorf("suggesting category: %w", err)
		}

		if category != "" {
			drafts[i].Category = category
			n++
		}
	}

	return n, nil
}
