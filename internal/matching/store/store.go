package store

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MrJamesThe3rd/pennywise/internal/kv"
)

// Key is the storage entry holding the learned rules.
const Key = "category-rules"

type rule struct {
	Pattern   string    `json:"pattern"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store keeps category rules in one key-value entry.
type Store struct {
	kv  kv.Store
	now func() time.Time

	mu sync.Mutex
}

func New(store kv.Store) *Store {
	return &Store{kv: store, now: time.Now}
}

// FindMatch returns the category of the longest pattern contained in
// description, ignoring case. Among equally long patterns the newest wins.
func (s *Store) FindMatch(ctx context.Context, description string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rules, err := s.load(ctx)
	if err != nil {
		return "", err
	}

	slices.SortStableFunc(rules, func(a, b rule) int {
		if c := cmp.Compare(len(b.Pattern), len(a.Pattern)); c != 0 {
			return c
		}

		return b.CreatedAt.Compare(a.CreatedAt)
	})

	desc := strings.ToLower(description)

	for _, r := range rules {
		if strings.Contains(desc, strings.ToLower(r.Pattern)) {
			return r.Category, nil
		}
	}

	return "", nil
}

// CreateMapping adds a rule. A rule with the same pattern is replaced.
func (s *Store) CreateMapping(ctx context.Context, pattern, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rules, err := s.load(ctx)
	if err != nil {
		return err
	}

	rules = slices.DeleteFunc(rules, func(r rule) bool {
		return strings.EqualFold(r.Pattern, pattern)
	})
	rules = append(rules, rule{Pattern: pattern, Category: category, CreatedAt: s.now()})

	raw, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}

	if err := s.kv.Set(ctx, Key, raw); err != nil {
		return fmt.Errorf("creating mapping: %w", err)
	}

	return nil
}

func (s *Store) load(ctx context.Context) ([]rule, error) {
	raw, err := s.kv.Get(ctx, Key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("finding match: %w", err)
	}

	var rules []rule
	if err := json.Unmarshal(raw, &rules); err != nil {
		return nil, fmt.Errorf("decoding rules: %w", err)
	}

	return rules, nil
}
