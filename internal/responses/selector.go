// Package responses holds the canned reply bank used when the live model is
// unavailable, and selects a reply for a classified intent.
package responses

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"buzzy-agent/internal/domain"
)

// ErrUnknownCategory signals that the bank has no entry for a category the
// classifier emitted.
var ErrUnknownCategory = errors.New("responses: no replies for category")

// RandomSource picks an index in [0, n).
type RandomSource interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Selector draws replies uniformly at random from a static bank.
type Selector struct {
	bank map[domain.IntentCategory][]string
	rnd  RandomSource
}

type Option func(*Selector)

// WithRandomSource replaces the process-wide random source, typically with a
// seeded *rand.Rand in tests.
func WithRandomSource(rnd RandomSource) Option {
	return func(s *Selector) {
		if rnd != nil {
			s.rnd = rnd
		}
	}
}

// WithBank replaces the default reply bank.
func WithBank(bank map[domain.IntentCategory][]string) Option {
	return func(s *Selector) {
		s.bank = bank
	}
}

func NewSelector(opts ...Option) *Selector {
	s := &Selector{bank: defaultBank, rnd: globalSource{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pick returns one reply for category.
func (s *Selector) Pick(category domain.IntentCategory) (string, error) {
	replies := s.bank[category]
	if len(replies) == 0 {
		return "", fmt.Errorf("%w %q", ErrUnknownCategory, category)
	}
	return replies[s.rnd.IntN(len(replies))], nil
}

// Replies returns a copy of the bank entries for category.
func (s *Selector) Replies(category domain.IntentCategory) []string {
	return append([]string(nil), s.bank[category]...)
}

// Validate checks that every defined category has at least one non-blank reply.
func (s *Selector) Validate() error {
	var errs []error
	for _, c := range domain.IntentCategories() {
		replies := s.bank[c]
		if len(replies) == 0 {
			errs = append(errs, fmt.Errorf("%w %q", ErrUnknownCategory, c))
			continue
		}
		for i, r := range replies {
			if strings.TrimSpace(r) == "" {
				errs = append(errs, fmt.Errorf("responses: blank reply %d for category %q", i, c))
			}
		}
	}
	return errors.Join(errs...)
}
