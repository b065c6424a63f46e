package ranking

import (
	"context"
	"errors"
	"fmt"

	"github.com/MikeSquared-Agency/FleetShift/internal/config"
)

var ErrUnknownKind = errors.New("unknown ranking kind")

type Kind string

const (
	LongestLines    Kind = "longest-lines"
	BusiestLines    Kind = "busiest-lines"
	FleetByOperator Kind = "fleet-by-operator"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case LongestLines, BusiestLines, FleetByOperator:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Entry is one row of a top-N ranking. Line is empty for operator rankings.
// Value is km for longest lines, weekly departures for busiest lines and
// electric buses for the fleet ranking.
type Entry struct {
	Rank     int     `json:"rank"`
	Line     string  `json:"line,omitempty"`
	Operator string  `json:"operator"`
	Value    float64 `json:"value"`
}

// Source is the drill-down collaborator behind the ranking charts.
type Source interface {
	LongestLines(ctx context.Context, limit int) ([]Entry, error)
	BusiestLines(ctx context.Context, limit int) ([]Entry, error)
	FleetByOperator(ctx context.Context, limit int) ([]Entry, error)
}

// Ranker clamps the requested size and dispatches to a Source.
type Ranker struct {
	source       Source
	defaultLimit int
	maxLimit     int
}

func NewRanker(src Source, cfg config.RankingConfig) *Ranker {
	r := &Ranker{source: src, defaultLimit: cfg.DefaultLimit, maxLimit: cfg.MaxLimit}
	if r.defaultLimit <= 0 {
		r.defaultLimit = 10
	}
	if r.maxLimit < r.defaultLimit {
		r.maxLimit = r.defaultLimit
	}
	return r
}

// Limit maps a requested size to [1, max]; zero or negative means default.
func (r *Ranker) Limit(requested int) int {
	switch {
	case requested <= 0:
		return r.defaultLimit
	case requested > r.maxLimit:
		return r.maxLimit
	default:
		return requested
	}
}

func (r *Ranker) Top(ctx context.Context, kind Kind, requested int) ([]Entry, error) {
	limit := r.Limit(requested)

	var (
		entries []Entry
		err     error
	)
	switch kind {
	case LongestLines:
		entries, err = r.source.LongestLines(ctx, limit)
	case BusiestLines:
		entries, err = r.source.BusiestLines(ctx, limit)
	case FleetByOperator:
		entries, err = r.source.FleetByOperator(ctx, limit)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("ranking %s: %w", kind, err)
	}

	for i := range entries {
		entries[i].Rank = i + 1
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}
