package ranking

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/FleetShift/internal/config"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	scopeLength = "length"
	scopeDemand = "demand"
)

// PostgresSource ranks lines and operators from the line_routes,
// line_departures and fleet_allocation tables.
type PostgresSource struct {
	pool       *pgxpool.Pool
	exclusions []config.LineExclusion
}

func NewPostgresSource(pool *pgxpool.Pool, exclusions []config.LineExclusion) *PostgresSource {
	return &PostgresSource{pool: pool, exclusions: exclusions}
}

// excluding appends one NOT (line AND operator) predicate per exclusion that
// applies to scope. An exclusion with an empty scope applies everywhere.
func excluding(b sq.SelectBuilder, exclusions []config.LineExclusion, scope, lineCol, operatorCol string) sq.SelectBuilder {
	for _, ex := range exclusions {
		if ex.Ranking != "" && ex.Ranking != scope {
			continue
		}
		b = b.Where("NOT ("+lineCol+" = ? AND "+operatorCol+" = ?)", ex.Line, ex.Operator)
	}
	return b
}

func longestLinesQuery(exclusions []config.LineExclusion, limit int) sq.SelectBuilder {
	b := psql.
		Select("line_name", "operator", "km_outbound + km_return AS km_total").
		From("line_routes")
	return excluding(b, exclusions, scopeLength, "line_name", "operator").
		OrderBy("km_total DESC", "line_name").
		Limit(uint64(limit))
}

// Departures without a known route are dropped by the inner join.
func busiestLinesQuery(exclusions []config.LineExclusion, limit int) sq.SelectBuilder {
	b := psql.
		Select("d.line_name", "r.operator", "COUNT(*)::float8 AS weekly_departures").
		From("line_departures d").
		Join("line_routes r ON r.line_name = d.line_name")
	return excluding(b, exclusions, scopeDemand, "d.line_name", "r.operator").
		GroupBy("d.line_name", "r.operator").
		OrderBy("weekly_departures DESC", "d.line_name").
		Limit(uint64(limit))
}

func fleetByOperatorQuery(limit int) sq.SelectBuilder {
	return psql.
		Select("operator", "SUM(fleet_total)::float8 AS fleet").
		From("fleet_allocation").
		GroupBy("operator").
		OrderBy("fleet DESC", "operator").
		Limit(uint64(limit))
}

func (s *PostgresSource) LongestLines(ctx context.Context, limit int) ([]Entry, error) {
	return s.lines(ctx, longestLinesQuery(s.exclusions, limit))
}

func (s *PostgresSource) BusiestLines(ctx context.Context, limit int) ([]Entry, error) {
	return s.lines(ctx, busiestLinesQuery(s.exclusions, limit))
}

func (s *PostgresSource) lines(ctx context.Context, b sq.SelectBuilder) ([]Entry, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var e Entry
		err := row.Scan(&e.Line, &e.Operator, &e.Value)
		return e, err
	})
}

func (s *PostgresSource) FleetByOperator(ctx context.Context, limit int) ([]Entry, error) {
	query, args, err := fleetByOperatorQuery(limit).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var e Entry
		err := row.Scan(&e.Operator, &e.Value)
		return e, err
	})
}
