package dataset

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Connect opens and pings a pgx pool.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// PostgresSource reads the snapshot from the fleet_* tables written by
// scripts/seed_dataset.go.
type PostgresSource struct {
	pool *pgxpool.Pool
}

func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

func (s *PostgresSource) Name() string { return "postgres" }

func (s *PostgresSource) Fetch(ctx context.Context) (*Snapshot, error) {
	kpis, err := s.kpis(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: kpis: %v", ErrDataLoad, err)
	}
	operators, err := s.operators(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: operators: %v", ErrDataLoad, err)
	}
	scenarios, err := s.scenarios(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: scenarios: %v", ErrDataLoad, err)
	}
	tariffs, err := s.tariffs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: tariffs: %v", ErrDataLoad, err)
	}
	return newSnapshot(s.Name(), kpis, operators, scenarios, tariffs), nil
}

func (s *PostgresSource) kpis(ctx context.Context) (BaseKPIs, error) {
	query, args, err := psql.
		Select("total_buses", "total_lines", "total_stops", "annual_km", "annual_passengers",
			"co2_avoided_tons", "occupancy_rate", "annual_capacity", "average_fare", "capex_total").
		From("fleet_kpis").
		OrderBy("loaded_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return BaseKPIs{}, err
	}

	var k BaseKPIs
	err = s.pool.QueryRow(ctx, query, args...).Scan(
		&k.TotalBuses, &k.TotalLines, &k.TotalStops, &k.AnnualKm, &k.AnnualPassengers,
		&k.CO2AvoidedTons, &k.CurrentOccupancyRate, &k.AnnualCapacity, &k.CurrentAverageFare, &k.CapexTotal,
	)
	if err == pgx.ErrNoRows {
		return BaseKPIs{}, fmt.Errorf("fleet_kpis is empty")
	}
	return k, err
}

func (s *PostgresSource) operators(ctx context.Context) ([]string, error) {
	query, args, err := psql.Select("name").From("fleet_operators").OrderBy("position").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (s *PostgresSource) scenarios(ctx context.Context) ([]FinancialScenario, error) {
	query, args, err := psql.
		Select("tariff_increase_pct", "npv", "simple_payback_years", "irr_pct").
		From("financial_scenarios").
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FinancialScenario
	for rows.Next() {
		var fs FinancialScenario
		if err := rows.Scan(&fs.TariffIncreasePct, &fs.NPV, &fs.SimplePaybackYears, &fs.IRRPct); err != nil {
			return nil, err
		}
		out = append(out, fs)
	}
	return out, rows.Err()
}

func (s *PostgresSource) tariffs(ctx context.Context) ([]TariffBand, error) {
	query, args, err := psql.
		Select("fare", "fraction_of_lines", "line_count", "description").
		From("tariff_bands").
		OrderBy("fare").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TariffBand
	for rows.Next() {
		var b TariffBand
		if err := rows.Scan(&b.Fare, &b.FractionOfLines, &b.LineCount, &b.Description); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
