//go:build integration

package dataset

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
CREATE TABLE IF NOT EXISTS fleet_kpis (
	loaded_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	total_buses       INTEGER NOT NULL,
	total_lines       INTEGER NOT NULL,
	total_stops       INTEGER NOT NULL,
	annual_km         DOUBLE PRECISION NOT NULL,
	annual_passengers DOUBLE PRECISION NOT NULL,
	co2_avoided_tons  DOUBLE PRECISION NOT NULL,
	occupancy_rate    DOUBLE PRECISION NOT NULL,
	annual_capacity   DOUBLE PRECISION NOT NULL,
	average_fare      DOUBLE PRECISION NOT NULL,
	capex_total       DOUBLE PRECISION NOT NULL
);
CREATE TABLE IF NOT EXISTS fleet_operators (
	name     TEXT NOT NULL,
	position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS financial_scenarios (
	position             INTEGER NOT NULL,
	tariff_increase_pct  INTEGER NOT NULL,
	npv                  DOUBLE PRECISION NOT NULL,
	simple_payback_years DOUBLE PRECISION NOT NULL,
	irr_pct              DOUBLE PRECISION
);
CREATE TABLE IF NOT EXISTS tariff_bands (
	fare              DOUBLE PRECISION NOT NULL,
	fraction_of_lines DOUBLE PRECISION NOT NULL,
	line_count        INTEGER NOT NULL,
	description       TEXT NOT NULL
);`

func TestPostgresSourceFetch(t *testing.T) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}
	ctx := context.Background()

	pool, err := Connect(ctx, dbURL)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, testSchema)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, "TRUNCATE fleet_kpis, fleet_operators, financial_scenarios, tariff_bands")
		pool.Close()
	})

	src := NewPostgresSource(pool)

	_, err = src.Fetch(ctx)
	require.ErrorIs(t, err, ErrDataLoad, "empty kpis table must be a data-load error")

	_, err = pool.Exec(ctx, `
		INSERT INTO fleet_kpis (loaded_at, total_buses, total_lines, total_stops, annual_km, annual_passengers,
			co2_avoided_tons, occupancy_rate, annual_capacity, average_fare, capex_total) VALUES
			(now() - interval '1 day', 1, 1, 1, 1, 1, 1, 1, 1, 1, 1),
			(now(), 3000, 900, 5401, 2.5e8, 1e9, 2.8e5, 62.5, 1.6e9, 4.39, 1e10)`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `
		INSERT INTO fleet_operators (name, position) VALUES ('URBI', 1), ('PIONEIRA', 0)`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `
		INSERT INTO financial_scenarios (position, tariff_increase_pct, npv, simple_payback_years, irr_pct) VALUES
			(1, 10, -1.5e9, 45.2, NULL),
			(0, 50, 3.2e9, 7.4, 12.6)`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `
		INSERT INTO tariff_bands (fare, fraction_of_lines, line_count, description) VALUES
			(5.5, 0.4, 360, 'metropolitan')`)
	require.NoError(t, err)

	snap, err := src.Fetch(ctx)
	require.NoError(t, err)

	assert.Equal(t, "postgres", snap.Source)
	assert.Equal(t, 3000, snap.KPIs.TotalBuses, "latest kpis row wins")
	assert.Equal(t, []string{"PIONEIRA", "URBI"}, snap.Operators)
	require.Len(t, snap.Scenarios, 2)
	assert.Equal(t, 50, snap.Scenarios[0].TariffIncreasePct, "scenarios keep stored order")
	require.NotNil(t, snap.Scenarios[0].IRRPct)
	assert.Nil(t, snap.Scenarios[1].IRRPct)
	require.Len(t, snap.Tariffs, 1)
	assert.Equal(t, 360, snap.Tariffs[0].LineCount)
}
