// seed_dataset.go loads the dashboard JSON files (and optional ranking CSVs)
// into Postgres so the service can run with dataset.source=postgres.
//
// Usage:
//
//	go run scripts/seed_dataset.go -dir dashboard_data -db postgres://localhost/fleetshift \
//		-routes routes.csv -departures departures.csv -fleet fleet.csv
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"github.com/MikeSquared-Agency/FleetShift/internal/dataset"
)

const schema = `
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
);
CREATE TABLE IF NOT EXISTS line_routes (
	line_name   TEXT NOT NULL,
	operator    TEXT NOT NULL,
	km_outbound DOUBLE PRECISION NOT NULL DEFAULT 0,
	km_return   DOUBLE PRECISION NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS line_departures (
	line_name TEXT NOT NULL,
	weekday   SMALLINT NOT NULL,
	departs   TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS fleet_allocation (
	operator    TEXT NOT NULL,
	garage      TEXT NOT NULL DEFAULT '',
	fleet_total INTEGER NOT NULL
);`

func main() {
	dir := flag.String("dir", "dashboard_data", "directory holding the dataset JSON files")
	dbURL := flag.String("db", "", "Postgres URL (defaults to FLEETSHIFT_DATABASE_URL)")
	routes := flag.String("routes", "", "optional CSV: line_name,operator,km_outbound,km_return")
	departures := flag.String("departures", "", "optional CSV: line_name,weekday,departs")
	fleet := flag.String("fleet", "", "optional CSV: operator,garage,fleet_total")
	dryRun := flag.Bool("dry-run", false, "decode and print without writing")
	flag.Parse()

	_ = godotenv.Load()
	if *dbURL == "" {
		*dbURL = os.Getenv("FLEETSHIFT_DATABASE_URL")
	}

	ctx := context.Background()
	snap, err := dataset.NewFileSource(*dir).Fetch(ctx)
	if err != nil {
		log.Fatalf("read dataset: %v", err)
	}
	fmt.Printf("decoded %d operators, %d scenarios, %d tariff bands\n",
		len(snap.Operators), len(snap.Scenarios), len(snap.Tariffs))
	if *dryRun {
		return
	}
	if *dbURL == "" {
		log.Fatal("no database URL: pass -db or set FLEETSHIFT_DATABASE_URL")
	}

	conn, err := pgx.Connect(ctx, *dbURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, schema); err != nil {
		log.Fatalf("create schema: %v", err)
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		log.Fatalf("begin: %v", err)
	}
	defer tx.Rollback(ctx)

	if err := seedSnapshot(ctx, tx, snap); err != nil {
		log.Fatalf("seed snapshot: %v", err)
	}

	tables := []struct {
		path    string
		table   string
		columns []string
		parse   func([]string) ([]interface{}, error)
	}{
		{*routes, "line_routes", []string{"line_name", "operator", "km_outbound", "km_return"}, parseRoute},
		{*departures, "line_departures", []string{"line_name", "weekday", "departs"}, parseDeparture},
		{*fleet, "fleet_allocation", []string{"operator", "garage", "fleet_total"}, parseFleet},
	}
	for _, t := range tables {
		if t.path == "" {
			continue
		}
		n, err := copyCSV(ctx, tx, t.path, t.table, t.columns, t.parse)
		if err != nil {
			log.Fatalf("load %s: %v", t.table, err)
		}
		fmt.Printf("loaded %d rows into %s\n", n, t.table)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("commit: %v", err)
	}
	fmt.Println("done")
}

func seedSnapshot(ctx context.Context, tx pgx.Tx, snap *dataset.Snapshot) error {
	k := snap.KPIs
	if _, err := tx.Exec(ctx, `
		INSERT INTO fleet_kpis (total_buses, total_lines, total_stops, annual_km, annual_passengers,
			co2_avoided_tons, occupancy_rate, annual_capacity, average_fare, capex_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		k.TotalBuses, k.TotalLines, k.TotalStops, k.AnnualKm, k.AnnualPassengers,
		k.CO2AvoidedTons, k.CurrentOccupancyRate, k.AnnualCapacity, k.CurrentAverageFare, k.CapexTotal,
	); err != nil {
		return fmt.Errorf("kpis: %w", err)
	}

	if _, err := tx.Exec(ctx, "TRUNCATE fleet_operators, financial_scenarios, tariff_bands"); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	batch := &pgx.Batch{}
	for i, op := range snap.Operators {
		batch.Queue("INSERT INTO fleet_operators (name, position) VALUES ($1, $2)", op, i)
	}
	for i, s := range snap.Scenarios {
		batch.Queue(`INSERT INTO financial_scenarios (position, tariff_increase_pct, npv, simple_payback_years, irr_pct)
			VALUES ($1, $2, $3, $4, $5)`, i, s.TariffIncreasePct, s.NPV, s.SimplePaybackYears, s.IRRPct)
	}
	for _, b := range snap.Tariffs {
		batch.Queue(`INSERT INTO tariff_bands (fare, fraction_of_lines, line_count, description)
			VALUES ($1, $2, $3, $4)`, b.Fare, b.FractionOfLines, b.LineCount, b.Description)
	}
	return tx.SendBatch(ctx, batch).Close()
}

// copyCSV replaces table's contents with the rows of a headed CSV file.
func copyCSV(ctx context.Context, tx pgx.Tx, path, table string, columns []string, parse func([]string) ([]interface{}, error)) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return 0, err
	}
	if len(records) > 0 {
		records = records[1:]
	}

	rows := make([][]interface{}, 0, len(records))
	for i, rec := range records {
		row, err := parse(rec)
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}

	if _, err := tx.Exec(ctx, "TRUNCATE "+pgx.Identifier{table}.Sanitize()); err != nil {
		return 0, err
	}
	return tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
}

func parseRoute(rec []string) ([]interface{}, error) {
	if len(rec) < 4 {
		return nil, fmt.Errorf("expected 4 columns, got %d", len(rec))
	}
	out, err := parseFloat(rec[2])
	if err != nil {
		return nil, err
	}
	ret, err := parseFloat(rec[3])
	if err != nil {
		return nil, err
	}
	return []interface{}{rec[0], rec[1], out, ret}, nil
}

func parseDeparture(rec []string) ([]interface{}, error) {
	if len(rec) < 3 {
		return nil, fmt.Errorf("expected 3 columns, got %d", len(rec))
	}
	day, err := strconv.Atoi(rec[1])
	if err != nil {
		return nil, fmt.Errorf("weekday: %w", err)
	}
	return []interface{}{rec[0], int16(day), rec[2]}, nil
}

func parseFleet(rec []string) ([]interface{}, error) {
	if len(rec) < 3 {
		return nil, fmt.Errorf("expected 3 columns, got %d", len(rec))
	}
	n, err := strconv.Atoi(rec[2])
	if err != nil {
		return nil, fmt.Errorf("fleet_total: %w", err)
	}
	return []interface{}{rec[0], rec[1], int32(n)}, nil
}

// Blank distance cells mean the line has no return leg.
func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
