package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"

	"storewatch/internal/ingest"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	dataDir := flag.String("data-dir", "data", "directory holding the source csv files")
	batchSize := flag.Int("batch-size", ingest.DefaultBatchSize, "rows per insert transaction")
	dsn := flag.String("dsn", "", "postgres dsn (defaults to DATABASE_URL/PG_DSN)")
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags)

	databaseURL := *dsn
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		databaseURL = os.Getenv("PG_DSN")
	}
	if databaseURL == "" {
		log.Fatal("PG_DSN or DATABASE_URL is required")
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	cfg := ingest.Config{
		DataDir:           *dataDir,
		BatchSize:         *batchSize,
		ObservationsFile:  "store_status.csv",
		BusinessHoursFile: "business_hours.csv",
		TimezonesFile:     "timezones.csv",
	}
	loader, err := ingest.NewLoader(cfg, ingest.NewPostgresWriter(db), logger)
	if err != nil {
		logger.Fatalf("loader error: %v", err)
	}
	if err := loader.Run(context.Background()); err != nil {
		logger.Fatalf("load error: %v", err)
	}
	logger.Print("load complete")
}
