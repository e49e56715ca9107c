// Command fintrack-init creates the database schema and optionally seeds
// it with a small sample dataset. It is a one-shot tool; the server also
// migrates on startup, so running this is only required for seeding or
// for provisioning a database ahead of time.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"fintrack/internal/config"
	"fintrack/internal/storage"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()
	cfg := config.Load()

	dbPath := flag.String("db", cfg.SQLiteDBPath, "path to the SQLite database")
	seed := flag.Bool("seed", false, "insert sample transactions after migrating")
	flag.Parse()

	repo, err := storage.NewRepository(*dbPath)
	if err != nil {
		logger.Error("failed to initialize database", "error", err, "path", *dbPath)
		os.Exit(1)
	}
	defer repo.Close()

	logger.Info("database initialized", "path", *dbPath)

	if !*seed {
		return
	}

	if err := seedData(context.Background(), repo, cfg.UserID); err != nil {
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	logger.Info("sample data inserted", "user_id", cfg.UserID)
}

func seedData(ctx context.Context, repo *storage.Repository, userID int64) error {
	paycheck := "Paycheck"
	rent := "October rent"

	samples := []storage.CreateTransactionParams{
		{Type: "income", Category: "Salary", Amount: "2500.00", Date: "2025-10-01", Notes: &paycheck},
		{Type: "expense", Category: "Rent", Amount: "1700.00", Date: "2025-10-01", Notes: &rent},
		{Type: "expense", Category: "Groceries", Amount: "120.45", Date: "2025-10-02"},
		{Type: "expense", Category: "Transport", Amount: "32.80", Date: "2025-10-05"},
		{Type: "expense", Amount: "15.00", Date: "2025-10-07"},
	}

	for _, p := range samples {
		if _, err := repo.CreateTransaction(ctx, userID, p); err != nil {
			return err
		}
	}
	return nil
}
