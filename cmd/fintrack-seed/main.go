// Command fintrack-seed fills the configured storage backend with
// plausible demo data for local development.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

var expenseCategories = []string{
	"Food", "Housing", "Transport", "Entertainment", "Health", "Shopping", "Utilities",
}

var incomeCategories = []string{
	"Salary", "Freelance", "Investments", "Gifts",
}

func main() {
	_ = godotenv.Load()

	logger := log.New("fintrack-seed")
	log.SetDefault(logger)

	count := flag.Int("count", 50, "number of transactions to generate")
	seed := flag.Int64("seed", 0, "random seed (0 uses a random one)")
	flag.Parse()

	if *seed != 0 {
		gofakeit.Seed(*seed)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	factory := backend.NewFactory(logger.WithComponent("backend"))
	result, err := factory.CreateStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize storage backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	now := time.Now().UTC()
	txs := make([]core.Transaction, 0, *count)
	for i := 0; i < *count; i++ {
		txs = append(txs, randomTransaction(now))
	}
	recurring := []core.RecurringTransaction{
		{
			ID: uuid.NewString(),
			Template: core.TransactionTemplate{
				Type:        core.Expense,
				Amount:      decimal.NewFromInt(int64(gofakeit.Number(500, 1500))),
				Category:    "Housing",
				Description: "Monthly rent",
			},
			Frequency:   core.Monthly,
			NextDueDate: core.DateOf(now.AddDate(0, 1, 0)),
			IsActive:    true,
			CreatedAt:   now,
		},
		{
			ID: uuid.NewString(),
			Template: core.TransactionTemplate{
				Type:        core.Income,
				Amount:      decimal.NewFromInt(int64(gofakeit.Number(2000, 4000))),
				Category:    "Salary",
				Description: "Monthly salary",
			},
			Frequency:   core.Monthly,
			NextDueDate: core.DateOf(now.AddDate(0, 1, 0)),
			IsActive:    true,
			CreatedAt:   now,
		},
	}

	if err := result.Store.SetTransactions(ctx, txs); err != nil {
		logger.Error("Failed to write transactions", "error", err)
		os.Exit(1)
	}
	if err := result.Store.SetRecurring(ctx, recurring); err != nil {
		logger.Error("Failed to write recurring transactions", "error", err)
		os.Exit(1)
	}

	logger.Info("Seed data written",
		"backend", cfg.DataBackend,
		"transactions", len(txs),
		"recurring", len(recurring))
}

func randomTransaction(now time.Time) core.Transaction {
	typ := core.Expense
	category := expenseCategories[gofakeit.Number(0, len(expenseCategories)-1)]
	amount := decimal.NewFromFloat(gofakeit.Price(3, 250)).Round(2)
	if gofakeit.Number(1, 5) == 1 {
		typ = core.Income
		category = incomeCategories[gofakeit.Number(0, len(incomeCategories)-1)]
		amount = decimal.NewFromFloat(gofakeit.Price(100, 3000)).Round(2)
	}

	daysAgo := gofakeit.Number(0, 180)
	date := core.DateOf(now.AddDate(0, 0, -daysAgo))

	notes := ""
	if gofakeit.Bool() {
		notes = gofakeit.Sentence(4)
	}

	return core.Transaction{
		ID:          uuid.NewString(),
		Type:        typ,
		Amount:      amount,
		Category:    category,
		Description: gofakeit.ProductName(),
		Date:        date,
		Notes:       notes,
		CreatedAt:   now.AddDate(0, 0, -daysAgo),
	}
}
