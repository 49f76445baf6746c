// Command seed fills a local database with generated demo data: a few users
// with credentials "password1" and a spread of records over recent months.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/bxcodec/faker/v3"
	"github.com/joho/godotenv"

	"moneytrack/internal/auth"
	"moneytrack/internal/config"
	"moneytrack/internal/core"
	applog "moneytrack/internal/log"
	"moneytrack/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentApp})
	applog.SetDefault(logger)

	users := flag.Int("users", 3, "number of demo users")
	records := flag.Int("records", 40, "records per user and family")
	months := flag.Int("months", 6, "how many months back to spread records over")
	flag.Parse()

	cfg := config.Load()
	repo, err := storage.New(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open storage", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx := context.Background()
	tokens := auth.NewService("seed-only", time.Hour, cfg.BcryptCost)

	hash, err := tokens.HashPassword("password1")
	if err != nil {
		logger.Error("Failed to hash demo password", "error", err)
		os.Exit(1)
	}

	categories, err := repo.Categories.List(ctx)
	if err != nil {
		logger.Error("Failed to list categories", "error", err)
		os.Exit(1)
	}

	for i := 0; i < *users; i++ {
		user, err := repo.Users.Create(ctx, core.User{
			Name:     faker.Name(),
			Email:    fmt.Sprintf("demo%d@example.com", i+1),
			Password: hash,
		})
		if err != nil {
			logger.Error("Failed to create demo user", "error", err)
			os.Exit(1)
		}

		if err := seedRecords(ctx, repo, user.ID, categories, *records, *months); err != nil {
			logger.Error("Failed to seed records", "error", err, "user_id", user.ID)
			os.Exit(1)
		}
		logger.Info("Seeded demo user", "email", user.Email, "records", *records*2)
	}

	logger.Info("Demo data ready", "users", *users, "password", "password1")
}

func seedRecords(ctx context.Context, repo *storage.Repository, userID string, categories []core.Category, count, months int) error {
	now := time.Now().UTC()

	for _, family := range []core.Family{core.FamilyTransactions, core.FamilyDebts} {
		positive, negative := family.Kinds()
		collection := repo.Collection(family)

		for i := 0; i < count; i++ {
			kind := negative
			// Roughly one third of the records land on the positive side.
			if rand.Intn(3) == 0 {
				kind = positive
			}

			rec := core.FinancialRecord{
				Kind:    kind,
				Concept: faker.Sentence(),
				Amount:  core.Money{Cents: int64(rand.Intn(50000) + 100)},
				Date:    now.AddDate(0, -rand.Intn(months), -rand.Intn(28)),
				UserID:  userID,
			}
			if family == core.FamilyDebts {
				rec.Beneficiary = faker.Name()
			}
			if len(categories) > 0 && rand.Intn(2) == 0 {
				rec.Category = &categories[rand.Intn(len(categories))]
			}

			if _, err := collection.Create(ctx, rec); err != nil {
				return fmt.Errorf("create %s record: %w", family, err)
			}
		}
	}
	return nil
}
