package main

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"finman/internal/config"
	"finman/internal/db"
	"finman/internal/model"
	"finman/internal/repository"
)

// Seeds a demo user with a small ledger and one goal, for local development.
func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Goal{},
		&model.Transaction{},
		&model.Plan{},
		&model.PlanSection{},
		&model.Report{},
		&model.Notification{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)

	user, err := userRepo.FindByEmail(ctx, "demo@finman.local")
	if err != nil && err != gorm.ErrRecordNotFound {
		log.Fatalf("Failed to look up demo user: %v", err)
	}
	if user != nil {
		log.Println("Demo user already exists, nothing to do")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("demo-password"), 10)
	if err != nil {
		log.Fatalf("Failed to hash demo password: %v", err)
	}

	user = &model.User{
		Name:         "Demo User",
		Email:        "demo@finman.local",
		PasswordHash: string(hashed),
		Occupation:   "Engineer",
	}
	if err := userRepo.Create(ctx, user); err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}

	goalRepo := repository.NewGoalRepository(gormDB)
	goal := &model.Goal{
		UserID:       user.ID,
		Name:         "Emergency fund",
		TargetAmount: decimal.NewFromInt(5000),
		SavedAmount:  decimal.NewFromInt(1200),
		TargetDate:   time.Now().AddDate(1, 0, 0),
	}
	if err := goalRepo.Create(ctx, goal); err != nil {
		log.Fatalf("Failed to create demo goal: %v", err)
	}

	txnRepo := repository.NewTransactionRepository(gormDB)
	entries := []model.Transaction{
		{UserID: user.ID, Type: model.TransactionIncome, Category: "salary", Amount: decimal.NewFromInt(4200), OccurredAt: time.Now().AddDate(0, 0, -20)},
		{UserID: user.ID, Type: model.TransactionExpense, Category: "rent", Amount: decimal.NewFromInt(1400), OccurredAt: time.Now().AddDate(0, 0, -18)},
		{UserID: user.ID, Type: model.TransactionExpense, Category: "groceries", Amount: decimal.NewFromFloat(312.75), OccurredAt: time.Now().AddDate(0, 0, -10)},
	}
	for i := range entries {
		if err := txnRepo.Create(ctx, &entries[i]); err != nil {
			log.Fatalf("Failed to create demo transaction: %v", err)
		}
	}

	log.Println("Seed completed successfully!")
	log.Printf("  - Demo user: demo@finman.local / demo-password (id %s)", user.ID)
}
