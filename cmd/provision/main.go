// Command provision seeds a fresh bank database with the staff user, the
// scoring engine user, and a number of team accounts, then prints the
// generated credentials exactly once. Passwords and PINs are stored hashed
// and cannot be recovered later.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/shopspring/decimal"

	"github.com/lockdownctf/bankapi/internal/bank/app"
	"github.com/lockdownctf/bankapi/internal/bank/service"
	"github.com/lockdownctf/bankapi/internal/bank/store/drivers/sqlite"
	"github.com/lockdownctf/bankapi/pkg/cryptox"
	"github.com/lockdownctf/bankapi/pkg/slogx"
)

func main() {
	var (
		teams       = flag.Int("teams", 10, "number of team accounts to seed")
		teamBalance = flag.String("team-balance", "85000.00", "starting balance per team account")
	)
	flag.Parse()

	cfg := app.LoadConfig()
	logger := slogx.New(slogx.Config{
		Service: "bank-provision",
		Version: app.BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  "text",
	})

	cryptox.SetPepperPath(cfg.PepperFile)

	balance, err := decimal.NewFromString(*teamBalance)
	if err != nil {
		log.Fatalf("invalid -team-balance %q: %v", *teamBalance, err)
	}

	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.ApplyMigrations(); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	svc := &service.ProvisionService{
		Store:   db,
		Logger:  logger,
		Timeout: cfg.StoreTimeout,
	}

	creds, err := svc.Provision(context.Background(), service.ProvisionOptions{
		StaffPassword:   cfg.StaffPassword,
		ScoringPassword: cfg.ScoringPassword,
		Teams:           *teams,
		TeamPassword:    cfg.TeamPassword,
		TeamBalance:     balance,
	})
	if err != nil {
		log.Fatalf("provision failed: %v", err)
	}

	fmt.Println("Provisioned accounts (credentials are shown ONCE, store them now):")
	fmt.Println()
	for _, c := range creds {
		role := "team"
		if c.Staff {
			role = "staff"
		}
		fmt.Printf("  %-12s role=%-5s account=%s pin=%s balance=%s password=%s\n",
			c.Username, role, c.AccountID, c.PIN, c.Balance.StringFixed(2), c.Password)
	}
	fmt.Println()
	fmt.Printf("Database: %s\n", cfg.DatabaseFile)
	os.Exit(0)
}
