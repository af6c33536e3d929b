package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/gastos/internal/auth"
	"github.com/MrJamesThe3rd/gastos/internal/config"
	"github.com/MrJamesThe3rd/gastos/internal/expense"
)

// token prints a bearer token signed with JWT_SECRET, for local use of the
// TUI and the API.
func main() {
	_ = godotenv.Load()

	var (
		userID    = flag.String("user", "", "user id (token subject)")
		firstName = flag.String("first-name", "", "given name")
		lastName  = flag.String("last-name", "", "family name")
		validator = flag.Bool("validator", false, "grant the validator role")
		ttl       = flag.Duration("ttl", 24*time.Hour, "token lifetime")
	)

	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "-user is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	token, err := auth.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer).Sign(expense.Actor{
		UserID:    *userID,
		FirstName: *firstName,
		LastName:  *lastName,
		Validator: *validator,
	}, *ttl)
	if err != nil {
		slog.Error("failed to sign token", "error", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
