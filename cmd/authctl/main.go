// Command authctl is an operator tool: it hashes passwords and creates
// pre-activated accounts directly in the database, bypassing email
// verification.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/term"

	"github.com/listora/listora/internal/server/auth"
	"github.com/listora/listora/internal/server/models"
	"github.com/listora/listora/internal/server/repositories/repomanager"
	"github.com/listora/listora/internal/server/services"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "hash":
		err = runHash(os.Args[2:])
	case "adduser":
		err = runAddUser(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: authctl <hash|adduser> [flags]")
}

func readPassword() (string, error) {
	fmt.Println("Enter password")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", err
	}
	return string(password), nil
}

// runHash prints the bcrypt hash of a password read from the terminal.
func runHash(args []string) error {
	fs := flag.NewFlagSet("hash", flag.ExitOnError)
	cost := fs.Int("w", auth.DefaultBcryptCost, "bcrypt cost")
	if err := fs.Parse(args); err != nil {
		return err
	}

	password, err := readPassword()
	if err != nil {
		return err
	}

	hash, err := auth.NewBcryptHasher(*cost).Hash(password)
	if err != nil {
		return err
	}

	fmt.Println(hash)
	return nil
}

// runAddUser inserts an active, verified account. Intended for bootstrapping
// a fresh deployment.
func runAddUser(args []string) error {
	fs := flag.NewFlagSet("adduser", flag.ExitOnError)
	dsn := fs.String("d", "", "database DSN")
	email := fs.String("email", "", "user email")
	firstName := fs.String("first", "", "first name")
	lastName := fs.String("last", "", "last name")
	cost := fs.Int("w", auth.DefaultBcryptCost, "bcrypt cost")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *dsn == "" || *email == "" {
		return fmt.Errorf("both -d and -email are required")
	}

	password, err := readPassword()
	if err != nil {
		return err
	}
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("empty password")
	}

	hash, err := auth.NewBcryptHasher(*cost).Hash(password)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	now := time.Now()
	user := &models.User{
		Email:           services.NormalizeEmail(*email),
		PasswordHash:    hash,
		FirstName:       *firstName,
		LastName:        *lastName,
		Status:          models.UserStatusActive,
		EmailVerifiedAt: &now,
	}

	created, err := repos.Users(db).Create(ctx, user)
	if err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}

	fmt.Printf("created user %s (%s)\n", created.ID, created.Email)
	return nil
}
