// Command adminctl creates a superuser account for the admin UI. It prompts
// for email, name and password on the terminal, so it can bootstrap the very
// first staff account on a fresh database.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dkovalev/accountd/internal/server/config"
	"github.com/dkovalev/accountd/internal/server/repositories/repomanager"
	"github.com/dkovalev/accountd/internal/server/services"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "adminctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.LoadConfig()

	email, name, password, err := promptUserDetails()
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	repos, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	if err := repos.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	accounts := services.NewAccountService(repos, cfg)
	user, err := accounts.CreateSuperuser(ctx, email, password, name)
	if err != nil {
		return err
	}

	fmt.Printf("Superuser %s created.\n", user.Email)
	return nil
}

func promptUserDetails() (email, name, password string, err error) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Email: ")
	email, err = reader.ReadString('\n')
	if err != nil {
		return "", "", "", err
	}
	email = strings.TrimSpace(email)

	fmt.Print("Name: ")
	name, err = reader.ReadString('\n')
	if err != nil {
		return "", "", "", err
	}
	name = strings.TrimSpace(name)

	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", "", "", err
	}

	fmt.Print("Password (again): ")
	confirmBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", "", "", err
	}

	if string(passwordBytes) != string(confirmBytes) {
		return "", "", "", fmt.Errorf("passwords do not match")
	}

	return email, name, string(passwordBytes), nil
}
