// Package admincli implements kh-admin, the operator tool that hashes
// passwords and seeds the administrator row.
//
// Usage:
//
//	kh-admin hash
//	kh-admin seed -username admin [-dsn postgres://...]
//
// Passwords are read from the terminal without echo, or as a single line
// from stdin when it is not a terminal.
package admincli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/knowledgehub/internal/common"
	"github.com/dmitrijs2005/knowledgehub/internal/server/auth"
	"github.com/dmitrijs2005/knowledgehub/internal/server/models"
	"github.com/dmitrijs2005/knowledgehub/internal/server/repositories/repomanager"
	"go.uber.org/multierr"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// MinPasswordLen matches the admin form rules.
const MinPasswordLen = 6

var errUsage = errors.New("usage: kh-admin <hash|seed> [flags]")

type App struct {
	in    *bufio.Reader
	out   io.Writer
	repos repomanager.RepositoryManager

	openDB func(dsn string) (*sql.DB, error)
}

func NewApp(in io.Reader, out io.Writer) *App {
	return &App{
		in:    bufio.NewReader(in),
		out:   out,
		repos: repomanager.NewPostgresRepositoryManager(),
		openDB: func(dsn string) (*sql.DB, error) {
			return sql.Open("pgx", dsn)
		},
	}
}

// Run dispatches args[0] as the subcommand.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "hash":
		return a.hash(args[1:])
	case "seed":
		return a.seed(ctx, args[1:])
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
}

func (a *App) hash(args []string) error {
	fs := flag.NewFlagSet("hash", flag.ContinueOnError)
	fs.SetOutput(a.out)
	if err := fs.Parse(args); err != nil {
		return err
	}

	hash, err := a.readAndHash()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, hash)
	return err
}

func (a *App) seed(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(a.out)
	dsn := fs.String("dsn", os.Getenv("DATABASE_URL"), "PostgreSQL DSN (default $DATABASE_URL)")
	username := fs.String("username", "admin", "administrator username")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dsn == "" {
		return errors.New("seed: -dsn or DATABASE_URL is required")
	}
	if len(*username) < 3 || len(*username) > 50 {
		return errors.New("seed: username must be 3 to 50 characters")
	}

	hash, err := a.readAndHash()
	if err != nil {
		return err
	}

	db, err := a.openDB(*dsn)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}

	err = a.upsertAdmin(ctx, db, *username, hash)
	err = multierr.Append(err, db.Close())
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(a.out, "admin %q is ready\n", *username)
	return err
}

func (a *App) upsertAdmin(ctx context.Context, db *sql.DB, username, hash string) error {
	if err := a.repos.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}
	_, err := a.repos.Admins(db).Upsert(ctx, &models.Admin{Username: username, PasswordHash: hash})
	return err
}

func (a *App) readAndHash() (string, error) {
	pw, err := GetPassword(a.in, a.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	defer common.WipeByteArray(pw)

	if len(pw) < MinPasswordLen {
		return "", fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	}
	if len(pw) > auth.MaxPasswordBytes {
		return "", fmt.Errorf("password must be at most %d bytes", auth.MaxPasswordBytes)
	}
	return auth.HashPassword(string(pw))
}
