// deskctl is the operator tool of the repair desk: it bootstraps admin
// accounts and executors and runs schema migrations against the database
// named by the usual configuration (.env, CONFIG_FILE, environment).
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/repair-desk/internal/audit"
	"github.com/BruksfildServices01/repair-desk/internal/auth"
	"github.com/BruksfildServices01/repair-desk/internal/clock"
	"github.com/BruksfildServices01/repair-desk/internal/config"
	dbpkg "github.com/BruksfildServices01/repair-desk/internal/db"
	domainExecutor "github.com/BruksfildServices01/repair-desk/internal/domain/executor"
	"github.com/BruksfildServices01/repair-desk/internal/infra/repository"
	"github.com/BruksfildServices01/repair-desk/internal/logger"
	"github.com/BruksfildServices01/repair-desk/internal/models"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run writes command results to out and diagnostics to errOut.
func run(ctx context.Context, args []string, out, errOut io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		printUsage(out)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "migrate", "create-user", "add-executor":
	default:
		printUsage(out)
		return fmt.Errorf("unknown command %q", cmd)
	}

	log := logger.NewWithWriter(errOut, cfg.Env, cfg.LogLevel)

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	switch cmd {
	case "create-user":
		return createUser(ctx, db, cfg, log, rest, out)
	case "add-executor":
		return addExecutor(ctx, db, log, rest, out)
	}
	fmt.Fprintln(out, "schema up to date")
	return nil
}

// recordAudit writes ev synchronously. The mutation has already been
// committed, so a failure is reported but does not fail the command.
func recordAudit(ctx context.Context, db *gorm.DB, log zerolog.Logger, ev audit.Event) {
	if err := audit.New(db).Log(ctx, ev); err != nil {
		log.Error().Err(err).Str("action", ev.Action).Msg("write audit event")
	}
}

func createUser(ctx context.Context, db *gorm.DB, cfg *config.Config, log zerolog.Logger, args []string, out io.Writer) error {
	var in auth.RegisterInput

	flags := pflag.NewFlagSet("create-user", pflag.ContinueOnError)
	flags.StringVar(&in.Email, "email", "", "login email (required)")
	flags.StringVar(&in.Name, "name", "", "display name, matched against ticket client names (required)")
	flags.StringVar(&in.Password, "password", "", "initial password, at least 6 characters (required)")
	flags.StringVar(&in.Role, "role", models.RoleUser, "admin or user")
	if err := flags.Parse(args); err != nil {
		return err
	}

	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	if in.Role != models.RoleAdmin && in.Role != models.RoleUser {
		return fmt.Errorf("--role must be admin or user, got %q", in.Role)
	}

	svc := auth.NewService(
		repository.NewUserGormRepository(db),
		auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL, clock.Real()),
		auth.NewMemoryRevoker(clock.Real()),
		false,
	)
	u, err := svc.Register(ctx, in)
	if err != nil {
		return err
	}

	recordAudit(ctx, db, log, audit.Event{
		Action:   "user_created",
		Entity:   "user",
		EntityID: &u.ID,
		Metadata: map[string]any{"role": u.Role, "source": "deskctl"},
	})

	fmt.Fprintf(out, "created %s user %d <%s>\n", u.Role, u.ID, u.Email)
	return nil
}

func addExecutor(ctx context.Context, db *gorm.DB, log zerolog.Logger, args []string, out io.Writer) error {
	var name string

	flags := pflag.NewFlagSet("add-executor", pflag.ContinueOnError)
	flags.StringVar(&name, "name", "", "technician name (required)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	name, err := domainExecutor.NormalizeName(name)
	if err != nil {
		return err
	}

	e := &models.Executor{Name: name}
	if err := repository.NewExecutorGormRepository(db).CreateExecutor(ctx, e); err != nil {
		if errors.Is(err, domainExecutor.ErrExecutorExists) {
			return fmt.Errorf("executor %q already exists", name)
		}
		return err
	}

	recordAudit(ctx, db, log, audit.Event{
		Action:   "executor_created",
		Entity:   "executor",
		EntityID: &e.ID,
		Metadata: map[string]any{"name": e.Name, "source": "deskctl"},
	})

	fmt.Fprintf(out, "created executor %d %q\n", e.ID, e.Name)
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: deskctl <command> [flags]

Commands:
  migrate                                   create or update the schema
  create-user --email --name --password     create an account (--role admin|user)
  add-executor --name                       register a technician
`)
}
