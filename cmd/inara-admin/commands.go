package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/repositories"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/services"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/bootstrap"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/config"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/importer"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/metrics"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/seed"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	adminEmail     string
	adminPassword  string
	adminFirstName string
	adminLastName  string

	importTrainingID int64
	importKind       string
	importReplace    bool
	importDryRun     bool
)

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin email (required)")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password (defaults to $INARA_ADMIN_PASSWORD)")
	createAdminCmd.Flags().StringVar(&adminFirstName, "first-name", "System", "first name")
	createAdminCmd.Flags().StringVar(&adminLastName, "last-name", "Administrator", "last name")
	_ = createAdminCmd.MarkFlagRequired("email")

	resetPasswordCmd.Flags().StringVar(&adminEmail, "email", "", "account email (required)")
	resetPasswordCmd.Flags().StringVar(&adminPassword, "password", "", "new password (defaults to $INARA_ADMIN_PASSWORD)")
	_ = resetPasswordCmd.MarkFlagRequired("email")

	importCmd.Flags().Int64Var(&importTrainingID, "training", 0, "target training id")
	importCmd.Flags().StringVar(&importKind, "kind", services.ImportLessons, "lessons, questions or objectives")
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "replace existing records of the same kind")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "parse the file and report counts without writing")
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()
		return withDatabase(ctx, func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, lgr zerolog.Logger) error {
			return bootstrap.RunMigrations(ctx, cfg, pool, lgr)
		})
	},
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	Long: `Create an ADMIN account with the given email. Nothing happens when the
email is already registered.

Examples:
  INARA_ADMIN_PASSWORD=... inara-admin create-admin --email it@inara.org`,
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := passwordFromFlagOrEnv(adminPassword)
		if err != nil {
			return err
		}
		return withDatabase(cmd.Context(), func(ctx context.Context, _ *config.Config, pool *pgxpool.Pool, lgr zerolog.Logger) error {
			created, err := newSeeder(pool, lgr).EnsureAdmin(ctx, seed.AdminAccount{
				Email:     adminEmail,
				Password:  password,
				FirstName: adminFirstName,
				LastName:  adminLastName,
			})
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "admin %s created\n", adminEmail)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "account %s already exists\n", adminEmail)
			}
			return nil
		})
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Set a new password for an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := passwordFromFlagOrEnv(adminPassword)
		if err != nil {
			return err
		}
		return withDatabase(cmd.Context(), func(ctx context.Context, _ *config.Config, pool *pgxpool.Pool, lgr zerolog.Logger) error {
			if err := newSeeder(pool, lgr).ResetPassword(ctx, adminEmail, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", adminEmail)
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Bulk import lessons, questions or objectives into a training",
	Long: `Parse a plain text file and store the records in a training.

Examples:
  # Check how a file parses
  inara-admin import --kind questions --dry-run quiz.txt

  # Replace the lessons of training 12
  inara-admin import --training 12 --kind lessons --replace lessons.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	text, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	if importDryRun {
		imported, skipped, err := previewImport(importKind, string(text))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d parsed, %d skipped\n", importKind, imported, skipped)
		return nil
	}

	if importTrainingID <= 0 {
		return errors.New("--training is required unless --dry-run is set")
	}

	return withDatabase(cmd.Context(), func(ctx context.Context, _ *config.Config, pool *pgxpool.Pool, lgr zerolog.Logger) error {
		trainings := services.NewTrainingService(repositories.NewTrainingRepository(pool), nil, metrics.NewMetrics(), lgr)
		res, err := trainings.Import(ctx, importTrainingID, importKind, &dto.ImportRequest{Text: string(text), Replace: importReplace})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d imported, %d skipped\n", res.Kind, res.Imported, res.Skipped)
		return nil
	})
}

// previewImport parses text without touching the database
func previewImport(kind, text string) (int, int, error) {
	switch kind {
	case services.ImportLessons:
		res := importer.ParseLessons(text)
		return len(res.Items), res.Skipped, nil
	case services.ImportQuestions:
		res := importer.ParseQuestions(text)
		return len(res.Items), res.Skipped, nil
	case services.ImportObjectives:
		res := importer.ParseObjectives(text)
		return len(res.Items), res.Skipped, nil
	default:
		return 0, 0, fmt.Errorf("unknown import kind %q", kind)
	}
}

func newSeeder(pool *pgxpool.Pool, lgr zerolog.Logger) *seed.Seeder {
	return seed.NewSeeder(
		repositories.NewUserRepository(pool),
		repositories.NewDepartmentRepository(pool),
		repositories.NewSettingRepository(pool),
		lgr,
	)
}

func passwordFromFlagOrEnv(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv("INARA_ADMIN_PASSWORD"); env != "" {
		return env, nil
	}
	return "", errors.New("--password or INARA_ADMIN_PASSWORD is required")
}
