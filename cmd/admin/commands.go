package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"unistay-backend/internal/config"
	"unistay-backend/internal/domain"
	"unistay-backend/internal/logger"
	"unistay-backend/internal/ratelimit"
	"unistay-backend/internal/repository/postgres"
	"unistay-backend/internal/security"
	"unistay-backend/internal/service"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "unistay-admin",
		Short:         "UniStay administration tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "config/config.dev.yaml", "Path to configuration file")

	root.AddCommand(
		migrateCmd(),
		createSuperuserCmd(),
		addAmenityCmd(),
	)
	return root
}

// openStore loads configuration and connects to the database.
func openStore(cmd *cobra.Command) (*config.Config, *postgres.Store, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(cmd.Context()); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return cfg, postgres.NewStore(db), nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.DB().Close()

			applied, err := postgres.Migrate(cmd.Context(), store.DB())
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No pending migrations")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", name)
			}
			return nil
		},
	}
}

func createSuperuserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-superuser",
		Short: "Create an administrator account",
		Long:  `Creates an admin account with superuser rights. The password is read from --password or, when omitted, from the UNISTAY_SUPERUSER_PASSWORD environment variable.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			fullName, _ := cmd.Flags().GetString("full-name")
			if password == "" {
				password = os.Getenv("UNISTAY_SUPERUSER_PASSWORD")
			}

			cfg, store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.DB().Close()

			auth := service.NewAuthService(
				store.UserRepository,
				security.NewTokenManager(cfg.Session.Secret, cfg.SessionTTL()),
				security.NewMemoryTokenRevoker(),
				ratelimit.Unlimited{},
			)
			user, err := auth.CreateSuperuser(cmd.Context(), domain.SignupInput{
				Username:        username,
				Email:           email,
				Password:        password,
				PasswordConfirm: password,
				FullName:        fullName,
			})
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Superuser %q created (id %d)\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().String("username", "", "Login name")
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("password", "", "Password (min 8 characters)")
	cmd.Flags().String("full-name", "", "Display name")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func addAmenityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-amenity [name]",
		Short: "Add an amenity owners can attach to listings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.DB().Close()

			props := service.NewPropertyService(store.PropertyRepository, nil, service.ImageRules{})
			a, err := props.AddAmenity(cmd.Context(), args[0])
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Amenity %q added (id %d)\n", a.Name, a.ID)
			return nil
		},
	}
}

// describe flattens field errors into a single CLI message.
func describe(err error) error {
	var v *domain.ValidationError
	if !errors.As(err, &v) || len(v.Fields) == 0 {
		return err
	}
	msg := v.Message
	for field, problem := range v.Fields {
		if msg != "" {
			msg += "; "
		}
		msg += field + ": " + problem
	}
	return fmt.Errorf("%s", msg)
}
