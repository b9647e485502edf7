package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"go-course-platform/internal/database"
	"go-course-platform/internal/model"
	"go-course-platform/internal/repository"
)

func setRoleCmd() *cobra.Command {
	var email string
	var role string

	cmd := &cobra.Command{
		Use:   "set-role",
		Short: "Change the role of an existing account",
		Long: `Change the role of an existing account, for example to promote
the first administrator. Active sessions keep the old role until the
user logs in again.`,
		Example: "  server set-role --email admin@example.com --role admin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := model.Role(strings.ToLower(strings.TrimSpace(role)))
			if !target.Valid() {
				return fmt.Errorf("invalid role %q: must be one of student, teacher, admin", role)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			db, err := database.Connect(ctx, cfg.DatabaseURL, cfg.DatabaseName, cfg.DBConnectRetryInterval)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(context.Background()) }()

			user, err := repository.NewUserRepository(db.Database).UpdateRoleByEmail(ctx, strings.ToLower(strings.TrimSpace(email)), target)
			if err != nil {
				return fmt.Errorf("set role for %s: %w", email, err)
			}

			slog.Info("role updated", "email", user.Email, "role", user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email of the account to update")
	cmd.Flags().StringVar(&role, "role", "", "New role: student, teacher or admin")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}
