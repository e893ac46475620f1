package main

import (
	"fmt"
	"os"
	"time"

	"hostelhub/config"
	"hostelhub/internal/database"
	"hostelhub/internal/models"
	"hostelhub/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Development helpers for API bearer tokens",
	}
	cmd.AddCommand(newIssueCmd())
	return cmd
}

func newIssueCmd() *cobra.Command {
	var (
		userID string
		email  string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Mint a bearer token for a user by id or email",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New("token").Function("issue")

			if (userID == "") == (email == "") {
				return fmt.Errorf("exactly one of --user or --email is required")
			}

			cfg, err := config.New()
			if err != nil {
				return err
			}

			subject, err := resolveUser(cfg, userID, email)
			if err != nil {
				return err
			}

			token, err := services.NewTokenService(cfg).Issue(subject, ttl)
			if err != nil {
				return err
			}

			log.Info("Issued token", "userID", subject, "ttl", ttl)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User UUID")
	cmd.Flags().StringVar(&email, "email", "", "User email, looked up in the database")
	cmd.Flags().DurationVar(&ttl, "ttl", services.DEFAULT_TOKEN_TTL, "Token lifetime")
	return cmd
}

func resolveUser(cfg config.Config, userID, email string) (uuid.UUID, error) {
	if userID != "" {
		id, err := uuid.Parse(userID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid --user: %w", err)
		}
		return id, nil
	}

	db, err := database.New(cfg)
	if err != nil {
		return uuid.Nil, err
	}
	defer func() { _ = db.Close() }()

	var user models.User
	if err := db.SQL.Where("email = ?", email).First(&user).Error; err != nil {
		return uuid.Nil, fmt.Errorf("no user with email %s: %w", email, err)
	}
	if !user.IsActive {
		return uuid.Nil, fmt.Errorf("user %s is inactive", email)
	}

	return user.ID, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
