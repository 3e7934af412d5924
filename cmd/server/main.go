package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tutorcall-signal/internal/app"
	"github.com/vovakirdan/tutorcall-signal/internal/auth"
	"github.com/vovakirdan/tutorcall-signal/internal/config"
	"github.com/vovakirdan/tutorcall-signal/internal/log"
	"github.com/vovakirdan/tutorcall-signal/internal/utils"
)

var (
	configPath string
	overrides  config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tutorcall-signal",
	Short: "WebRTC signaling server for two-party tutoring calls",
	RunE:  runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the signaling server (default)",
	RunE:  runServe,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml")
	rootCmd.PersistentFlags().StringVar(&overrides.Addr, "addr", "", "HTTP listen address")
	rootCmd.PersistentFlags().StringVar(&overrides.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().DurationVar(&overrides.JoinTimeout, "join-timeout", 0, "close connections that do not join a room in time")

	rootCmd.AddCommand(serveCmd, newTokenCmd(), newHashPasswordCmd())

	rootCmd.SilenceUsage = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	bootstrap := log.New("info", "console")
	cfg, path, err := config.Load(bootstrap, configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg.UpdateFrom(overrides)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid flags: %w", err)
	}
	bootstrap.Debug().Str("path", path).Msg("config loaded")
	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := log.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(&cfg, logger)
	if err := application.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("server exited with error")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

func newTokenCmd() *cobra.Command {
	var (
		subject string
		name    string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an identity token for a call participant",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			identity := &auth.IdentityConfig{
				Secret: []byte(cfg.IdentitySecret),
				Issuer: cfg.IdentityIssuer,
				TTL:    ttl,
			}
			if !identity.Enabled() {
				return fmt.Errorf("identity_secret is not configured")
			}
			if subject == "" {
				subject = utils.NewID()
			}
			token, err := auth.IssueIdentityToken(identity, subject, name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "participant id (random when empty)")
	cmd.Flags().StringVar(&name, "name", "", "display name shown to the other participant")
	cmd.Flags().DurationVar(&ttl, "ttl", 2*time.Hour, "token lifetime")
	return cmd
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for admin_password_hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashAdminPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
