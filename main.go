package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type cliOptions struct {
	envFile   string
	checkOnly bool
	offline   bool
}

func main() {
	os.Exit(execute(context.Background(), os.Args[1:]))
}

// execute runs the CLI and returns the process exit code.
func execute(ctx context.Context, args []string) int {
	exitCode := exitOK
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:           "qzmsg",
		Short:         "qzmsg posts one message to a QZone guestbook using a session cookie.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			exitCode = run(cmd.Context(), opts, false)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file applied over the environment")
	rootCmd.Flags().BoolVar(&opts.checkOnly, "check-only", false, "only check that the cookie is still valid")
	rootCmd.Flags().BoolVar(&opts.offline, "offline", false, "use local messages only")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Check that the session cookie is still valid.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			exitCode = run(cmd.Context(), opts, true)
			return nil
		},
	})

	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}
	return exitCode
}

func run(ctx context.Context, opts *cliOptions, checkCmd bool) int {
	if err := loadDotEnv(opts.envFile); err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] %v\n", err)
		return exitFailure
	}

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] %v\n", err)
		return exitFailure
	}
	if opts.checkOnly || checkCmd {
		cfg.CheckOnly = "1"
	}
	if opts.offline {
		cfg.Offline = "1"
	}

	baseLog, logFile, err := setupLogging(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] %v\n", err)
		return exitFailure
	}
	defer logFile.Close()

	logger := &runLogger{id: generateRunID(), base: baseLog}

	app, err := newAppFromConfig(cfg, logger)
	if err != nil {
		logger.Log("[FATAL] %v", err)
		if IsConfigError(err) {
			logger.Log("Required: QQ_COOKIE=\"p_skey=...; p_uin=o12345; uin=o12345; skey=...;\" TARGET_UIN=123456789")
		} else {
			NewNotifier(cfg.DingTalkWebhook, cfg.DingTalkKeywords, cfg.TargetUIN, logger).NotifyFailure(ctx, err.Error(), nil)
		}
		return exitFailure
	}

	return app.Run(ctx)
}

// newAppFromConfig validates config, builds the browser client and the app.
func newAppFromConfig(cfg *Config, logger Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	proxyURL, proxyDisplay, err := resolveProxy(cfg.ProxyURL)
	if err != nil {
		return nil, err
	}
	if proxyDisplay != "" {
		logger.Log("Using proxy: %s", proxyDisplay)
	}

	client, err := NewClient(nil, proxyURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return NewApp(cfg, client, logger)
}
