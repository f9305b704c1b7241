package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"rpccheck/internal/check"
	"rpccheck/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	errUsage    = errors.New("usage: rpccheck ROOT-DIR")
	errFindings = errors.New("consistency errors found")
)

// Execute runs the CLI and exits the process: 0 on a clean check, 1 on
// inconsistencies or a fatal extraction error, 2 on a usage error.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "rpccheck <root-dir>",
		Short:         "Check RPC argument consistency between dispatch tables and vRPCConvertParams",
		Long:          "Extracts the RPC dispatch tables and the vRPCConvertParams conversion table\nfrom a source tree and verifies that they agree on argument naming and\npositional indexing.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errUsage
			}
			return nil
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0])
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	ctx, cancel := setupContext()
	defer cancel()

	err := rootCmd.ExecuteContext(ctx)
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, errUsage)
		os.Exit(2)
	case errors.Is(err, errFindings):
		os.Exit(1)
	default:
		log.Error().Err(err).Msg("Check aborted")
		os.Exit(1)
	}
}

func runCheck(cmd *cobra.Command, root string) error {
	cfg := config.Load()

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root is not a directory: %s", root)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "* Checking consistency between dispatch tables and vRPCConvertParams")

	report, err := check.Run(cmd.Context(), os.DirFS(root), cfg)
	if err != nil {
		return err
	}

	for _, f := range report.Findings {
		fmt.Fprintln(out, f)
	}

	if report.Errors() > 0 {
		log.Error().
			Int("errors", report.Errors()).
			Int("warnings", report.Warnings()).
			Msg("Inconsistencies found")
		return errFindings
	}

	log.Info().Int("warnings", report.Warnings()).Msg("Dispatch tables and conversion table are consistent")
	return nil
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}
