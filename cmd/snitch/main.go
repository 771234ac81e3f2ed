package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kapu/tautulli-snitch-go/internal/app"
	"github.com/kapu/tautulli-snitch-go/internal/config"
	"github.com/kapu/tautulli-snitch-go/internal/domain"
	"github.com/kapu/tautulli-snitch-go/internal/render"
	"github.com/kapu/tautulli-snitch-go/internal/util"
	apperrors "github.com/kapu/tautulli-snitch-go/pkg/errors"
)

var (
	flagSort string
	flagUser string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "snitch",
		Short:         "Tautulli user devices and IPs report",
		SilenceUsage:  true,
		SilenceErrors: true, // failures are already rendered before returning
		RunE:          runReport,
	}

	rootCmd.Flags().StringVar(&flagSort, "sort", string(domain.SortByDevices),
		"sort summary by user name, number of devices, or number of IPs (name|devices|ips)")
	rootCmd.Flags().StringVar(&flagUser, "user", "",
		"show detailed devices and IPs for a specific user (matches name case-insensitively, or by numeric ID)")

	return rootCmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	sortMode, ok := domain.ParseSortMode(flagSort)
	if !ok {
		err := fmt.Errorf("invalid --sort value %q (expected name, devices, or ips)", flagSort)
		pterm.Error.Println(err)
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		pterm.Error.Printfln("Failed to load config: %v", err)
		return err
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		pterm.Error.Printfln("Failed to initialize logger: %v", err)
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container := app.Build(cfg, logger)
	defer container.Close()

	if flagUser != "" {
		return runDetail(ctx, container, flagUser)
	}
	return runSummary(ctx, container, sortMode)
}

func runSummary(ctx context.Context, container *app.Container, mode domain.SortMode) error {
	summaries, err := container.Report.Summary(ctx, mode)
	if err != nil {
		container.Logger.Error("Summary report failed", zap.Error(err))
		pterm.Error.Printfln("Summary report failed: %v", err)
		return err
	}

	render.Summary(summaries)
	return nil
}

func runDetail(ctx context.Context, container *app.Container, filter string) error {
	details, err := container.Report.Detail(ctx, filter)
	if err != nil {
		var notFound *apperrors.UserNotFoundError
		if errors.As(err, &notFound) {
			pterm.Warning.Printfln("No users matched %q.", filter)
			return err
		}
		container.Logger.Error("Detailed report failed", zap.Error(err))
		pterm.Error.Printfln("Detailed report failed: %v", err)
		return err
	}

	render.Details(details, container.Annotator.Enabled())
	return nil
}
