package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/maddsua/consolelog"
	"github.com/maddsua/consolelog/provider"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const defaultPort = 5173

func newServeCmd(cli *CliFlags) *cobra.Command {

	var root string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a directory with console forwarding enabled",
		Long: "Serves static files and the console capture module at " + provider.AssetPath + ".\n" +
			"Pages opt in with <script type=\"module\" src=\"" + provider.AssetPath + "\"></script>.",
		RunE: func(cmd *cobra.Command, args []string) error {

			cfg, err := loadConfig(cli)
			if err != nil {
				return err
			}

			if root != "" {
				cfg.Server.Root = root
			}

			cfg.Server.Port = resolvePort(port, cfg.Server.Port)

			return serve(cmd.Context(), cfg, newHostLogger(cli.JsonLogs))
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "directory to serve")
	cmd.Flags().IntVar(&port, "port", 0, "port to listen on")

	return cmd
}

func resolvePort(flagPort int, cfgPort int) int {

	if flagPort > 0 {
		return flagPort
	}

	if val, err := strconv.Atoi(os.Getenv("PORT")); err == nil && val > 0 {
		return val
	}

	if cfgPort > 0 {
		return cfgPort
	}

	return defaultPort
}

func serve(ctx context.Context, cfg *FileConfig, logger consolelog.HostLogger) error {

	if ctx == nil {
		ctx = context.Background()
	}

	hooks, err := provider.New(cfg.ConsoleLog, logger)
	if err != nil {
		return err
	}

	stack := provider.NewStack(http.FileServer(http.Dir(cfg.Server.Root)))
	stack.Use(hooks.AssetMiddleware)

	if err := hooks.RegisterIngestion(stack); err != nil {
		return err
	}

	srv := http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           stack,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {

		slog.Info("SERVE Starting server",
			slog.String("at", fmt.Sprintf("http://%s", srv.Addr)),
			slog.String("root", cfg.Server.Root),
			slog.Bool("forwarding", cfg.ConsoleLog.Enabled),
			slog.String("route", cfg.ConsoleLog.Route))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	group.Go(func() error {

		<-groupCtx.Done()

		slog.Warn("SERVE Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
