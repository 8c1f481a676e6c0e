package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"purgeall/internal/admin"
)

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "HTTP listen address")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP admin interface",
	Long: "Serves the model browser and two-step deletion flow over HTTP.\n" +
		"The safety configuration is hot-reloaded when the file changes.",
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := setup(false)
	if err != nil {
		return err
	}
	defer rt.close()

	srv := admin.New(admin.Config{
		ConfigPath: rt.confPath,
		Policy:     rt.policy,
		DB:         rt.db,
		Registry:   rt.registry,
		Audit:      rt.audit,
		Logger:     rt.logger,
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	reloader, err := admin.NewReloader(srv, rt.logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: hot-reload disabled: %v\n", err)
	} else {
		go reloader.Run(ctx)
	}

	httpSrv := &http.Server{
		Addr:    serveAddr,
		Handler: srv.Router(),
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down admin server...")
		cancel()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		httpSrv.Shutdown(shutdownCtx)
	}()

	rt.logger.Info("admin server listening", zap.String("addr", serveAddr))
	fmt.Fprintf(os.Stderr, "purgeall admin listening on %s\n", serveAddr)

	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
