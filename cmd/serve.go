package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"obracusto/config"
	"obracusto/web"
)

var (
	servePort   int
	serveDBPath string
	serveTarget string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP import service",
	Long: `Start a local HTTP server exposing the import pipeline.

Endpoints:
- POST /api/import   multipart "file" (+ optional "dry_run") imports one spreadsheet
- POST /api/preview  multipart "file" returns the column mapping and parsed rows
- GET  /api/template import template download (?format=csv for CSV)
- GET  /api/expenses stored expenses grouped by due date (?project=<id>)
- GET  /metrics      Prometheus metrics

The service has no authentication; bind it to trusted networks only.`,
	Example: `
  # Start local server on default port
  obracusto serve

  # Serve imports into the remote backend on a custom port
  obracusto serve --port 9090 --target api
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		target, err := resolveTarget(serveTarget, cfg.Import.Target)
		if err != nil {
			return err
		}
		backend, closeBackend, err := openBackend(cfg, target, resolveDBPath(serveDBPath, cfg))
		if err != nil {
			return err
		}
		defer closeBackend()

		addr := fmt.Sprintf(":%d", servePort)
		server := &http.Server{
			Addr:              addr,
			Handler:           web.NewServer(backend, *cfg),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		log.Info().Str("addr", addr).Str("target", target).Str("project", cfg.Project.ID).Msg("serving")
		fmt.Printf("Listening on http://localhost:%d\n", servePort)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-sigCh:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			err := <-errCh
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP port for the import service")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "Path to local SQLite database (default: storage.db_path from config)")
	serveCmd.Flags().StringVar(&serveTarget, "target", "", "Expense backend: sqlite|api (default: import.target from config)")
}
