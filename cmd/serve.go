package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/storypipe/api"
	"github.com/gaurav-prasanna/storypipe/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the segmentation HTTP API",
	Long: `Serve starts an HTTP server exposing:
  GET  /health
  GET  /v1/config
  POST /v1/parse   (text/plain body, or JSON {"text", "required_blocks"})`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", config.Default().Addr, "Listen address")
	addParserFlags(serveCmd.Flags())
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	parserCfg, err := cfg.ParserConfig()
	if err != nil {
		return fmt.Errorf("loading parser configuration: %w", err)
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      api.NewServer(cfg.Segmenter(parserCfg), logger),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx := cmd.Context()
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting storypipe api", "addr", cfg.Addr, "parser_mode", cfg.ParserMode)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
