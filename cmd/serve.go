package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"story_assembler/generator"
	"story_assembler/publisher"
	"story_assembler/server"
	"story_assembler/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON API server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rt, err := newRuntime(ctx)
		if err != nil {
			return err
		}
		defer rt.logger.Sync() //nolint:errcheck

		lib, err := store.Open(ctx, rt.cfg.Store.DSN)
		if err != nil {
			return err
		}
		defer lib.Close()

		pub, err := publisher.New(lib, rt.logger.Named("publisher"))
		if err != nil {
			return err
		}
		splitter, err := generator.NewInterviewSplitter(rt.llm, rt.logger.Named("interview"), rt.exporter)
		if err != nil {
			return err
		}
		srv, err := server.New(server.Options{
			Agent:     rt.agent,
			Splitter:  splitter,
			Publisher: pub,
			Library:   lib,
			Metrics:   rt.exporter.Handler(),
			Logger:    rt.logger.Named("http"),
			Timeout:   rt.cfg.LLM.Timeout,
		})
		if err != nil {
			return err
		}

		httpSrv := &http.Server{
			Addr:              rt.cfg.Server.Addr,
			Handler:           srv.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		errCh := make(chan error, 1)
		go func() {
			rt.logger.Info("starting web server", zap.String("addr", httpSrv.Addr), zap.String("provider", rt.cfg.LLM.Provider))
			errCh <- httpSrv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		rt.logger.Info("shutting down web server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "http listen address (overrides server.addr)")
	if err := v.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr")); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(serveCmd)
}
