// SPDX-FileCopyrightText: (C) 2025 Red Hat Inc.
// SPDX-License-Identifier: Apache 2.0

package cmd

import (
	"context"
	"encoding/hex"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/CCSDS-SDLS/go-sdls-tc/api"
	"github.com/CCSDS-SDLS/go-sdls-tc/api/handlers"
	"github.com/CCSDS-SDLS/go-sdls-tc/internal/extproc"
	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/sdls"
)

var (
	serveAddr       string
	serveRPS        float64
	serveBurst      int
	serveExtendedPu bool
)

var serveCmd = &cobra.Command{
	Use:   "serve http_address",
	Short: "Serve the TC ApplySecurity/ProcessSecurity REST API",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}
		if len(args) > 0 {
			viper.Set("address", args[0])
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := rootCmdLoadConfig(cmd)
		if err != nil {
			return err
		}

		st, err := cfg.DB.getState()
		if err != nil {
			return err
		}
		if err := cfg.seed(st); err != nil {
			return err
		}

		sdlsCfg := cfg.toSdlsConfig()
		ctx, err := sdls.NewContext(sdlsCfg)
		if err != nil {
			return err
		}

		rootSecret, err := decodeRootSecret(cfg.KeyRootSecretHex)
		if err != nil {
			return err
		}
		var dispatcher sdls.PduDispatcher
		if serveExtendedPu {
			dispatcher = &extproc.Dispatcher{}
		}
		if err := ctx.Init(st.SARepository(), st.KeyRing(rootSecret), dispatcher); err != nil {
			return err
		}

		address := viper.GetString("address")
		if address == "" {
			address = serveAddr
		}
		if address == "" {
			address = ":8080"
		}

		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/v1/tc/apply", handlers.ApplyHandler(ctx))
		mux.HandleFunc("POST /api/v1/tc/process", handlers.ProcessHandler(ctx))
		mux.HandleFunc("GET /api/v1/sa/{spi}", handlers.GetSAHandler(st.SARepository()))
		mux.HandleFunc("GET /api/v1/healthz", handlers.HealthHandler(ctx))

		httpHandler := api.NewHTTPHandler(serveRPS, serveBurst).RegisterRoutes(mux)

		server := newServer(address, httpHandler)
		slog.Info("starting server", "addr", address)
		return server.start()
	},
}

func decodeRootSecret(hexSecret string) ([]byte, error) {
	if hexSecret == "" {
		return make([]byte, 32), nil
	}
	return hex.DecodeString(hexSecret)
}

// server is the minimal graceful-shutdown HTTP server wrapper used by the
// serve subcommand: SIGINT/SIGTERM trigger a bounded-deadline shutdown.
type server struct {
	addr    string
	handler http.Handler
}

func newServer(addr string, handler http.Handler) *server {
	return &server{addr: addr, handler: handler}
}

func (s *server) start() error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 3 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		slog.Debug("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Debug("server forced to shutdown", "err", err)
		}
	}()

	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	defer func() { _ = lis.Close() }()
	slog.Info("listening", "local", lis.Addr().String())
	return srv.Serve(lis)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "address", "", "HTTP listen address")
	serveCmd.Flags().Float64Var(&serveRPS, "rate-limit", 50, "Per-remote-address requests/second")
	serveCmd.Flags().IntVar(&serveBurst, "rate-limit-burst", 20, "Per-remote-address burst allowance")
	serveCmd.Flags().BoolVar(&serveExtendedPu, "extended-procedures", false, "Enable the Extended-Procedure Bridge demo dispatcher")
}
