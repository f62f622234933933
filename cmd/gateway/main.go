package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/oasislabs/ledger-gateway/config"
	"github.com/oasislabs/ledger-gateway/gateway"
	"github.com/oasislabs/ledger-gateway/log"
	"github.com/oasislabs/ledger-gateway/metrics"
)

const shutdownTimeout = 10 * time.Second

func parseConfig() *gateway.Config {
	cfg := gateway.Config{}
	parser, err := config.Generate(&cfg)
	if err != nil {
		fmt.Println("failed to generate configuration parser: ", err.Error())
		os.Exit(1)
	}

	if err := parser.Parse(os.Args[1:]); err != nil {
		if perr, ok := err.(config.ErrParseFlags); ok && perr.Cause == pflag.ErrHelp {
			os.Exit(0)
		}

		fmt.Println("failed to parse configuration: ", err.Error())
		if err := parser.Usage(); err != nil {
			fmt.Println("failed to print usage: ", err.Error())
		}
		os.Exit(1)
	}

	return &cfg
}

func newServer(cfg *gateway.Config, handler http.Handler) *http.Server {
	bind := cfg.BindPublicConfig.BindConfig
	return &http.Server{
		Addr:           fmt.Sprintf("%s:%d", bind.HttpInterface, bind.HttpPort),
		Handler:        handler,
		ReadTimeout:    time.Duration(bind.HttpReadTimeoutMs) * time.Millisecond,
		WriteTimeout:   time.Duration(bind.HttpWriteTimeoutMs) * time.Millisecond,
		MaxHeaderBytes: int(bind.HttpMaxHeaderBytes),
	}
}

// serve runs listen until a signal is received, then shuts the server
// down. It only returns once in-flight requests have drained or the
// shutdown timeout expired
func serve(
	ctx context.Context,
	logger log.Logger,
	s *http.Server,
	listen func() error,
	sigCh <-chan os.Signal,
) error {
	done := make(chan struct{})
	go func() {
		defer close(done)

		sig := <-sigCh
		logger.Info(ctx, "shutting down http server", log.MapFields{
			"signal": sig.String(),
		})

		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "http server failed to shut down", log.MapFields{
				"err": err.Error(),
			})
		}
	}()

	if err := listen(); err != http.ErrServerClosed {
		return err
	}

	<-done
	return nil
}

func main() {
	cfg := parseConfig()
	ctx := context.Background()

	logger := log.New(&cfg.LoggingConfig)
	logger.Info(ctx, "starting ledger gateway", cfg)

	metricsService, err := metrics.New(&cfg.MetricsConfig, logger)
	if err != nil {
		logger.Fatal(ctx, "failed to create metrics service", log.MapFields{
			"err": err.Error(),
		})
		return
	}
	metricsService.StartInstrumentation()
	defer metricsService.StopInstrumentation()

	services, err := gateway.NewServices(ctx, logger, cfg, gateway.DefaultFactories)
	if err != nil {
		logger.Fatal(ctx, "failed to create gateway services", log.MapFields{
			"err": err.Error(),
		})
		return
	}

	if services.SharedWallet == nil {
		logger.Warn(ctx, "no shared wallet configured, requests must provide their own credentials", log.MapFields{
			"call_type": "SharedWalletMissing",
		})
	}
	if len(services.TransferScript) == 0 {
		logger.Warn(ctx, "no transfer script configured, transfers will be rejected", log.MapFields{
			"call_type": "TransferScriptMissing",
		})
	}

	s := newServer(cfg, gateway.NewRouter(services, cfg.BindPublicConfig.BindConfig))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	bind := cfg.BindPublicConfig.BindConfig
	listen := s.ListenAndServe
	if bind.HttpsEnabled {
		listen = func() error {
			return s.ListenAndServeTLS(bind.TlsCertificatePath, bind.TlsPrivateKeyPath)
		}
	}

	if err := serve(ctx, logger, s, listen, sigCh); err != nil {
		logger.Fatal(ctx, "http server failed to listen", log.MapFields{
			"err": err.Error(),
		})
	}
}
