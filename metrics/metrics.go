package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/oasislabs/ledger-gateway/errors"
	"github.com/oasislabs/ledger-gateway/log"
)

// Service is a background service used to expose the metrics
// collected by the gateway
type Service interface {
	// StartInstrumentation starts exposing the collected metrics.
	StartInstrumentation()

	// StopInstrumentation stops exposing the collected metrics.
	StopInstrumentation()
}

// New constructs a new instrumentation service for the configured mode.
func New(config *Config, logger log.Logger) (Service, error) {
	logger = logger.ForClass("metrics", "Service")

	switch config.Mode {
	case metricsModeNone, "":
		return &stubService{}, nil
	case metricsModePull:
		return newPullService(config, logger), nil
	case metricsModePush:
		return newPushService(config, logger), nil
	default:
		return nil, fmt.Errorf("metrics: unsupported mode: '%v'", config.Mode)
	}
}

// A stub service is a stub instrumentation service.
type stubService struct{}

// StartInstrumentation implements the instrumentation service interface for stubService.
func (s *stubService) StartInstrumentation() {}

// StopInstrumentation implements the instrumentation service interface for stubService.
func (s *stubService) StopInstrumentation() {}

// A pull service is a service which exposes metrics that Prometheus can pull.
type pullService struct {
	// The HTTP server which hosts the Prometheus metrics endpoint.
	server *http.Server

	// A logger, for logging.
	logger log.Logger
}

func newPullService(config *Config, logger log.Logger) *pullService {
	return &pullService{
		server: &http.Server{
			Addr:           fmt.Sprintf("%s:%s", config.PullAddr, config.PullPort),
			Handler:        promhttp.Handler(),
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			MaxHeaderBytes: 1 << 20,
		},
		logger: logger,
	}
}

// StartInstrumentation implements the instrumentation service interface for pullService.
func (s *pullService) StartInstrumentation() {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error(context.Background(), "metrics: pull server stopped", log.MapFields{
				"call_type": "ListenAndServeFailure",
				"err":       err.Error(),
			})
		}
	}()
}

// StopInstrumentation implements the instrumentation service interface for pullService.
func (s *pullService) StopInstrumentation() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_ = s.server.Shutdown(ctx)
}

// A push service is used to push metrics to Prometheus.
type pushService struct {
	// Push service context, cancelled when the service is stopped.
	ctx    context.Context
	cancel context.CancelFunc

	// The pusher which pushes updates to Prometheus.
	pusher *push.Pusher

	// The frequency with which to push updates to Prometheus.
	interval time.Duration

	// A logger, for logging.
	logger log.Logger
}

func newPushService(config *Config, logger log.Logger) *pushService {
	pusher := push.New(config.PushAddr, config.PushJobName).
		Grouping("instance", config.PushInstanceLabel).
		Gatherer(prometheus.DefaultGatherer)

	ctx, cancel := context.WithCancel(context.Background())
	return &pushService{
		ctx:      ctx,
		cancel:   cancel,
		pusher:   pusher,
		interval: config.PushInterval,
		logger:   logger,
	}
}

// StartInstrumentation implements the instrumentation service interface for pushService.
func (s *pushService) StartInstrumentation() {
	go s.startWorker()
}

// StopInstrumentation implements the instrumentation service interface for pushService.
func (s *pushService) StopInstrumentation() {
	s.cancel()
}

func (s *pushService) startWorker() {
	t := time.NewTicker(s.interval)
	defer t.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return

		case <-t.C:
			if err := s.pusher.Push(); err != nil {
				err := errors.New(errors.ErrMetricsPush, err)
				s.logger.Error(s.ctx, "metrics: unable to push to prometheus", log.MapFields{
					"call_type": "PushFailure",
				}, err)
			}
		}
	}
}
