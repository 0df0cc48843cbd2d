// Package observability starts the process-wide tracing and profiling
// exporters. Both are off unless enabled in config.
package observability

import (
	"context"
	"errors"
	"strings"

	"github.com/grafana/pyroscope-go"
	"github.com/uptrace/uptrace-go/uptrace"

	"github.com/qpfl/league-core/internal/config"
	"github.com/qpfl/league-core/internal/platform/logging"
)

// Shutdown flushes and stops whatever Start enabled.
type Shutdown func(context.Context) error

// Start configures the global OpenTelemetry providers for Uptrace and the
// Pyroscope profiler. The returned Shutdown is never nil.
func Start(cfg config.Config, logger *logging.Logger) (Shutdown, error) {
	logger = logging.OrDefault(logger).Named("observability")

	var stops []Shutdown
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(stops) - 1; i >= 0; i-- {
			errs = append(errs, stops[i](ctx))
		}
		return errors.Join(errs...)
	}

	if stop := startTracing(cfg, logger); stop != nil {
		stops = append(stops, stop)
	}

	stop, err := startProfiling(cfg, logger)
	if err != nil {
		_ = shutdown(context.Background())
		return nil, err
	}
	if stop != nil {
		stops = append(stops, stop)
	}

	return shutdown, nil
}

func startTracing(cfg config.Config, logger *logging.Logger) Shutdown {
	dsn := strings.TrimSpace(cfg.UptraceDSN)
	switch {
	case !cfg.UptraceEnabled:
		logger.Debug("tracing disabled", "reason", "UPTRACE_ENABLED=false")
		return nil
	case dsn == "":
		logger.Info("tracing disabled", "reason", "UPTRACE_DSN empty")
		return nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(dsn),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
	)
	logger.Info("tracing enabled", "service_name", cfg.ServiceName, "environment", cfg.AppEnv)
	return uptrace.Shutdown
}

func startProfiling(cfg config.Config, logger *logging.Logger) (Shutdown, error) {
	if !cfg.PyroscopeEnabled {
		logger.Debug("profiling disabled", "reason", "PYROSCOPE_ENABLED=false")
		return nil, nil
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags: map[string]string{
			"env":   cfg.AppEnv,
			"store": cfg.StoreBackend,
		},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		return nil, err
	}

	logger.Info("profiling enabled", "server_address", cfg.PyroscopeServerAddress, "application", cfg.PyroscopeAppName)
	return func(context.Context) error { return profiler.Stop() }, nil
}
