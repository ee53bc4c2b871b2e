// Package observability starts the process-wide telemetry: Uptrace tracing,
// Pyroscope continuous profiling and a private pprof listener.
package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"strings"
	"time"

	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/carelink/internal/config"
	"github.com/riskibarqy/carelink/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
)

// Runtime owns whichever telemetry backends Start enabled.
type Runtime struct {
	logger   *logging.Logger
	stops    []namedStop
	pprofSrv *http.Server
}

type namedStop struct {
	name string
	stop func(context.Context) error
}

// Start enables each backend whose config flag is set. On error the
// backends already started are stopped before returning.
func Start(cfg config.Config, logger *logging.Logger) (*Runtime, error) {
	if logger == nil {
		logger = logging.Default()
	}
	rt := &Runtime{logger: logger}

	rt.startTracing(cfg)
	if err := rt.startProfiling(cfg); err != nil {
		_ = rt.Shutdown(context.Background())
		return nil, err
	}
	rt.startPprof(cfg)
	return rt, nil
}

// Shutdown stops backends in reverse start order and joins their errors.
func (rt *Runtime) Shutdown(ctx context.Context) error {
	if rt == nil {
		return nil
	}
	var errs []error
	for i := len(rt.stops) - 1; i >= 0; i-- {
		s := rt.stops[i]
		if err := s.stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", s.name, err))
			continue
		}
		rt.logger.Debug("telemetry backend stopped", "backend", s.name)
	}
	rt.stops = nil
	return errors.Join(errs...)
}

func (rt *Runtime) startTracing(cfg config.Config) {
	dsn := strings.TrimSpace(cfg.UptraceDSN)
	if !cfg.UptraceEnabled || dsn == "" {
		rt.logger.Info("uptrace disabled", "enabled", cfg.UptraceEnabled, "dsn_set", dsn != "")
		return
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(dsn),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
	)
	rt.stops = append(rt.stops, namedStop{name: "uptrace", stop: uptrace.Shutdown})
	rt.logger.Info("uptrace enabled", "environment", cfg.AppEnv)
}

func (rt *Runtime) startProfiling(cfg config.Config) error {
	if !cfg.PyroscopeEnabled {
		rt.logger.Info("pyroscope disabled")
		return nil
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags: map[string]string{
			"env":     cfg.AppEnv,
			"service": cfg.ServiceName,
			"version": cfg.ServiceVersion,
		},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		return fmt.Errorf("start pyroscope: %w", err)
	}
	rt.stops = append(rt.stops, namedStop{name: "pyroscope", stop: func(context.Context) error {
		return profiler.Stop()
	}})
	rt.logger.Info("pyroscope enabled", "server_address", cfg.PyroscopeServerAddress, "application", cfg.PyroscopeAppName)
	return nil
}

func (rt *Runtime) startPprof(cfg config.Config) {
	if !cfg.PprofEnabled {
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	srv := &http.Server{Addr: cfg.PprofAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	rt.pprofSrv = srv
	rt.stops = append(rt.stops, namedStop{name: "pprof", stop: srv.Shutdown})

	go func() {
		rt.logger.Info("pprof listening", "addr", cfg.PprofAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rt.logger.Error("pprof server failed", "error", err)
		}
	}()
}
