package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/carelink/internal/config"
	"github.com/riskibarqy/carelink/internal/platform/logging"
)

func TestStart_AllDisabled(t *testing.T) {
	rt, err := Start(config.Config{ServiceName: "carelink-api", AppEnv: config.EnvDev}, logging.NewNop())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(rt.stops) != 0 || rt.pprofSrv != nil {
		t.Fatalf("expected no backends, got %d stops", len(rt.stops))
	}
	if err := rt.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestStart_UptraceWithoutDSNStaysOff(t *testing.T) {
	rt, err := Start(config.Config{UptraceEnabled: true, UptraceDSN: "  "}, nil)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(rt.stops) != 0 {
		t.Fatalf("expected tracing to stay off without a DSN")
	}
}

func TestStart_PprofListener(t *testing.T) {
	rt, err := Start(config.Config{PprofEnabled: true, PprofAddr: "127.0.0.1:0"}, logging.NewNop())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if rt.pprofSrv == nil {
		t.Fatalf("expected pprof server")
	}
	if err := rt.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestRuntimeShutdown_ReverseOrderAndJoinedErrors(t *testing.T) {
	var order []string
	errBoom := errors.New("boom")
	rt := &Runtime{logger: logging.NewNop()}
	for _, name := range []string{"first", "second", "third"} {
		rt.stops = append(rt.stops, namedStop{name: name, stop: func(context.Context) error {
			order = append(order, name)
			if name == "second" {
				return errBoom
			}
			return nil
		}})
	}

	err := rt.Shutdown(context.Background())
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if len(order) != 3 || order[0] != "third" || order[2] != "first" {
		t.Fatalf("unexpected stop order: %v", order)
	}
	if err := rt.Shutdown(context.Background()); err != nil {
		t.Fatalf("second shutdown must be a no-op: %v", err)
	}

	var nilRuntime *Runtime
	if err := nilRuntime.Shutdown(context.Background()); err != nil {
		t.Fatalf("nil runtime shutdown: %v", err)
	}
}
