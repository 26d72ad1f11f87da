package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tandem-sim/tandem-sim/sim"
	"github.com/tandem-sim/tandem-sim/sim/trace"
)

// maxRequestBytes bounds a POSTed configuration.
const maxRequestBytes = 1 << 20

// serveLimits bounds the work a single request may cause.
type serveLimits struct {
	MaxHorizon float64       // largest simulation_time accepted
	Timeout    time.Duration // wall-clock budget per simulation
}

func defaultServeLimits() serveLimits {
	return serveLimits{MaxHorizon: 1e6, Timeout: 30 * time.Second}
}

// newServeCommand builds the `serve` command, which runs simulations on
// request over HTTP. Each request gets its own Simulator.
func newServeCommand() *cobra.Command {
	var addr string
	limits := defaultServeLimits()
	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve simulation runs over HTTP",
		Run: func(cmd *cobra.Command, args []string) {
			setupLogging(logLevel)
			if limits.MaxHorizon <= 0 || limits.Timeout <= 0 {
				logrus.Fatalf("--max-horizon and --request-timeout must be positive")
			}

			ctx := cmd.Context()
			srv := &http.Server{
				Addr:              addr,
				Handler:           newRouter(limits),
				ReadHeaderTimeout: 10 * time.Second,
				BaseContext:       func(net.Listener) context.Context { return ctx },
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()
			logrus.Infof("Listening on %s (max horizon %g, timeout %s)", addr, limits.MaxHorizon, limits.Timeout)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logrus.Fatalf("HTTP server failed: %v", err)
			}
		},
	}
	c.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	c.Flags().Float64Var(&limits.MaxHorizon, "max-horizon", limits.MaxHorizon, "Largest simulation_time a request may ask for")
	c.Flags().DurationVar(&limits.Timeout, "request-timeout", limits.Timeout, "Wall-clock limit for one simulation")
	return c
}

// newRouter wires the HTTP routes.
func newRouter(limits serveLimits) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/simulations", simulateHandler(limits)).Methods(http.MethodPost)
	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// simulateHandler runs the posted configuration to its horizon and answers
// with the same report `run` prints. The run stops when the client goes
// away or limits.Timeout passes.
func simulateHandler(limits serveLimits) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cfg sim.Config
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, err)
				return
			}
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := cfg.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if cfg.Horizon > limits.MaxHorizon {
			writeError(w, http.StatusBadRequest,
				fmt.Errorf("simulation_time %g exceeds the server limit %g", cfg.Horizon, limits.MaxHorizon))
			return
		}

		level := trace.TraceLevel(r.URL.Query().Get("trace"))
		if !trace.IsValidTraceLevel(string(level)) {
			writeError(w, http.StatusBadRequest, errors.New("invalid trace level "+string(level)))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), limits.Timeout)
		defer cancel()
		started := time.Now()
		report, summary, err := runSimulation(ctx, cfg, trace.TraceConfig{Level: level})
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				status = http.StatusServiceUnavailable
			}
			logrus.Warnf("Simulation not served after %s: %v", time.Since(started), err)
			writeError(w, status, err)
			return
		}
		logrus.Infof("Simulation served in %s (Q1=%d, Q2=%d packets)",
			time.Since(started), report.PacketsPassedQ1, report.PacketsPassedQ2)

		if summary != nil {
			writeJSON(w, http.StatusOK, struct {
				Report
				Trace *trace.TraceSummary `json:"trace"`
			}{report, summary})
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.Warnf("Unable to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
