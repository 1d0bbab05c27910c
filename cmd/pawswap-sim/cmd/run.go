package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cosmossdk.io/log"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	flagOutput          = "output"
	flagMetricsAddr     = "metrics-addr"
	flagOTLPEndpoint    = "otlp-endpoint"
	flagTraceSampleRate = "trace-sample-rate"
)

// RunCmd executes a scenario file and prints the resulting pair state.
func RunCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [scenario-file]",
		Short: "Execute a scenario and report pair state",
		Long: `Execute the steps of a scenario file (yaml, json or toml) in order. A step
with expect_error must fail with that text; any other failing step aborts the
run. The module invariants are checked after the last step.

With --metrics-addr the amm and simulator metrics are served at /metrics until
interrupted. With --otlp-endpoint every step is traced over OTLP/HTTP.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := LoadScenario(args[0])
			if err != nil {
				return err
			}

			addr := s.v.GetString(flagMetricsAddr)
			var registry *prometheus.Registry
			if addr != "" {
				registry = prometheus.NewRegistry()
			}
			tel, err := newTelemetry(cmd.Context(), telemetryConfig{
				OTLPEndpoint: s.v.GetString(flagOTLPEndpoint),
				SampleRate:   s.v.GetFloat64(flagTraceSampleRate),
				ChainID:      sc.ChainID,
				Registry:     registry,
			})
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if shutdownErr := tel.Shutdown(shutdownCtx); shutdownErr != nil {
					s.logger.Error("telemetry shutdown failed", "error", shutdownErr)
				}
			}()

			report, err := RunScenario(cmd.Context(), sc, s.logger)
			if err != nil {
				return err
			}
			if err := writeReport(cmd.OutOrStdout(), report, s.v.GetString(flagOutput)); err != nil {
				return err
			}
			if report.Invariants != "ok" {
				return fmt.Errorf("invariants broken after scenario")
			}

			if addr != "" {
				ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()
				return serveMetrics(ctx, addr, registry, s.logger)
			}
			return nil
		},
	}

	cmd.Flags().String(flagOutput, "text", "output format (text|json)")
	cmd.Flags().String(flagMetricsAddr, "", "serve prometheus metrics on this address after the run")
	cmd.Flags().String(flagOTLPEndpoint, "", "OTLP/HTTP endpoint receiving scenario traces")
	cmd.Flags().Float64(flagTraceSampleRate, 1, "fraction of runs traced")
	return cmd
}

// RunScenario executes every step of sc against a fresh environment. Steps
// are traced and counted through the global otel providers.
func RunScenario(ctx context.Context, sc Scenario, logger log.Logger) (_ *Report, err error) {
	runID := uuid.NewString()
	logger = logger.With("run_id", runID)

	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "scenario.run",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("chain.id", sc.ChainID),
		),
	)
	defer func() { endSpan(span, err) }()

	instruments, err := newStepInstruments()
	if err != nil {
		return nil, err
	}

	env, err := newSimEnv(sc, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("running scenario", "chain_id", sc.ChainID, "steps", len(sc.Steps))

	results := make([]StepResult, 0, len(sc.Steps))
	for i, st := range sc.Steps {
		stepCtx, stepSpan := startStepSpan(ctx, i, st)
		res, err := env.apply(st)
		instruments.record(stepCtx, st.Op, err)
		endSpan(stepSpan, err)

		switch {
		case err != nil && st.ExpectError == "":
			return nil, fmt.Errorf("step %d (%s): %w", i, st.Op, err)
		case err != nil && !strings.Contains(err.Error(), st.ExpectError):
			return nil, fmt.Errorf("step %d (%s): expected error %q, got: %w", i, st.Op, st.ExpectError, err)
		case err == nil && st.ExpectError != "":
			return nil, fmt.Errorf("step %d (%s): expected error %q, succeeded: %s", i, st.Op, st.ExpectError, res)
		}

		r := StepResult{Index: i, Op: st.Op, Result: res}
		if err != nil {
			r.Error = err.Error()
		}
		env.logger.Debug("step applied", "index", i, "op", st.Op, "result", res, "error", r.Error)
		results = append(results, r)
	}

	return env.report(runID, sc.ChainID, results)
}
