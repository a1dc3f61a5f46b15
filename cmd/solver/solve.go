package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gtynan/vehicle-routing/internal/config"
	"github.com/gtynan/vehicle-routing/internal/logging"
	"github.com/gtynan/vehicle-routing/internal/metrics"
	"github.com/gtynan/vehicle-routing/internal/model"
	"github.com/gtynan/vehicle-routing/internal/routing"
	"github.com/gtynan/vehicle-routing/internal/schedule"
)

var (
	problemPath  string
	strategyFlag string
	timeLimit    int
	rawOutput    bool
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a routing problem from a YAML file",
	RunE:  runSolve,
}

func init() {
	solveCmd.Flags().StringVarP(&problemPath, "problem", "p", "", "problem file (yaml)")
	solveCmd.Flags().StringVar(&strategyFlag, "strategy", "", "first-solution strategy override")
	solveCmd.Flags().IntVar(&timeLimit, "time-limit", 0, "search time limit in seconds")
	solveCmd.Flags().BoolVar(&rawOutput, "raw", false, "emit raw routes and times instead of plans")
	_ = solveCmd.MarkFlagRequired("problem")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	log := logging.New("solver")

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	data, err := os.ReadFile(problemPath)
	if err != nil {
		return fmt.Errorf("read problem: %w", err)
	}
	var problem model.Problem
	if err := yaml.Unmarshal(data, &problem); err != nil {
		return fmt.Errorf("parse problem: %w", err)
	}
	if problem.MaxTime == 0 {
		problem.MaxTime = cfg.Solver.MaxTime
	}

	search := model.SearchConfig{
		Strategy:         cfg.Solver.Strategy,
		TimeLimitSeconds: cfg.Solver.TimeLimitSeconds,
	}
	if strategyFlag != "" {
		search.Strategy = strategyFlag
	}
	if timeLimit > 0 {
		search.TimeLimitSeconds = timeLimit
	}

	metrics.RegisterDefault()
	if addr := cfg.Solver.MetricsListen; addr != "" {
		go serveMetrics(addr, log)
	}

	log.Infof("solving %d locations with %d vehicles (strategy=%s limit=%ds)",
		problem.NumLocations(), problem.NumVehicles(), search.Strategy, search.TimeLimitSeconds)
	start := time.Now()
	sol, err := routing.Solve(problem, search, log)
	if err != nil {
		log.Errorf("solve failed: %v", err)
		return err
	}
	log.Infof("solved in %s", time.Since(start).Round(time.Millisecond))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if rawOutput {
		return enc.Encode(sol)
	}
	return enc.Encode(schedule.FromSolution(problem, sol))
}

func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	return config.Load(cfgPath)
}

func serveMetrics(addr string, log logging.Logger) {
	handler := promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Errorf("metrics listener: %v", err)
	}
}
