package metrics

import (
    "sync"
    "time"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/collectors"
)

var (
    // Registry is the dedicated Prometheus registry for the solver
    Registry = prometheus.NewRegistry()
    // Solves counts solve calls by strategy and outcome
    Solves = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "routing_solves_total", Help: "Total solve calls by strategy and outcome."},
        []string{"strategy", "outcome"},
    )
    // SolveDuration records wall-clock solve durations in seconds
    SolveDuration = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{Name: "routing_solve_duration_seconds", Help: "Solve duration in seconds.", Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30}},
        []string{"strategy"},
    )
    // SearchIterations counts local-search passes across all solves
    SearchIterations = prometheus.NewCounter(
        prometheus.CounterOpts{Name: "routing_search_iterations_total", Help: "Local search passes across all solves."},
    )
    // BestCost reports the objective value of the last solved assignment
    BestCost = prometheus.NewGauge(
        prometheus.GaugeOpts{Name: "routing_best_cost", Help: "Objective value of the last solved assignment."},
    )
)

// ObserveSolve records one finished solve call.
func ObserveSolve(strategy, outcome string, dur time.Duration, iterations int) {
    Solves.WithLabelValues(strategy, outcome).Inc()
    SolveDuration.WithLabelValues(strategy).Observe(dur.Seconds())
    SearchIterations.Add(float64(iterations))
}

// RegisterDefault registers collectors to the solver registry.
func RegisterDefault() {
    regOnce.Do(func(){
        Registry.MustRegister(Solves)
        Registry.MustRegister(SolveDuration)
        Registry.MustRegister(SearchIterations)
        Registry.MustRegister(BestCost)
        // Go/process collectors on our registry
        Registry.MustRegister(collectors.NewGoCollector())
        Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
    })
}

var regOnce sync.Once
