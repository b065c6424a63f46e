package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricsComputed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fleetshift_metrics_computed_total",
		Help: "Metric derivations served.",
	})
	scenarioMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fleetshift_scenario_misses_total",
		Help: "Tariff increases with no exact scenario match.",
	})
	scaleFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fleetshift_scale_fallbacks_total",
		Help: "Metric derivations with an empty operator selection.",
	})
	simulations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetshift_simulations_total",
		Help: "Financial what-if runs by payback outcome.",
	}, []string{"payback"})
	configurationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetshift_configuration_errors_total",
		Help: "Computations aborted by a configuration error.",
	}, []string{"op"})
	datasetReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetshift_dataset_reloads_total",
		Help: "Dataset reload attempts by result.",
	}, []string{"result"})
	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fleetshift_rate_limited_total",
		Help: "Requests rejected by the rate limiter.",
	})
)
