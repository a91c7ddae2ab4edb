package restapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	preparationResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "txprepare_preparation_results_total",
		Help: "Preparation outcomes by result type and originating flow.",
	}, []string{"outcome", "origin"})

	preparationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "txprepare_preparation_errors_total",
		Help: "Preparation calls that failed with an error, by originating flow.",
	}, []string{"origin"})
)
