// Package metrics defines and registers the custom Prometheus metrics of the
// car marketplace API. Collectors are registered with the default registry
// through promauto when the package is imported.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gaadidekho/car-marketplace/internal/core/domain"
)

const namespace = "marketplace"

// ── Listing metrics ───────────────────────────────────────────────────────────

// ListingsCreatedTotal counts newly created listings.
// Label:
//   - fuel_type: fuel type of the car, or "unspecified"
var ListingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_created_total",
		Help:      "Total number of listings created, by fuel type.",
	},
	[]string{"fuel_type"},
)

// ListingMutationsTotal counts create/update/delete attempts.
// Labels:
//   - operation: "create", "update" or "delete"
//   - outcome: "ok", "unauthenticated", "forbidden", "not_found", "invalid" or "error"
var ListingMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listing_mutations_total",
		Help:      "Total number of listing mutations, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// AuthorizationDenialsTotal counts requests rejected by the ownership guard.
// Label:
//   - reason: "unauthenticated" or "not_owner"
var AuthorizationDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denials_total",
		Help:      "Total number of listing mutations denied by the ownership check.",
	},
	[]string{"reason"},
)

// ── Activity metrics ──────────────────────────────────────────────────────────

// ActivityQueueDepth tracks the number of activities waiting in each worker channel.
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of listing activities pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityDroppedTotal counts activities discarded on a full worker queue or
// left unrecorded when the shutdown drain deadline passed.
var ActivityDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_dropped_total",
		Help:      "Total number of listing activities dropped before being recorded.",
	},
)

// ActivityProcessingDuration measures how long persisting one activity takes.
// Label:
//   - result: "ok" or "error"
var ActivityProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "activity_processing_duration_seconds",
		Help:      "Duration of listing activity processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthLoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var AuthLoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ObserveMutation records the outcome of a listing mutation and, for
// ownership denials, the denial reason.
func ObserveMutation(operation string, err error) {
	outcome := MutationOutcome(err)
	ListingMutationsTotal.WithLabelValues(operation, outcome).Inc()

	switch outcome {
	case "unauthenticated":
		AuthorizationDenialsTotal.WithLabelValues("unauthenticated").Inc()
	case "forbidden":
		AuthorizationDenialsTotal.WithLabelValues("not_owner").Inc()
	}
}

// MutationOutcome classifies a mutation error into a metric label.
func MutationOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrListingNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}
