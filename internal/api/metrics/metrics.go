// Package metrics defines the custom Prometheus metrics of the profile
// service. Every metric is registered with the default registry on import
// through promauto, so /metrics exposes them without extra wiring.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "profiled"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "throttled" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRejectionsTotal counts bearer tokens refused by the auth middleware.
// Label:
//   - reason: "missing", "malformed", "bad_signature", "expired" or "unknown_subject"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of rejected bearer tokens, by reason.",
	},
	[]string{"reason"},
)

// ── Profile metrics ───────────────────────────────────────────────────────────

// ProfilesCreatedTotal counts created profiles.
// Label:
//   - version: "v1" (full form) or "v2" (name and email only)
var ProfilesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profiles_created_total",
		Help:      "Total number of profiles created, by API version.",
	},
	[]string{"version"},
)

// ReportsRenderedTotal counts generated PDF reports.
// Label:
//   - scope: "page" or "all"
var ReportsRenderedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_rendered_total",
		Help:      "Total number of profile reports rendered, by scope.",
	},
	[]string{"scope"},
)

// ReportRenderDuration measures collecting and drawing one report.
var ReportRenderDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "report_render_duration_seconds",
		Help:      "Duration of report generation from query to rendered document.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"scope"},
)

// ── Image cleanup ─────────────────────────────────────────────────────────────

// CleanupQueueDepth tracks images waiting for deletion in each worker channel.
// Label:
//   - worker_id: numeric worker index
var CleanupQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "image_cleanup_queue_depth",
		Help:      "Current number of orphaned images pending deletion per worker.",
	},
	[]string{"worker_id"},
)

// CleanupFailuresTotal counts orphaned images that could not be deleted.
var CleanupFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_cleanup_failures_total",
		Help:      "Total number of orphaned images whose deletion failed.",
	},
)
