// Package metrics defines the custom Prometheus metrics of the demo server.
// They live in their own Registry so tests can build many routers without
// tripping duplicate registration on the default registerer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const Namespace = "demoserver"

// Registry holds every metric declared in this package.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

// LoginAttemptsTotal counts token requests.
// Label:
//   - result: "success", "invalid_credentials", "inactive", "locked" or "error"
var LoginAttemptsTotal = factory.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// UsersRegisteredTotal counts accounts created through self-service sign-up.
var UsersRegisteredTotal = factory.NewCounter(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "users_registered_total",
		Help:      "Total number of self-registered users.",
	},
)

// ProductsCreatedTotal counts catalog additions.
// Label:
//   - category: the product category
var ProductsCreatedTotal = factory.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "products_created_total",
		Help:      "Total number of products created, by category.",
	},
	[]string{"category"},
)

// UploadsTotal counts uploaded files.
// Label:
//   - result: "stored" or "rejected"
var UploadsTotal = factory.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "uploads_total",
		Help:      "Total number of uploaded files, by result.",
	},
	[]string{"result"},
)

// UploadBytes observes the size of stored uploads.
var UploadBytes = factory.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "upload_size_bytes",
		Help:      "Size of stored uploads in bytes.",
		Buckets:   prometheus.ExponentialBuckets(1<<10, 4, 8), // 1KiB .. 16MiB
	},
)
