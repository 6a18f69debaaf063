package v1

import "github.com/prometheus/client_golang/prometheus"

// Collectors are the domain metrics of the v1 API. They are registered
// together with the request metrics by the router.
var Collectors = []prometheus.Collector{
	notifications,
	importedTransactions,
}

var notifications = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "checkout_notifications_total",
		Help: "How many checkout provider notifications were received, partitioned by outcome.",
	},
	[]string{"outcome"},
)

var importedTransactions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bank_transactions_total",
		Help: "How many bank transactions were processed by imports, partitioned by result.",
	},
	[]string{"result"},
)
