package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "voltabot"

var (
	Events = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_total",
		Help:      "Inbound conversation events by kind.",
	}, []string{"kind"})

	OrdersFinalized = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_finalized_total",
		Help:      "Successful order finalizations, re-finalizations included.",
	})

	MerchantPosts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "merchant_posts_total",
		Help:      "Order summaries posted to the merchant channel.",
	})

	ReceiptsForwarded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "receipts_forwarded_total",
		Help:      "Payment receipt images forwarded to the merchant channel.",
	})

	DeliveryFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "delivery_failures_total",
		Help:      "Outbound deliveries that failed or timed out, by recipient.",
	}, []string{"recipient"})

	InvoiceFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invoice_failures_total",
		Help:      "Invoice documents that could not be rendered or delivered.",
	})
)
