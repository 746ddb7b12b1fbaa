package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PurchaseMetrics records the purchase pipeline's externally visible events.
type PurchaseMetrics struct {
	ordersOpened *prometheus.CounterVec
	polls        *prometheus.CounterVec
	deliveries   *prometheus.CounterVec
	redemptions  *prometheus.CounterVec
	gatewayCalls *prometheus.HistogramVec
}

// NewPurchaseMetrics registers the purchase metrics on the provided registerer.
func NewPurchaseMetrics(reg prometheus.Registerer) *PurchaseMetrics {
	if reg == nil {
		return &PurchaseMetrics{}
	}
	ordersOpened := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "purchase_orders_opened",
		Help: "Purchase orders opened, by kind (free/gateway).",
	}, []string{"kind"})
	polls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "purchase_polls",
		Help: "Gateway status polls, by observed status.",
	}, []string{"status"})
	deliveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "purchase_deliveries",
		Help: "Delivery engine outcomes.",
	}, []string{"outcome"})
	redemptions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "entitlement_redemptions",
		Help: "Insurance redemption outcomes.",
	}, []string{"outcome"})
	gatewayCalls := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_call_duration_seconds",
		Help:    "Duration of payment gateway calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	reg.MustRegister(ordersOpened, polls, deliveries, redemptions, gatewayCalls)
	return &PurchaseMetrics{
		ordersOpened: ordersOpened,
		polls:        polls,
		deliveries:   deliveries,
		redemptions:  redemptions,
		gatewayCalls: gatewayCalls,
	}
}

// IncOrderOpened counts an opened order of the given kind.
func (p *PurchaseMetrics) IncOrderOpened(kind string) {
	if p == nil || p.ordersOpened == nil {
		return
	}
	p.ordersOpened.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncPoll counts a gateway poll that observed the given status.
func (p *PurchaseMetrics) IncPoll(status string) {
	if p == nil || p.polls == nil {
		return
	}
	p.polls.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncDelivery counts a delivery outcome (success/failure).
func (p *PurchaseMetrics) IncDelivery(outcome string) {
	if p == nil || p.deliveries == nil {
		return
	}
	p.deliveries.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncRedemption counts a redemption outcome (success/denied/exhausted).
func (p *PurchaseMetrics) IncRedemption(outcome string) {
	if p == nil || p.redemptions == nil {
		return
	}
	p.redemptions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveGatewayCall records the duration of a gateway round trip.
func (p *PurchaseMetrics) ObserveGatewayCall(operation string, duration time.Duration) {
	if p == nil || p.gatewayCalls == nil {
		return
	}
	p.gatewayCalls.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
