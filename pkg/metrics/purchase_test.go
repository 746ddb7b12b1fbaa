package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestPurchaseMetricsRecordCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPurchaseMetrics(reg)

	m.IncOrderOpened("free")
	m.IncOrderOpened("gateway")
	m.IncPoll("approved")
	m.IncDelivery("success")
	m.IncRedemption("denied")
	m.ObserveGatewayCall("create_order", 120*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	opened := findMetricFamily(mfs, "purchase_orders_opened")
	if opened == nil || len(opened.GetMetric()) != 2 {
		t.Fatalf("expected two order kinds, got %+v", opened)
	}
	polls := findMetricFamily(mfs, "purchase_polls")
	if polls == nil || !matchesLabel(polls.GetMetric()[0].GetLabel(), "status", "approved") {
		t.Fatalf("expected approved poll label, got %+v", polls)
	}
	if findMetricFamily(mfs, "gateway_call_duration_seconds") == nil {
		t.Fatal("expected gateway histogram")
	}
}

func TestPurchaseMetricsNilRegistererIsNoop(t *testing.T) {
	m := NewPurchaseMetrics(nil)
	m.IncOrderOpened("free")
	m.IncPoll("")
	m.IncDelivery("failure")
	m.IncRedemption("exhausted")
	m.ObserveGatewayCall("get_order", time.Second)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
