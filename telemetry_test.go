package anyval

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// The global meter provider can be set once per process; instruments created in
// init are delegated to it from then on.
var (
	installReader sync.Once
	reader        *sdkmetric.ManualReader
)

func metricReader() *sdkmetric.ManualReader {
	installReader.Do(func() {
		reader = sdkmetric.NewManualReader()
		otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	})
	return reader
}

type probe uint16

func (p probe) String() string { return fmt.Sprintf("probe-%d", uint16(p)) }

func TestTelemetry(t *testing.T) {
	r := metricReader()

	a := Create(probe(7))
	if _, ok := As[fmt.Stringer](a); !ok {
		t.Fatalf("As[fmt.Stringer](%v) failed", a)
	}
	_ = Create(fmt.Sprint(a)) // registers string, if nothing did before

	got := collectSums(t, r)
	if n := got["anyval.registry.types"][shapeInline.String()]; n < 1 {
		t.Errorf("anyval.registry.types{shape=inline} = %v, want at least 1", n)
	}
	if n := got["anyval.box.on_demand"][""]; n < 1 {
		t.Errorf("anyval.box.on_demand = %v, want at least 1", n)
	}
}

func TestTelemetryFormatBoxes(t *testing.T) {
	r := metricReader()
	a := Create(probe(3))

	before := collectSums(t, r)["anyval.box.on_demand"][""]
	if got := fmt.Sprintf("%v", a); got != "probe-3" {
		t.Fatalf("Sprintf(%%v) = %q, want \"probe-3\"", got)
	}
	after := collectSums(t, r)["anyval.box.on_demand"][""]
	if after-before != 1 {
		t.Errorf("anyval.box.on_demand grew by %v while formatting, want 1", after-before)
	}
}

// collectSums returns the cumulative value of every int64 sum, by metric name
// and shape attribute ("" if none).
func collectSums(t *testing.T, r *sdkmetric.ManualReader) map[string]map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := r.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() failed: %v", err)
	}
	got := make(map[string]map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				v, _ := dp.Attributes.Value(shapeAttribute)
				if got[m.Name] == nil {
					got[m.Name] = make(map[string]int64)
				}
				got[m.Name][v.AsString()] += dp.Value
			}
		}
	}
	return got
}
