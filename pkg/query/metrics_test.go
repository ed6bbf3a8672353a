package query

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/stackb/websymbols/pkg/symbol"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	e := NewExecutor(WithMetrics(m))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := e.MatchName(ctx, symbol.NamespaceHTML, symbol.KindElements, "div", Params{}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := e.RunNameMatchQuery(ctx, nil, Params{}); err == nil {
		t.Fatal("expected error")
	}
	if _, err := e.ListSymbols(ctx, symbol.NamespaceHTML, symbol.KindElements, false, Params{}); err != nil {
		t.Fatal(err)
	}

	for name, tc := range map[string]struct {
		collector prometheus.Collector
		want      float64
	}{
		"name match queries": {m.queries.WithLabelValues(opNameMatch), 3},
		"name match errors":  {m.errors.WithLabelValues(opNameMatch), 1},
		"list queries":       {m.queries.WithLabelValues(opList), 1},
		"list errors":        {m.errors.WithLabelValues(opList), 0},
	} {
		t.Run(name, func(t *testing.T) {
			if got := testutil.ToFloat64(tc.collector); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}

	// a nil *Metrics records nothing
	var none *Metrics
	none.observe(opList, time.Now(), 0, nil)
}
