package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/lumichain/lumichain-go/pkg/metrics"
)

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.BlocksImported.Add(3)
	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)

	var found bool
	for _, f := range families {
		if f.GetName() == "syncengine_blocks_imported_total" {
			found = true
			require.Equal(t, float64(3), f.Metric[0].GetCounter().GetValue())
		}
	}
	require.True(t, found)
}

func TestSetStateZeroesOtherLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	all := []string{"idle", "executing"}
	m.SetState(all, "idle")
	m.SetState(all, "executing")

	var gauge dto.Metric
	require.NoError(t, m.SyncState.WithLabelValues("idle").Write(&gauge))
	require.Equal(t, float64(0), gauge.GetGauge().GetValue())

	require.NoError(t, m.SyncState.WithLabelValues("executing").Write(&gauge))
	require.Equal(t, float64(1), gauge.GetGauge().GetValue())
}
