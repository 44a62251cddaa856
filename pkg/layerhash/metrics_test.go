package layerhash

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.navigated(OpNavigateAll, resultCommitted)
		m.replayed(resultSwallowed)
		m.slashCorrected()
		m.fallbackRedirected()
	})
}

func TestMetrics_Counts(t *testing.T) {
	m, err := NewMetrics(nil)
	require.NoError(t, err)

	m.navigated(OpNavigateAdd, resultCommitted)
	m.navigated(OpNavigateAdd, resultCommitted)
	m.navigated(OpNavigateAdd, resultAborted)
	m.replayed(resultSwallowed)
	m.slashCorrected()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.navigations.WithLabelValues(OpNavigateAdd, resultCommitted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.navigations.WithLabelValues(OpNavigateAdd, resultAborted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.replays.WithLabelValues(resultSwallowed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.slashCorrections))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.fallbackRedirects))
}

func TestNewMetrics_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()

	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	assert.Error(t, err, "second registration on the same registry should conflict")
}
