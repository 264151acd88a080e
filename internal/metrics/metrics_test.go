package metrics

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleValue returns the value of the sample with name and, when given, the
// observer label.
func sampleValue(t *testing.T, m *Metrics, name, observer string) float64 {
	t.Helper()
	samples, err := m.Samples()
	require.NoError(t, err)
	for _, s := range samples {
		if s.Name == name && s.Labels["observer"] == observer {
			return s.Value
		}
	}
	return 0
}

func TestAppended(t *testing.T) {
	m := New()
	m.Appended(2*time.Millisecond, 1)
	m.Appended(time.Millisecond, 2)

	assert.Equal(t, 2.0, sampleValue(t, m, "kineticdb_events_appended_total", ""))
	assert.Equal(t, 2.0, sampleValue(t, m, "kineticdb_event_log_length", ""))
	assert.Equal(t, 2.0, sampleValue(t, m, "kineticdb_append_duration_seconds", ""))
}

func TestObserverFailedByLabel(t *testing.T) {
	m := New()
	m.ObserverFailed("repository")
	m.ObserverFailed("repository")
	m.ObserverFailed("object-db")

	assert.Equal(t, 2.0, sampleValue(t, m, "kineticdb_observer_failures_total", "repository"))
	assert.Equal(t, 1.0, sampleValue(t, m, "kineticdb_observer_failures_total", "object-db"))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Appended(time.Second, 1)
		m.LogLength(3)
		m.ObserverFailed("x")
		m.Replayed("x", 3)
	})
}

func TestIndependentRegistries(t *testing.T) {
	a := New()
	b := New()
	a.Appended(time.Millisecond, 1)

	assert.Equal(t, 1.0, sampleValue(t, a, "kineticdb_events_appended_total", ""))
	assert.Equal(t, 0.0, sampleValue(t, b, "kineticdb_events_appended_total", ""))
}

func TestWriteText(t *testing.T) {
	m := New()
	m.Appended(time.Millisecond, 1)
	m.Replayed("repository", 4)

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))

	out := buf.String()
	assert.Contains(t, out, "# TYPE kineticdb_events_appended_total counter")
	assert.Contains(t, out, "kineticdb_events_appended_total 1")
	assert.Contains(t, out, `kineticdb_events_replayed_total{observer="repository"} 4`)
}

func TestSamplesSortedWithLabels(t *testing.T) {
	m := New()
	m.Appended(time.Millisecond, 5)
	m.ObserverFailed("repository")

	samples, err := m.Samples()
	require.NoError(t, err)
	for i := 1; i < len(samples); i++ {
		assert.LessOrEqual(t, samples[i-1].Name, samples[i].Name)
	}

	var found bool
	for _, s := range samples {
		if s.Name == "kineticdb_observer_failures_total" {
			found = true
			assert.Equal(t, map[string]string{"observer": "repository"}, s.Labels)
		}
	}
	assert.True(t, found)
}
