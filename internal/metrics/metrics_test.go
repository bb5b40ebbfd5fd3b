package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordResult(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordResult("save_collection", "DUPLICATE_NAME")
	m.RecordResult("save_collection", "DUPLICATE_NAME")
	m.RecordResult("save_collection", "SUCCESS")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ResultsTotal.WithLabelValues("save_collection", "DUPLICATE_NAME")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResultsTotal.WithLabelValues("save_collection", "SUCCESS")))
}

func TestAddSwept(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.AddSwept(3)
	m.AddSwept(0)
	m.AddSwept(-1)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.SweptTotal))
}

func TestObserveHistograms(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRank("recommend", 200*time.Microsecond)
	m.ObserveRequest("POST", "/reco", "200", 5*time.Millisecond)

	assert.Equal(t, 1, testutil.CollectAndCount(m.RankDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "coffee_reco_rank_duration_seconds")
	assert.Contains(t, names, "coffee_reco_http_request_duration_seconds")
}

func TestNewRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
