package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRegistryIsIdempotent(t *testing.T) {
	first := InitRegistry()
	second := InitRegistry()
	assert.Same(t, first, second)
	assert.Same(t, first, GetRegistry())
}

func TestRecordPrediction(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(PredictionsTotal)

	RecordPrediction(0.01)
	RecordPrediction(0.02)

	assert.Equal(t, before+2, testutil.ToFloat64(PredictionsTotal))
}

func TestRecordDriftCheck(t *testing.T) {
	InitRegistry()
	degradedBefore := testutil.ToFloat64(DriftDegradationsTotal)

	RecordDriftCheck(0.68, 0.07, true)
	require.Equal(t, degradedBefore+1, testutil.ToFloat64(DriftDegradationsTotal))
	assert.Equal(t, 0.68, testutil.ToFloat64(RealizedAccuracy))
	assert.InDelta(t, 0.07, testutil.ToFloat64(AccuracyGap), 1e-9)

	RecordDriftCheck(0.72, 0.03, false)
	assert.Equal(t, degradedBefore+1, testutil.ToFloat64(DriftDegradationsTotal))
}

func TestRecordValueAnalysis(t *testing.T) {
	InitRegistry()
	yesBefore := testutil.ToFloat64(ValueRecommendationsTotal.WithLabelValues("yes"))
	noBefore := testutil.ToFloat64(ValueRecommendationsTotal.WithLabelValues("no"))

	RecordValueAnalysis(0.03)
	RecordValueAnalysis(0)

	assert.Equal(t, yesBefore+1, testutil.ToFloat64(ValueRecommendationsTotal.WithLabelValues("yes")))
	assert.Equal(t, noBefore+1, testutil.ToFloat64(ValueRecommendationsTotal.WithLabelValues("no")))
}
