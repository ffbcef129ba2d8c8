package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetrics_Singleton(t *testing.T) {
	assert.Same(t, NewMetrics(), NewMetrics())
}

func TestObserveRequest(t *testing.T) {
	m := NewMetrics()
	before := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404"))

	m.ObserveRequest(http.MethodGet, "", http.StatusNotFound, 5*time.Millisecond)

	after := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404"))
	assert.Equal(t, before+1, after)
}

func TestRecordUploadAndImport(t *testing.T) {
	m := NewMetrics()

	m.RecordUpload("library", 2048)
	m.RecordImport("questions", 4, 1)

	assert.GreaterOrEqual(t, testutil.ToFloat64(m.UploadBytesTotal.WithLabelValues("library")), 2048.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.ImportedTotal.WithLabelValues("questions")), 4.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.SkippedTotal.WithLabelValues("questions")), 1.0)
}
