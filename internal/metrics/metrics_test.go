package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	before := testutil.ToFloat64(commandsTotal.WithLabelValues("create_file", "en"))
	RecordCommand("create_file", "en", 5*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(commandsTotal.WithLabelValues("create_file", "en")))

	RecordFileOp("delete", "not_found")
	assert.GreaterOrEqual(t, testutil.ToFloat64(fileOpsTotal.WithLabelValues("delete", "not_found")), 1.0)

	WSConnected()
	WSConnected()
	WSDisconnected()
	assert.Equal(t, 1.0, testutil.ToFloat64(wsConnections))

	RecordUtterance(errors.New("boom"), false)
	RecordUtterance(nil, true)
	assert.GreaterOrEqual(t, testutil.ToFloat64(utterancesTotal.WithLabelValues("error")), 1.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(utterancesTotal.WithLabelValues("interrupted")), 1.0)
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecordHTTPRequest("POST", "/api/command", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "jarvis_http_requests_total")
}
