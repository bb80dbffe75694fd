package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "inkwell-test"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	ctx, span := StartRepositorySpan(context.Background(), "users", "GetByID")
	assert.NotNil(t, ctx)
	EndSpan(span, errors.New("boom"))
}

func TestSamplerFor(t *testing.T) {
	assert.Contains(t, samplerFor(1).Description(), "AlwaysOn")
	assert.Contains(t, samplerFor(0.25).Description(), "ParentBased")
}

func TestRecordAuthEvent(t *testing.T) {
	before := testutil.ToFloat64(AuthEvents.WithLabelValues("login", "failure"))
	RecordAuthEvent("login", false)
	after := testutil.ToFloat64(AuthEvents.WithLabelValues("login", "failure"))
	assert.Equal(t, before+1, after)
}

func TestTrackQuery(t *testing.T) {
	done := TrackQuery("select", "blog_posts")
	done()
	assert.Equal(t, 1, testutil.CollectAndCount(DatabaseQueryLatency, "inkwell_database_query_latency_seconds"))
}
