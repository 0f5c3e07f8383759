package broker

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/EdmundsEcho/data-join-oauth/core"
)

func TestCountFlow(t *testing.T) {
	flowTotal.Reset()

	countFlow(stepLoginStart, "google", nil)
	countFlow(stepLoginStart, "google", nil)
	countFlow(stepLoginCallback, "google", core.E(core.KindMissingSession))
	countFlow(stepLoginStart, "", core.E(core.KindUnsupportedProvider))
	countFlow(stepListFiles, "dropbox", errors.New("plain"))

	assert.Equal(t, 2.0, testutil.ToFloat64(flowTotal.WithLabelValues(stepLoginStart, "google", outcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(flowTotal.WithLabelValues(stepLoginCallback, "google", "missing_session")))
	assert.Equal(t, 1.0, testutil.ToFloat64(flowTotal.WithLabelValues(stepLoginStart, unknownLabel, "unsupported_provider")))
	assert.Equal(t, 1.0, testutil.ToFloat64(flowTotal.WithLabelValues(stepListFiles, "dropbox", "internal")))
}

func TestObserveCall(t *testing.T) {
	upstreamDuration.Reset()

	observeCall(callTokenExchange, time.Now().Add(-50*time.Millisecond))
	observeCall(callTokenExchange, time.Now())

	assert.Equal(t, 1, testutil.CollectAndCount(upstreamDuration, "oauth_upstream_duration_seconds"))
}

func TestSplitDriveState(t *testing.T) {
	t.Parallel()

	pid, csrf, err := splitDriveState("11111111-1111-1111-1111-111111111111.abc_-")
	assert.NoError(t, err)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", pid.String())
	assert.Equal(t, "abc_-", csrf)

	_, _, err = splitDriveState("garbage")
	assert.Equal(t, core.KindProjectID, core.KindOf(err))
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	a, err := generateToken()
	assert.NoError(t, err)
	b, err := generateToken()
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 43)
	assert.NotContains(t, a, stateSeparator)
}
