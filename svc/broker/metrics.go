package broker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/EdmundsEcho/data-join-oauth/core"
)

func init() {
	prometheus.MustRegister(flowTotal, upstreamDuration)
}

const (
	stepLoginStart    = "login_initiate"
	stepLoginCallback = "login_callback"
	stepDriveStart    = "drive_initiate"
	stepDriveCallback = "drive_callback"
	stepListFiles     = "list_files"

	callTokenExchange = "token_exchange"
	callResource      = "resource_fetch"
	callRegistrar     = "registrar"

	outcomeSuccess = "success"
	unknownLabel   = "unknown"
)

var flowTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "oauth",
	Name:      "flow_total",
	Help:      "Flow steps by provider and outcome",
}, []string{"flow", "provider", "outcome"})

var upstreamDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "oauth",
	Name:      "upstream_duration_seconds",
	Help:      "Latency of calls to providers and the registrar",
	Buckets:   prometheus.DefBuckets,
}, []string{"call"})

// countFlow records the outcome of one flow step. Failures are labelled with
// the error kind key.
func countFlow(step, provider string, err error) {
	if provider == "" {
		provider = unknownLabel
	}
	outcome := outcomeSuccess
	if err != nil {
		outcome = core.KindOf(err).Key()
	}
	flowTotal.WithLabelValues(step, provider, outcome).Inc()
}

func observeCall(call string, start time.Time) {
	upstreamDuration.WithLabelValues(call).Observe(time.Since(start).Seconds())
}
