// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveDocument(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveDocument("legal", true, time.Millisecond)
	m.ObserveDocument("legal", false, time.Millisecond)
	m.ObserveDocument("", false, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Documents.WithLabelValues("legal", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Documents.WithLabelValues("legal", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Documents.WithLabelValues("unknown", "error")))
}

func TestObserveFinding(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveFinding("page-limit", false)
	m.ObserveFinding("page-limit", true)
	m.ObserveFinding("page-limit", true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Findings.WithLabelValues("page-limit", "pass")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Findings.WithLabelValues("page-limit", "fail")))
}

func TestNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveDocument("legal", true, time.Second)
		m.ObserveFinding("page-limit", true)
		m.ObserveBatch(3)
	})
}
