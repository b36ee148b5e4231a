package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveQuery(t *testing.T) {
	reg := prometheus.NewRegistry()
	observer := NewObserver(reg)

	observer.ObserveQuery("select", 3*time.Millisecond, nil)
	observer.ObserveQuery("select", 5*time.Millisecond, nil)
	observer.ObserveQuery("insert", time.Millisecond, errors.New("duplicate"))

	assert.Equal(t, 2.0, testutil.ToFloat64(observer.queriesTotal.WithLabelValues("select", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(observer.queriesTotal.WithLabelValues("insert", "error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(observer.queriesTotal.WithLabelValues("insert", "ok")))
	assert.Equal(t, 2, testutil.CollectAndCount(observer.queryDuration))
}

func TestNewObserverRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewObserver(reg)

	assert.Panics(t, func() { NewObserver(reg) }, "metrics can only be registered once per registry")
}
