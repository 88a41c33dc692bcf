package cronjob

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	mu      sync.Mutex
	cutoffs []time.Time
	purged  int64
	err     error
}

func (p *fakePurger) PurgeReadNotifications(_ context.Context, before time.Time) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cutoffs = append(p.cutoffs, before)
	return p.purged, p.err
}

func TestPurgeOnceUsesRetentionWindow(t *testing.T) {
	purger := &fakePurger{purged: 3}
	m := NewManager(purger, 30)

	m.purgeOnce()

	purger.mu.Lock()
	defer purger.mu.Unlock()
	require.Len(t, purger.cutoffs, 1)
	expected := time.Now().AddDate(0, 0, -30)
	assert.WithinDuration(t, expected, purger.cutoffs[0], time.Minute)
}

func TestPurgeOnceSwallowsErrors(t *testing.T) {
	purger := &fakePurger{err: errors.New("connection refused")}
	m := NewManager(purger, 7)

	// Must not panic; the error is only logged.
	m.purgeOnce()
}

func TestManagerStartStop(t *testing.T) {
	purger := &fakePurger{}
	m := NewManager(purger, 30)

	require.NoError(t, m.Start())
	m.Stop()
}
