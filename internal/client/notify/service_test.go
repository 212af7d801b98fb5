package notify

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink captures everything that reached the presentation surface.
type recordingSink struct {
	mu    sync.Mutex
	items []Notification
}

func (r *recordingSink) Present(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *recordingSink) all() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

func TestService_DedupWithinWindow(t *testing.T) {
	sink := &recordingSink{}
	svc := NewService(sink, time.Second)
	defer svc.Close()

	svc.Success("Saved", "OK")
	svc.Success("Saved", "OK")

	assert.Len(t, sink.all(), 1)
}

func TestService_EmitsAgainAfterWindow(t *testing.T) {
	sink := &recordingSink{}
	svc := NewService(sink, 30*time.Millisecond)
	defer svc.Close()

	svc.Success("Saved", "OK")
	svc.Success("Saved", "OK")
	require.Len(t, sink.all(), 1)

	time.Sleep(60 * time.Millisecond)

	svc.Success("Saved", "OK")
	assert.Len(t, sink.all(), 2)
}

func TestService_DistinctTriplesNotSuppressed(t *testing.T) {
	sink := &recordingSink{}
	svc := NewService(sink, time.Second)
	defer svc.Close()

	svc.Success("Saved", "OK")
	svc.Error("Saved", "OK")     // different severity
	svc.Success("Saved", "no")   // different detail
	svc.Success("Stored", "OK")  // different summary

	assert.Len(t, sink.all(), 4)
}

func TestService_LifeDefaults(t *testing.T) {
	sink := &recordingSink{}
	svc := NewService(sink, time.Second)
	defer svc.Close()

	svc.Error("A", "default life")
	svc.Error("B", "sticky", Sticky())
	svc.Error("C", "custom", WithLife(10*time.Second))

	items := sink.all()
	require.Len(t, items, 3)
	assert.Equal(t, DefaultLife, items[0].Life)
	assert.False(t, items[0].Sticky)
	assert.Equal(t, time.Duration(0), items[1].Life)
	assert.True(t, items[1].Sticky)
	assert.Equal(t, 10*time.Second, items[2].Life)
}

func TestService_ConcurrentBurstShowsOne(t *testing.T) {
	sink := &recordingSink{}
	svc := NewService(sink, time.Second)
	defer svc.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.SessionExpired()
		}()
	}
	wg.Wait()

	assert.Len(t, sink.all(), 1)
}

func TestService_CloseStopsEmission(t *testing.T) {
	sink := &recordingSink{}
	svc := NewService(sink, time.Second)

	svc.Close()
	svc.Success("Saved", "OK")

	assert.Empty(t, sink.all())
}

func TestConsoleSink(t *testing.T) {
	var buf bytes.Buffer
	sink := &ConsoleSink{Out: &buf}

	sink.Present(Notification{Severity: SeverityWarn, Summary: "Session expired", Detail: "sign in again"})

	assert.Equal(t, "[warn] Session expired: sign in again\n", buf.String())
}
