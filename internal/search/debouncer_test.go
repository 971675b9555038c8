package search_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/oakmart/storefront-web/internal/search"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu    sync.Mutex
	calls []string
	fired chan struct{}
}

func newRecorder() *recorder {
	return &recorder{fired: make(chan struct{}, 16)}
}

func (r *recorder) fire(text string) {
	r.mu.Lock()
	r.calls = append(r.calls, text)
	r.mu.Unlock()
	r.fired <- struct{}{}
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

func (r *recorder) waitFire(t *testing.T) {
	t.Helper()
	select {
	case <-r.fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for debounced search to fire")
	}
}

func TestBurstCoalescesToSingleSearch(t *testing.T) {
	t.Parallel()

	rec := newRecorder()
	d := search.NewDebouncer(30*time.Millisecond, rec.fire)
	defer d.Stop()

	d.QueryChanged("i")
	d.QueryChanged("ip")
	d.QueryChanged("iphone")

	rec.waitFire(t)
	require.Equal(t, []string{"iphone"}, rec.snapshot())
	require.False(t, d.Pending())
}

func TestSeparateWindowsFireSeparately(t *testing.T) {
	t.Parallel()

	rec := newRecorder()
	d := search.NewDebouncer(20*time.Millisecond, rec.fire)
	defer d.Stop()

	d.QueryChanged("shoes")
	rec.waitFire(t)

	d.QueryChanged("socks")
	rec.waitFire(t)

	require.Equal(t, []string{"shoes", "socks"}, rec.snapshot())
}

func TestQueryChangedWhilePendingReplacesTimer(t *testing.T) {
	t.Parallel()

	rec := newRecorder()
	d := search.NewDebouncer(40*time.Millisecond, rec.fire)
	defer d.Stop()

	d.QueryChanged("first")
	require.True(t, d.Pending())
	time.Sleep(15 * time.Millisecond)
	d.QueryChanged("second")

	rec.waitFire(t)
	require.Equal(t, []string{"second"}, rec.snapshot())
}

func TestStopCancelsPendingTimer(t *testing.T) {
	t.Parallel()

	rec := newRecorder()
	d := search.NewDebouncer(25*time.Millisecond, rec.fire)

	d.QueryChanged("never")
	d.Stop()
	require.False(t, d.Pending())

	time.Sleep(60 * time.Millisecond)
	require.Empty(t, rec.snapshot())

	// Stop is idempotent.
	d.Stop()
}

func TestDefaultQuiescenceApplied(t *testing.T) {
	t.Parallel()

	d := search.NewDebouncer(0, func(string) {})
	d.QueryChanged("x")
	require.True(t, d.Pending())
	d.Stop()
}
