package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_SharesInFlightResult(t *testing.T) {
	t.Parallel()

	var (
		group   SingleFlight
		started = make(chan struct{})
		release = make(chan struct{})
		execs   atomic.Int32
	)

	var callers sync.WaitGroup
	callers.Add(1)
	go func() {
		defer callers.Done()
		_, _, shared := group.Do("key", func() (string, error) {
			execs.Add(1)
			close(started)
			<-release
			return "result", nil
		})
		if shared {
			t.Error("the executing caller must not report shared")
		}
	}()
	<-started

	// The leader is parked inside fn, so followers join the same call.
	var shares atomic.Int32
	var ready sync.WaitGroup
	for i := 0; i < 4; i++ {
		callers.Add(1)
		ready.Add(1)
		go func() {
			defer callers.Done()
			ready.Done()
			val, err, shared := group.Do("key", func() (string, error) {
				execs.Add(1)
				return "rerun", nil
			})
			if err != nil || val != "result" {
				t.Errorf("unexpected result: %q %v", val, err)
			}
			if shared {
				shares.Add(1)
			}
		}()
	}
	ready.Wait()
	time.Sleep(100 * time.Millisecond)

	close(release)
	callers.Wait()

	if got := execs.Load(); got != 1 {
		t.Fatalf("fn ran %d times, want 1", got)
	}
	if got := shares.Load(); got != 4 {
		t.Fatalf("%d callers shared, want 4", got)
	}
}

func TestSingleFlight_SequentialCallsRunIndependently(t *testing.T) {
	t.Parallel()

	var group SingleFlight

	val, err, shared := group.Do("key", func() (string, error) { return "first", nil })
	if err != nil || shared || val != "first" {
		t.Fatalf("unexpected first call: %q %v %v", val, err, shared)
	}

	val, err, shared = group.Do("key", func() (string, error) { return "second", nil })
	if err != nil || shared || val != "second" {
		t.Fatalf("a later call must run fresh: %q %v %v", val, err, shared)
	}
}
