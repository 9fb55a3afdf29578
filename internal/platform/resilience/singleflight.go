package resilience

import "sync"

// SingleFlight collapses concurrent refreshes of a cached token. The
// structured client uses it so that when the persisted-query hash expires
// mid-pass, the storm of workers all hitting the expiry re-derives the
// hash once instead of once per worker.
type SingleFlight struct {
	mu       sync.Mutex
	inflight map[string]*refresh
}

type refresh struct {
	done chan struct{}
	val  string
	err  error
}

// Do runs fn at most once per key at a time. Callers arriving while a
// refresh for the same key is in flight block until it finishes and share
// its result; shared reports whether this caller joined an existing
// refresh rather than running its own.
func (g *SingleFlight) Do(key string, fn func() (string, error)) (val string, err error, shared bool) {
	g.mu.Lock()
	if g.inflight == nil {
		g.inflight = make(map[string]*refresh)
	}

	if r, ok := g.inflight[key]; ok {
		g.mu.Unlock()
		<-r.done
		return r.val, r.err, true
	}

	r := &refresh{done: make(chan struct{})}
	g.inflight[key] = r
	g.mu.Unlock()

	r.val, r.err = fn()
	close(r.done)

	g.mu.Lock()
	delete(g.inflight, key)
	g.mu.Unlock()

	return r.val, r.err, false
}
