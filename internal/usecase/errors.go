package usecase

import "github.com/cockroachdb/errors"

// Error kinds shared across source clients, parsers, and the reconciler.
// Clients absorb network and parse failures at their own boundary and
// surface "no data" upward; these sentinels exist so logs and tests can
// still tell the failure modes apart.
var (
	// ErrNetworkFailure covers connection and timeout failures after the
	// bounded retry budget is exhausted.
	ErrNetworkFailure = errors.New("network failure")
	// ErrRateLimited marks a 429-class response, backed off separately from
	// generic network failures.
	ErrRateLimited = errors.New("rate limited by source")
	// ErrMalformedPayload marks an undecodable payload; never retried.
	ErrMalformedPayload = errors.New("malformed source payload")
	// ErrQueryIdentifierExpired is the structured source's signal that the
	// cached persisted-query hash is stale.
	ErrQueryIdentifierExpired = errors.New("persisted query identifier expired")
	// ErrReconciliationFailure marks a single scraped record that could not
	// be matched or upserted; isolated to that record.
	ErrReconciliationFailure = errors.New("record reconciliation failed")
	// ErrUnresolvableConference is returned only when no conference exists
	// at all; an unmapped label otherwise falls back with a warning.
	ErrUnresolvableConference = errors.New("no conference could be resolved")
)
