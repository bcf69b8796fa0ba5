package domain

import "errors"

// Pipeline error classes. Wrap with fmt.Errorf("...: %w", Err...) and test with errors.Is.
var (
	// ErrMalformedPayload means the creation payload could not be decoded; the event is dropped.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrDerivationFailed means no derived address was found; the event is dropped.
	ErrDerivationFailed = errors.New("derivation failed")

	// ErrEnrichmentUnavailable means market data could not be fetched; the snapshot stays empty.
	ErrEnrichmentUnavailable = errors.New("enrichment unavailable")

	// ErrReputationLookupFailed means the creator balance could not be fetched; the creator counts as not reputable.
	ErrReputationLookupFailed = errors.New("reputation lookup failed")

	// ErrNotificationDeliveryFailed means an alert could not be delivered; it is not retried.
	ErrNotificationDeliveryFailed = errors.New("notification delivery failed")
)
