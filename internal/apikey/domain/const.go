package domain

const (
	// KeyPrefix identifies key values issued by this service.
	KeyPrefix = "pqv_"

	// DefaultExpiryDays is the expiry horizon applied when the caller does
	// not choose one.
	DefaultExpiryDays = 90

	// MinExpiryDays and MaxExpiryDays bound the caller-tunable horizon.
	// Out-of-range requests are clamped, not rejected.
	MinExpiryDays = 1
	MaxExpiryDays = 365

	maskPrefixLen = 8
	maskSuffixLen = 4
)
