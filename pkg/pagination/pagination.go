package pagination

const (
	// DefaultLimit is the page size used when a limit is not provided.
	DefaultLimit = 10
	// MaxLimit caps how many rows any catalog query can request.
	MaxLimit = 50
)

// NormalizeLimit enforces the default and maximum limits.
func NormalizeLimit(limit int) int {
	return NormalizeLimitWith(limit, DefaultLimit)
}

// NormalizeLimitWith is NormalizeLimit with a caller supplied default.
func NormalizeLimitWith(limit, fallback int) int {
	if fallback <= 0 || fallback > MaxLimit {
		fallback = DefaultLimit
	}
	if limit <= 0 {
		return fallback
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
