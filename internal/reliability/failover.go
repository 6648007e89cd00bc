package reliability

// FailureStrategy picks behavior when an auxiliary dependency errors.
type FailureStrategy string

const (
	// FailOpen lets traffic through when the dependency is down.
	FailOpen FailureStrategy = "fail_open"
	// FailClosed blocks traffic when the dependency is down.
	FailClosed FailureStrategy = "fail_closed"
)

// ShouldAllow reports whether a request may proceed given an error
// from an auxiliary dependency and the chosen strategy.
func ShouldAllow(strategy FailureStrategy, err error) bool {
	if err == nil {
		return true
	}
	return strategy == FailOpen
}
