package ledger

import "errors"

// Rejection reasons surfaced by ledger operations. Handlers rely on errors.Is
// to render a specific message instead of a generic failure.
var (
	// Rate limiting (ad views).
	ErrDailyLimit  = errors.New("daily ad limit reached")
	ErrHourlyLimit = errors.New("hourly ad limit reached")

	// State conflicts, re-derived from freshly read state.
	ErrAlreadyCompleted = errors.New("task already completed")
	ErrAlreadyClaimed   = errors.New("check-in already claimed today")
	ErrAlreadyUsed      = errors.New("referral code already used")
	ErrSelfReferral     = errors.New("cannot use your own referral code")

	// Input validation.
	ErrInvalidRecipient = errors.New("invalid recipient format")
	ErrEmptyCode        = errors.New("referral code is empty")
	ErrUnknownEventType = errors.New("unknown event type")

	// Lookups.
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidCode  = errors.New("invalid referral code")

	// Balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// Store contention after the retry budget; safe to retry.
	ErrConflict = errors.New("concurrent update conflict, retry")

	// External capability did not resolve positively; nothing was credited.
	ErrCapabilityFailed = errors.New("capability check failed")
)

// IsRateLimited reports whether err is either ad rate-limit rejection.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrDailyLimit) || errors.Is(err, ErrHourlyLimit)
}

// IsStateConflict reports whether err is a re-derived already-done rejection.
func IsStateConflict(err error) bool {
	return errors.Is(err, ErrAlreadyCompleted) ||
		errors.Is(err, ErrAlreadyClaimed) ||
		errors.Is(err, ErrAlreadyUsed) ||
		errors.Is(err, ErrSelfReferral)
}

// IsRetryable reports whether the caller may safely retry the operation as-is.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}
