package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSnapshot is returned when embedded product data fails decoding or validation
	ErrInvalidSnapshot = errors.New("invalid product snapshot")

	// ErrModalNotFound is returned when a modal instance does not exist or has expired
	ErrModalNotFound = errors.New("modal not found")

	// ErrInvalidTransition is returned when an event is not allowed in the current state
	ErrInvalidTransition = errors.New("invalid modal transition")

	// ErrInvalidSelection is returned when a selection does not address a rendered option value
	ErrInvalidSelection = errors.New("invalid option selection")

	// ErrPurchaseDisabled is returned when submitting while the purchase action is disabled
	ErrPurchaseDisabled = errors.New("purchase action disabled")

	// ErrCartRejected is returned when the storefront declines an add-to-cart request
	ErrCartRejected = errors.New("cart request rejected")

	// ErrStorefrontUnavailable is returned when the storefront cannot be reached or answers garbage
	ErrStorefrontUnavailable = errors.New("storefront request failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)

// CartRejectedError is a business-level rejection reported by the storefront,
// e.g. the variant sold out between selection and submission.
type CartRejectedError struct {
	Status      string
	Message     string
	Description string
}

func (e *CartRejectedError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("%s: %s", ErrCartRejected, e.Description)
	}
	return fmt.Sprintf("%s: %s", ErrCartRejected, e.Message)
}

func (e *CartRejectedError) Unwrap() error {
	return ErrCartRejected
}

// UserMessage returns the text shown in the inline error slot
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var rejected *CartRejectedError
	if errors.As(err, &rejected) {
		if rejected.Description != "" {
			return rejected.Description
		}
		if rejected.Message != "" {
			return rejected.Message
		}
	}
	return err.Error()
}
