package key

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfigured = errors.New("smart lock provider is not configured")
	ErrUnavailable   = errors.New("smart lock is not available")
)

// VendorError is a non-success answer from the lock vendor API.
type VendorError struct {
	StatusCode int
	Body       string
}

func (e *VendorError) Error() string {
	return fmt.Sprintf("lock vendor: status %d: %s", e.StatusCode, e.Body)
}
