package httpclient

import (
	"context"
	"errors"
	"net"
)

// IsTimeout reports whether err comes from a deadline: the caller's context or
// the transport's own timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsCanceled reports whether err is the result of the caller cancelling the request.
func IsCanceled(err error) bool {
	return err != nil && errors.Is(err, context.Canceled)
}
