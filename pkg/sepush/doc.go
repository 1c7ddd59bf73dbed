// Package sepush is a client for the EskomSePush business API.
//
// Each API operation has an endpoint descriptor (StatusURL, AreaInfoURL, ...)
// that validates its parameters and resolves to a URL without touching the
// network. Fetch runs a descriptor over any httpclient.Client and maps the
// outcome onto a typed record or an *Error whose Kind callers can branch on:
//
//	c, err := sepush.NewFromEnv("")
//	if err != nil {
//		return err
//	}
//	st, err := c.Status(ctx)
//	if errors.Is(err, sepush.ErrTooManyRequests) {
//		// quota exhausted for today
//	}
package sepush
