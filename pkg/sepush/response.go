package sepush

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Adda-Baaj/sepush/pkg/httpclient"
)

// Fetch resolves e against base, performs exactly one GET with the token
// header through client, and decodes the response into T.
// Validation errors are returned before any request is made.
func Fetch[T any](ctx context.Context, client httpclient.Client, base, token string, e Endpoint) (T, error) {
	var zero T
	u, err := ResolveURL(base, e)
	if err != nil {
		return zero, err
	}
	resp, err := client.Get(ctx, u, map[string]string{TokenHeader: token})
	return HandleResponse[T](resp, err)
}

// HandleResponse maps the outcome of a transport call onto T or an *Error.
// Server errors are checked before the specific 4xx codes.
func HandleResponse[T any](resp httpclient.Response, err error) (T, error) {
	var out T
	if err != nil {
		return out, transportError(err)
	}
	if resp == nil {
		return out, &Error{Kind: KindUnknown}
	}

	code := resp.StatusCode()
	switch {
	case code >= http.StatusInternalServerError:
		return out, &Error{Kind: KindServerError, StatusCode: code, Body: strings.TrimSpace(string(resp.Body()))}
	case code == http.StatusBadRequest:
		return out, &Error{Kind: KindBadRequest, StatusCode: code}
	case code == http.StatusForbidden:
		return out, &Error{Kind: KindForbidden, StatusCode: code}
	case code == http.StatusNotFound:
		return out, &Error{Kind: KindNotFound, StatusCode: code}
	case code == http.StatusTooManyRequests:
		return out, &Error{Kind: KindTooManyRequests, StatusCode: code}
	case code >= http.StatusBadRequest:
		return out, &Error{Kind: KindUnknown, StatusCode: code, Body: responseSnippet(resp.Body())}
	}

	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		var zero T
		if isDecodeError(err) {
			return zero, &Error{Kind: KindDecode, StatusCode: code, Err: err}
		}
		return zero, &Error{Kind: KindUnknown, StatusCode: code, Err: err}
	}
	return out, nil
}

func transportError(err error) *Error {
	switch {
	case httpclient.IsTimeout(err):
		return &Error{Kind: KindTimeout, Err: err}
	case httpclient.IsCanceled(err):
		return &Error{Kind: KindUnknown, Err: err}
	default:
		return &Error{Kind: KindNoInternet, Err: err}
	}
}

// isDecodeError covers malformed, empty and mismatched bodies.
func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
