// internal/common/errors/handler.go
package errors

import "net/http"

// HTTPStatus maps an error to the status code every handler responds with.
// Unknown errors are treated as internal failures.
func HTTPStatus(err error) int {
	stdErr, ok := AsStandard(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch stdErr.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindDownstream:
		return http.StatusBadGateway
	case KindUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Normalize ensures callers always get a *StandardError to render.
func Normalize(err error) *StandardError {
	if stdErr, ok := AsStandard(err); ok {
		return stdErr
	}
	return NewUnavailable(ErrCodeStoreUnavailable, err)
}
