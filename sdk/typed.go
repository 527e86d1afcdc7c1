package sdk

import (
	"fmt"
)

// APIError is an unsuccessful Response folded into an error by Result.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cluster API error (HTTP %d): %s", e.StatusCode, e.Detail)
}

// Result collapses the outcome of an operation into a typed value and a
// single error. It is meant for callers that do not need to tell a refused
// request from a transport fault:
//
//	cms, err := sdk.Result[*models.Cms](client.Cmses().Get(ctx, 5))(sdk.KeyCms)
//	if err != nil {
//	    return err
//	}
//
// An unsuccessful response becomes an *APIError, and a missing or mistyped
// data entry an ErrInvalidResponse.
func Result[T any](resp *Response, err error) func(key string) (T, error) {
	return func(key string) (T, error) {
		var zero T
		if err != nil {
			return zero, err
		}
		if !resp.IsSuccess() {
			return zero, &APIError{StatusCode: resp.StatusCode(), Detail: resp.ErrorMessage()}
		}
		v, ok := DataAs[T](resp, key)
		if !ok {
			return zero, &ResponseError{Op: key, StatusCode: resp.StatusCode(), Err: errMissingKey(key)}
		}
		return v, nil
	}
}

// Check is Result for operations whose data is not needed.
func Check(resp *Response, err error) error {
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return &APIError{StatusCode: resp.StatusCode(), Detail: resp.ErrorMessage()}
	}
	return nil
}
