package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a request the backend received and rejected with a structured
// body. Transport failures are not represented by this type; they surface as
// wrapped errors from the underlying http.Client.
type Error struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend: status %d: %s", e.Status, http.StatusText(e.Status))
}

// AsRejection returns the structured rejection when err carries one.
func AsRejection(err error) (*Error, bool) {
	var rejection *Error
	if errors.As(err, &rejection) {
		return rejection, true
	}
	return nil, false
}

// IsRejection reports whether err is a server-rejected request, as opposed to
// a transport or connectivity failure.
func IsRejection(err error) bool {
	_, ok := AsRejection(err)
	return ok
}

// IsClientRejection reports whether err is a 4xx rejection, e.g. an
// unauthorized cart fetch or an unknown product on a cart write.
func IsClientRejection(err error) bool {
	rejection, ok := AsRejection(err)
	return ok && rejection.Status >= 400 && rejection.Status < 500
}
