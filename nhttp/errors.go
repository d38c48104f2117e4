package nhttp

import (
	"net/http"

	"github.com/pkg/errors"
)

// ReturnCode associates an HTTP return code with a error.
func ReturnCode(err error, code int) error {
	return returnCode{
		cause: err,
		code:  code,
	}
}

type returnCode struct {
	cause error
	code  int
}

func (err returnCode) Cause() error  { return err.cause }
func (err returnCode) Unwrap() error { return err.cause }
func (err returnCode) Error() string { return err.cause.Error() }

// NotFound annotates an error as giving a 404 HTTP return code
func NotFound(err error) error {
	return ReturnCode(err, http.StatusNotFound)
}

// BadRequest annotates an error as giving a 400 HTTP return code
func BadRequest(err error) error {
	return ReturnCode(err, http.StatusBadRequest)
}

// GetReturnCode finds the outermost return code in the error chain.  It
// defaults to 500.
func GetReturnCode(err error) int {
	var rc returnCode
	if errors.As(err, &rc) {
		return rc.code
	}
	return http.StatusInternalServerError
}
