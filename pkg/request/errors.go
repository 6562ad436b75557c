package request

import "errors"

// ErrInternalServer is returned to the client when the server fails in an unexpected way.
var ErrInternalServer = errors.New("internal server error")
