package application

import "errors"

var ErrBadRequest = errors.New("bad request")
var ErrResolutionExhausted = errors.New("rate resolution exhausted")
var ErrHistoryUnavailable = errors.New("history unavailable")
