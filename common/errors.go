package common

import "errors"

var (
	ErrorInvalidValue  = errors.New("invalid value")
	ErrorNotFound      = errors.New("not found")
	ErrorNoProfile     = errors.New("no child profile")
	ErrorAgeOutOfRange = errors.New("age out of range")
	ErrorInvalidConfig = errors.New("invalid config")
)
