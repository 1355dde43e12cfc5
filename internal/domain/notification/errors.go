package notification

import "errors"

var (
	ErrRecordNotFound = errors.New("notification not found")
)
