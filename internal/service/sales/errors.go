package sales

import "errors"

// Sentinel errors for the sales service layer.
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("sale not found")
	ErrUnknownStatus = errors.New("status not in workflow vocabulary")
)
