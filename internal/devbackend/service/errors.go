package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrMFARequired        = errors.New("mfa_required")
	ErrInvalidRefresh     = errors.New("invalid_grant")
	ErrInvalidPeriod      = errors.New("invalid_period")
)
