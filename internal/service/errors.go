package service

import "errors"

var (
	ErrValidation        = errors.New("validation")            // 400
	ErrInsufficientStock = errors.New("insufficient stock")    // 400
	ErrInvalidTransition = errors.New("invalid transition")    // 400
	ErrConflict          = errors.New("conflict")              // 400
	ErrUnauthorized      = errors.New("unauthorized")          // 401
	ErrForbidden         = errors.New("forbidden")             // 403
	ErrInvalidSignature  = errors.New("invalid signature")     // 403
	ErrNotFound          = errors.New("not found")             // 404
	ErrGateway           = errors.New("payment gateway error") // 500
)
