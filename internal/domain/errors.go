package domain

import "errors"

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrOutOfRange       = errors.New("session index out of range")
	ErrDuplicateAccount = errors.New("account already registered")
	ErrDisconnected     = errors.New("account not connected")
)
