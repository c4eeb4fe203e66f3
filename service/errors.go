package service

import "errors"

// MaxNameLength bounds names in bytes. Both embedded stores key on the name.
const MaxNameLength = 255

var (
	ErrEmptyName   = errors.New("service: name is empty")
	ErrNameTooLong = errors.New("service: name too long")
)
