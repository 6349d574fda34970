package product

import "errors"

var (
	ErrNotFound     = errors.New("product: not found")
	ErrInvalidInput = errors.New("product: invalid input")
)
