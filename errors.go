package bandpal

import "errors"

var (
	ErrInvalidBudget  = errors.New("color budget out of range")
	ErrInvalidEpsilon = errors.New("epsilon must be positive")
	ErrEmptyImage     = errors.New("image has no pixels")
	ErrRasterSize     = errors.New("raster pixel count does not match its size")
)
