package icons

import "errors"

var (
	// ErrReadAssets is returned when the icon file system cannot be read.
	ErrReadAssets = errors.New("icons: failed to read assets")
)
