package rules

import (
	"errors"
)

var errNoReference = errors.New("reference data not loaded")
