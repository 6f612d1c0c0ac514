package refdata

import (
	"fmt"
)

// Reference input file is missing, unreadable, or lacks a required column.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("reference data %s: %s", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
