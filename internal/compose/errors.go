package compose

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidYAML is returned when the input does not parse as YAML.
	ErrInvalidYAML = errors.New("invalid YAML syntax")

	// ErrMissingKey is returned when a required mapping key is absent.
	ErrMissingKey = errors.New("missing key")

	// ErrNotMapping is returned when a node that must be a mapping is not.
	ErrNotMapping = errors.New("not a mapping")

	// ErrNotSequence is returned when a node that must be a sequence is not.
	ErrNotSequence = errors.New("not a sequence")

	// ErrInvalidProject is returned when compose-go rejects the document.
	ErrInvalidProject = errors.New("invalid compose project")
)

// StructureError reports which key of the compose document is wrong.
type StructureError struct {
	Key string // dotted path, e.g. "services.backend-init.volumes"
	Err error
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("%s: %q", e.Err, e.Key)
}

func (e *StructureError) Unwrap() error {
	return e.Err
}

func missingKey(key string) error {
	return &StructureError{Key: key, Err: ErrMissingKey}
}
