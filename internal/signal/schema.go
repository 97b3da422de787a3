package signal

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed frame.schema.json
var frameSchema string

// ErrInvalidFrame wraps messages that fail JSON parsing or schema checks.
var ErrInvalidFrame = errors.New("signal: invalid frame")

// Validator checks raw tracker messages against the frame schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the embedded frame schema.
func NewValidator() (*Validator, error) {
	s, err := jsonschema.CompileString("frame.schema.json", frameSchema)
	if err != nil {
		return nil, fmt.Errorf("signal: compile frame schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// Decode validates msg and decodes it into a Frame.
func (v *Validator) Decode(msg []byte) (Frame, error) {
	var doc any
	if err := json.Unmarshal(msg, &doc); err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrInvalidFrame, err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrInvalidFrame, err)
	}
	var f Frame
	if err := json.Unmarshal(msg, &f); err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrInvalidFrame, err)
	}
	return f, nil
}
