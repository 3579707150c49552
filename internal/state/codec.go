package state

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Version is the schema version written into every encoded snapshot.
const Version = 1

// ErrUnsupportedVersion is returned when a snapshot carries an unknown version.
var ErrUnsupportedVersion = errors.New("unsupported state version")

type envelope struct {
	V     int             `json:"v"`
	State json.RawMessage `json:"state"`
}

// Encode serializes a complete snapshot.
func Encode(s *WizardState) ([]byte, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshaling wizard state: %w", err)
	}
	data, err := json.MarshalIndent(envelope{V: Version, State: body}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling wizard state: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot produced by Encode. Any blob that is not a
// valid version-1 snapshot is an error; callers treat it as absent.
func Decode(data []byte) (*WizardState, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parsing wizard state: %w", err)
	}
	if env.V != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.V)
	}
	if len(env.State) == 0 {
		return nil, errors.New("parsing wizard state: missing state")
	}

	var s WizardState
	if err := json.Unmarshal(env.State, &s); err != nil {
		return nil, fmt.Errorf("parsing wizard state: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid wizard state: %w", err)
	}
	return &s, nil
}
