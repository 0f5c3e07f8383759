package broker

import "errors"

var (
	ErrNoRegistry = errors.New("broker: registry handle is required")
	ErrNoSessions = errors.New("broker: session broker is required")

	ErrProviderError  = errors.New("broker: provider returned an error")
	ErrStateMismatch  = errors.New("broker: state does not match session")
	ErrFlowMismatch   = errors.New("broker: session belongs to another flow")
	ErrProjectChanged = errors.New("broker: project id does not match session")

	ErrNoAccountSession = errors.New("broker: account session cookie missing")
)
