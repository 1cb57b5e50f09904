package orchestrator

import "fmt"

// ControllerError is the failure of one controller for one backend. Other
// controllers and backends are still generated.
type ControllerError struct {
	Controller string
	Backend    string
	Err        error
}

func (e *ControllerError) Error() string {
	return fmt.Sprintf("controller %s (%s): %v", e.Controller, e.Backend, e.Err)
}

func (e *ControllerError) Unwrap() error {
	return e.Err
}
