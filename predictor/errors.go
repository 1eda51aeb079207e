package predictor

import "errors"

var (
	// ErrEmptyCommand indicates no executable was configured.
	ErrEmptyCommand = errors.New("prediction command is empty")
	// ErrProcessFailed indicates the prediction process exited with a non-zero code.
	ErrProcessFailed = errors.New("prediction process failed")
)

// StartError reports that the prediction process could not be started at all.
type StartError struct {
	Err error
}

func (e *StartError) Error() string {
	return "start prediction process: " + e.Err.Error()
}

func (e *StartError) Unwrap() error {
	return e.Err
}
