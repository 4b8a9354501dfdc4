package bill

import "fmt"

// ValidationError reports a batch that cannot enter the pipeline: empty
// input, or a required column missing from the first record.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s", e.Reason)
}

// IntegrityError reports data that would make the output numerically
// meaningless; the current stage aborts with no partial output.
type IntegrityError struct {
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity: %s", e.Reason)
}
