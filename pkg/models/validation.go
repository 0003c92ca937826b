package models

// ValidationErrorKind classifies a structural problem found in a workflow
// before execution.
type ValidationErrorKind string

const (
	ValidationMissingInput       ValidationErrorKind = "missing_input"
	ValidationInvalidConnection  ValidationErrorKind = "invalid_connection"
	ValidationCircularDependency ValidationErrorKind = "circular_dependency"
	ValidationInvalidConfig      ValidationErrorKind = "invalid_config"
)

// ValidationError is a purely diagnostic finding. Validation produces zero or
// more of these and execution is refused if any exist.
type ValidationError struct {
	Kind    ValidationErrorKind `json:"type"`
	NodeID  string              `json:"nodeId"`
	Message string              `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Message
}
