package validator

// Validator validates annotated structs.
type Validator interface {
	// Validate checks struct tags and returns an error describing the first
	// violations found, or nil when the value is valid.
	Validate(data any) error
}
