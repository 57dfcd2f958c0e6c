package types

import "fmt"

// ErrValidation indicates a malformed or missing request field. It is
// user-correctable and reported before any upstream call.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUpstream indicates an LLM gateway network or HTTP failure. The funnel
// makes no automatic retry.
type ErrUpstream struct {
	Provider string
	Err      error
}

func (e *ErrUpstream) Error() string {
	return fmt.Sprintf("upstream %s error: %v", e.Provider, e.Err)
}

func (e *ErrUpstream) Unwrap() error {
	return e.Err
}

// ErrResponseFormat indicates the LLM replied with non-JSON or
// schema-violating content after code-fence stripping.
type ErrResponseFormat struct {
	Detail string
	Err    error
}

func (e *ErrResponseFormat) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("response format error: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("response format error: %s", e.Detail)
}

func (e *ErrResponseFormat) Unwrap() error {
	return e.Err
}

// ErrNotFound indicates required backing data is absent, such as an empty
// employee snapshot.
type ErrNotFound struct {
	Resource string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}
