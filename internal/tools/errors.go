package tools

import "fmt"

// Error kinds for tool failures. The API layer maps these to HTTP codes.
const (
	KindInvalidArguments    = "invalid_arguments"
	KindNotFound            = "not_found"
	KindExternalUnavailable = "external_unavailable"
)

// ToolError is the failure type returned by tool execution.
type ToolError struct {
	Kind    string
	Message string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func invalidArgs(format string, args ...any) *ToolError {
	return &ToolError{Kind: KindInvalidArguments, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) *ToolError {
	return &ToolError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}
