package tools

import (
	"encoding/json"
	"fmt"
)

// Result is the JSON envelope every tool returns on success.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// success marshals a Result with optional message and data.
func success(message string, data any) (string, error) {
	out, err := json.Marshal(Result{Success: true, Message: message, Data: data})
	if err != nil {
		return "", fmt.Errorf("marshal tool result: %w", err)
	}
	return string(out), nil
}
