// pkg/types/result.go
package types

import "strings"

// Result represents the outcome of a single preflight check.
// Details is optional multi-line diagnostic text; it is never needed to
// interpret Passed.
type Result struct {
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Pass creates a passing result. Detail lines are joined with newlines;
// empty lines are dropped.
func Pass(message string, details ...string) Result {
	return Result{Passed: true, Message: message, Details: joinDetails(details)}
}

// Fail creates a failing result.
func Fail(message string, details ...string) Result {
	return Result{Passed: false, Message: message, Details: joinDetails(details)}
}

// DetailLines splits Details into individual lines for display.
// Returns nil when there are no details.
func (r Result) DetailLines() []string {
	if r.Details == "" {
		return nil
	}
	return strings.Split(r.Details, "\n")
}

func joinDetails(details []string) string {
	kept := details[:0]
	for _, d := range details {
		if d != "" {
			kept = append(kept, d)
		}
	}
	return strings.Join(kept, "\n")
}

// NamedResult pairs a check name with its result. Order of a NamedResult
// slice is execution order.
type NamedResult struct {
	Name   string `json:"name"`
	Result Result `json:"result"`
}
