// pkg/checks/runner.go
package checks

import (
	"context"

	"github.com/williambrady/preflight/pkg/types"
)

// Observer receives progress callbacks as the runner works through the
// checks. The reporter implements it; a nil observer is valid.
type Observer interface {
	// CheckStarted fires before a check runs. Index is 1-based.
	CheckStarted(index int, name string)

	// CheckCompleted fires with the check's result.
	CheckCompleted(name string, result types.Result)
}

// Runner executes the checks sequentially in fixed order. The first check
// gates the rest: when it fails the run aborts with a single recorded
// result. Later failures never stop the run.
type Runner struct {
	gate     Check
	rest     []Check
	observer Observer
}

// NewRunner creates a runner. The gate check (credentials) runs first and
// aborts the run on failure; the remaining checks always all run.
func NewRunner(observer Observer, gate Check, rest ...Check) *Runner {
	return &Runner{gate: gate, rest: rest, observer: observer}
}

// NewDefaultRunner wires the standard five preflight checks against the
// given clients.
func NewDefaultRunner(observer Observer, clients Clients, t Targets) *Runner {
	return NewRunner(observer,
		NewCredentialsCheck(clients.STS),
		NewStackCheck(clients.CloudFormation, t.StackName),
		NewBucketCheck(clients.S3, t.BucketName),
		NewRoleCheck(clients.IAM, t.RoleName, t.GitHubOrg, t.GitHubRepo),
		NewProviderCheck(clients.IAM),
	)
}

// Targets names the resources the standard checks validate.
type Targets struct {
	StackName  string
	BucketName string
	RoleName   string
	GitHubOrg  string
	GitHubRepo string
}

// Summary is the outcome of a full run.
type Summary struct {
	// Results in execution order. Contains a single entry when the run
	// aborted on the gate check.
	Results []types.NamedResult

	// Aborted is true when the gate check failed and the remaining checks
	// were skipped.
	Aborted bool
}

// Passed counts passing results.
func (s *Summary) Passed() int {
	n := 0
	for _, r := range s.Results {
		if r.Result.Passed {
			n++
		}
	}
	return n
}

// Total counts recorded results.
func (s *Summary) Total() int {
	return len(s.Results)
}

// AllPassed reports whether the run completed with every check passing.
func (s *Summary) AllPassed() bool {
	return !s.Aborted && s.Passed() == s.Total()
}

// Run executes the checks and collects their results.
func (r *Runner) Run(ctx context.Context) *Summary {
	summary := &Summary{}

	result := r.runOne(ctx, 1, r.gate)
	summary.Results = append(summary.Results, types.NamedResult{Name: r.gate.Name(), Result: result})
	if !result.Passed {
		summary.Aborted = true
		return summary
	}

	for i, check := range r.rest {
		result := r.runOne(ctx, i+2, check)
		summary.Results = append(summary.Results, types.NamedResult{Name: check.Name(), Result: result})
	}
	return summary
}

func (r *Runner) runOne(ctx context.Context, index int, check Check) types.Result {
	if r.observer != nil {
		r.observer.CheckStarted(index, check.Name())
	}
	result := check.Run(ctx)
	if r.observer != nil {
		r.observer.CheckCompleted(check.Name(), result)
	}
	return result
}
