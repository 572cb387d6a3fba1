// pkg/report/report.go
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/williambrady/preflight/pkg/checks"
	"github.com/williambrady/preflight/pkg/types"
)

const headerWidth = 60

// styles holds the color formatters for report output.
type styles struct {
	header *color.Color
	pass   *color.Color
	fail   *color.Color
	detail *color.Color
	bold   *color.Color
}

// newStyles creates color formatters. enabled=false respects --color=never
// and NO_COLOR.
func newStyles(enabled bool) *styles {
	s := &styles{
		header: color.New(color.Bold, color.FgBlue),
		pass:   color.New(color.FgGreen),
		fail:   color.New(color.FgRed),
		detail: color.New(color.FgYellow),
		bold:   color.New(color.Bold),
	}

	// Toggle per-formatter instead of the package global so a Printer is
	// self-contained.
	for _, c := range []*color.Color{s.header, s.pass, s.fail, s.detail, s.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

// ColorEnabled resolves a --color mode (auto, always, never) against the
// NO_COLOR convention and whether stdout is a terminal.
func ColorEnabled(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // auto
		return term.IsTerminal(int(os.Stdout.Fd())) && os.Getenv("NO_COLOR") == ""
	}
}

// Printer renders preflight progress and the final summary. It is stateless
// beyond its writer and formatters, and implements checks.Observer.
type Printer struct {
	out io.Writer
	s   *styles
}

// NewPrinter creates a printer writing to out.
func NewPrinter(out io.Writer, colorEnabled bool) *Printer {
	return &Printer{out: out, s: newStyles(colorEnabled)}
}

// Header prints a section header between two ruled lines.
func (p *Printer) Header(text string) {
	rule := strings.Repeat("=", headerWidth)
	fmt.Fprintf(p.out, "\n%s\n%s\n%s\n", p.s.header.Sprint(rule), p.s.header.Sprint(text), p.s.header.Sprint(rule))
}

// Settings prints the resolved run configuration below the title header.
func (p *Printer) Settings(profile, region string, t checks.Targets) {
	if profile == "" {
		profile = "(default)"
	}
	fmt.Fprintf(p.out, "\n  Profile: %s\n", profile)
	fmt.Fprintf(p.out, "  Region:  %s\n", region)
	fmt.Fprintf(p.out, "  Stack:   %s\n", t.StackName)
	fmt.Fprintf(p.out, "  Bucket:  %s\n", t.BucketName)
	fmt.Fprintf(p.out, "  Role:    %s\n", t.RoleName)
	fmt.Fprintf(p.out, "  Repo:    %s/%s\n", t.GitHubOrg, t.GitHubRepo)
}

// CheckStarted implements checks.Observer: numbered section header.
func (p *Printer) CheckStarted(index int, name string) {
	p.Header(fmt.Sprintf("%d. %s", index, name))
}

// CheckCompleted implements checks.Observer: status tag, message, and
// indented detail lines.
func (p *Printer) CheckCompleted(name string, result types.Result) {
	fmt.Fprintf(p.out, "\n  [%s] %s\n", p.tag(result.Passed), name)
	fmt.Fprintf(p.out, "         %s\n", result.Message)
	for _, line := range result.DetailLines() {
		fmt.Fprintf(p.out, "         %s\n", p.s.detail.Sprint(line))
	}
}

// Summary prints the per-check tags, the aggregate count, and the next-steps
// or fix-issues hint.
func (p *Printer) Summary(summary *checks.Summary) {
	p.Header("Summary")

	for _, r := range summary.Results {
		fmt.Fprintf(p.out, "  [%s] %s\n", p.tag(r.Result.Passed), r.Name)
	}

	fmt.Fprintln(p.out)
	if summary.AllPassed() {
		fmt.Fprintf(p.out, "%s\n", p.s.pass.Sprintf("All validations passed! (%d/%d)", summary.Passed(), summary.Total()))
		fmt.Fprintf(p.out, "\nYou can now run:\n")
		fmt.Fprintf(p.out, "  cd terraform && terraform init && terraform plan\n")
		return
	}
	fmt.Fprintf(p.out, "%s\n", p.s.fail.Sprintf("Some validations failed (%d/%d)", summary.Passed(), summary.Total()))
	fmt.Fprintf(p.out, "\nFix the issues above before running Terraform.\n")
}

// Aborted prints the hard-stop notice after a credentials failure.
func (p *Printer) Aborted() {
	fmt.Fprintf(p.out, "\n%s\n", p.s.fail.Sprint("Validation failed: Fix AWS credentials before continuing"))
}

// SessionFailure prints session construction failure guidance.
func (p *Printer) SessionFailure(err error, profile string) {
	fmt.Fprintf(p.out, "\n%s\n", p.s.fail.Sprintf("Failed to create AWS session: %v", err))
	if profile != "" {
		fmt.Fprintf(p.out, "Check that profile '%s' exists in ~/.aws/credentials or ~/.aws/config\n", profile)
	}
}

func (p *Printer) tag(passed bool) string {
	if passed {
		return p.s.pass.Sprint("PASS")
	}
	return p.s.fail.Sprint("FAIL")
}
