// Package filter provides expression-based row filtering for CLI output.
//
// Filters are written in the expr language and evaluated against a flat
// map of row fields, so `Amount > 1000 && contains(Recipient, "media")`
// works against any row shape the commands produce.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter is a compiled boolean expression.
type Filter struct {
	expression string
	program    *vm.Program
}

// Compile compiles an expression into an executable filter.
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, fmt.Errorf("empty filter expression")
	}

	program, err := expr.Compile(expression,
		expr.Env(helperFunctions()),
		expr.AllowUndefinedVariables(), // Row fields vary by command
		expr.AsBool(),                  // Ensure boolean result
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile filter %q: %w", expression, err)
	}

	return &Filter{
		expression: expression,
		program:    program,
	}, nil
}

// Match evaluates the filter against a row environment. Rows that fail
// to evaluate are excluded rather than aborting the whole listing.
func (f *Filter) Match(row map[string]any) bool {
	env := make(map[string]any, len(row)+16)
	addHelperFunctions(env)
	for key, value := range row {
		env[key] = value
	}

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false
	}

	// Result is guaranteed to be bool due to AsBool() option during compilation
	return result.(bool)
}

// Expression returns the original expression.
func (f *Filter) Expression() string {
	return f.expression
}

// helperFunctions creates the static helper environment used during compilation.
func helperFunctions() map[string]any {
	env := make(map[string]any, 16)
	addHelperFunctions(env)
	return env
}

// addHelperFunctions adds all helper functions to the provided map
func addHelperFunctions(env map[string]any) {
	// Date helpers
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["parseDate"] = func(dateStr string) time.Time {
		t, _ := time.Parse("2006-01-02", dateStr)
		return t
	}
	// String helpers
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	// Current time
	env["now"] = time.Now
}
