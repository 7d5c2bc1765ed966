package cli

import (
	"github.com/roach88/typematrix/internal/harness"
)

// resolvePlans loads the named built-in plans followed by planFile. With no
// names and no file, the configured default plans are used.
func resolvePlans(names []string, planFile string, defaults []string) ([]*harness.Plan, error) {
	if len(names) == 0 && planFile == "" {
		names = defaults
	}

	plans := make([]*harness.Plan, 0, len(names)+1)
	for _, name := range names {
		p, err := harness.BuiltinPlan(name)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load plan", err)
		}
		plans = append(plans, p)
	}
	if planFile != "" {
		p, err := harness.LoadPlan(planFile)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load plan file", err)
		}
		plans = append(plans, p)
	}
	if len(plans) == 0 {
		return nil, NewExitError(ExitCommandError, "no plans to run")
	}
	return plans, nil
}
