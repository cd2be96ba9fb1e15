package harness

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
)

// ScenarioReport is the result of one scenario in a suite.
type ScenarioReport struct {
	Name   string   `json:"name"`
	Path   string   `json:"path"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// SuiteResult summarizes a directory of scenarios.
type SuiteResult struct {
	Scenarios []ScenarioReport `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// FindScenarios lists the *.yaml and *.yml files in dir whose base name
// matches filter (a filepath.Match pattern; empty matches all), sorted.
func FindScenarios(dir, filter string) ([]string, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}

	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", filter, err)
		}
		kept := paths[:0]
		for _, p := range paths {
			if ok, _ := filepath.Match(filter, filepath.Base(p)); ok {
				kept = append(kept, p)
			}
		}
		paths = kept
	}

	sort.Strings(paths)
	return paths, nil
}

// RunSuite loads and runs every scenario in paths. A scenario that cannot be
// loaded or executed is reported as failed; RunSuite itself does not fail.
func RunSuite(ctx context.Context, paths []string, opts ...Option) *SuiteResult {
	suite := &SuiteResult{Scenarios: []ScenarioReport{}}
	for _, path := range paths {
		report := runOne(ctx, path, opts)
		suite.Scenarios = append(suite.Scenarios, report)
		suite.Total++
		if report.Pass {
			suite.Passed++
		} else {
			suite.Failed++
		}
	}
	return suite
}

func runOne(ctx context.Context, path string, opts []Option) ScenarioReport {
	report := ScenarioReport{Name: filepath.Base(path), Path: path}

	scenario, err := LoadScenario(path)
	if err != nil {
		report.Errors = []string{err.Error()}
		return report
	}
	report.Name = scenario.Name

	result, err := Run(ctx, scenario, opts...)
	if err != nil {
		report.Errors = []string{err.Error()}
		return report
	}
	report.Pass = result.Pass
	if !result.Pass {
		report.Errors = result.Errors
	}
	return report
}
