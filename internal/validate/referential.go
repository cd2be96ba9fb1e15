package validate

import (
	"fmt"

	"github.com/roach88/qaco/internal/ir"
)

// QACOProblem runs the full input check: the envelope, the composite service
// shape, then every reference from the problem into the composite service.
func QACOProblem(p *ir.QACOProblem) error {
	if p == nil {
		return problemError(RuleProblemMissing, "", "", "QACOProblem cannot be null")
	}
	if p.Problem == nil {
		return problemError(RuleDefinitionMissing, "problem", "", "Problem definition is missing in QACOProblem")
	}
	if p.CompositeWebService == nil {
		return problemError(RuleCWSMissing, "cws", "", "CompositeWebService is missing in QACOProblem")
	}
	if err := checkCWS(p.CompositeWebService); err != nil {
		return err
	}
	return Problem(p.Problem, p.CompositeWebService)
}

// Problem checks that every Feature and Task reachable from the problem is
// declared by cws. The composite service must already be structurally valid.
func Problem(problem *ir.Problem, cws *ir.CompositeWebService) error {
	if problem == nil {
		return problemError(RuleDefinitionMissing, "problem", "", "Problem definition is missing")
	}
	if cws == nil {
		return problemError(RuleCWSMissing, "cws", "", "CompositeWebService is missing")
	}
	return orNil(newRefChecker(problem, cws).check(problem))
}

// refChecker holds the lookup sets for one Problem/CWS pair.
type refChecker struct {
	tasks        map[ir.Task]struct{}
	features     map[string]struct{} // keyed by ir.Feature.Key
	optimization *ir.Optimization
}

func newRefChecker(problem *ir.Problem, cws *ir.CompositeWebService) *refChecker {
	rc := &refChecker{
		tasks:        make(map[ir.Task]struct{}, len(cws.Tasks)),
		features:     make(map[string]struct{}, len(cws.Features)),
		optimization: problem.Optimization,
	}
	for _, t := range cws.Tasks {
		rc.tasks[t] = struct{}{}
	}
	for _, f := range cws.Features {
		rc.features[f.Key()] = struct{}{}
	}
	return rc
}

func (rc *refChecker) hasTask(t ir.Task) bool {
	_, ok := rc.tasks[t]
	return ok
}

func (rc *refChecker) hasFeature(f ir.Feature) bool {
	_, ok := rc.features[f.Key()]
	return ok
}

func (rc *refChecker) check(problem *ir.Problem) *Error {
	if problem.Optimization != nil {
		if err := rc.checkOptimization(problem.Optimization); err != nil {
			return err
		}
	}
	for i, c := range problem.Constraints {
		if err := rc.checkConstraint(c, fmt.Sprintf("problem.constraints[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

func (rc *refChecker) checkOptimization(opt *ir.Optimization) *Error {
	for i, pref := range opt.Preferences {
		if pref.Feature != nil && !rc.hasFeature(*pref.Feature) {
			return problemError(RuleUnknownPreferenceFeature,
				fmt.Sprintf("problem.optimization.preferences[%d].feature", i), pref.Feature.Name,
				"Optimization references a Feature not present in the CWS: %s", pref.Feature.Name)
		}
	}
	for i, ad := range opt.AggregateDomains {
		for j, op := range ad.AggregatorOperations {
			field := fmt.Sprintf("problem.optimization.aggregate_domains[%d].aggregator_operations[%d]", i, j)
			if err := rc.checkAggregator(op, field); err != nil {
				return err
			}
		}
	}
	return nil
}

func (rc *refChecker) checkAggregator(op ir.AggregatorOperation, field string) *Error {
	for k, f := range op.Features {
		if !rc.hasFeature(f) {
			return problemError(RuleUnknownAggregatorFeature, fmt.Sprintf("%s.features[%d]", field, k), f.Name,
				"AggregatorOperation references a Feature not present in the CWS: %s", f.Name)
		}
	}
	return nil
}

// checkConstraint dispatches on the closed set of constraint variants.
// Nil constraints, including typed nil pointers, are skipped.
func (rc *refChecker) checkConstraint(c ir.Constraint, field string) *Error {
	switch v := c.(type) {
	case nil:
		return nil
	case *ir.GlobalConstraint:
		if v == nil {
			return nil
		}
		return rc.checkGlobal(v, field)
	case *ir.LocalConstraint:
		if v == nil {
			return nil
		}
		return rc.checkLocal(v, field)
	case *ir.ComposeConstraint:
		if v == nil {
			return nil
		}
		for i, sub := range v.Conditions {
			if err := rc.checkConstraint(sub, fmt.Sprintf("%s.conditions[%d]", field, i)); err != nil {
				return err
			}
		}
		return nil
	case *ir.ConditionalConstraint:
		if v == nil {
			return nil
		}
		if err := rc.checkConstraint(v.Condition, field+".condition"); err != nil {
			return err
		}
		return rc.checkConstraint(v.Then, field+".then")
	case *ir.BindingConstraint:
		if v == nil {
			return nil
		}
		return rc.checkBindingConstraint(v, field)
	default:
		return problemError(RuleUnsupportedConstraint, field, "", "unsupported constraint type: %T", c)
	}
}

// checkGlobal requires the input feature to be declared by the CWS and, when
// the problem has an optimization model, to be one of its preferences.
func (rc *refChecker) checkGlobal(gc *ir.GlobalConstraint, field string) *Error {
	field += ".input_feature"
	if gc.InputFeature == nil {
		return problemError(RuleGlobalFeatureMissing, field, "", "GlobalConstraint has no input feature")
	}
	f := *gc.InputFeature
	if !rc.hasFeature(f) {
		return problemError(RuleUnknownGlobalFeature, field, f.Name,
			"GlobalConstraint references a feature not in the CWS: %s", f.Name)
	}
	if rc.optimization == nil {
		return nil
	}
	key := f.Key()
	for _, pref := range rc.optimization.Preferences {
		if pref.Feature != nil && pref.Feature.Key() == key {
			return nil
		}
	}
	return problemError(RuleGlobalNotOptimized, field, f.Name,
		"GlobalConstraint feature must be part of Optimization's features: %s", f.Name)
}

func (rc *refChecker) checkLocal(lc *ir.LocalConstraint, field string) *Error {
	if lc.InputFeature != nil {
		if err := rc.checkFeatureConstraint(lc.InputFeature, field+".input_feature"); err != nil {
			return err
		}
	}
	if lc.OutputFeature != nil {
		if err := rc.checkFeatureConstraint(lc.OutputFeature, field+".output_feature"); err != nil {
			return err
		}
		if lc.Value != nil {
			return problemError(RuleValueAndOutputFeature, field, "",
				"LocalConstraint cannot have both outputFeature and a numeric value")
		}
	}
	return nil
}

func (rc *refChecker) checkFeatureConstraint(fc *ir.FeatureConstraint, field string) *Error {
	if fc.Feature != nil && !rc.hasFeature(*fc.Feature) {
		return problemError(RuleUnknownConstraintFeature, field+".feature", fc.Feature.Name,
			"FeatureConstraint references a Feature not in the CWS: %s", fc.Feature.Name)
	}
	for i, t := range fc.Tasks {
		if !rc.hasTask(t) {
			return problemError(RuleUnknownConstraintTask, fmt.Sprintf("%s.tasks[%d]", field, i), t.Name,
				"FeatureConstraint references a Task not in the CWS: %s", t.Name)
		}
	}
	if fc.Aggregator != nil {
		return rc.checkAggregator(*fc.Aggregator, field+".aggregator")
	}
	return nil
}

func (rc *refChecker) checkBindingConstraint(bc *ir.BindingConstraint, field string) *Error {
	for i, t := range bc.Providers {
		if !rc.hasTask(t) {
			return problemError(RuleUnknownProviderTask, fmt.Sprintf("%s.providers[%d]", field, i), t.Name,
				"BindingConstraint references a Task not in the CWS: %s", t.Name)
		}
	}
	return nil
}
