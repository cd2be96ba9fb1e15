package compiler

import (
	"cuelang.org/go/cue"

	"github.com/roach88/qaco/internal/ir"
)

// CompileProblem builds a QACOProblem from a CUE value with top-level cws and
// problem fields. A missing field is left nil for validation to report.
func CompileProblem(v cue.Value) (*ir.QACOProblem, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}
	if v.Kind() != cue.StructKind {
		return nil, fieldError(v, "", "problem file must be a struct with cws and problem")
	}

	p := &ir.QACOProblem{}
	if cwsVal, ok := lookup(v, "cws"); ok {
		cws, err := CompileCWS(cwsVal)
		if err != nil {
			return nil, err
		}
		p.CompositeWebService = cws
	}

	if probVal, ok := lookup(v, "problem"); ok {
		def, err := compileDefinition(probVal, newScope(p.CompositeWebService))
		if err != nil {
			return nil, err
		}
		p.Problem = def
	}
	return p, nil
}

func compileDefinition(v cue.Value, names *scope) (*ir.Problem, error) {
	const path = "problem"
	if v.Kind() != cue.StructKind {
		return nil, fieldError(v, path, "must be a struct")
	}

	def := &ir.Problem{}
	var err error
	if def.Name, err = stringField(v, "name", path); err != nil {
		return nil, err
	}
	if def.Description, err = stringField(v, "description", path); err != nil {
		return nil, err
	}

	if opt, ok := lookup(v, "optimization"); ok {
		if def.Optimization, err = compileOptimization(opt, path+".optimization", names); err != nil {
			return nil, err
		}
	}

	err = eachElem(v, "constraints", path, func(_ int, elem cue.Value, elemPath string) error {
		c, err := compileConstraint(elem, elemPath, names)
		if err != nil {
			return err
		}
		def.Constraints = append(def.Constraints, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return def, nil
}

var validDomainTypes = map[ir.AggregateDomainType]bool{
	ir.DomainSequence: true,
	ir.DomainParallel: true,
	ir.DomainChoice:   true,
	ir.DomainLoop:     true,
}

func compileOptimization(v cue.Value, path string, names *scope) (*ir.Optimization, error) {
	if v.Kind() != cue.StructKind {
		return nil, fieldError(v, path, "must be a struct")
	}
	opt := &ir.Optimization{}

	err := eachElem(v, "preferences", path, func(_ int, elem cue.Value, elemPath string) error {
		var pref ir.Preference
		if _, ok := lookup(elem, "feature"); ok {
			name, err := stringField(elem, "feature", elemPath)
			if err != nil {
				return err
			}
			f := names.feature(name)
			pref.Feature = &f
		}
		weight, err := floatField(elem, "weight", elemPath)
		if err != nil {
			return err
		}
		pref.Weight = weight
		opt.Preferences = append(opt.Preferences, pref)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachElem(v, "aggregate_domains", path, func(_ int, elem cue.Value, elemPath string) error {
		var ad ir.AggregateDomain
		typ, err := stringField(elem, "type", elemPath)
		if err != nil {
			return err
		}
		if typ != "" && !validDomainTypes[ir.AggregateDomainType(typ)] {
			return fieldError(elem, elemPath+".type", "unknown aggregate domain type %q", typ)
		}
		ad.Type = ir.AggregateDomainType(typ)

		err = eachElem(elem, "aggregator_operations", elemPath, func(_ int, op cue.Value, opPath string) error {
			agg, err := compileAggregator(op, opPath, names)
			if err != nil {
				return err
			}
			ad.AggregatorOperations = append(ad.AggregatorOperations, agg)
			return nil
		})
		if err != nil {
			return err
		}
		opt.AggregateDomains = append(opt.AggregateDomains, ad)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return opt, nil
}

func compileAggregator(v cue.Value, path string, names *scope) (ir.AggregatorOperation, error) {
	var agg ir.AggregatorOperation
	if v.Kind() != cue.StructKind {
		return agg, fieldError(v, path, "must be a struct")
	}
	var err error
	if agg.Operation, err = stringField(v, "operation", path); err != nil {
		return agg, err
	}
	featureNames, err := stringList(v, "features", path)
	if err != nil {
		return agg, err
	}
	agg.Features = names.featureList(featureNames)
	return agg, nil
}
