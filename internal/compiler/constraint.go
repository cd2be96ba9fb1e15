package compiler

import (
	"cuelang.org/go/cue"

	"github.com/roach88/qaco/internal/ir"
)

var validComposeTypes = map[ir.ComposeConstraintType]bool{
	ir.ComposeAnd: true,
	ir.ComposeOr:  true,
	ir.ComposeNot: true,
}

// compileConstraint dispatches on the kind field:
//
//	{kind: "global", feature: "Cost", operator: "<=", value: 10}
//	{kind: "local", input: {feature: "Latency", tasks: ["Translate"]}, operator: "<", value: 500}
//	{kind: "compose", type: "AND", conditions: [...]}
//	{kind: "conditional", condition: {...}, then: {...}}
//	{kind: "binding", providers: ["Translate"], operator: "="}
func compileConstraint(v cue.Value, path string, names *scope) (ir.Constraint, error) {
	if v.Kind() != cue.StructKind {
		return nil, fieldError(v, path, "constraint must be a struct")
	}
	kind, err := stringField(v, "kind", path)
	if err != nil {
		return nil, err
	}

	switch ir.ConstraintKind(kind) {
	case ir.KindGlobal:
		return compileGlobal(v, path, names)
	case ir.KindLocal:
		return compileLocal(v, path, names)
	case ir.KindCompose:
		return compileCompose(v, path, names)
	case ir.KindConditional:
		return compileConditional(v, path, names)
	case ir.KindBinding:
		return compileBinding(v, path, names)
	case "":
		return nil, fieldError(v, path+".kind", "kind is required")
	default:
		return nil, fieldError(v, path+".kind", "unknown constraint kind %q", kind)
	}
}

func operatorField(v cue.Value, path string) (ir.Operator, error) {
	op, err := stringField(v, "operator", path)
	if err != nil {
		return "", err
	}
	if op != "" && !ir.ValidOperators[ir.Operator(op)] {
		f, _ := lookup(v, "operator")
		return "", fieldError(f, path+".operator", "unknown operator %q", op)
	}
	return ir.Operator(op), nil
}

func compileGlobal(v cue.Value, path string, names *scope) (*ir.GlobalConstraint, error) {
	gc := &ir.GlobalConstraint{}
	if _, ok := lookup(v, "feature"); ok {
		name, err := stringField(v, "feature", path)
		if err != nil {
			return nil, err
		}
		f := names.feature(name)
		gc.InputFeature = &f
	}
	var err error
	if gc.Operator, err = operatorField(v, path); err != nil {
		return nil, err
	}
	if gc.Value, err = floatField(v, "value", path); err != nil {
		return nil, err
	}
	return gc, nil
}

func compileLocal(v cue.Value, path string, names *scope) (*ir.LocalConstraint, error) {
	lc := &ir.LocalConstraint{}
	var err error
	if in, ok := lookup(v, "input"); ok {
		if lc.InputFeature, err = compileFeatureConstraint(in, path+".input", names); err != nil {
			return nil, err
		}
	}
	if lc.Operator, err = operatorField(v, path); err != nil {
		return nil, err
	}
	if lc.Value, err = floatField(v, "value", path); err != nil {
		return nil, err
	}
	if out, ok := lookup(v, "output"); ok {
		if lc.OutputFeature, err = compileFeatureConstraint(out, path+".output", names); err != nil {
			return nil, err
		}
	}
	return lc, nil
}

func compileFeatureConstraint(v cue.Value, path string, names *scope) (*ir.FeatureConstraint, error) {
	if v.Kind() != cue.StructKind {
		return nil, fieldError(v, path, "must be a struct")
	}
	fc := &ir.FeatureConstraint{}
	if _, ok := lookup(v, "feature"); ok {
		name, err := stringField(v, "feature", path)
		if err != nil {
			return nil, err
		}
		f := names.feature(name)
		fc.Feature = &f
	}
	taskNames, err := stringList(v, "tasks", path)
	if err != nil {
		return nil, err
	}
	fc.Tasks = names.taskList(taskNames)

	if agg, ok := lookup(v, "aggregator"); ok {
		op, err := compileAggregator(agg, path+".aggregator", names)
		if err != nil {
			return nil, err
		}
		fc.Aggregator = &op
	}
	return fc, nil
}

func compileCompose(v cue.Value, path string, names *scope) (*ir.ComposeConstraint, error) {
	typ, err := stringField(v, "type", path)
	if err != nil {
		return nil, err
	}
	if typ != "" && !validComposeTypes[ir.ComposeConstraintType(typ)] {
		return nil, fieldError(v, path+".type", "unknown compose type %q", typ)
	}

	cc := &ir.ComposeConstraint{Type: ir.ComposeConstraintType(typ)}
	err = eachElem(v, "conditions", path, func(_ int, elem cue.Value, elemPath string) error {
		sub, err := compileConstraint(elem, elemPath, names)
		if err != nil {
			return err
		}
		cc.Conditions = append(cc.Conditions, sub)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cc, nil
}

func compileConditional(v cue.Value, path string, names *scope) (*ir.ConditionalConstraint, error) {
	cc := &ir.ConditionalConstraint{}
	if cond, ok := lookup(v, "condition"); ok {
		c, err := compileConstraint(cond, path+".condition", names)
		if err != nil {
			return nil, err
		}
		cc.Condition = c
	}
	if then, ok := lookup(v, "then"); ok {
		c, err := compileConstraint(then, path+".then", names)
		if err != nil {
			return nil, err
		}
		cc.Then = c
	}
	return cc, nil
}

func compileBinding(v cue.Value, path string, names *scope) (*ir.BindingConstraint, error) {
	providers, err := stringList(v, "providers", path)
	if err != nil {
		return nil, err
	}
	op, err := operatorField(v, path)
	if err != nil {
		return nil, err
	}
	return &ir.BindingConstraint{Providers: names.taskList(providers), Operator: op}, nil
}
