package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Operator is a comparison operator. Its value is the rendered symbol.
type Operator string

const (
	OpLessOrEqual    Operator = "<="
	OpLess           Operator = "<"
	OpEqual          Operator = "="
	OpGreater        Operator = ">"
	OpGreaterOrEqual Operator = ">="
	OpNotEqual       Operator = "!="
)

// ValidOperators defines the allowed operator symbols.
var ValidOperators = map[Operator]bool{
	OpLessOrEqual:    true,
	OpLess:           true,
	OpEqual:          true,
	OpGreater:        true,
	OpGreaterOrEqual: true,
	OpNotEqual:       true,
}

func (o Operator) String() string { return string(o) }

// ComposeConstraintType is the logical connective of a ComposeConstraint.
type ComposeConstraintType string

const (
	ComposeAnd ComposeConstraintType = "AND"
	ComposeOr  ComposeConstraintType = "OR"
	ComposeNot ComposeConstraintType = "NOT"
)

// ConstraintKind is the JSON discriminator of a Constraint.
type ConstraintKind string

const (
	KindGlobal      ConstraintKind = "global"
	KindLocal       ConstraintKind = "local"
	KindCompose     ConstraintKind = "compose"
	KindConditional ConstraintKind = "conditional"
	KindBinding     ConstraintKind = "binding"
)

// Constraint restricts valid bindings. The set of implementations is closed:
// GlobalConstraint, LocalConstraint, ComposeConstraint, ConditionalConstraint
// and BindingConstraint.
type Constraint interface {
	Kind() ConstraintKind
	isConstraint()
}

// GlobalConstraint bounds an aggregated feature over the whole composition.
type GlobalConstraint struct {
	InputFeature *Feature `json:"input_feature,omitempty"`
	Operator     Operator `json:"operator,omitempty"`
	Value        *float64 `json:"value,omitempty"`
}

// LocalConstraint bounds a feature over a subset of tasks, either against a
// constant Value or against another FeatureConstraint. At most one of Value
// and OutputFeature may be set.
type LocalConstraint struct {
	InputFeature  *FeatureConstraint `json:"input_feature,omitempty"`
	Operator      Operator           `json:"operator,omitempty"`
	Value         *float64           `json:"value,omitempty"`
	OutputFeature *FeatureConstraint `json:"output_feature,omitempty"`
}

// ComposeConstraint joins sub-constraints with a logical connective.
type ComposeConstraint struct {
	Type       ComposeConstraintType `json:"type,omitempty"`
	Conditions []Constraint          `json:"conditions,omitempty"`
}

// ConditionalConstraint applies Then when Condition holds.
type ConditionalConstraint struct {
	Condition Constraint `json:"condition,omitempty"`
	Then      Constraint `json:"then,omitempty"`
}

// BindingConstraint restricts which tasks may share providers.
type BindingConstraint struct {
	Providers []Task   `json:"providers,omitempty"`
	Operator  Operator `json:"operator,omitempty"`
}

// FeatureConstraint selects a feature over a set of tasks with an optional aggregator.
type FeatureConstraint struct {
	Feature    *Feature             `json:"feature,omitempty"`
	Tasks      []Task               `json:"tasks,omitempty"`
	Aggregator *AggregatorOperation `json:"aggregator,omitempty"`
}

func (*GlobalConstraint) Kind() ConstraintKind      { return KindGlobal }
func (*LocalConstraint) Kind() ConstraintKind       { return KindLocal }
func (*ComposeConstraint) Kind() ConstraintKind     { return KindCompose }
func (*ConditionalConstraint) Kind() ConstraintKind { return KindConditional }
func (*BindingConstraint) Kind() ConstraintKind     { return KindBinding }

func (*GlobalConstraint) isConstraint()      {}
func (*LocalConstraint) isConstraint()       {}
func (*ComposeConstraint) isConstraint()     {}
func (*ConditionalConstraint) isConstraint() {}
func (*BindingConstraint) isConstraint()     {}

type globalWire struct {
	Kind ConstraintKind `json:"kind"`
	*GlobalConstraint
}

type localWire struct {
	Kind ConstraintKind `json:"kind"`
	*LocalConstraint
}

type bindingWire struct {
	Kind ConstraintKind `json:"kind"`
	*BindingConstraint
}

type composeWire struct {
	Kind       ConstraintKind        `json:"kind"`
	Type       ComposeConstraintType `json:"type,omitempty"`
	Conditions []json.RawMessage     `json:"conditions,omitempty"`
}

type conditionalWire struct {
	Kind      ConstraintKind  `json:"kind"`
	Condition json.RawMessage `json:"condition,omitempty"`
	Then      json.RawMessage `json:"then,omitempty"`
}

// MarshalConstraint encodes a constraint with its kind discriminator.
// A nil constraint encodes as JSON null.
func MarshalConstraint(c Constraint) (json.RawMessage, error) {
	switch v := c.(type) {
	case nil:
		return json.RawMessage("null"), nil
	case *GlobalConstraint:
		if v == nil {
			return json.RawMessage("null"), nil
		}
		return json.Marshal(globalWire{Kind: KindGlobal, GlobalConstraint: v})
	case *LocalConstraint:
		if v == nil {
			return json.RawMessage("null"), nil
		}
		return json.Marshal(localWire{Kind: KindLocal, LocalConstraint: v})
	case *BindingConstraint:
		if v == nil {
			return json.RawMessage("null"), nil
		}
		return json.Marshal(bindingWire{Kind: KindBinding, BindingConstraint: v})
	case *ComposeConstraint:
		if v == nil {
			return json.RawMessage("null"), nil
		}
		wire := composeWire{Kind: KindCompose, Type: v.Type}
		for i, sub := range v.Conditions {
			raw, err := MarshalConstraint(sub)
			if err != nil {
				return nil, fmt.Errorf("conditions[%d]: %w", i, err)
			}
			wire.Conditions = append(wire.Conditions, raw)
		}
		return json.Marshal(wire)
	case *ConditionalConstraint:
		if v == nil {
			return json.RawMessage("null"), nil
		}
		wire := conditionalWire{Kind: KindConditional}
		if v.Condition != nil {
			raw, err := MarshalConstraint(v.Condition)
			if err != nil {
				return nil, fmt.Errorf("condition: %w", err)
			}
			wire.Condition = raw
		}
		if v.Then != nil {
			raw, err := MarshalConstraint(v.Then)
			if err != nil {
				return nil, fmt.Errorf("then: %w", err)
			}
			wire.Then = raw
		}
		return json.Marshal(wire)
	default:
		return nil, fmt.Errorf("unsupported constraint type: %T", c)
	}
}

// UnmarshalConstraint decodes a constraint by its kind discriminator.
// JSON null decodes to a nil Constraint.
func UnmarshalConstraint(data []byte) (Constraint, error) {
	if isJSONNull(data) {
		return nil, nil
	}

	var head struct {
		Kind ConstraintKind `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	switch head.Kind {
	case KindGlobal:
		var c GlobalConstraint
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return &c, nil
	case KindLocal:
		var c LocalConstraint
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return &c, nil
	case KindBinding:
		var c BindingConstraint
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return &c, nil
	case KindCompose:
		var wire composeWire
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		c := &ComposeConstraint{Type: wire.Type}
		for i, raw := range wire.Conditions {
			sub, err := UnmarshalConstraint(raw)
			if err != nil {
				return nil, fmt.Errorf("conditions[%d]: %w", i, err)
			}
			c.Conditions = append(c.Conditions, sub)
		}
		return c, nil
	case KindConditional:
		var wire conditionalWire
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		c := &ConditionalConstraint{}
		var err error
		if c.Condition, err = UnmarshalConstraint(wire.Condition); err != nil {
			return nil, fmt.Errorf("condition: %w", err)
		}
		if c.Then, err = UnmarshalConstraint(wire.Then); err != nil {
			return nil, fmt.Errorf("then: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown constraint kind %q", head.Kind)
	}
}

func isJSONNull(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
