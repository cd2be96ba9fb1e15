package ir

import (
	"encoding/json"
	"fmt"
)

// Preference weights one feature as an optimization criterion.
type Preference struct {
	Feature *Feature `json:"feature,omitempty"`
	Weight  *float64 `json:"weight,omitempty"`
}

// AggregateDomainType names the workflow pattern an aggregation applies to.
type AggregateDomainType string

const (
	DomainSequence AggregateDomainType = "SEQUENCE"
	DomainParallel AggregateDomainType = "PARALLEL"
	DomainChoice   AggregateDomainType = "CHOICE"
	DomainLoop     AggregateDomainType = "LOOP"
)

// AggregatorOperation combines feature values, e.g. "sum" or "max".
type AggregatorOperation struct {
	Features  []Feature `json:"features,omitempty"`
	Operation string    `json:"operation"`
}

// AggregateDomain groups aggregator operations by workflow pattern.
type AggregateDomain struct {
	AggregatorOperations []AggregatorOperation `json:"aggregator_operations,omitempty"`
	Type                 AggregateDomainType   `json:"type,omitempty"`
}

// Optimization describes what to optimize and how feature values aggregate.
type Optimization struct {
	Preferences      []Preference      `json:"preferences,omitempty"`
	AggregateDomains []AggregateDomain `json:"aggregate_domains,omitempty"`
}

// Problem is the optimization objective and constraints over a composite service.
type Problem struct {
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Optimization *Optimization `json:"optimization,omitempty"`
	Constraints  []Constraint  `json:"constraints,omitempty"`
}

// QACOProblem is the aggregate root handed to the engine.
type QACOProblem struct {
	CompositeWebService *CompositeWebService `json:"cws"`
	Problem             *Problem             `json:"problem"`
}

// problemJSON mirrors Problem with constraints left raw for union decoding.
type problemJSON struct {
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	Optimization *Optimization     `json:"optimization,omitempty"`
	Constraints  []json.RawMessage `json:"constraints,omitempty"`
}

// MarshalJSON encodes constraints with their kind discriminator.
func (p Problem) MarshalJSON() ([]byte, error) {
	out := problemJSON{
		Name:         p.Name,
		Description:  p.Description,
		Optimization: p.Optimization,
	}
	for i, c := range p.Constraints {
		raw, err := MarshalConstraint(c)
		if err != nil {
			return nil, fmt.Errorf("constraints[%d]: %w", i, err)
		}
		out.Constraints = append(out.Constraints, raw)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes constraints by their kind discriminator.
func (p *Problem) UnmarshalJSON(data []byte) error {
	var in problemJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	p.Name = in.Name
	p.Description = in.Description
	p.Optimization = in.Optimization
	p.Constraints = nil
	for i, raw := range in.Constraints {
		c, err := UnmarshalConstraint(raw)
		if err != nil {
			return fmt.Errorf("constraints[%d]: %w", i, err)
		}
		p.Constraints = append(p.Constraints, c)
	}
	return nil
}
