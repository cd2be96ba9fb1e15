// Package testutil provides shared fixtures for QACO tests.
package testutil

import (
	"github.com/roach88/qaco/internal/ir"
)

// Common fixture entities. Values are copied into every fixture, so tests may
// mutate what they receive.
var (
	Translate = ir.Task{Name: "Translate", Description: "translate the document"}
	Summarize = ir.Task{Name: "Summarize", Description: "summarize the translation"}

	GoogleTranslate = ir.CandidateService{Name: "GoogleTranslate", Provider: "Google", Tasks: []ir.Task{Translate}}
	DeepL           = ir.CandidateService{Name: "DeepL", Provider: "DeepL SE", Tasks: []ir.Task{Translate}}

	Cost    = ir.Feature{Name: "Cost", Description: "price per call"}
	Latency = ir.Feature{Name: "Latency", Description: "milliseconds"}
)

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// FeatureRef returns a pointer to a copy of f.
func FeatureRef(f ir.Feature) *ir.Feature { return &f }

// LinearGraph returns START -> one TASK node per task -> END.
func LinearGraph(tasks ...ir.Task) *ir.Graph {
	start := ir.GraphNode{Label: "start", Type: ir.NodeStart}
	end := ir.GraphNode{Label: "end", Type: ir.NodeEnd}

	g := &ir.Graph{Nodes: []ir.GraphNode{start}}
	prev := start
	for _, t := range tasks {
		n := ir.GraphNode{Label: t.Name, Type: ir.NodeTask}
		g.Nodes = append(g.Nodes, n)
		g.Edges = append(g.Edges, ir.GraphEdge{Source: prev, Target: n})
		prev = n
	}
	g.Nodes = append(g.Nodes, end)
	g.Edges = append(g.Edges, ir.GraphEdge{Source: prev, Target: end})
	return g
}

// TranslationCWS is one task with two candidate services and a START/END graph.
func TranslationCWS() *ir.CompositeWebService {
	return &ir.CompositeWebService{
		Name:              "translation",
		Tasks:             []ir.Task{Translate},
		CandidateServices: []ir.CandidateService{GoogleTranslate, DeepL},
		Features:          []ir.Feature{Cost, Latency},
		Graph:             LinearGraph(Translate),
	}
}

// PipelineCWS is two tasks with two candidate services each able to run both.
func PipelineCWS() *ir.CompositeWebService {
	both := []ir.Task{Translate, Summarize}
	return &ir.CompositeWebService{
		Name:  "pipeline",
		Tasks: both,
		CandidateServices: []ir.CandidateService{
			{Name: "OpenAI", Provider: "OpenAI", Tasks: both},
			{Name: "Mistral", Provider: "Mistral AI", Tasks: both},
			{Name: "Local", Provider: "self-hosted", Tasks: both},
		},
		Features: []ir.Feature{Cost, Latency},
		Graph:    LinearGraph(both...),
	}
}

// CostOptimization prefers low cost and sums cost over a sequence.
func CostOptimization() *ir.Optimization {
	return &ir.Optimization{
		Preferences: []ir.Preference{{Feature: FeatureRef(Cost), Weight: Float(1)}},
		AggregateDomains: []ir.AggregateDomain{{
			Type:                 ir.DomainSequence,
			AggregatorOperations: []ir.AggregatorOperation{{Features: []ir.Feature{Cost}, Operation: "sum"}},
		}},
	}
}

// TranslationProblem pairs TranslationCWS with a cost objective and one
// constraint of every kind, all referentially valid.
func TranslationProblem() *ir.QACOProblem {
	return &ir.QACOProblem{
		CompositeWebService: TranslationCWS(),
		Problem: &ir.Problem{
			Name:         "cheap-translation",
			Optimization: CostOptimization(),
			Constraints: []ir.Constraint{
				&ir.GlobalConstraint{InputFeature: FeatureRef(Cost), Operator: ir.OpLessOrEqual, Value: Float(10)},
				&ir.ComposeConstraint{
					Type: ir.ComposeAnd,
					Conditions: []ir.Constraint{
						&ir.LocalConstraint{
							InputFeature: &ir.FeatureConstraint{Feature: FeatureRef(Latency), Tasks: []ir.Task{Translate}},
							Operator:     ir.OpLess,
							Value:        Float(500),
						},
					},
				},
				&ir.ConditionalConstraint{
					Condition: &ir.BindingConstraint{Providers: []ir.Task{Translate}, Operator: ir.OpEqual},
					Then: &ir.LocalConstraint{
						InputFeature:  &ir.FeatureConstraint{Feature: FeatureRef(Cost), Tasks: []ir.Task{Translate}},
						Operator:      ir.OpLessOrEqual,
						OutputFeature: &ir.FeatureConstraint{Feature: FeatureRef(Latency)},
					},
				},
			},
		},
	}
}

// BareProblem pairs cws with an empty problem definition.
func BareProblem(cws *ir.CompositeWebService) *ir.QACOProblem {
	return &ir.QACOProblem{CompositeWebService: cws, Problem: &ir.Problem{Name: "bare"}}
}
