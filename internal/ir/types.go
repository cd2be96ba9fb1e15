package ir

import (
	"slices"
	"strconv"
	"strings"
)

// Task is a unit of work in the composition that needs exactly one
// candidate service. Two tasks with equal fields are the same task.
type Task struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CandidateService is a concrete implementation able to fulfil one or more tasks.
type CandidateService struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Provider    string `json:"provider,omitempty"`
	Tasks       []Task `json:"tasks,omitempty"`
}

// Equal reports whether two candidate services have equal fields.
func (c CandidateService) Equal(o CandidateService) bool {
	return c.Name == o.Name &&
		c.Description == o.Description &&
		c.Provider == o.Provider &&
		slices.Equal(c.Tasks, o.Tasks)
}

// FeatureValue is the value a feature takes for one candidate service.
type FeatureValue struct {
	Service string  `json:"service"`
	Value   float64 `json:"value"`
}

// Feature is a measurable quality dimension (cost, latency, ...).
type Feature struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Values      []FeatureValue `json:"values,omitempty"`
}

// Equal reports whether two features have the same Key. Values compare by
// their shortest decimal form, so -0 differs from 0 and NaN equals NaN.
func (f Feature) Equal(o Feature) bool {
	return f.Key() == o.Key()
}

// Key returns a comparable representation of the feature.
// Features with equal keys are equal.
func (f Feature) Key() string {
	var b strings.Builder
	b.WriteString(strconv.Quote(f.Name))
	b.WriteByte('|')
	b.WriteString(strconv.Quote(f.Description))
	for _, v := range f.Values {
		b.WriteByte('|')
		b.WriteString(strconv.Quote(v.Service))
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(v.Value, 'g', -1, 64))
	}
	return b.String()
}

// CompositeWebService is the composition being optimized: its tasks, the
// services able to implement them, the quality features that describe those
// services, and the workflow graph.
type CompositeWebService struct {
	Name              string             `json:"name"`
	Description       string             `json:"description,omitempty"`
	Tasks             []Task             `json:"tasks"`
	CandidateServices []CandidateService `json:"candidate_services"`
	Features          []Feature          `json:"features,omitempty"`
	Graph             *Graph             `json:"graph,omitempty"`
}

// GraphNodeType classifies a workflow graph node.
type GraphNodeType string

const (
	NodeStart    GraphNodeType = "START"
	NodeEnd      GraphNodeType = "END"
	NodeTask     GraphNodeType = "TASK"
	NodeAndSplit GraphNodeType = "AND_SPLIT"
	NodeAndJoin  GraphNodeType = "AND_JOIN"
	NodeXorSplit GraphNodeType = "XOR_SPLIT"
	NodeXorJoin  GraphNodeType = "XOR_JOIN"
	NodeLoop     GraphNodeType = "LOOP"
)

// ValidNodeTypes defines the allowed graph node types.
var ValidNodeTypes = map[GraphNodeType]bool{
	NodeStart:    true,
	NodeEnd:      true,
	NodeTask:     true,
	NodeAndSplit: true,
	NodeAndJoin:  true,
	NodeXorSplit: true,
	NodeXorJoin:  true,
	NodeLoop:     true,
}

// Graph is the workflow structure of a composite service.
type Graph struct {
	Nodes         []GraphNode   `json:"nodes"`
	Edges         []GraphEdge   `json:"edges,omitempty"`
	Probabilities []Probability `json:"probabilities,omitempty"`
}

// GraphNode is a single node in the workflow graph.
type GraphNode struct {
	Label string        `json:"label"`
	Type  GraphNodeType `json:"type"`
}

// GraphEdge connects two nodes. Endpoints are matched by value.
type GraphEdge struct {
	Source GraphNode `json:"source"`
	Target GraphNode `json:"target"`
	Label  string    `json:"label,omitempty"`
}

// Probability is a branch probability distribution over the graph.
type Probability struct {
	Nodes []ProbabilityNode `json:"nodes"`
}

// ProbabilityNode holds the outgoing edge probabilities of one graph node.
type ProbabilityNode struct {
	Edges []ProbabilityEdge `json:"edges"`
}

// ProbabilityEdge is the probability of following one graph edge.
type ProbabilityEdge struct {
	Value float64 `json:"value"`
}
