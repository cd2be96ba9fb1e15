package validate

import (
	"fmt"
	"strings"

	"github.com/roach88/qaco/internal/ir"
)

// CompositeWebService checks the shape of a composite service.
// It does not look at any Problem that may reference it.
func CompositeWebService(cws *ir.CompositeWebService) error {
	return orNil(checkCWS(cws))
}

func checkCWS(cws *ir.CompositeWebService) *Error {
	if cws == nil {
		return problemError(RuleCWSMissing, "cws", "", "CompositeWebService is missing")
	}
	if len(cws.Tasks) == 0 {
		return problemError(RuleNoTasks, "cws.tasks", cws.Name,
			"CompositeWebService must have at least one Task")
	}
	if len(cws.CandidateServices) == 0 {
		return problemError(RuleNoCandidateServices, "cws.candidate_services", cws.Name,
			"CompositeWebService must have at least one CandidateService")
	}

	for i, task := range cws.Tasks {
		if isBlank(task.Name) {
			return problemError(RuleBlankTaskName, fmt.Sprintf("cws.tasks[%d].name", i), "",
				"Task name cannot be empty")
		}
	}

	for i, cs := range cws.CandidateServices {
		if isBlank(cs.Name) {
			return problemError(RuleBlankCandidateName, fmt.Sprintf("cws.candidate_services[%d].name", i), "",
				"CandidateService name cannot be empty")
		}
	}

	for i, f := range cws.Features {
		if isBlank(f.Name) {
			return problemError(RuleBlankFeatureName, fmt.Sprintf("cws.features[%d].name", i), "",
				"Feature name cannot be empty")
		}
	}

	if cws.Graph != nil {
		return checkGraph(cws.Graph)
	}
	return nil
}

// checkGraph requires at least one START and one END node. Edges are not
// checked against the node list.
func checkGraph(g *ir.Graph) *Error {
	if len(g.Nodes) == 0 {
		return problemError(RuleEmptyGraph, "cws.graph.nodes", "", "Graph must contain at least one node")
	}

	var hasStart, hasEnd bool
	for _, n := range g.Nodes {
		switch n.Type {
		case ir.NodeStart:
			hasStart = true
		case ir.NodeEnd:
			hasEnd = true
		}
	}
	if !hasStart {
		return problemError(RuleNoStartNode, "cws.graph.nodes", "", "Graph must contain at least one START node")
	}
	if !hasEnd {
		return problemError(RuleNoEndNode, "cws.graph.nodes", "", "Graph must contain at least one END node")
	}
	return nil
}

// Binding checks one binding returned by a strategy.
func Binding(b ir.Binding) error {
	return orNil(checkBinding(b, "binding"))
}

// Bindings checks every binding of a solve result, in order.
func Bindings(bs []ir.Binding) error {
	for i, b := range bs {
		if err := checkBinding(b, fmt.Sprintf("bindings[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

func checkBinding(b ir.Binding, field string) *Error {
	if len(b.BindingMappings) == 0 {
		return solutionError(RuleEmptyBinding, field+".binding_mappings",
			"Solution binding must contain at least one BindingMapping")
	}
	for i, m := range b.BindingMappings {
		if m.Task == nil {
			return solutionError(RuleMappingWithoutTask, fmt.Sprintf("%s.binding_mappings[%d].task", field, i),
				"BindingMapping must have a non-null Task")
		}
		if m.CandidateService == nil {
			return solutionError(RuleMappingWithoutService, fmt.Sprintf("%s.binding_mappings[%d].candidate_service", field, i),
				"BindingMapping must have a non-null CandidateService")
		}
	}
	return nil
}

// BindingSpace checks a binding space returned by a strategy.
func BindingSpace(bs *ir.BindingSpace) error {
	if bs == nil {
		return solutionError(RuleBindingSpaceMissing, "binding_space", "BindingSpace is missing")
	}
	if len(bs.Bindings) == 0 {
		return solutionError(RuleEmptyBindingSpace, "binding_space.bindings",
			"BindingSpace must contain at least one Binding")
	}
	for i, b := range bs.Bindings {
		if err := checkBinding(b, fmt.Sprintf("binding_space.bindings[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
