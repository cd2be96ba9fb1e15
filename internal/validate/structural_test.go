package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qaco/internal/ir"
	"github.com/roach88/qaco/internal/testutil"
)

func TestCompositeWebService_Valid(t *testing.T) {
	assert.NoError(t, CompositeWebService(testutil.TranslationCWS()))
	assert.NoError(t, CompositeWebService(testutil.PipelineCWS()))
}

func TestCompositeWebService_NoGraphIsAllowed(t *testing.T) {
	cws := testutil.TranslationCWS()
	cws.Graph = nil
	assert.NoError(t, CompositeWebService(cws))
}

func TestCompositeWebService_EdgesArePlainData(t *testing.T) {
	cws := testutil.TranslationCWS()
	cws.Graph = &ir.Graph{
		Nodes: []ir.GraphNode{{Label: "s", Type: ir.NodeStart}, {Label: "e", Type: ir.NodeEnd}},
		Edges: []ir.GraphEdge{
			{Source: ir.GraphNode{Label: "s"}, Target: ir.GraphNode{Label: "e", Type: ir.NodeEnd}},
			{Source: ir.GraphNode{Label: "ghost", Type: ir.NodeTask}, Target: ir.GraphNode{Label: "e", Type: ir.NodeEnd}},
		},
	}
	assert.NoError(t, CompositeWebService(cws))
}

func TestCompositeWebService_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ir.CompositeWebService)
		rule   string
		field  string
	}{
		{
			name:   "no tasks",
			mutate: func(c *ir.CompositeWebService) { c.Tasks = nil },
			rule:   RuleNoTasks,
			field:  "cws.tasks",
		},
		{
			name:   "no candidate services",
			mutate: func(c *ir.CompositeWebService) { c.CandidateServices = nil },
			rule:   RuleNoCandidateServices,
			field:  "cws.candidate_services",
		},
		{
			name:   "blank task name",
			mutate: func(c *ir.CompositeWebService) { c.Tasks = append(c.Tasks, ir.Task{Name: "   "}) },
			rule:   RuleBlankTaskName,
			field:  "cws.tasks[1].name",
		},
		{
			name:   "blank candidate name",
			mutate: func(c *ir.CompositeWebService) { c.CandidateServices[1].Name = "\t" },
			rule:   RuleBlankCandidateName,
			field:  "cws.candidate_services[1].name",
		},
		{
			name:   "blank feature name",
			mutate: func(c *ir.CompositeWebService) { c.Features[0].Name = "" },
			rule:   RuleBlankFeatureName,
			field:  "cws.features[0].name",
		},
		{
			name:   "empty graph",
			mutate: func(c *ir.CompositeWebService) { c.Graph = &ir.Graph{} },
			rule:   RuleEmptyGraph,
			field:  "cws.graph.nodes",
		},
		{
			name: "no start node",
			mutate: func(c *ir.CompositeWebService) {
				c.Graph = &ir.Graph{Nodes: []ir.GraphNode{{Label: "end", Type: ir.NodeEnd}}}
			},
			rule:  RuleNoStartNode,
			field: "cws.graph.nodes",
		},
		{
			name: "no end node",
			mutate: func(c *ir.CompositeWebService) {
				c.Graph = &ir.Graph{Nodes: []ir.GraphNode{{Label: "start", Type: ir.NodeStart}}}
			},
			rule:  RuleNoEndNode,
			field: "cws.graph.nodes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cws := testutil.TranslationCWS()
			tt.mutate(cws)

			verr := requireRule(t, CompositeWebService(cws), tt.rule)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, KindInvalidProblem, verr.Kind)
			assert.True(t, errors.Is(verr, ErrInvalidProblem))
			assert.False(t, errors.Is(verr, ErrInvalidSolution))
		})
	}
}

func TestCompositeWebService_Nil(t *testing.T) {
	requireRule(t, CompositeWebService(nil), RuleCWSMissing)
}

func TestBinding_Valid(t *testing.T) {
	b := ir.Binding{BindingMappings: []ir.BindingMapping{
		ir.Mapping(testutil.Translate, testutil.DeepL),
	}}
	assert.NoError(t, Binding(b))
	assert.NoError(t, Bindings([]ir.Binding{b, b}))
}

func TestBindings_EmptyResultIsValid(t *testing.T) {
	assert.NoError(t, Bindings(nil))
}

func TestBinding_Violations(t *testing.T) {
	task := testutil.Translate
	svc := testutil.GoogleTranslate

	tests := []struct {
		name    string
		binding ir.Binding
		rule    string
		field   string
	}{
		{
			name:    "no mappings",
			binding: ir.Binding{},
			rule:    RuleEmptyBinding,
			field:   "binding.binding_mappings",
		},
		{
			name:    "mapping without task",
			binding: ir.Binding{BindingMappings: []ir.BindingMapping{{CandidateService: &svc}}},
			rule:    RuleMappingWithoutTask,
			field:   "binding.binding_mappings[0].task",
		},
		{
			name: "mapping without service",
			binding: ir.Binding{BindingMappings: []ir.BindingMapping{
				ir.Mapping(task, svc),
				{Task: &task},
			}},
			rule:  RuleMappingWithoutService,
			field: "binding.binding_mappings[1].candidate_service",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := requireRule(t, Binding(tt.binding), tt.rule)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, KindInvalidSolution, verr.Kind)
			assert.True(t, errors.Is(verr, ErrInvalidSolution))
		})
	}
}

func TestBindings_ReportsIndex(t *testing.T) {
	good := ir.Binding{BindingMappings: []ir.BindingMapping{ir.Mapping(testutil.Translate, testutil.DeepL)}}

	verr := requireRule(t, Bindings([]ir.Binding{good, {}}), RuleEmptyBinding)
	assert.Equal(t, "bindings[1].binding_mappings", verr.Field)
}

func TestBindingSpace(t *testing.T) {
	good := ir.Binding{BindingMappings: []ir.BindingMapping{ir.Mapping(testutil.Translate, testutil.DeepL)}}

	assert.NoError(t, BindingSpace(&ir.BindingSpace{Bindings: []ir.Binding{good}}))
	requireRule(t, BindingSpace(nil), RuleBindingSpaceMissing)
	requireRule(t, BindingSpace(&ir.BindingSpace{}), RuleEmptyBindingSpace)

	verr := requireRule(t, BindingSpace(&ir.BindingSpace{Bindings: []ir.Binding{good, {}}}), RuleEmptyBinding)
	assert.Equal(t, "binding_space.bindings[1].binding_mappings", verr.Field)
}

func TestError_Format(t *testing.T) {
	err := CompositeWebService(&ir.CompositeWebService{Name: "x"})
	require.Error(t, err)
	assert.Equal(t, "[Q110] cws.tasks: CompositeWebService must have at least one Task", err.Error())
}
