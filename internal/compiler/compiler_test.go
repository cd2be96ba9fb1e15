package compiler

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qaco/internal/ir"
	"github.com/roach88/qaco/internal/testutil"
	"github.com/roach88/qaco/internal/validate"
)

func compileString(t *testing.T, src string) (*ir.QACOProblem, error) {
	t.Helper()
	v := cuecontext.New().CompileString(src)
	return CompileProblem(v)
}

func requireCompileError(t *testing.T, err error, field string) *CompileError {
	t.Helper()
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, field, ce.Field)
	return ce
}

func TestLoadFile_CUEMatchesFixture(t *testing.T) {
	p, err := LoadFile("testdata/translation.cue")
	require.NoError(t, err)
	assert.Equal(t, testutil.TranslationProblem(), p)
}

func TestLoadFile_YAMLMatchesFixture(t *testing.T) {
	p, err := LoadFile("testdata/translation.yaml")
	require.NoError(t, err)
	assert.Equal(t, testutil.TranslationProblem(), p)
}

func TestLoadFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"cws": {"name": "j", "tasks": ["A"], "candidate_services": [{"name": "S", "tasks": ["A"]}]},
		"problem": {"name": "p"}
	}`), 0o644))

	p, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []ir.Task{{Name: "A"}}, p.CompositeWebService.Tasks)
	assert.NoError(t, validate.QACOProblem(p))
}

func TestLoad_Directory(t *testing.T) {
	p, err := Load("testdata/translation")
	require.NoError(t, err)
	assert.Equal(t, "split-across-files", p.Problem.Name)
	require.Len(t, p.Problem.Constraints, 1)
	assert.NoError(t, validate.QACOProblem(p))
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load("testdata/nope.cue")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFile_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o644))

	_, err := LoadFile(path)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestLoadFile_SyntaxErrorHasPosition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.cue")
	require.NoError(t, os.WriteFile(path, []byte("cws: {\n  name: \n"), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.True(t, ce.Pos.IsValid())
	assert.Contains(t, err.Error(), "bad.cue")
}

func TestCompileProblem_FeatureValuesKeepOrder(t *testing.T) {
	p, err := compileString(t, `
cws: {
	tasks: ["A"]
	candidate_services: [{name: "S2"}, {name: "S1"}]
	features: [{name: "Cost", values: {S2: 2, S1: 1.5}}]
}`)
	require.NoError(t, err)
	assert.Equal(t, []ir.FeatureValue{{Service: "S2", Value: 2}, {Service: "S1", Value: 1.5}},
		p.CompositeWebService.Features[0].Values)
	assert.Nil(t, p.Problem)
}

func TestCompileProblem_ResolvesNamesToDeclarations(t *testing.T) {
	p, err := compileString(t, `
cws: {
	tasks: [{name: "A", description: "first"}]
	candidate_services: [{name: "S", tasks: ["A"]}]
	features: [{name: "Cost", description: "usd"}]
}
problem: constraints: [{kind: "binding", providers: ["A"]}, {kind: "global", feature: "Cost"}]
`)
	require.NoError(t, err)

	bc := p.Problem.Constraints[0].(*ir.BindingConstraint)
	assert.Equal(t, ir.Task{Name: "A", Description: "first"}, bc.Providers[0])
	gc := p.Problem.Constraints[1].(*ir.GlobalConstraint)
	assert.Equal(t, "usd", gc.InputFeature.Description)
	assert.Equal(t, "first", p.CompositeWebService.CandidateServices[0].Tasks[0].Description)
}

func TestCompileProblem_DanglingNameIsReportedByValidation(t *testing.T) {
	p, err := compileString(t, `
cws: {
	tasks: ["Translate"]
	candidate_services: [{name: "DeepL", tasks: ["Translate"]}]
	features: [{name: "Cost"}]
}
problem: constraints: [{
	kind: "local"
	input: {feature: "Cost", tasks: ["OCR"]}
}]
`)
	require.NoError(t, err)

	err = validate.QACOProblem(p)
	verr, ok := validate.AsError(err)
	require.True(t, ok)
	assert.Equal(t, validate.RuleUnknownConstraintTask, verr.Code)
	assert.Equal(t, "OCR", verr.Entity)
}

func TestCompileProblem_UnknownEdgeEndpoint(t *testing.T) {
	_, err := compileString(t, `
cws: {
	tasks: ["A"]
	candidate_services: [{name: "S"}]
	graph: {
		nodes: [{label: "s", type: "START"}, {label: "e", type: "END"}]
		edges: [{source: "s", target: "ghost"}]
	}
}
problem: {}
`)
	ce := requireCompileError(t, err, "cws.graph.edges[0].target")
	assert.Contains(t, ce.Message, `unknown node "ghost"`)
}

func TestCompileProblem_EdgesResolveToDeclaredNodes(t *testing.T) {
	p, err := compileString(t, `
cws: {
	tasks: ["A"]
	candidate_services: [{name: "S"}]
	graph: {
		nodes: [{label: "s", type: "START"}, {label: "e", type: "END"}]
		edges: [{source: "s", target: "e"}]
	}
}
problem: {}
`)
	require.NoError(t, err)
	edge := p.CompositeWebService.Graph.Edges[0]
	assert.Equal(t, ir.GraphNode{Label: "s", Type: ir.NodeStart}, edge.Source)
	assert.Equal(t, ir.GraphNode{Label: "e", Type: ir.NodeEnd}, edge.Target)
}

func TestCompileProblem_Probabilities(t *testing.T) {
	p, err := compileString(t, `
cws: {
	tasks: ["A"]
	candidate_services: [{name: "S"}]
	graph: {
		nodes: [{label: "s", type: "START"}, {label: "e", type: "END"}]
		probabilities: [{nodes: [{edges: [0.25, 0.75]}]}]
	}
}`)
	require.NoError(t, err)
	assert.Equal(t, []ir.Probability{{Nodes: []ir.ProbabilityNode{{Edges: []ir.ProbabilityEdge{{Value: 0.25}, {Value: 0.75}}}}}},
		p.CompositeWebService.Graph.Probabilities)
}

func TestCompileProblem_GlobalWithoutFeature(t *testing.T) {
	p, err := compileString(t, `problem: constraints: [{kind: "global", operator: "<", value: 1}]`)
	require.NoError(t, err)
	gc := p.Problem.Constraints[0].(*ir.GlobalConstraint)
	assert.Nil(t, gc.InputFeature)
	assert.Nil(t, p.CompositeWebService)
}

func TestCompileProblem_Errors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
	}{
		{
			name:  "unknown constraint kind",
			src:   `problem: constraints: [{kind: "soft"}]`,
			field: "problem.constraints[0].kind",
		},
		{
			name:  "missing constraint kind",
			src:   `problem: constraints: [{feature: "Cost"}]`,
			field: "problem.constraints[0].kind",
		},
		{
			name:  "unknown operator",
			src:   `problem: constraints: [{kind: "compose", conditions: [{kind: "binding", operator: "~"}]}]`,
			field: "problem.constraints[0].conditions[0].operator",
		},
		{
			name:  "unknown compose type",
			src:   `problem: constraints: [{kind: "compose", type: "XOR"}]`,
			field: "problem.constraints[0].type",
		},
		{
			name:  "unknown node type",
			src:   `cws: graph: nodes: [{label: "x", type: "FORK"}]`,
			field: "cws.graph.nodes[0].type",
		},
		{
			name:  "unknown domain type",
			src:   `problem: optimization: aggregate_domains: [{type: "STAR"}]`,
			field: "problem.optimization.aggregate_domains[0].type",
		},
		{
			name:  "value not a number",
			src:   `problem: constraints: [{kind: "global", value: "ten"}]`,
			field: "problem.constraints[0].value",
		},
		{
			name:  "tasks not a list",
			src:   `cws: tasks: "A"`,
			field: "cws.tasks",
		},
		{
			name:  "task name not a string",
			src:   `cws: tasks: [{name: 3}]`,
			field: "cws.tasks[0].name",
		},
		{
			name:  "constraint not a struct",
			src:   `problem: constraints: ["global"]`,
			field: "problem.constraints[0]",
		},
		{
			name:  "feature value not a number",
			src:   `cws: features: [{name: "Cost", values: {S: "cheap"}}]`,
			field: "cws.features[0].values.S",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileString(t, tt.src)
			requireCompileError(t, err, tt.field)
		})
	}
}

func TestCompileProblem_NotConcrete(t *testing.T) {
	_, err := compileString(t, `cws: name: string`)
	assert.Error(t, err)
}

func TestCompileProblem_NotAStruct(t *testing.T) {
	_, err := compileString(t, `[1, 2]`)
	assert.Error(t, err)
}

func TestCompileError_Format(t *testing.T) {
	err := &CompileError{Field: "problem.constraints[0].kind", Message: "kind is required"}
	assert.Equal(t, "problem.constraints[0].kind: kind is required", err.Error())
}
