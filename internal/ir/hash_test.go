package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProblem(taskName string) *QACOProblem {
	return &QACOProblem{
		CompositeWebService: &CompositeWebService{
			Name:              "translation",
			Tasks:             []Task{{Name: taskName}},
			CandidateServices: []CandidateService{{Name: "GoogleTranslate"}, {Name: "DeepL"}},
		},
		Problem: &Problem{
			Name:        "p",
			Constraints: []Constraint{&BindingConstraint{Providers: []Task{{Name: taskName}}}},
		},
	}
}

func TestProblemHash_Stable(t *testing.T) {
	h1, err := ProblemHash(sampleProblem("Translate"))
	require.NoError(t, err)
	h2, err := ProblemHash(sampleProblem("Translate"))
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
}

func TestProblemHash_ChangesWithContent(t *testing.T) {
	assert.NotEqual(t,
		MustProblemHash(sampleProblem("Translate")),
		MustProblemHash(sampleProblem("Summarize")),
	)
}

func TestHash_DomainSeparation(t *testing.T) {
	cws := &CompositeWebService{Name: "x"}
	cwsHash, err := CWSHash(cws)
	require.NoError(t, err)

	raw, err := MarshalCanonical(cws)
	require.NoError(t, err)
	assert.NotEqual(t, hashWithDomain(DomainProblem, raw), cwsHash)
	assert.Equal(t, hashWithDomain(DomainCWS, raw), cwsHash)
}

func TestBindingHash_OrderSensitive(t *testing.T) {
	a := Binding{BindingMappings: []BindingMapping{
		Mapping(Task{Name: "A"}, CandidateService{Name: "S1"}),
		Mapping(Task{Name: "B"}, CandidateService{Name: "S2"}),
	}}
	b := Binding{BindingMappings: []BindingMapping{a.BindingMappings[1], a.BindingMappings[0]}}

	ha, err := BindingHash(a)
	require.NoError(t, err)
	hb, err := BindingHash(b)
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)
}
