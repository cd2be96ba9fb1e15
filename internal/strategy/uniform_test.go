package strategy

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qaco/internal/engine"
	"github.com/roach88/qaco/internal/ir"
	"github.com/roach88/qaco/internal/testutil"
)

func seeded(seed int64) Config { return Config{Seed: &seed} }

func TestUniform_SolveTranslation(t *testing.T) {
	e := engine.New(NewUniform(rand.New(rand.NewPCG(1, 2))))

	bindings, ok, err := e.Solve(context.Background(), testutil.TranslationProblem(), nil)

	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, bindings, 1)
	require.Len(t, bindings[0].BindingMappings, 1)

	m := bindings[0].BindingMappings[0]
	assert.Equal(t, testutil.Translate, *m.Task)
	assert.Contains(t, []string{"GoogleTranslate", "DeepL"}, m.CandidateService.Name)
}

func TestUniform_SolveMapsEveryTask(t *testing.T) {
	p := testutil.BareProblem(testutil.PipelineCWS())

	bindings, ok, err := NewUniform(nil).Solve(context.Background(), p, nil)

	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, bindings[0].BindingMappings, 2)
	assert.Equal(t, "Translate", bindings[0].BindingMappings[0].Task.Name)
	assert.Equal(t, "Summarize", bindings[0].BindingMappings[1].Task.Name)
}

func TestUniform_SeedIsDeterministic(t *testing.T) {
	p := testutil.BareProblem(testutil.PipelineCWS())
	u := NewUniform(nil)

	first, _, err := u.Solve(context.Background(), p, seeded(42))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		cfg := seeded(42)
		again, _, err := u.Solve(context.Background(), p, &cfg)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestUniform_DrawsEveryCandidate(t *testing.T) {
	u := NewUniform(rand.New(rand.NewPCG(7, 7)))
	p := testutil.TranslationProblem()

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		bindings, _, err := u.Solve(context.Background(), p, nil)
		require.NoError(t, err)
		seen[bindings[0].BindingMappings[0].CandidateService.Name] = true
	}
	assert.Len(t, seen, 2)
}

func TestUniform_BindingSpaceIsCrossProduct(t *testing.T) {
	cws := testutil.PipelineCWS()

	space, ok, err := NewUniform(nil).BindingSpace(context.Background(), cws, nil)

	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, space.Bindings, len(cws.Tasks))
	for i, b := range space.Bindings {
		require.Len(t, b.BindingMappings, len(cws.CandidateServices))
		for j, m := range b.BindingMappings {
			assert.Equal(t, cws.Tasks[i], *m.Task)
			assert.True(t, cws.CandidateServices[j].Equal(*m.CandidateService))
		}
	}
}

func TestUniform_BindingSpaceThroughEngine(t *testing.T) {
	space, ok, err := engine.New(NewUniform(nil)).BindingSpace(context.Background(), testutil.TranslationCWS(), nil)

	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, space.Bindings, 1)
	assert.Len(t, space.Bindings[0].BindingMappings, 2)
}

func TestUniform_NoCandidates(t *testing.T) {
	cws := &ir.CompositeWebService{Tasks: []ir.Task{testutil.Translate}}

	_, ok, err := NewUniform(nil).Solve(context.Background(), testutil.BareProblem(cws), nil)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = NewUniform(nil).BindingSpace(context.Background(), cws, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUniform_RejectsForeignConfig(t *testing.T) {
	_, _, err := NewUniform(nil).Solve(context.Background(), testutil.TranslationProblem(), "fast")
	assert.ErrorContains(t, err, "unsupported strategy config string")

	_, _, err = engine.New(NewUniform(nil)).BindingSpace(context.Background(), testutil.TranslationCWS(), 3)
	assert.True(t, engine.IsStrategyFailed(err))
}

func TestUniform_NilConfigPointer(t *testing.T) {
	var cfg *Config
	_, ok, err := NewUniform(nil).Solve(context.Background(), testutil.TranslationProblem(), cfg)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUniform_HonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewUniform(nil).Solve(ctx, testutil.TranslationProblem(), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLookup(t *testing.T) {
	s, err := Lookup(" Uniform ")
	require.NoError(t, err)
	assert.IsType(t, &Uniform{}, s)

	_, err = Lookup("genetic")
	assert.ErrorContains(t, err, "available: uniform")

	assert.Equal(t, []string{"uniform"}, Names())
}
