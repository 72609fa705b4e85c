package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novaforge/nova/pkg/compiler"
)

const addSrc = `
fun add(a: Int, b: Int): Int {
    return a + b
}
`

func TestRunThroughEachStage(t *testing.T) {
	stages := []compiler.Stage{
		compiler.StageLex,
		compiler.StageParse,
		compiler.StageAnalyze,
		compiler.StageHIR,
		compiler.StageMIR,
		compiler.StageOptimize,
	}
	for _, stage := range stages {
		p := compiler.New()
		res := p.Run(addSrc, "add.nova", stage)
		require.NotNil(t, res.Sink)
		assert.False(t, res.Sink.HasErrors(), "stage %d produced errors", stage)
	}
}

func TestCompileProducesMIR(t *testing.T) {
	p := compiler.New()
	res := p.Compile(addSrc, "add.nova")
	require.NotNil(t, res.MIR)
	assert.NotEmpty(t, res.MIR.TopLevelFunctions)
}

func TestPipelineReusedAcrossCompiles(t *testing.T) {
	p := compiler.New()
	first := p.Compile(addSrc, "a.nova")
	second := p.Compile(addSrc, "b.nova")
	require.NotNil(t, first.MIR)
	require.NotNil(t, second.MIR)
}
