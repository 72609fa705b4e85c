package mir_test

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"

	"github.com/novaforge/nova/internal/mir"
)

func TestMirTypeDescriptors(t *testing.T) {
	cases := []struct {
		name       string
		typ        mir.MirType
		descriptor string
		field      string
	}{
		{"int", mir.Int(), "I", "Ljava/lang/Integer;"},
		{"long", mir.Long(), "J", "Ljava/lang/Long;"},
		{"boolean", mir.Boolean(), "Z", "Ljava/lang/Boolean;"},
		{"void", mir.Void(), "V", "V"},
		{"object", mir.Object("com/example/Foo"), "Lcom/example/Foo;", "Lcom/example/Foo;"},
		{"array-of-int", mir.Array(mir.Int()), "[I", "[I"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.descriptor, tc.typ.Descriptor())
			assert.Equal(t, tc.field, tc.typ.FieldDescriptor())
		})
	}
}

func TestObjectDefaultsToJavaLangObject(t *testing.T) {
	assert.Equal(t, "Ljava/lang/Object;", mir.Object("").Descriptor())
}

func TestFunctionFrameSizeCoversTerminatorOperands(t *testing.T) {
	fn := &mir.Function{
		Name:       "f",
		ReturnType: mir.Int(),
		Blocks: []*mir.BasicBlock{
			{
				ID: 0,
				Instructions: []mir.Instruction{
					{Op: mir.OpConstInt, Dest: 0, Extra: 1},
				},
				Terminator: mir.Terminator{Kind: mir.TermReturn, Value: 5},
			},
		},
	}
	assert.Equal(t, 6, fn.FrameSize())

	fn.Blocks[0].Terminator.Value = 1
	fn.InvalidateFrameSize()
	assert.Equal(t, 2, fn.FrameSize())
}

func TestFunctionDescriptor(t *testing.T) {
	fn := &mir.Function{
		Name:       "add",
		ReturnType: mir.Int(),
		Params:     []mir.Local{{Index: 0, Type: mir.Int()}, {Index: 1, Type: mir.Int()}},
	}
	assert.Equal(t, "(II)I", fn.Descriptor())
}

func TestDisassembleSimpleFunction(t *testing.T) {
	mod := &mir.Module{
		Package: "demo",
		TopLevelFunctions: []*mir.Function{
			{
				Name:       "add",
				ReturnType: mir.Int(),
				Params:     []mir.Local{{Index: 0, Name: "a", Type: mir.Int()}, {Index: 1, Name: "b", Type: mir.Int()}},
				Blocks: []*mir.BasicBlock{
					{
						ID: 0,
						Instructions: []mir.Instruction{
							{Op: mir.OpBinary, Dest: 2, Operands: []int{0, 1}, Extra: mir.BinAdd},
						},
						Terminator: mir.Terminator{Kind: mir.TermReturn, Value: 2},
					},
				},
				BodyStartBlockID: 0,
			},
		},
	}

	var buf bytes.Buffer
	mir.NewDisassembler(&buf).Disassemble(mod)
	snaps.MatchSnapshot(t, buf.String())
}

func TestLambdaCounterIsMonotonicAcrossInvocations(t *testing.T) {
	c := &mir.LambdaCounter{}
	first := c.Next()
	second := c.Next()
	assert.NotEqual(t, first, second)
	assert.Equal(t, first+1, second)
}
