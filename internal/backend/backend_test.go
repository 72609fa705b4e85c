package backend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/novaforge/nova/internal/backend"
	"github.com/novaforge/nova/internal/mir"
)

func TestComposeDescriptorAllObject(t *testing.T) {
	params := []mir.MirType{mir.Int(), mir.Object("java/lang/String")}
	d := backend.ComposeDescriptor(params, mir.Int(), backend.AllObject)
	assert.Equal(t, "(Ljava/lang/Integer;Ljava/lang/String;)Ljava/lang/Integer;", d)
}

func TestComposeDescriptorVoidReturn(t *testing.T) {
	d := backend.ComposeDescriptor(nil, mir.Int(), backend.AllObjectVoidReturn)
	assert.Equal(t, "()V", d)
}

func TestComposeDescriptorPrimitiveIntPreserving(t *testing.T) {
	params := []mir.MirType{mir.Int(), mir.Boolean()}
	d := backend.ComposeDescriptor(params, mir.Int(), backend.PrimitiveIntPreserving)
	assert.Equal(t, "(ILjava/lang/Boolean;)I", d)
}

func TestInternalName(t *testing.T) {
	assert.Equal(t, "com/example/Foo", backend.InternalName("com.example.Foo"))
}

func TestSummarize(t *testing.T) {
	artifacts := map[string][]byte{
		"com/example/Foo":  make([]byte, 10),
		"com/example/Foo$1": make([]byte, 3),
	}
	m := backend.Summarize(artifacts)
	assert.Len(t, m.Classes, 2)
	total := 0
	for _, c := range m.Classes {
		total += c.Size
	}
	assert.Equal(t, 13, total)
}
