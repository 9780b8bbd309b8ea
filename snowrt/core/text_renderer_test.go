package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTextAtlas(t *testing.T) {
	a, err := NewDefaultTextAtlas(14)
	require.NoError(t, err)
	assert.Greater(t, a.LineHeight(), float32(0))
	assert.Greater(t, a.Width("FPS"), a.Width("F"))

	vs := a.Vertices([]TextLine{{Text: "AB", X: 10, Y: 10, Color: [4]float32{1, 1, 1, 1}}}, 640, 480)
	require.Len(t, vs, 12)
	for _, v := range vs {
		assert.GreaterOrEqual(t, v.Pos[0], float32(-1))
		assert.LessOrEqual(t, v.Pos[1], float32(1))
	}
	assert.Len(t, TextVertexBytes(vs), 12*TextVertexStride)
	assert.Nil(t, a.Vertices([]TextLine{{Text: "A"}}, 0, 10))
}

func TestTextAtlasBadFont(t *testing.T) {
	_, err := NewTextAtlas([]byte("not a font"), 12)
	assert.Error(t, err)
}
