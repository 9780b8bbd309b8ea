package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/snowman/snowrt/core"
)

func TestProfilerScopesKeepOrder(t *testing.T) {
	p := NewProfiler()
	p.BeginScope("upload")
	p.EndScope("upload")
	p.BeginScope("encode")
	time.Sleep(time.Millisecond)
	p.EndScope("encode")
	p.BeginScope("upload")
	p.EndScope("upload")

	assert.Equal(t, []string{"upload", "encode"}, p.Order)
	assert.GreaterOrEqual(t, p.Scopes["encode"], time.Millisecond)
}

func TestProfilerResetAndLines(t *testing.T) {
	p := NewProfiler()
	p.BeginScope("gpu")
	p.EndScope("gpu")
	p.SetCount("particles", 4096)
	p.SetCount("draws", 17)

	lines := p.Lines()
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "gpu")
	assert.Contains(t, lines[1], "draws")
	assert.Contains(t, lines[2], "4096")

	p.Reset()
	assert.Equal(t, time.Duration(0), p.Scopes["gpu"])
	assert.Equal(t, 0, p.Counts["particles"])
	assert.Contains(t, p.String(), "particles")
}

func TestEndScopeWithoutBegin(t *testing.T) {
	p := NewProfiler()
	p.EndScope("missing")
	assert.Empty(t, p.Scopes)
}

func TestProfilerLinesFollowOverlay(t *testing.T) {
	p := NewProfiler()
	p.BeginScope("encode")
	p.EndScope("encode")
	p.SetCount("draws", 3)

	last := core.TextLine{Text: "Shadow Quality: 16", X: 12, Y: 100}
	lines := profilerLines(p, last, 20)
	require.Len(t, lines, 2)
	assert.Equal(t, float32(130), lines[0].Y)
	assert.Equal(t, float32(150), lines[1].Y)
	assert.Equal(t, float32(12), lines[1].X)
	assert.Contains(t, lines[1].Text, "draws")
}

func TestResetDropsOpenScopes(t *testing.T) {
	p := NewProfiler()
	p.BeginScope("upload")
	p.Reset()
	time.Sleep(time.Millisecond)
	p.EndScope("upload")

	assert.Equal(t, time.Duration(0), p.Scopes["upload"])
	assert.Empty(t, p.StartTimes)
}
