package noodles

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLogger(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLogger(&out, &errOut, "strands", false)

	l.Debugf("hidden %d", 1)
	l.Infof("shown %d", 2)
	l.Warnf("careful")
	l.Errorf("broken: %v", "surface")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[strands] INFO: shown 2")
	assert.Contains(t, errOut.String(), "[strands] WARN: careful")
	assert.Contains(t, errOut.String(), "[strands] ERROR: broken: surface")

	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	l.Debugf("visible")
	assert.Contains(t, out.String(), "DEBUG: visible")
}

func TestDefaultLoggerWithoutPrefix(t *testing.T) {
	var out bytes.Buffer
	l := NewLogger(&out, &out, "", true)
	l.Infof("plain")
	assert.Contains(t, out.String(), " INFO: plain")
	assert.NotContains(t, out.String(), "[")
}

func TestNamedLogger(t *testing.T) {
	var out bytes.Buffer
	root := NewLogger(&out, &out, "strands", false)
	gpu := root.Named("gpu")
	frame := gpu.Named("frame")

	gpu.Infof("pipelines ready")
	frame.Warnf("surface outdated")
	assert.Contains(t, out.String(), "[strands/gpu] INFO: pipelines ready")
	assert.Contains(t, out.String(), "[strands/gpu/frame] WARN: surface outdated")

	gpu.Debugf("hidden")
	root.SetDebug(true)
	assert.True(t, frame.DebugEnabled())
	gpu.Debugf("shown")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[strands/gpu] DEBUG: shown")

	frame.SetDebug(false)
	assert.False(t, root.DebugEnabled())

	bare := NewLogger(&out, &out, "", false).Named("app")
	bare.Infof("start")
	assert.Contains(t, out.String(), "[app] INFO: start")
	assert.Equal(t, "strands", root.Named("").(*DefaultLogger).prefix)
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.SetDebug(true)
	assert.False(t, l.DebugEnabled())
	assert.Equal(t, l, l.Named("gpu"))
	l.Errorf("ignored")
}
