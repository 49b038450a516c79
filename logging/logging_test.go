package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLogger_Levels(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLogger(&out, &errOut, "lines", false)

	l.Debugf("hidden %d", 1)
	l.Infof("frame %d", 2)
	l.Warnf("unknown easing %q", "bounce")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[lines] INFO: frame 2")
	assert.Contains(t, errOut.String(), `[lines] WARN: unknown easing "bounce"`)

	l.SetDebug(true)
	l.Debugf("shown")
	assert.Contains(t, out.String(), "[lines] DEBUG: shown")
}

func TestDefaultLogger_With(t *testing.T) {
	var out bytes.Buffer
	l := NewLogger(&out, &out, "", true).With("session")
	l.Errorf("boom")
	assert.Contains(t, out.String(), "[session] ERROR: boom")
	assert.True(t, l.DebugEnabled())
}
