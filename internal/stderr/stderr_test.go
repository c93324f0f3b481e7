//go:build !windows

package stderr

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestForward(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	done := make(chan struct{})

	forward(strings.NewReader("ALSA lib pcm.c: underrun\n\n   \nsecond line\n"), log, done)
	<-done

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, `"source":"stderr"`))
	assert.Contains(t, out, "ALSA lib pcm.c: underrun")
	assert.Contains(t, out, "second line")
	assert.Contains(t, out, `"level":"warn"`)
}

func TestStopWithoutStart(t *testing.T) {
	assert.NotPanics(t, Stop)
}
