package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "mechanics-site", "production")

	ctx := IntoContext(context.Background(), Component(logger, "grading"))
	fromCtx := FromContext(ctx)
	fromCtx.Info().Msg("graded")

	out := buf.String()
	assert.Contains(t, out, "graded")
	assert.Contains(t, out, "component=grading")
}

func TestFromContextWithoutLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := FromContext(context.Background())
	logger = logger.Output(&buf)
	logger.Info().Msg("dropped")
	assert.Empty(t, buf.String())
}
