package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestWithRequestTagsLogLines(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	ctx := WithRequest(context.Background(), base, "req-1")
	zerolog.Ctx(ctx).Info().Msg("hello")

	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
	assert.Contains(t, buf.String(), `"message":"hello"`)
}

func TestNewFallsBackToInfo(t *testing.T) {
	l := New(Config{Level: "nonsense", Environment: "production", Service: "test"})
	assert.Equal(t, zerolog.InfoLevel, l.GetLevel())

	l = New(Config{Level: "debug", Environment: "development"})
	assert.Equal(t, zerolog.DebugLevel, l.GetLevel())
}
