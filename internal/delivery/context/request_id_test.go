package context

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeRequestID(t *testing.T) {
	assert.Equal(t, "abc-123", SanitizeRequestID("abc-123"))

	for _, candidate := range []string{"", "has space", "tab\t", strings.Repeat("x", maxRequestIDLength+1)} {
		got := SanitizeRequestID(candidate)
		assert.NotEqual(t, candidate, got)
		assert.Len(t, got, 36)
	}
}

func TestGetLoggerOrDefault(t *testing.T) {
	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))
	scoped := fallback.With(slog.String("request_id", "r1"))

	assert.Same(t, fallback, GetLoggerOrDefault(context.Background(), fallback))
	assert.Same(t, scoped, GetLoggerOrDefault(WithLogger(context.Background(), scoped), fallback))
}
