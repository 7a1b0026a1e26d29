package health

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewErrFormatsAttrs(t *testing.T) {
	err := NewErr("something failed", "count", 3, "name", "doc.md")
	assert.Equal(t, `something failed[count=3 name=doc.md]`, err.Error())
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap("outer", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "via root cause")
}

func TestLogErrWritesToLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	err := LogNewErr(logger, "boom", "k", "v")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "boom")
	assert.Contains(t, buf.String(), "k=v")
}

func TestLogErrNilLoggerIsSilent(t *testing.T) {
	err := LogNewErr(nil, "quiet")
	require.Error(t, err)
}

func TestCtxZeroValueIsSilent(t *testing.T) {
	var c Ctx
	c.Log("ignored")
	err := c.LogNewErr("still an error")
	require.Error(t, err)
}
