package cmd

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWriter(buf *strings.Builder) *ConsoleWriter {
	return &ConsoleWriter{out: buf}
}

func TestConsoleWriterEchoesStepCommands(t *testing.T) {
	var buf strings.Builder
	logger := zerolog.New(newTestWriter(&buf))

	logger.Info().
		Str("step", "build").
		Bool("command", true).
		Msg("make -j8")

	out := buf.String()
	assert.Contains(t, out, "build: $ make -j8")
}

func TestConsoleWriterPrefixesErrors(t *testing.T) {
	var buf strings.Builder
	logger := zerolog.New(newTestWriter(&buf))

	logger.Error().Msg("download failed")

	assert.Contains(t, buf.String(), "Error: download failed")
}

func TestConsoleWriterPlainMessages(t *testing.T) {
	var buf strings.Builder
	logger := zerolog.New(newTestWriter(&buf))

	logger.Info().Msg("nothing to do")

	out := buf.String()
	assert.Contains(t, out, "nothing to do")
	assert.NotContains(t, out, "$ ")
}

func TestConsoleWriterRejectsNonJSONInput(t *testing.T) {
	var buf strings.Builder
	writer := newTestWriter(&buf)

	_, err := writer.Write([]byte("not json"))
	require.Error(t, err)
}
