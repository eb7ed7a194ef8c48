package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel}, // desconocido cae en info
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, parseLevel(tc.in), "nivel %q", tc.in)
	}
}

func TestNewWithWriterFiltraPorNivel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Env: "production", Level: "warn", Service: "clinica-billing"}, &buf)

	l.Info().Msg("registro silenciado")
	l.Warn().Msg("registro visible")

	out := buf.String()
	require.NotEmpty(t, out)
	assert.NotContains(t, out, "registro silenciado")
	assert.Contains(t, out, "registro visible")
}

func TestNewWithWriterIncluyeServicio(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Env: "production", Level: "info", Service: "clinica-billing"}, &buf)

	l.Info().Msg("hola")

	assert.Contains(t, buf.String(), `"service":"clinica-billing"`)
}

func TestNewWithWriterSinServicio(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Env: "production", Level: "info"}, &buf)

	l.Info().Msg("hola")

	assert.NotContains(t, buf.String(), `"service"`)
}
