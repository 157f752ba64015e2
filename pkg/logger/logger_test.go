package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace": zerolog.TraceLevel,
		"debug": zerolog.DebugLevel,
		"info":  zerolog.InfoLevel,
		"warn":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
		"":      zerolog.InfoLevel,
		"bogus": zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), "nivel %q", in)
	}
}

func TestNew_JSONConServicio(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Service: "farmacia-stock", Writer: &buf})

	l.Info().Msg("arranque")
	out := buf.String()
	assert.Contains(t, out, `"service":"farmacia-stock"`, "cada evento lleva el nombre del servicio")
	assert.Contains(t, out, `"message":"arranque"`)

	buf.Reset()
	l.Debug().Msg("silenciado")
	assert.Empty(t, strings.TrimSpace(buf.String()), "debug queda por debajo del nivel configurado")
}

func TestNew_RespetaNivel(t *testing.T) {
	l := New(Config{Env: "production", Level: "warn"})
	assert.Equal(t, zerolog.WarnLevel, l.Zerolog().GetLevel())
}
