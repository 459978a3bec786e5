package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowforge/flowforge-api/pkg/logger"
)

func TestNew_EmiteJSONConCampoService(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{
		Env:     "production",
		Level:   "info",
		Service: "flowforge",
		Writer:  &buf,
	})

	log.Info().Str("order", "MO-2026-001").Msg("orden creada")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line),
		"fuera de development la salida debe ser JSON por línea")
	assert.Equal(t, "flowforge", line["service"])
	assert.Equal(t, "MO-2026-001", line["order"])
	assert.Equal(t, "orden creada", line["message"])
	assert.Equal(t, "info", line["level"])
	assert.Contains(t, line, "time")
}

func TestNew_RespetaNivelMinimo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Writer: &buf})

	log.Info().Msg("no debería salir")
	assert.Zero(t, buf.Len(), "info queda por debajo del nivel warn")

	log.Warn().Msg("sí sale")
	assert.NotZero(t, buf.Len())
}

func TestComponent_AgregaCampoFijo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Writer: &buf})

	log.Component("postgres").Error().Msg("conexión perdida")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "postgres", line["component"])
}
