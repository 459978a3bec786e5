package manufacturing_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowforge/flowforge-api/internal/domain"
	"github.com/flowforge/flowforge-api/internal/domain/entity"
	"github.com/flowforge/flowforge-api/internal/domain/manufacturing"
)

// Transiciones válidas del ciclo de vida de una orden.
func TestValidateTransition_CaminosPermitidos(t *testing.T) {
	valid := [][2]string{
		{entity.OrderStatusPending, entity.OrderStatusStarted},
		{entity.OrderStatusPending, entity.OrderStatusCancelled},
		{entity.OrderStatusStarted, entity.OrderStatusPaused},
		{entity.OrderStatusStarted, entity.OrderStatusCompleted},
		{entity.OrderStatusStarted, entity.OrderStatusCancelled},
		{entity.OrderStatusPaused, entity.OrderStatusStarted},
		{entity.OrderStatusPaused, entity.OrderStatusCancelled},
	}
	for _, tc := range valid {
		assert.NoError(t, manufacturing.ValidateTransition(tc[0], tc[1]),
			"%s -> %s debe estar permitido", tc[0], tc[1])
	}
}

// COMPLETED y CANCELLED son terminales: ninguna transición sale de ellos.
func TestValidateTransition_EstadosTerminales(t *testing.T) {
	targets := []string{
		entity.OrderStatusPending, entity.OrderStatusStarted,
		entity.OrderStatusPaused, entity.OrderStatusCompleted,
		entity.OrderStatusCancelled,
	}
	for _, from := range []string{entity.OrderStatusCompleted, entity.OrderStatusCancelled} {
		for _, to := range targets {
			err := manufacturing.ValidateTransition(from, to)
			require.Error(t, err, "%s -> %s debe rechazarse", from, to)
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		}
	}
}

// PENDING no puede saltar directo a PAUSED ni a COMPLETED.
func TestValidateTransition_SaltosInvalidos(t *testing.T) {
	err := manufacturing.ValidateTransition(entity.OrderStatusPending, entity.OrderStatusPaused)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	err = manufacturing.ValidateTransition(entity.OrderStatusPending, entity.OrderStatusCompleted)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// El error tipado expone From y To para el mensaje al usuario.
func TestValidateTransition_ErrorTipado(t *testing.T) {
	err := manufacturing.ValidateTransition(entity.OrderStatusCancelled, entity.OrderStatusStarted)
	var te *domain.InvalidTransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, entity.OrderStatusCancelled, te.From)
	assert.Equal(t, entity.OrderStatusStarted, te.To)
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, manufacturing.IsTerminal(entity.OrderStatusCompleted))
	assert.True(t, manufacturing.IsTerminal(entity.OrderStatusCancelled))
	assert.False(t, manufacturing.IsTerminal(entity.OrderStatusPending))
	assert.False(t, manufacturing.IsTerminal(entity.OrderStatusStarted))
	assert.False(t, manufacturing.IsTerminal(entity.OrderStatusPaused))
}

func TestValidStatusYPriority(t *testing.T) {
	assert.True(t, manufacturing.ValidStatus(entity.OrderStatusPaused))
	assert.False(t, manufacturing.ValidStatus("IN_PROGRESS"))
	assert.True(t, manufacturing.ValidPriority(entity.PriorityUrgent))
	assert.False(t, manufacturing.ValidPriority("CRITICAL"))
}
