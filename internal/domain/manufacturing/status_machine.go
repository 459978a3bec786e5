package manufacturing

import (
	"github.com/flowforge/flowforge-api/internal/domain"
	"github.com/flowforge/flowforge-api/internal/domain/entity"
)

// Transiciones permitidas para órdenes de producción y de trabajo:
//
//	PENDING --start--> STARTED --pause--> PAUSED --resume--> STARTED
//	STARTED --complete--> COMPLETED (terminal)
//	PENDING|STARTED|PAUSED --cancel--> CANCELLED (terminal)
var allowedTransitions = map[string][]string{
	entity.OrderStatusPending: {entity.OrderStatusStarted, entity.OrderStatusCancelled},
	entity.OrderStatusStarted: {entity.OrderStatusPaused, entity.OrderStatusCompleted, entity.OrderStatusCancelled},
	entity.OrderStatusPaused:  {entity.OrderStatusStarted, entity.OrderStatusCancelled},
	// COMPLETED y CANCELLED: sin salidas
}

// CanTransition indica si el cambio from -> to está permitido.
func CanTransition(from, to string) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidateTransition devuelve InvalidTransitionError si from -> to no está permitido.
func ValidateTransition(from, to string) error {
	if from == to {
		return &domain.InvalidTransitionError{From: from, To: to}
	}
	if !CanTransition(from, to) {
		return &domain.InvalidTransitionError{From: from, To: to}
	}
	return nil
}

// IsTerminal indica si el estado no tiene transiciones de salida.
func IsTerminal(status string) bool {
	return status == entity.OrderStatusCompleted || status == entity.OrderStatusCancelled
}

// ValidStatus indica si el string es un estado conocido.
func ValidStatus(status string) bool {
	switch status {
	case entity.OrderStatusPending, entity.OrderStatusStarted, entity.OrderStatusPaused,
		entity.OrderStatusCompleted, entity.OrderStatusCancelled:
		return true
	}
	return false
}

// ValidPriority indica si el string es una prioridad conocida.
func ValidPriority(p string) bool {
	switch p {
	case entity.PriorityLow, entity.PriorityMedium, entity.PriorityHigh, entity.PriorityUrgent:
		return true
	}
	return false
}
