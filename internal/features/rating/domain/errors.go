package domain

import (
	"errors"
	"strings"
)

var (
	// ErrChannelNotFound is returned when no channel exists for the requested id.
	ErrChannelNotFound = errors.New("channel not found")
	// ErrInvalidChannel is returned for a channel snapshot that breaks a tier invariant.
	ErrInvalidChannel = errors.New("invalid channel configuration")
	// ErrNoApplicablePrice marks a channel whose tiers and flat price do not cover
	// a shipment. Estimates skip such channels.
	ErrNoApplicablePrice = errors.New("no applicable price")
)

// ValidationError rejects a shipment that falls outside a channel's envelope.
// Violations holds every failed check, in check order.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "shipment violates channel constraints: " + strings.Join(e.Violations, "; ")
}

// IsConfigurationError reports whether err is fatal to a rating call because of
// the channel rather than the shipment.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrChannelNotFound) ||
		errors.Is(err, ErrInvalidChannel) ||
		errors.Is(err, ErrNoApplicablePrice)
}
