package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindEventNotFound, KindOf(NewEventNotFound(7)))
	assert.Equal(t, KindInsufficientSeats, KindOf(NewInsufficientSeats(3)))
	assert.Equal(t, KindBookingNotFound, KindOf(NewBookingNotFound(42)))
	assert.Equal(t, KindUnauthorizedBooking, KindOf(NewUnauthorizedBooking()))
	assert.Equal(t, KindUnknown, KindOf(errors.New("connection refused")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("reserve: %w", NewInsufficientSeats(1))
	assert.Equal(t, KindInsufficientSeats, KindOf(err))
}

func TestBusinessErrorDetail(t *testing.T) {
	err := NewInsufficientSeats(5)
	assert.Equal(t, "only 5 seats available", err.Error())

	var be *BusinessError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &be))
	assert.Equal(t, KindInsufficientSeats, be.Kind)
}
