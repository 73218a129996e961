// Package repository implements the data access layer on top of
// database/sql. This file defines the closed set of business error
// kinds shared by the stores, the seat ledger and the booking
// service. Handlers discriminate by kind and translate each one into
// a distinct HTTP status, so a kind is never collapsed into a generic
// failure. Infrastructure errors (connection loss, timeouts) are not
// wrapped into BusinessError; they propagate as-is.
package repository

import (
	"errors"
	"fmt"
)

// Kind enumerates the business failure modes of the booking core.
type Kind uint8

const (
	// KindUnknown marks errors that are not business errors.
	KindUnknown Kind = iota
	// KindEventNotFound: the referenced event does not exist.
	KindEventNotFound
	// KindInsufficientSeats: the capacity predicate failed, either in
	// the fast pre-check or in the authoritative conditional update.
	KindInsufficientSeats
	// KindBookingNotFound: the booking is absent, or was already
	// cancelled when a cancellation was attempted again.
	KindBookingNotFound
	// KindUnauthorizedBooking: the requester neither owns the booking
	// nor holds the admin role.
	KindUnauthorizedBooking
)

// BusinessError is a tagged business failure with a human readable
// detail string. Callers branch on Kind, not on the message.
type BusinessError struct {
	Kind   Kind
	Detail string
}

func (e *BusinessError) Error() string { return e.Detail }

// NewEventNotFound reports an absent event.
func NewEventNotFound(id uint64) *BusinessError {
	return &BusinessError{Kind: KindEventNotFound, Detail: fmt.Sprintf("event %d not found", id)}
}

// NewInsufficientSeats reports a failed capacity check, carrying the
// remaining capacity observed at the time of the check.
func NewInsufficientSeats(available uint32) *BusinessError {
	return &BusinessError{Kind: KindInsufficientSeats, Detail: fmt.Sprintf("only %d seats available", available)}
}

// NewBookingNotFound reports an absent or already cancelled booking.
func NewBookingNotFound(id uint64) *BusinessError {
	return &BusinessError{Kind: KindBookingNotFound, Detail: fmt.Sprintf("booking %d not found", id)}
}

// NewUnauthorizedBooking reports an ownership violation.
func NewUnauthorizedBooking() *BusinessError {
	return &BusinessError{Kind: KindUnauthorizedBooking, Detail: "no access to this booking"}
}

// KindOf returns the business kind of err, unwrapping as needed, or
// KindUnknown when err is not a BusinessError.
func KindOf(err error) Kind {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindUnknown
}

// ErrConflict is returned when a mutation cannot proceed because of
// dependent state, such as deleting an event that still has confirmed
// bookings or shrinking capacity below the booked count. Handlers
// translate it into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned by UserRepo.Create for duplicate emails.
var ErrEmailExists = errors.New("email already exists")
