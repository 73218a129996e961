package model

import "time"

// Booking status values. A booking starts out confirmed and has a
// single legal transition, confirmed -> cancelled. The cancelled
// state is terminal.
const (
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Booking records a user's reservation of Seats against one Event,
// as stored in the `bookings` table.  EventID and Seats are immutable
// after creation; Status may only move from confirmed to cancelled,
// and both the row creation and that transition happen inside seat
// ledger transactions together with the matching counter update.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user who made the booking.
//  EventID   – event being booked.
//  Seats     – number of seats reserved (positive).
//  Status    – confirmed or cancelled.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Booking struct {
	ID        uint64    `json:"id"`         // bookings.id
	UserID    uint64    `json:"user_id"`    // bookings.user_id
	EventID   uint64    `json:"event_id"`   // bookings.event_id
	Seats     uint32    `json:"seats"`      // bookings.seats
	Status    string    `json:"status"`     // bookings.status
	CreatedAt time.Time `json:"created_at"` // bookings.created_at
	UpdatedAt time.Time `json:"updated_at"` // bookings.updated_at
}

// IsCancelled reports whether the booking has reached its terminal state.
func (b *Booking) IsCancelled() bool { return b.Status == BookingCancelled }
