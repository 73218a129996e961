package model

import "time"

// Event is a finite-capacity bookable entity as stored in the
// `events` table.  BookedSeats is
// owned exclusively by the seat ledger: no other code path issues
// writes against it, so the invariant
// 0 <= BookedSeats <= TotalSeats holds at every commit point even
// under concurrent writers.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – human readable event name.
//  Date        – when the event takes place (UTC).
//  Location    – free-form venue description.
//  TotalSeats  – capacity; may only change while booked_seats still fits.
//  BookedSeats – seats currently held by confirmed bookings.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type Event struct {
	ID          uint64    `json:"id"`           // events.id
	Title       string    `json:"title"`        // events.title
	Date        time.Time `json:"date"`         // events.date
	Location    string    `json:"location"`     // events.location
	TotalSeats  uint32    `json:"total_seats"`  // events.total_seats
	BookedSeats uint32    `json:"booked_seats"` // events.booked_seats
	CreatedAt   time.Time `json:"created_at"`   // events.created_at
	UpdatedAt   time.Time `json:"updated_at"`   // events.updated_at
}

// AvailableSeats returns the remaining capacity. The value is only a
// snapshot: the authoritative capacity check happens inside the seat
// ledger transaction, never against this field.
func (e *Event) AvailableSeats() uint32 {
	if e.BookedSeats > e.TotalSeats {
		return 0
	}
	return e.TotalSeats - e.BookedSeats
}
