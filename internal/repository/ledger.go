package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/event-booking/internal/model"
)

// SeatLedger is the single authority over events.booked_seats. Both
// entry points run one atomic transaction pairing a conditional
// counter update with the dependent bookings write, so the invariant
//
//	booked_seats == SUM(seats) over confirmed bookings
//	0 <= booked_seats <= total_seats
//
// holds at every commit point without any application-level lock.
// Concurrent callers racing for the last seats are serialized by the
// database: the WHERE predicate is evaluated against the current
// persisted row, and only as many conditional updates succeed as
// there is capacity left.
type SeatLedger struct {
	db *sql.DB
}

// NewSeatLedger returns a SeatLedger bound to the given database.
func NewSeatLedger(db *sql.DB) *SeatLedger { return &SeatLedger{db: db} }

// Reserve atomically increments the event's booked seat counter and
// creates a confirmed booking for it. The increment only applies when
// the row currently satisfies booked_seats <= total_seats - seats;
// zero affected rows means the capacity predicate failed under load
// and the whole attempt rolls back with KindInsufficientSeats. Any
// non-positive seats value never reaches this method; callers
// validate at the boundary.
func (l *SeatLedger) Reserve(ctx context.Context, userID, eventID uint64, seats uint32) (*model.Booking, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE events SET booked_seats = booked_seats + ?
		 WHERE id = ? AND booked_seats <= total_seats - ?`,
		seats, eventID, seats)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// The predicate failed against the persisted row: another
		// caller took the seats between our pre-check and now, or the
		// event vanished. Report the authoritative remaining capacity.
		var available uint32
		selErr := tx.QueryRowContext(ctx,
			`SELECT total_seats - booked_seats FROM events WHERE id = ?`, eventID).Scan(&available)
		switch {
		case errors.Is(selErr, sql.ErrNoRows):
			return nil, NewEventNotFound(eventID)
		case selErr != nil:
			// Infrastructure failure on the re-read; propagate it
			// rather than reporting a capacity it never observed.
			return nil, selErr
		}
		return nil, NewInsufficientSeats(available)
	}

	ins, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (user_id, event_id, seats, status) VALUES (?, ?, ?, ?)`,
		userID, eventID, seats, model.BookingConfirmed)
	if err != nil {
		return nil, err
	}
	id, err := ins.LastInsertId()
	if err != nil {
		return nil, err
	}
	booking, err := l.bookingTx(ctx, tx, uint64(id))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return booking, nil
}

// Cancel atomically transitions a booking to cancelled and releases
// its seats back to the event. The status update only applies while
// the booking is not already cancelled; zero affected rows means a
// concurrent cancel won the race (or the row vanished) and the call
// fails with KindBookingNotFound instead of decrementing twice. The
// decrement itself needs no predicate: every confirmed booking's
// seats were previously added under the invariant, so the counter
// cannot be driven negative.
func (l *SeatLedger) Cancel(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ? AND status <> ?`,
		model.BookingCancelled, bookingID, model.BookingCancelled)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, NewBookingNotFound(bookingID)
	}

	booking, err := l.bookingTx(ctx, tx, bookingID)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE events SET booked_seats = booked_seats - ? WHERE id = ?`,
		booking.Seats, booking.EventID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return booking, nil
}

// bookingTx reads a booking row inside the transaction so the
// returned value reflects the state being committed.
func (l *SeatLedger) bookingTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
	var b model.Booking
	err := tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id).
		Scan(&b.ID, &b.UserID, &b.EventID, &b.Seats, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NewBookingNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}
