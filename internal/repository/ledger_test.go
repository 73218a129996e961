package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-booking/internal/model"
)

func bookingRows(id, userID, eventID uint64, seats uint32, status string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "user_id", "event_id", "seats", "status", "created_at", "updated_at"}).
		AddRow(id, userID, eventID, seats, status, now, now)
}

func TestReserveCommitsCounterAndBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE events SET booked_seats = booked_seats \+ \? WHERE id = \? AND booked_seats <= total_seats - \?`).
		WithArgs(5, 7, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO bookings \(user_id, event_id, seats, status\)`).
		WithArgs(3, 7, 5, model.BookingConfirmed).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE id = \?`).
		WithArgs(42).
		WillReturnRows(bookingRows(42, 3, 7, 5, model.BookingConfirmed))
	mock.ExpectCommit()

	booking, err := NewSeatLedger(db).Reserve(context.Background(), 3, 7, 5)

	require.NoError(t, err)
	assert.Equal(t, uint64(42), booking.ID)
	assert.Equal(t, model.BookingConfirmed, booking.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveInsufficientRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE events SET booked_seats = booked_seats \+ \?`).
		WithArgs(5, 7, 5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT total_seats - booked_seats FROM events WHERE id = \?`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"available"}).AddRow(2))
	mock.ExpectRollback()

	_, err = NewSeatLedger(db).Reserve(context.Background(), 3, 7, 5)

	assert.Equal(t, KindInsufficientSeats, KindOf(err))
	assert.Contains(t, err.Error(), "2")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveMissingEventRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE events SET booked_seats = booked_seats \+ \?`).
		WithArgs(2, 99, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT total_seats - booked_seats FROM events WHERE id = \?`).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"available"}))
	mock.ExpectRollback()

	_, err = NewSeatLedger(db).Reserve(context.Background(), 3, 99, 2)

	assert.Equal(t, KindEventNotFound, KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A store failure on the capacity re-read must surface as-is, never
// dressed up as an insufficient-seats outcome.
func TestReserveCapacityReadFailurePropagates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE events SET booked_seats = booked_seats \+ \?`).
		WithArgs(5, 7, 5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT total_seats - booked_seats FROM events WHERE id = \?`).
		WithArgs(7).
		WillReturnError(errors.New("bad connection"))
	mock.ExpectRollback()

	_, err = NewSeatLedger(db).Reserve(context.Background(), 3, 7, 5)

	require.Error(t, err)
	assert.Equal(t, KindUnknown, KindOf(err))
	assert.Contains(t, err.Error(), "bad connection")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelReleasesSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE bookings SET status = \? WHERE id = \? AND status <> \?`).
		WithArgs(model.BookingCancelled, 42, model.BookingCancelled).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE id = \?`).
		WithArgs(42).
		WillReturnRows(bookingRows(42, 3, 7, 5, model.BookingCancelled))
	mock.ExpectExec(`UPDATE events SET booked_seats = booked_seats - \? WHERE id = \?`).
		WithArgs(5, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	booking, err := NewSeatLedger(db).Cancel(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, booking.Status)
	assert.Equal(t, uint32(5), booking.Seats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A second cancel finds the status already terminal: zero rows, no
// decrement, rollback.
func TestCancelAlreadyCancelled(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE bookings SET status = \?`).
		WithArgs(model.BookingCancelled, 42, model.BookingCancelled).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err = NewSeatLedger(db).Cancel(context.Background(), 42)

	assert.Equal(t, KindBookingNotFound, KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
