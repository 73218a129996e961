package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-booking/internal/model"
)

func eventRows(id uint64, total, booked uint32) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "title", "date", "location", "total_seats", "booked_seats", "created_at", "updated_at"}).
		AddRow(id, "Go Conf", now.Add(24*time.Hour), "Berlin", total, booked, now, now)
}

func TestUpdateRefusesCapacityBelowBooked(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Conditional update matches no row because booked_seats exceeds
	// the requested capacity; the follow-up read proves the event
	// exists, so the failure is a conflict rather than a 404.
	mock.ExpectExec(`UPDATE events SET title = \?, date = \?, location = \?, total_seats = \?`).
		WithArgs("Go Conf", "2026-10-01 18:00:00", "Berlin", 5, 7, 5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT .+ FROM events WHERE id = \?`).
		WithArgs(7).
		WillReturnRows(eventRows(7, 100, 10))

	_, err = NewEventRepo(db).Update(context.Background(), 7, "Go Conf", "2026-10-01 18:00:00", "Berlin", 5)

	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMissingEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE events SET title = \?`).
		WithArgs("Go Conf", "2026-10-01 18:00:00", "Berlin", 50, 99, 50).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT .+ FROM events WHERE id = \?`).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = NewEventRepo(db).Update(context.Background(), 99, "Go Conf", "2026-10-01 18:00:00", "Berlin", 50)

	assert.Equal(t, KindEventNotFound, KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRefusedWithConfirmedBookings(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings WHERE event_id = \? AND status = \?`).
		WithArgs(7, model.BookingConfirmed).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	err = NewEventRepo(db).Delete(context.Background(), 7)

	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
		WithArgs(99, model.BookingConfirmed).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`DELETE FROM events WHERE id = \?`).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewEventRepo(db).Delete(context.Background(), 99)

	assert.Equal(t, KindEventNotFound, KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
