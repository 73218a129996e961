package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/event-booking/internal/model"
)

// EventRepo provides access to the events table. It deliberately has
// no method that writes booked_seats: every mutation of that column
// goes through the SeatLedger, which is the only type in this package
// allowed to touch it.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

const eventColumns = `id, title, date, location, total_seats, booked_seats, created_at, updated_at`

func scanEvent(row *sql.Row) (*model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.Title, &e.Date, &e.Location,
		&e.TotalSeats, &e.BookedSeats, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByID fetches a single event. It returns a BusinessError with
// KindEventNotFound when no row exists.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NewEventNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// List returns all events ordered by date ascending.
func (r *EventRepo) List(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]model.Event, 0)
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Date, &e.Location,
			&e.TotalSeats, &e.BookedSeats, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Create inserts a new event with booked_seats starting at zero and
// populates the generated ID and timestamps on the provided value.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO events (title, date, location, total_seats, booked_seats) VALUES (?, ?, ?, ?, 0)`,
		e.Title, e.Date.UTC(), e.Location, e.TotalSeats)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	created, err := scanEvent(r.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, e.ID))
	if err != nil {
		return err
	}
	*e = *created
	return nil
}

// Update changes an event's descriptive fields and total capacity.
// Growing capacity is always allowed; shrinking it below the current
// booked count would break the ledger invariant, so the update is
// conditional on booked_seats <= the new total and ErrConflict is
// returned when the condition fails for an existing event.
func (r *EventRepo) Update(ctx context.Context, id uint64, title string, date string, location string, totalSeats uint32) (*model.Event, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET title = ?, date = ?, location = ?, total_seats = ?
		 WHERE id = ? AND booked_seats <= ?`,
		title, date, location, totalSeats, id, totalSeats)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Either the event is missing or the new capacity is below the
		// booked count; look once more to tell the two apart.
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrConflict
	}
	return r.GetByID(ctx, id)
}

// Delete removes an event that has no confirmed bookings. Events with
// live bookings cannot be deleted (ErrConflict); absent events yield
// KindEventNotFound.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	var confirmed int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE event_id = ? AND status = ?`,
		id, model.BookingConfirmed).Scan(&confirmed)
	if err != nil {
		return err
	}
	if confirmed > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return NewEventNotFound(id)
	}
	return nil
}
