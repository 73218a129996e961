// Package service contains the booking transaction engine. It
// orchestrates reservations and cancellations, enforces the business
// invariants that do not depend on who is calling (capacity,
// existence, status transitions) and is the sole caller of the seat
// ledger. Side effects that follow a successful commit — notification
// intents and cache invalidation — are best-effort and can never roll
// the booking back.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/iliyamo/event-booking/internal/model"
	"github.com/iliyamo/event-booking/internal/queue"
	"github.com/iliyamo/event-booking/internal/repository"
)

// ErrInvalidSeats is returned when a non-positive seat count reaches
// the engine. The HTTP boundary rejects these first; this guard keeps
// the ledger's arithmetic safe regardless of the caller.
var ErrInvalidSeats = errors.New("seats must be a positive integer")

// EventStore is the read side of event capacity state.
type EventStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Event, error)
}

// BookingStore is the read side of booking records.
type BookingStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	ListAll(ctx context.Context) ([]model.Booking, error)
}

// SeatLedger is the atomic reserve/cancel protocol. It is the only
// component allowed to mutate booked seat counters.
type SeatLedger interface {
	Reserve(ctx context.Context, userID, eventID uint64, seats uint32) (*model.Booking, error)
	Cancel(ctx context.Context, bookingID uint64) (*model.Booking, error)
}

// Notifier delivers notification intents to the asynchronous
// collaborator. Delivery, retries and backoff live behind it.
type Notifier interface {
	Publish(ctx context.Context, msg queue.NotificationMessage) error
}

// UserDirectory resolves booking owners to notification recipients.
type UserDirectory interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// BookingService is the booking transaction engine.
type BookingService struct {
	events   EventStore
	bookings BookingStore
	ledger   SeatLedger
	users    UserDirectory
	notifier Notifier
	cache    *EventsCache
}

// NewBookingService wires the engine. notifier and cache may be nil,
// in which case the corresponding side effect is skipped.
func NewBookingService(events EventStore, bookings BookingStore, ledger SeatLedger,
	users UserDirectory, notifier Notifier, cache *EventsCache) *BookingService {
	if events == nil || bookings == nil || ledger == nil {
		panic("nil store passed to NewBookingService")
	}
	return &BookingService{
		events:   events,
		bookings: bookings,
		ledger:   ledger,
		users:    users,
		notifier: notifier,
		cache:    cache,
	}
}

// Reserve books seats on an event for a user. The capacity read here
// is a fast, non-authoritative pre-check for early rejection; the
// ledger's conditional update is the sole source of truth, so a stale
// pre-check can never overbook.
func (s *BookingService) Reserve(ctx context.Context, userID, eventID uint64, seats uint32) (*model.Booking, error) {
	if seats == 0 {
		return nil, ErrInvalidSeats
	}
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if available := event.AvailableSeats(); seats > available {
		return nil, repository.NewInsufficientSeats(available)
	}

	booking, err := s.ledger.Reserve(ctx, userID, eventID, seats)
	if err != nil {
		return nil, err
	}

	s.afterCapacityChange(ctx, booking,
		fmt.Sprintf("Your booking #%d is confirmed: %d seat(s) for event #%d.",
			booking.ID, booking.Seats, booking.EventID))
	return booking, nil
}

// List returns bookings visible to the caller: admins see every
// booking, everyone else only their own. Ordering is newest first.
func (s *BookingService) List(ctx context.Context, userID uint64, role string) ([]model.Booking, error) {
	if role == model.RoleAdmin {
		return s.bookings.ListAll(ctx)
	}
	return s.bookings.ListByUser(ctx, userID)
}

// GetOne returns a single booking, enforcing that the caller owns it
// or holds the admin role.
func (s *BookingService) GetOne(ctx context.Context, userID uint64, role string, id uint64) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(userID, role, booking) {
		return nil, repository.NewUnauthorizedBooking()
	}
	return booking, nil
}

// Cancel transitions a booking to cancelled and releases its seats.
// The ownership check runs against the current record before the
// ledger transaction; an already-cancelled booking fails inside the
// ledger with KindBookingNotFound and never decrements twice.
func (s *BookingService) Cancel(ctx context.Context, userID uint64, role string, id uint64) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(userID, role, booking) {
		return nil, repository.NewUnauthorizedBooking()
	}

	cancelled, err := s.ledger.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}

	s.afterCapacityChange(ctx, cancelled,
		fmt.Sprintf("Your booking #%d has been cancelled; %d seat(s) released.",
			cancelled.ID, cancelled.Seats))
	return cancelled, nil
}

func canAccess(userID uint64, role string, b *model.Booking) bool {
	return role == model.RoleAdmin || b.UserID == userID
}

// afterCapacityChange runs the post-commit side effects: the
// notification intent and the events-cache invalidation. Failures are
// logged and dropped — the booking outcome is already durable.
func (s *BookingService) afterCapacityChange(ctx context.Context, b *model.Booking, message string) {
	if s.notifier != nil {
		msg := queue.NotificationMessage{
			UserID:  b.UserID,
			Message: message,
			Channel: queue.ChannelEmail,
		}
		if s.users != nil {
			if u, err := s.users.GetByID(ctx, b.UserID); err == nil {
				msg.Recipient = u.Email
			} else {
				log.Printf("booking-service: recipient lookup for user %d failed: %v", b.UserID, err)
			}
		}
		if err := s.notifier.Publish(ctx, msg); err != nil {
			log.Printf("booking-service: notification publish failed: %v", err)
		}
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("booking-service: cache invalidation failed: %v", err)
	}
}
