// Package queue defines message payloads exchanged over the message
// broker and the publisher/consumer pair for delivering them.
package queue

// Notification channels. The broker-side worker picks the delivery
// mechanism from this value.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelPush  = "push"
)

// NotificationMessage is the intent emitted after a booking commit.
// The consumer owns delivery, retries and backoff; the booking path
// only publishes and never waits for the outcome.
type NotificationMessage struct {
	UserID    uint64 `json:"user_id"`
	Message   string `json:"message"`
	Channel   string `json:"channel"`
	Recipient string `json:"recipient"`
}
