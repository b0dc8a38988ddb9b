package events

import "time"

const (
	UserRegisteredName = "user.registered"
	RentCreatedName    = "rent.created"
)

type UserRegisteredEvent struct {
	UserID   string
	UserName string
	Email    string
}

func (e UserRegisteredEvent) Name() string {
	return UserRegisteredName
}

type RentCreatedEvent struct {
	RentID string
	UserID string
	CarID  string
	Car    string
	DateIn time.Time
}

func (e RentCreatedEvent) Name() string {
	return RentCreatedName
}
