// Package store persists users and answered queries.
package store

import "context"

// User is an application user, typically created from an OAuth profile.
type User struct {
	ID             string `json:"user_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture"`
}

// ResponseRecord is one answered query with the coordinates it was answered
// for.
type ResponseRecord struct {
	UserID    string  `json:"user_id"`
	Query     string  `json:"query"`
	Response  string  `json:"model_response"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Store is the persistence surface of the assistant.
type Store interface {
	SaveUser(ctx context.Context, user User) error
	SaveResponse(ctx context.Context, record ResponseRecord) error
	Close(ctx context.Context) error
}
