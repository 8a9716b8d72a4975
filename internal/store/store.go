// Package store defines the persistence gateway shared by every backend.
package store

import (
	"context"
	"errors"

	"github.com/harentsoaR/docbid-api/internal/models"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicate        = errors.New("unique constraint violated")
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// Store reads and creates users, categories, appointments and bids.
// List and Get methods eagerly include each record's direct relations;
// lists are ordered by ascending id. An included to-many relation is never
// nil, so it serializes as [] when empty.
type Store interface {
	CreateUser(ctx context.Context, u *models.User) error
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id int) (*models.User, error)

	// ListUsers returns users whose role flag equals isDoctor. Regular users
	// carry their posted appointments, doctors their accepted ones.
	ListUsers(ctx context.Context, isDoctor bool) ([]models.User, error)
	// GetUser returns the user with both appointment relations, whatever
	// its role.
	GetUser(ctx context.Context, id int) (*models.User, error)

	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id int) (*models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error

	ListAppointments(ctx context.Context) ([]models.Appointment, error)
	GetAppointment(ctx context.Context, id int) (*models.Appointment, error)
	CreateAppointment(ctx context.Context, a *models.Appointment) error

	ListBids(ctx context.Context) ([]models.Bid, error)
	GetBid(ctx context.Context, id int) (*models.Bid, error)
	CreateBid(ctx context.Context, b *models.Bid) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Included returns records, or an empty slice when records is nil.
func Included[T any](records []T) []T {
	if records == nil {
		return make([]T, 0)
	}
	return records
}
