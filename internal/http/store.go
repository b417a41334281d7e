package http

import (
	"context"

	"github.com/Happday-bot/intellexa-user/internal/model"
)

// Store is the slice of the repository the handlers need. Implementations
// report missing rows as model.ErrNotFound and unique-index violations as
// model.ErrDuplicate.
type Store interface {
	GetUserByID(ctx context.Context, userID string) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	ListUsers(ctx context.Context, role string) ([]model.User, error)
	CreateUser(ctx context.Context, user model.User) error
	UpdateUser(ctx context.Context, user model.User) error
	DeleteUser(ctx context.Context, userID string) (bool, error)

	GetEvent(ctx context.Context, eventID int) (model.Event, error)
	ListEvents(ctx context.Context) ([]model.Event, error)
	NextEventID(ctx context.Context) (int, error)
	CreateEvent(ctx context.Context, event model.Event) error
	UpdateEvent(ctx context.Context, event model.Event) (bool, error)
	DeleteEvent(ctx context.Context, eventID int) (bool, error)

	CreateTicket(ctx context.Context, ticket model.Ticket) error
	GetTicketByID(ctx context.Context, ticketID string) (model.Ticket, error)
	GetTicketByUserEvent(ctx context.Context, userID string, eventID int) (model.Ticket, error)
	ListTickets(ctx context.Context) ([]model.Ticket, error)
	ListTicketsByUser(ctx context.Context, userID string) ([]model.Ticket, error)
	ListTicketsByEvent(ctx context.Context, eventID int) ([]model.Ticket, error)
	DeleteTicket(ctx context.Context, ticketID string) (bool, error)
	CountTicketsByEvent(ctx context.Context, eventID int) (int, error)

	CreateCheckIn(ctx context.Context, checkIn model.CheckIn) error
	ListCheckIns(ctx context.Context) ([]model.CheckIn, error)
	ListCheckInsByEvent(ctx context.Context, eventID int) ([]model.CheckIn, error)

	CreateTeamFinderPost(ctx context.Context, post model.TeamFinderPost) error
	ListTeamFinderPosts(ctx context.Context) ([]model.TeamFinderPost, error)
	DeleteTeamFinderPost(ctx context.Context, postID string) (bool, error)

	CountStats(ctx context.Context) (model.Stats, error)
}
