package http

import (
	"context"
	"sort"
	"sync"

	"github.com/Happday-bot/intellexa-user/internal/model"
)

// memStore is an in-memory Store for handler tests. It enforces the same
// uniqueness rules the database indexes do: username, email, one ticket per
// (user, event), one check-in per ticket.
type memStore struct {
	mu       sync.Mutex
	users    map[string]model.User
	events   map[int]model.Event
	tickets  map[string]model.Ticket
	checkIns map[string]model.CheckIn
	posts    map[string]model.TeamFinderPost
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]model.User),
		events:   make(map[int]model.Event),
		tickets:  make(map[string]model.Ticket),
		checkIns: make(map[string]model.CheckIn),
		posts:    make(map[string]model.TeamFinderPost),
	}
}

func (m *memStore) GetUserByID(_ context.Context, userID string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return user, nil
}

func (m *memStore) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (m *memStore) ListUsers(_ context.Context, role string) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]model.User, 0, len(m.users))
	for _, user := range m.users {
		if role != "" && user.Role != role {
			continue
		}
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *memStore) CreateUser(_ context.Context, user model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return model.ErrDuplicate
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *memStore) UpdateUser(_ context.Context, user model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return model.ErrNotFound
	}
	for id, existing := range m.users {
		if id == user.ID {
			continue
		}
		if existing.Username == user.Username || existing.Email == user.Email {
			return model.ErrDuplicate
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *memStore) DeleteUser(_ context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; !ok {
		return false, nil
	}
	delete(m.users, userID)
	return true, nil
}

func (m *memStore) GetEvent(_ context.Context, eventID int) (model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	event, ok := m.events[eventID]
	if !ok {
		return model.Event{}, model.ErrNotFound
	}
	return event, nil
}

func (m *memStore) ListEvents(_ context.Context) ([]model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := make([]model.Event, 0, len(m.events))
	for _, event := range m.events {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, nil
}

func (m *memStore) NextEventID(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := 1
	for id := range m.events {
		if id >= next {
			next = id + 1
		}
	}
	return next, nil
}

func (m *memStore) CreateEvent(_ context.Context, event model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[event.ID]; ok {
		return model.ErrDuplicate
	}
	m.events[event.ID] = event
	return nil
}

func (m *memStore) UpdateEvent(_ context.Context, event model.Event) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[event.ID]; !ok {
		return false, nil
	}
	m.events[event.ID] = event
	return true, nil
}

func (m *memStore) DeleteEvent(_ context.Context, eventID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[eventID]; !ok {
		return false, nil
	}
	delete(m.events, eventID)
	return true, nil
}

func (m *memStore) CreateTicket(_ context.Context, ticket model.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.tickets {
		if existing.UserID == ticket.UserID && existing.EventID == ticket.EventID {
			return model.ErrDuplicate
		}
	}
	m.tickets[ticket.ID] = ticket
	return nil
}

func (m *memStore) GetTicketByID(_ context.Context, ticketID string) (model.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ticket, ok := m.tickets[ticketID]
	if !ok {
		return model.Ticket{}, model.ErrNotFound
	}
	return ticket, nil
}

func (m *memStore) GetTicketByUserEvent(_ context.Context, userID string, eventID int) (model.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ticket := range m.tickets {
		if ticket.UserID == userID && ticket.EventID == eventID {
			return ticket, nil
		}
	}
	return model.Ticket{}, model.ErrNotFound
}

func (m *memStore) ListTickets(_ context.Context) ([]model.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tickets := make([]model.Ticket, 0, len(m.tickets))
	for _, ticket := range m.tickets {
		tickets = append(tickets, ticket)
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].ID < tickets[j].ID })
	return tickets, nil
}

func (m *memStore) ListTicketsByUser(_ context.Context, userID string) ([]model.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tickets := make([]model.Ticket, 0)
	for _, ticket := range m.tickets {
		if ticket.UserID == userID {
			tickets = append(tickets, ticket)
		}
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].ID < tickets[j].ID })
	return tickets, nil
}

func (m *memStore) ListTicketsByEvent(_ context.Context, eventID int) ([]model.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tickets := make([]model.Ticket, 0)
	for _, ticket := range m.tickets {
		if ticket.EventID == eventID {
			tickets = append(tickets, ticket)
		}
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].ID < tickets[j].ID })
	return tickets, nil
}

func (m *memStore) DeleteTicket(_ context.Context, ticketID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tickets[ticketID]; !ok {
		return false, nil
	}
	delete(m.tickets, ticketID)
	return true, nil
}

func (m *memStore) CountTicketsByEvent(_ context.Context, eventID int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, ticket := range m.tickets {
		if ticket.EventID == eventID {
			count++
		}
	}
	return count, nil
}

func (m *memStore) CreateCheckIn(_ context.Context, checkIn model.CheckIn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.checkIns {
		if existing.TicketID == checkIn.TicketID {
			return model.ErrDuplicate
		}
	}
	m.checkIns[checkIn.ID] = checkIn
	return nil
}

func (m *memStore) ListCheckIns(_ context.Context) ([]model.CheckIn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	checkIns := make([]model.CheckIn, 0, len(m.checkIns))
	for _, checkIn := range m.checkIns {
		checkIns = append(checkIns, checkIn)
	}
	sort.Slice(checkIns, func(i, j int) bool { return checkIns[i].ID < checkIns[j].ID })
	return checkIns, nil
}

func (m *memStore) ListCheckInsByEvent(_ context.Context, eventID int) ([]model.CheckIn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	checkIns := make([]model.CheckIn, 0)
	for _, checkIn := range m.checkIns {
		if checkIn.EventID == eventID {
			checkIns = append(checkIns, checkIn)
		}
	}
	sort.Slice(checkIns, func(i, j int) bool { return checkIns[i].ID < checkIns[j].ID })
	return checkIns, nil
}

func (m *memStore) CreateTeamFinderPost(_ context.Context, post model.TeamFinderPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts[post.ID] = post
	return nil
}

func (m *memStore) ListTeamFinderPosts(_ context.Context) ([]model.TeamFinderPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	posts := make([]model.TeamFinderPost, 0, len(m.posts))
	for _, post := range m.posts {
		posts = append(posts, post)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts, nil
}

func (m *memStore) DeleteTeamFinderPost(_ context.Context, postID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[postID]; !ok {
		return false, nil
	}
	delete(m.posts, postID)
	return true, nil
}

func (m *memStore) CountStats(_ context.Context) (model.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := model.Stats{
		TotalUsers:         len(m.users),
		TotalEvents:        len(m.events),
		TotalRegistrations: len(m.tickets),
		TotalCheckins:      len(m.checkIns),
	}
	for _, user := range m.users {
		if user.Role == "student" {
			stats.ActiveStudents++
		}
	}
	return stats, nil
}
