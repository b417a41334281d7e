package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Happday-bot/intellexa-user/internal/model"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const userColumns = `id, username, email, password_hash, role, name, title, description, skills, college, department, year, location, banner_theme, avatar, created_at`

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Name,
		&user.Title,
		&user.Description,
		&user.Skills,
		&user.College,
		&user.Department,
		&user.Year,
		&user.Location,
		&user.BannerTheme,
		&user.Avatar,
		&user.CreatedAt,
	)
	return user, mapError(err)
}

func (s *Store) GetUserByID(ctx context.Context, userID string) (model.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (s *Store) ListUsers(ctx context.Context, role string) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY username`
	args := []any{}
	if role != "" {
		query = `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY username`
		args = append(args, role)
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, mapError(rows.Err())
}

func (s *Store) CreateUser(ctx context.Context, user model.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, user.ID, user.Username, user.Email, user.PasswordHash, user.Role, user.Name, user.Title, user.Description, user.Skills, user.College, user.Department, user.Year, user.Location, user.BannerTheme, user.Avatar, user.CreatedAt)
	return mapError(err)
}

func (s *Store) UpdateUser(ctx context.Context, user model.User) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET username = $2, email = $3, role = $4, name = $5, title = $6, description = $7, skills = $8, college = $9, department = $10, year = $11, location = $12, banner_theme = $13, avatar = $14
		WHERE id = $1
	`, user.ID, user.Username, user.Email, user.Role, user.Name, user.Title, user.Description, user.Skills, user.College, user.Department, user.Year, user.Location, user.BannerTheme, user.Avatar)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, userID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return false, mapError(err)
	}
	return tag.RowsAffected() > 0, nil
}

const eventColumns = `id, title, date, time, venue, category, image, total_slots`

func scanEvent(row pgx.Row) (model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Date,
		&event.Time,
		&event.Venue,
		&event.Category,
		&event.Image,
		&event.TotalSlots,
	)
	return event, mapError(err)
}

func (s *Store) GetEvent(ctx context.Context, eventID int) (model.Event, error) {
	return scanEvent(s.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, eventID))
}

func (s *Store) ListEvents(ctx context.Context) ([]model.Event, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, mapError(rows.Err())
}

func (s *Store) NextEventID(ctx context.Context) (int, error) {
	var next int
	err := s.pool.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM events`).Scan(&next)
	return next, mapError(err)
}

func (s *Store) CreateEvent(ctx context.Context, event model.Event) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO events (`+eventColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, event.ID, event.Title, event.Date, event.Time, event.Venue, event.Category, event.Image, event.TotalSlots)
	return mapError(err)
}

func (s *Store) UpdateEvent(ctx context.Context, event model.Event) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE events
		SET title = $2, date = $3, time = $4, venue = $5, category = $6, image = $7, total_slots = $8
		WHERE id = $1
	`, event.ID, event.Title, event.Date, event.Time, event.Venue, event.Category, event.Image, event.TotalSlots)
	if err != nil {
		return false, mapError(err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) DeleteEvent(ctx context.Context, eventID int) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, eventID)
	if err != nil {
		return false, mapError(err)
	}
	return tag.RowsAffected() > 0, nil
}

const ticketColumns = `id, user_id, event_id, registration_date, qr_code`

func scanTicket(row pgx.Row) (model.Ticket, error) {
	var ticket model.Ticket
	err := row.Scan(&ticket.ID, &ticket.UserID, &ticket.EventID, &ticket.RegistrationDate, &ticket.QRCode)
	return ticket, mapError(err)
}

func (s *Store) CreateTicket(ctx context.Context, ticket model.Ticket) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tickets (`+ticketColumns+`)
		VALUES ($1, $2, $3, $4, $5)
	`, ticket.ID, ticket.UserID, ticket.EventID, ticket.RegistrationDate, ticket.QRCode)
	return mapError(err)
}

func (s *Store) GetTicketByID(ctx context.Context, ticketID string) (model.Ticket, error) {
	return scanTicket(s.pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, ticketID))
}

func (s *Store) GetTicketByUserEvent(ctx context.Context, userID string, eventID int) (model.Ticket, error) {
	return scanTicket(s.pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE user_id = $1 AND event_id = $2`, userID, eventID))
}

func (s *Store) listTickets(ctx context.Context, query string, args ...any) ([]model.Ticket, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	tickets := []model.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	return tickets, mapError(rows.Err())
}

func (s *Store) ListTickets(ctx context.Context) ([]model.Ticket, error) {
	return s.listTickets(ctx, `SELECT `+ticketColumns+` FROM tickets ORDER BY registration_date`)
}

func (s *Store) ListTicketsByUser(ctx context.Context, userID string) ([]model.Ticket, error) {
	return s.listTickets(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE user_id = $1 ORDER BY registration_date`, userID)
}

func (s *Store) ListTicketsByEvent(ctx context.Context, eventID int) ([]model.Ticket, error) {
	return s.listTickets(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE event_id = $1 ORDER BY registration_date`, eventID)
}

func (s *Store) DeleteTicket(ctx context.Context, ticketID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tickets WHERE id = $1`, ticketID)
	if err != nil {
		return false, mapError(err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) CountTicketsByEvent(ctx context.Context, eventID int) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE event_id = $1`, eventID).Scan(&count)
	return count, mapError(err)
}

const checkInColumns = `id, ticket_id, student_id, event_id, scanned_at, scanned_by`

func scanCheckIn(row pgx.Row) (model.CheckIn, error) {
	var checkIn model.CheckIn
	err := row.Scan(&checkIn.ID, &checkIn.TicketID, &checkIn.StudentID, &checkIn.EventID, &checkIn.ScannedAt, &checkIn.ScannedBy)
	return checkIn, mapError(err)
}

func (s *Store) CreateCheckIn(ctx context.Context, checkIn model.CheckIn) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO checkins (`+checkInColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, checkIn.ID, checkIn.TicketID, checkIn.StudentID, checkIn.EventID, checkIn.ScannedAt, checkIn.ScannedBy)
	return mapError(err)
}

func (s *Store) listCheckIns(ctx context.Context, query string, args ...any) ([]model.CheckIn, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	checkIns := []model.CheckIn{}
	for rows.Next() {
		checkIn, err := scanCheckIn(rows)
		if err != nil {
			return nil, err
		}
		checkIns = append(checkIns, checkIn)
	}
	return checkIns, mapError(rows.Err())
}

func (s *Store) ListCheckIns(ctx context.Context) ([]model.CheckIn, error) {
	return s.listCheckIns(ctx, `SELECT `+checkInColumns+` FROM checkins ORDER BY scanned_at`)
}

func (s *Store) ListCheckInsByEvent(ctx context.Context, eventID int) ([]model.CheckIn, error) {
	return s.listCheckIns(ctx, `SELECT `+checkInColumns+` FROM checkins WHERE event_id = $1 ORDER BY scanned_at`, eventID)
}

const teamFinderColumns = `id, title, description, hackathon, team_size, skills, contact_name, contact_email, created_at`

func scanTeamFinderPost(row pgx.Row) (model.TeamFinderPost, error) {
	var post model.TeamFinderPost
	err := row.Scan(&post.ID, &post.Title, &post.Description, &post.Hackathon, &post.TeamSize, &post.Skills, &post.ContactName, &post.ContactEmail, &post.CreatedAt)
	return post, mapError(err)
}

func (s *Store) CreateTeamFinderPost(ctx context.Context, post model.TeamFinderPost) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO team_finder_posts (`+teamFinderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, post.ID, post.Title, post.Description, post.Hackathon, post.TeamSize, post.Skills, post.ContactName, post.ContactEmail, post.CreatedAt)
	return mapError(err)
}

func (s *Store) ListTeamFinderPosts(ctx context.Context) ([]model.TeamFinderPost, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+teamFinderColumns+` FROM team_finder_posts ORDER BY created_at DESC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	posts := []model.TeamFinderPost{}
	for rows.Next() {
		post, err := scanTeamFinderPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, mapError(rows.Err())
}

func (s *Store) DeleteTeamFinderPost(ctx context.Context, postID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM team_finder_posts WHERE id = $1`, postID)
	if err != nil {
		return false, mapError(err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) CountStats(ctx context.Context) (model.Stats, error) {
	var stats model.Stats
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE role = 'student'),
			(SELECT COUNT(*) FROM events),
			(SELECT COUNT(*) FROM tickets),
			(SELECT COUNT(*) FROM checkins)
	`).Scan(&stats.TotalUsers, &stats.ActiveStudents, &stats.TotalEvents, &stats.TotalRegistrations, &stats.TotalCheckins)
	return stats, mapError(err)
}

// mapError translates driver conditions to the sentinel kinds handlers
// understand: no rows -> ErrNotFound, SQLSTATE 23505 -> ErrDuplicate.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return model.ErrDuplicate
	}
	return err
}
