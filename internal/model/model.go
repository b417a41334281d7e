package model

import "errors"

// Sentinel storage errors. The repository maps driver-level conditions onto
// these so handlers never see pgx internals.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         string
	Name         string
	Title        string
	Description  string
	Skills       []string
	College      string
	Department   string
	Year         string
	Location     string
	BannerTheme  string
	Avatar       string
	CreatedAt    string
}

type Event struct {
	ID         int
	Title      string
	Date       string
	Time       string
	Venue      string
	Category   string
	Image      string
	TotalSlots int
}

type Ticket struct {
	ID               string
	UserID           string
	EventID          int
	RegistrationDate string
	QRCode           string
}

type CheckIn struct {
	ID        string
	TicketID  string
	StudentID string
	EventID   int
	ScannedAt string
	ScannedBy string
}

type TeamFinderPost struct {
	ID           string
	Title        string
	Description  string
	Hackathon    string
	TeamSize     string
	Skills       []string
	ContactName  string
	ContactEmail string
	CreatedAt    string
}

type Stats struct {
	TotalUsers         int
	ActiveStudents     int
	TotalEvents        int
	TotalRegistrations int
	TotalCheckins      int
}
