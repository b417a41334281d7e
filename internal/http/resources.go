package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Happday-bot/intellexa-user/internal/crypto"
	"github.com/Happday-bot/intellexa-user/internal/model"
)

// Users

type userRequest struct {
	Username    string   `json:"username"`
	Password    string   `json:"password"`
	Role        string   `json:"role"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	College     string   `json:"college"`
	Department  string   `json:"department"`
	Year        string   `json:"year"`
	Location    string   `json:"location"`
	BannerTheme string   `json:"bannerTheme"`
	Avatar      string   `json:"avatar"`
}

type userResponse struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	CreatedAt   string   `json:"createdAt"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	College     string   `json:"college"`
	Department  string   `json:"department"`
	Year        string   `json:"year"`
	Location    string   `json:"location"`
	BannerTheme string   `json:"bannerTheme"`
	Avatar      string   `json:"avatar"`
}

// mapUserResponse strips the password hash from anything that leaves the API.
func mapUserResponse(user model.User) userResponse {
	skills := user.Skills
	if skills == nil {
		skills = []string{}
	}
	return userResponse{
		ID:          user.ID,
		Username:    user.Username,
		Role:        user.Role,
		Name:        user.Name,
		Email:       user.Email,
		CreatedAt:   user.CreatedAt,
		Title:       user.Title,
		Description: user.Description,
		Skills:      skills,
		College:     user.College,
		Department:  user.Department,
		Year:        user.Year,
		Location:    user.Location,
		BannerTheme: user.BannerTheme,
		Avatar:      user.Avatar,
	}
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.Username == "" || req.Password == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if req.Role == "" {
		req.Role = "student"
	}

	if _, err := s.store.GetUserByUsername(r.Context(), req.Username); err == nil {
		writeError(w, http.StatusBadRequest, "Username already exists")
		return
	} else if !errors.Is(err, model.ErrNotFound) {
		writeStoreError(w)
		return
	}
	if _, err := s.store.GetUserByEmail(r.Context(), req.Email); err == nil {
		writeError(w, http.StatusBadRequest, "Email already exists")
		return
	} else if !errors.Is(err, model.ErrNotFound) {
		writeStoreError(w)
		return
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Password hash failed")
		return
	}

	user := model.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Name:         req.Name,
		Title:        req.Title,
		Description:  req.Description,
		Skills:       req.Skills,
		College:      req.College,
		Department:   req.Department,
		Year:         req.Year,
		Location:     req.Location,
		BannerTheme:  req.BannerTheme,
		Avatar:       req.Avatar,
		CreatedAt:    time.Now().Format("2006-01-02"),
	}
	if user.Skills == nil {
		user.Skills = []string{}
	}

	if err := s.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "Username or email already exists")
			return
		}
		writeStoreError(w)
		return
	}

	writeJSON(w, http.StatusOK, mapUserResponse(user))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role == "all" {
		role = ""
	}
	users, err := s.store.ListUsers(r.Context(), role)
	if err != nil {
		writeStoreError(w)
		return
	}
	resp := make([]userResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, mapUserResponse(user))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUserByID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeStoreError(w)
		return
	}
	writeJSON(w, http.StatusOK, mapUserResponse(user))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	existing, err := s.store.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeStoreError(w)
		return
	}

	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	// Uniqueness re-validated only when the value actually changes.
	if req.Username != "" && req.Username != existing.Username {
		if _, err := s.store.GetUserByUsername(r.Context(), req.Username); err == nil {
			writeError(w, http.StatusBadRequest, "Username already exists")
			return
		} else if !errors.Is(err, model.ErrNotFound) {
			writeStoreError(w)
			return
		}
		existing.Username = req.Username
	}
	if req.Email != "" && req.Email != existing.Email {
		if _, err := s.store.GetUserByEmail(r.Context(), req.Email); err == nil {
			writeError(w, http.StatusBadRequest, "Email already exists")
			return
		} else if !errors.Is(err, model.ErrNotFound) {
			writeStoreError(w)
			return
		}
		existing.Email = req.Email
	}

	// id, createdAt and the password hash never change through this route.
	if req.Role != "" {
		existing.Role = req.Role
	}
	if req.Name != "" {
		existing.Name = req.Name
	}
	if req.Title != "" {
		existing.Title = req.Title
	}
	if req.Description != "" {
		existing.Description = req.Description
	}
	if req.Skills != nil {
		existing.Skills = req.Skills
	}
	if req.College != "" {
		existing.College = req.College
	}
	if req.Department != "" {
		existing.Department = req.Department
	}
	if req.Year != "" {
		existing.Year = req.Year
	}
	if req.Location != "" {
		existing.Location = req.Location
	}
	if req.BannerTheme != "" {
		existing.BannerTheme = req.BannerTheme
	}
	if req.Avatar != "" {
		existing.Avatar = req.Avatar
	}

	if err := s.store.UpdateUser(r.Context(), existing); err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "Username or email already exists")
			return
		}
		if errors.Is(err, model.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeStoreError(w)
		return
	}

	writeJSON(w, http.StatusOK, mapUserResponse(existing))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.store.DeleteUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeStoreError(w)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}

// Events

const eventDateLayout = "January 2, 2006"

// eventStatus derives Past/Today/Upcoming from the date portion only.
// Unparseable dates degrade to Upcoming; a read never fails on bad data.
func eventStatus(date string, now time.Time) string {
	parsed, err := time.Parse(eventDateLayout, date)
	if err != nil {
		return "Upcoming"
	}
	eventDay := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch {
	case eventDay.Before(today):
		return "Past"
	case eventDay.Equal(today):
		return "Today"
	default:
		return "Upcoming"
	}
}

type eventRequest struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Venue      string `json:"venue"`
	Category   string `json:"category"`
	Image      string `json:"image"`
	TotalSlots int    `json:"totalSlots"`
}

type eventResponse struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Venue       string `json:"venue"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	TotalSlots  int    `json:"totalSlots"`
	SlotsFilled int    `json:"slotsFilled"`
	Status      string `json:"status"`
}

// enrichEvent attaches the computed projections: derived status and the
// live ticket count. Neither is ever persisted.
func (s *Server) enrichEvent(r *http.Request, event model.Event, now time.Time) eventResponse {
	count, err := s.store.CountTicketsByEvent(r.Context(), event.ID)
	if err != nil {
		count = 0
	}
	return eventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Date:        event.Date,
		Time:        event.Time,
		Venue:       event.Venue,
		Category:    event.Category,
		Image:       event.Image,
		TotalSlots:  event.TotalSlots,
		SlotsFilled: count,
		Status:      eventStatus(event.Date, now),
	}
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.ListEvents(r.Context())
	if err != nil {
		writeStoreError(w)
		return
	}
	now := time.Now()
	resp := make([]eventResponse, 0, len(events))
	for _, event := range events {
		resp = append(resp, s.enrichEvent(r, event, now))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.Atoi(chi.URLParam(r, "eventID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid event id")
		return
	}
	event, err := s.store.GetEvent(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Event not found")
			return
		}
		writeStoreError(w)
		return
	}
	writeJSON(w, http.StatusOK, s.enrichEvent(r, event, time.Now()))
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.Title == "" || req.Date == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if req.ID == 0 {
		next, err := s.store.NextEventID(r.Context())
		if err != nil {
			writeStoreError(w)
			return
		}
		req.ID = next
	}
	if req.TotalSlots == 0 {
		req.TotalSlots = 100
	}

	event := model.Event{
		ID:         req.ID,
		Title:      req.Title,
		Date:       req.Date,
		Time:       req.Time,
		Venue:      req.Venue,
		Category:   req.Category,
		Image:      req.Image,
		TotalSlots: req.TotalSlots,
	}
	if err := s.store.CreateEvent(r.Context(), event); err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "Event already exists")
			return
		}
		writeStoreError(w)
		return
	}
	writeJSON(w, http.StatusOK, s.enrichEvent(r, event, time.Now()))
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.Atoi(chi.URLParam(r, "eventID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid event id")
		return
	}
	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	event := model.Event{
		ID:         eventID,
		Title:      req.Title,
		Date:       req.Date,
		Time:       req.Time,
		Venue:      req.Venue,
		Category:   req.Category,
		Image:      req.Image,
		TotalSlots: req.TotalSlots,
	}
	updated, err := s.store.UpdateEvent(r.Context(), event)
	if err != nil {
		writeStoreError(w)
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "Event not found")
		return
	}
	writeJSON(w, http.StatusOK, s.enrichEvent(r, event, time.Now()))
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.Atoi(chi.URLParam(r, "eventID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid event id")
		return
	}
	deleted, err := s.store.DeleteEvent(r.Context(), eventID)
	if err != nil {
		writeStoreError(w)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Event not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Event deleted"})
}

// Tickets

type ticketResponse struct {
	ID               string `json:"id"`
	UserID           string `json:"userId"`
	EventID          int    `json:"eventId"`
	RegistrationDate string `json:"registrationDate"`
	QRCode           string `json:"qrCode,omitempty"`
}

func mapTicketResponse(ticket model.Ticket) ticketResponse {
	return ticketResponse{
		ID:               ticket.ID,
		UserID:           ticket.UserID,
		EventID:          ticket.EventID,
		RegistrationDate: ticket.RegistrationDate,
		QRCode:           ticket.QRCode,
	}
}

func (s *Server) handleListTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := s.store.ListTickets(r.Context())
	if err != nil {
		writeStoreError(w)
		return
	}
	resp := make([]ticketResponse, 0, len(tickets))
	for _, ticket := range tickets {
		resp = append(resp, mapTicketResponse(ticket))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListUserTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := s.store.ListTicketsByUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeStoreError(w)
		return
	}
	resp := make([]ticketResponse, 0, len(tickets))
	for _, ticket := range tickets {
		resp = append(resp, mapTicketResponse(ticket))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteTicket(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.store.DeleteTicket(r.Context(), chi.URLParam(r, "ticketID"))
	if err != nil {
		writeStoreError(w)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Ticket not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Ticket deleted"})
}

// Team finder

type teamContact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type teamFinderPostRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Hackathon   string       `json:"hackathon"`
	TeamSize    string       `json:"teamSize"`
	Skills      []string     `json:"skills"`
	Contact     *teamContact `json:"contact"`
}

type teamFinderPostResponse struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Hackathon   string       `json:"hackathon"`
	TeamSize    string       `json:"teamSize"`
	Skills      []string     `json:"skills"`
	CreatedAt   string       `json:"createdAt"`
	Contact     *teamContact `json:"contact,omitempty"`
}

func mapTeamFinderPost(post model.TeamFinderPost) teamFinderPostResponse {
	skills := post.Skills
	if skills == nil {
		skills = []string{}
	}
	resp := teamFinderPostResponse{
		ID:          post.ID,
		Title:       post.Title,
		Description: post.Description,
		Hackathon:   post.Hackathon,
		TeamSize:    post.TeamSize,
		Skills:      skills,
		CreatedAt:   post.CreatedAt,
	}
	if post.ContactName != "" || post.ContactEmail != "" {
		resp.Contact = &teamContact{Name: post.ContactName, Email: post.ContactEmail}
	}
	return resp
}

func (s *Server) handleListTeamFinderPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.ListTeamFinderPosts(r.Context())
	if err != nil {
		writeStoreError(w)
		return
	}
	resp := make([]teamFinderPostResponse, 0, len(posts))
	for _, post := range posts {
		resp = append(resp, mapTeamFinderPost(post))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateTeamFinderPost(w http.ResponseWriter, r *http.Request) {
	var req teamFinderPostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if req.TeamSize == "" {
		req.TeamSize = "Any"
	}

	post := model.TeamFinderPost{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Hackathon:   req.Hackathon,
		TeamSize:    req.TeamSize,
		Skills:      req.Skills,
		CreatedAt:   time.Now().Format(time.RFC3339),
	}
	if post.Skills == nil {
		post.Skills = []string{}
	}
	if req.Contact != nil {
		post.ContactName = req.Contact.Name
		post.ContactEmail = req.Contact.Email
	}

	if err := s.store.CreateTeamFinderPost(r.Context(), post); err != nil {
		writeStoreError(w)
		return
	}
	writeJSON(w, http.StatusOK, mapTeamFinderPost(post))
}

func (s *Server) handleDeleteTeamFinderPost(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.store.DeleteTeamFinderPost(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		writeStoreError(w)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted"})
}
