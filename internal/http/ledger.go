package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Happday-bot/intellexa-user/internal/model"
)

type registerRequest struct {
	UserID    string `json:"userId"`
	StudentID string `json:"studentId"`
	EventID   int    `json:"eventId"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	s.registerTicket(w, r, req.UserID, req.EventID, true)
}

func (s *Server) handleAdminRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	userID := req.UserID
	if userID == "" {
		userID = req.StudentID
	}
	s.registerTicket(w, r, userID, req.EventID, false)
}

// registerTicket creates the one ticket a (user, event) pair may hold. The
// unique index carries the invariant; a duplicate insert is the signal, not
// a prior existence check.
func (s *Server) registerTicket(w http.ResponseWriter, r *http.Request, userID string, eventID int, withQR bool) {
	if _, err := s.store.GetUserByID(r.Context(), userID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeStoreError(w)
		return
	}
	if _, err := s.store.GetEvent(r.Context(), eventID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Event not found")
			return
		}
		writeStoreError(w)
		return
	}

	ticket := model.Ticket{
		ID:               uuid.NewString(),
		UserID:           userID,
		EventID:          eventID,
		RegistrationDate: time.Now().Format(time.RFC3339),
	}
	if withQR {
		ticket.QRCode = "TICKET-" + ticket.ID
	}

	if err := s.store.CreateTicket(r.Context(), ticket); err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			// Self-register speaks to the student, the admin route about one.
			detail := "You are already registered for this event"
			if !withQR {
				detail = "User already registered for this event"
			}
			writeError(w, http.StatusBadRequest, detail)
			return
		}
		writeStoreError(w)
		return
	}

	registrationsTotal.Inc()
	message := "Successfully registered"
	if !withQR {
		message = "Student registered successfully"
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message, "ticketId": ticket.ID})
}

type checkInRequest struct {
	TicketID  string `json:"ticketId"`
	StudentID string `json:"studentId"`
	EventID   int    `json:"eventId"`
}

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	var req checkInRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	ticket, direct, err := s.resolveTicket(r, &req)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Invalid Ticket or Registration Not Found")
			return
		}
		writeStoreError(w)
		return
	}
	// Cross-check only applies when the caller supplied the ticket id
	// directly; the pair lookup already matched on both fields.
	if direct && (ticket.UserID != req.StudentID || ticket.EventID != req.EventID) {
		writeError(w, http.StatusBadRequest, "Ticket data mismatch")
		return
	}

	if s.recordCheckIn(w, r, req, "") {
		checkInsTotal.WithLabelValues("scan").Inc()
		writeJSON(w, http.StatusOK, map[string]string{"message": "Check-in successful", "studentId": req.StudentID})
	}
}

func (s *Server) handleManualCheckIn(w http.ResponseWriter, r *http.Request) {
	var req checkInRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	if _, _, err := s.resolveTicket(r, &req); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Registration/Ticket not found for this user and event")
			return
		}
		writeStoreError(w)
		return
	}

	if s.recordCheckIn(w, r, req, "admin") {
		checkInsTotal.WithLabelValues("manual").Inc()
		writeJSON(w, http.StatusOK, map[string]string{"message": "Manual check-in successful", "studentId": req.StudentID})
	}
}

// resolveTicket finds the ticket by id or, for legacy QR payloads without
// one, by the (student, event) pair, back-filling req.TicketID.
func (s *Server) resolveTicket(r *http.Request, req *checkInRequest) (model.Ticket, bool, error) {
	if req.TicketID != "" {
		ticket, err := s.store.GetTicketByID(r.Context(), req.TicketID)
		return ticket, true, err
	}
	ticket, err := s.store.GetTicketByUserEvent(r.Context(), req.StudentID, req.EventID)
	if err == nil {
		req.TicketID = ticket.ID
	}
	return ticket, false, err
}

// recordCheckIn inserts the check-in, relying on the ticket_id unique index
// for the one-check-in-per-ticket invariant. Returns false after writing an
// error response.
func (s *Server) recordCheckIn(w http.ResponseWriter, r *http.Request, req checkInRequest, scannedBy string) bool {
	checkIn := model.CheckIn{
		ID:        uuid.NewString(),
		TicketID:  req.TicketID,
		StudentID: req.StudentID,
		EventID:   req.EventID,
		ScannedAt: time.Now().Format(time.RFC3339),
		ScannedBy: scannedBy,
	}
	if err := s.store.CreateCheckIn(r.Context(), checkIn); err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "Already checked in")
			return false
		}
		writeStoreError(w)
		return false
	}
	return true
}

type attendanceRow struct {
	StudentID        string  `json:"studentId"`
	StudentName      string  `json:"studentName"`
	RegistrationDate string  `json:"registrationDate"`
	CheckedIn        bool    `json:"checkedIn"`
	CheckInTime      *string `json:"checkInTime"`
}

func (s *Server) handleAttendanceReport(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.Atoi(chi.URLParam(r, "eventID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid event id")
		return
	}

	tickets, err := s.store.ListTicketsByEvent(r.Context(), eventID)
	if err != nil {
		writeStoreError(w)
		return
	}
	checkIns, err := s.store.ListCheckInsByEvent(r.Context(), eventID)
	if err != nil {
		writeStoreError(w)
		return
	}
	byTicket := make(map[string]model.CheckIn, len(checkIns))
	for _, checkIn := range checkIns {
		byTicket[checkIn.TicketID] = checkIn
	}

	report := make([]attendanceRow, 0, len(tickets))
	for _, ticket := range tickets {
		// A reporting read never fails on a dangling user reference.
		name := "Unknown"
		if user, err := s.store.GetUserByID(r.Context(), ticket.UserID); err == nil {
			name = user.Name
		}

		row := attendanceRow{
			StudentID:        ticket.UserID,
			StudentName:      name,
			RegistrationDate: ticket.RegistrationDate,
		}
		if checkIn, ok := byTicket[ticket.ID]; ok {
			row.CheckedIn = true
			scannedAt := checkIn.ScannedAt
			row.CheckInTime = &scannedAt
		}
		report = append(report, row)
	}

	writeJSON(w, http.StatusOK, report)
}

type checkInResponse struct {
	ID        string `json:"id"`
	TicketID  string `json:"ticketId"`
	StudentID string `json:"studentId"`
	EventID   int    `json:"eventId"`
	ScannedAt string `json:"scannedAt"`
	ScannedBy string `json:"scannedBy,omitempty"`
}

func (s *Server) handleListCheckIns(w http.ResponseWriter, r *http.Request) {
	checkIns, err := s.store.ListCheckIns(r.Context())
	if err != nil {
		writeStoreError(w)
		return
	}
	resp := make([]checkInResponse, 0, len(checkIns))
	for _, checkIn := range checkIns {
		resp = append(resp, checkInResponse{
			ID:        checkIn.ID,
			TicketID:  checkIn.TicketID,
			StudentID: checkIn.StudentID,
			EventID:   checkIn.EventID,
			ScannedAt: checkIn.ScannedAt,
			ScannedBy: checkIn.ScannedBy,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type adminStatsResponse struct {
	TotalUsers         int `json:"totalUsers"`
	ActiveStudents     int `json:"activeStudents"`
	TotalEvents        int `json:"totalEvents"`
	TotalRegistrations int `json:"totalRegistrations"`
	TotalCheckins      int `json:"totalCheckins"`
}

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.CountStats(r.Context())
	if err != nil {
		writeStoreError(w)
		return
	}
	writeJSON(w, http.StatusOK, adminStatsResponse{
		TotalUsers:         stats.TotalUsers,
		ActiveStudents:     stats.ActiveStudents,
		TotalEvents:        stats.TotalEvents,
		TotalRegistrations: stats.TotalRegistrations,
		TotalCheckins:      stats.TotalCheckins,
	})
}
