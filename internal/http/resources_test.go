package http

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestEventStatus(t *testing.T) {
	now := time.Date(2025, time.June, 1, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		date string
		want string
	}{
		{"January 1, 2024", "Past"},
		{"May 31, 2025", "Past"},
		{"June 1, 2025", "Today"},
		{"June 2, 2025", "Upcoming"},
		{"December 25, 2030", "Upcoming"},
		{"not-a-date", "Upcoming"},
		{"", "Upcoming"},
	}
	for _, tt := range tests {
		if got := eventStatus(tt.date, now); got != tt.want {
			t.Errorf("eventStatus(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestCreateUserDuplicates(t *testing.T) {
	app, _ := newTestServer(t)

	body := map[string]interface{}{
		"username": "alice",
		"password": "password123",
		"email":    "alice@example.local",
		"name":     "Alice",
	}
	resp := doReq(t, http.MethodPost, app.URL+"/api/users", "", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	created := decodeBody(t, resp)
	if created["id"] == "" || created["id"] == nil {
		t.Fatal("expected generated id")
	}
	if _, ok := created["password"]; ok {
		t.Fatal("password must never appear in a response")
	}
	if created["role"] != "student" {
		t.Fatalf("expected default role student, got %v", created["role"])
	}

	resp = doReq(t, http.MethodPost, app.URL+"/api/users", "", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 on duplicate username, got %d", resp.StatusCode)
	}
	if detail := decodeBody(t, resp)["detail"]; detail != "Username already exists" {
		t.Fatalf("unexpected detail: %v", detail)
	}

	body["username"] = "alice2"
	resp = doReq(t, http.MethodPost, app.URL+"/api/users", "", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 on duplicate email, got %d", resp.StatusCode)
	}
	if detail := decodeBody(t, resp)["detail"]; detail != "Email already exists" {
		t.Fatalf("unexpected detail: %v", detail)
	}
}

func TestGetUserNotFound(t *testing.T) {
	app, _ := newTestServer(t)

	resp := doReq(t, http.MethodGet, app.URL+"/api/users/nope", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if detail := decodeBody(t, resp)["detail"]; detail != "User not found" {
		t.Fatalf("unexpected detail: %v", detail)
	}
}

func TestUpdateUserPreservesIdentity(t *testing.T) {
	app, store := newTestServer(t)
	user := seedUser(t, store, "u-1", "alice", "password123", "student")
	token := mustAccessToken(t, user.Username, user.ID, user.Role)

	resp := doReq(t, http.MethodPut, app.URL+"/api/users/"+user.ID, token, map[string]interface{}{
		"name":  "Alice Updated",
		"title": "Builder",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["id"] != user.ID {
		t.Fatalf("id must not change, got %v", body["id"])
	}
	if body["createdAt"] != user.CreatedAt {
		t.Fatalf("createdAt must not change, got %v", body["createdAt"])
	}
	if body["name"] != "Alice Updated" {
		t.Fatalf("expected updated name, got %v", body["name"])
	}

	// Login still works: the stored hash survived the update.
	resp = doReq(t, http.MethodPost, app.URL+"/api/login", "", map[string]string{
		"username": "alice",
		"password": "password123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login after update failed with %d", resp.StatusCode)
	}
}

func TestUpdateUserRequiresToken(t *testing.T) {
	app, store := newTestServer(t)
	user := seedUser(t, store, "u-1", "alice", "password123", "student")

	resp := doReq(t, http.MethodPut, app.URL+"/api/users/"+user.ID, "", map[string]interface{}{
		"name": "Nope",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestEventSlotsFilledAndStatus(t *testing.T) {
	app, store := newTestServer(t)
	alice := seedUser(t, store, "u-1", "alice", "password123", "student")
	bob := seedUser(t, store, "u-2", "bob", "password123", "student")
	event := seedEvent(t, store, 1, "January 1, 2030")

	for _, id := range []string{alice.ID, bob.ID} {
		doReq(t, http.MethodPost, app.URL+"/api/events/register", "", map[string]interface{}{
			"userId": id, "eventId": event.ID,
		})
	}

	resp := doReq(t, http.MethodGet, app.URL+"/api/events/1", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["slotsFilled"] != float64(2) {
		t.Fatalf("expected slotsFilled 2, got %v", body["slotsFilled"])
	}
	if body["status"] != "Upcoming" {
		t.Fatalf("expected Upcoming, got %v", body["status"])
	}
}

func TestEventMutationsRequireAdmin(t *testing.T) {
	app, store := newTestServer(t)
	student := seedUser(t, store, "u-1", "alice", "password123", "student")
	admin := seedUser(t, store, "u-2", "root", "password123", "admin")

	body := map[string]interface{}{"title": "New Event", "date": "January 1, 2030"}

	resp := doReq(t, http.MethodPost, app.URL+"/api/events", "", body)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	resp = doReq(t, http.MethodPost, app.URL+"/api/events", mustAccessToken(t, student.Username, student.ID, student.Role), body)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}

	resp = doReq(t, http.MethodPost, app.URL+"/api/events", mustAccessToken(t, admin.Username, admin.ID, admin.Role), body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	created := decodeBody(t, resp)
	if created["id"] != float64(1) {
		t.Fatalf("expected assigned id 1, got %v", created["id"])
	}
}

func TestTeamFinderPostLifecycle(t *testing.T) {
	app, store := newTestServer(t)
	user := seedUser(t, store, "u-1", "alice", "password123", "student")
	token := mustAccessToken(t, user.Username, user.ID, user.Role)

	resp := doReq(t, http.MethodPost, app.URL+"/api/team-finder", token, map[string]interface{}{
		"title":       "Need a backend dev",
		"description": "48h hackathon",
		"hackathon":   "HackX",
		"skills":      []string{"Go", "Postgres"},
		"contact":     map[string]string{"name": "Alice", "email": "alice@example.local"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	created := decodeBody(t, resp)
	contact, ok := created["contact"].(map[string]interface{})
	if !ok || contact["email"] != "alice@example.local" {
		t.Fatalf("expected nested contact, got %v", created["contact"])
	}
	postID, _ := created["id"].(string)
	if postID == "" {
		t.Fatal("expected generated post id")
	}

	resp = doReq(t, http.MethodGet, app.URL+"/api/team-finder", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp = doReq(t, http.MethodDelete, app.URL+"/api/team-finder/"+postID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if posts, _ := store.ListTeamFinderPosts(context.Background()); len(posts) != 0 {
		t.Fatalf("expected no posts after delete, got %d", len(posts))
	}
}

func TestHealthRoute(t *testing.T) {
	app, _ := newTestServer(t)

	resp := doReq(t, http.MethodGet, app.URL+"/", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["message"] != "Working Fine" {
		t.Fatalf("unexpected health message: %v", body["message"])
	}
}
