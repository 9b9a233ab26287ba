package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/dkoval/pointing-poker/internal/handlers/dto"
	"github.com/dkoval/pointing-poker/internal/models"
	"github.com/dkoval/pointing-poker/internal/store"
	ws "github.com/dkoval/pointing-poker/internal/websocket"
)

func setupRouter(t *testing.T) (*gin.Engine, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	memStore := store.NewMemoryStore()
	hub := ws.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	roomH := NewRoomHandler(memStore, hub, nil)

	r := gin.New()
	r.POST("/api/rooms", roomH.CreateRoom)
	r.GET("/api/rooms/:code", roomH.GetRoom)
	r.POST("/api/rooms/:code/join", roomH.JoinRoom)
	r.POST("/api/rooms/:code/leave", roomH.LeaveRoom)
	r.POST("/api/rooms/:code/kick", roomH.KickParticipant)
	r.GET("/api/rooms/:code/tickets", roomH.GetTickets)
	return r, memStore
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createRoom(t *testing.T, r *gin.Engine, body dto.CreateRoomRequest) dto.RoomResponse {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/rooms", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create room status = %d, body %s", w.Code, w.Body.String())
	}
	var resp dto.RoomResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestCreateRoom(t *testing.T) {
	r, _ := setupRouter(t)

	resp := createRoom(t, r, dto.CreateRoomRequest{DisplayName: "Ann"})

	if len(resp.Room.Code) != 5 {
		t.Errorf("room code = %q, want 5 chars", resp.Room.Code)
	}
	if resp.ParticipantID == "" {
		t.Error("no participant id returned")
	}
	host, ok := resp.Room.Participants[resp.ParticipantID]
	if !ok {
		t.Fatal("creator missing from participants")
	}
	if !host.IsHost {
		t.Error("creator must be host")
	}
	if resp.Room.Settings.ScaleType != models.ScaleFibonacci {
		t.Errorf("default scale = %q, want fibonacci", resp.Room.Settings.ScaleType)
	}
}

func TestCreateRoomValidation(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/rooms", dto.CreateRoomRequest{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing display name status = %d, want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/rooms", dto.CreateRoomRequest{
		DisplayName: "Ann",
		ScaleType:   "dogs",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad scale status = %d, want 400", w.Code)
	}
}

func TestJoinRoomCaseInsensitiveCode(t *testing.T) {
	r, _ := setupRouter(t)
	created := createRoom(t, r, dto.CreateRoomRequest{DisplayName: "Ann"})

	lower := strings.ToLower(created.Room.Code)
	w := doJSON(t, r, http.MethodPost, "/api/rooms/"+lower+"/join", dto.JoinRoomRequest{DisplayName: "Ben"})
	if w.Code != http.StatusOK {
		t.Fatalf("join with lowercase code status = %d, body %s", w.Code, w.Body.String())
	}

	var resp dto.RoomResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Room.Participants) != 2 {
		t.Errorf("participants = %d, want 2", len(resp.Room.Participants))
	}
}

func TestJoinRoomNotFound(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/rooms/ZZZZZ/join", dto.JoinRoomRequest{DisplayName: "Ben"})
	if w.Code != http.StatusNotFound {
		t.Errorf("join unknown room status = %d, want 404", w.Code)
	}
}

func TestJoinRoomPassword(t *testing.T) {
	r, memStore := setupRouter(t)
	created := createRoom(t, r, dto.CreateRoomRequest{DisplayName: "Ann", Password: "hunter2"})
	code := created.Room.Code

	w := doJSON(t, r, http.MethodPost, "/api/rooms/"+code+"/join", dto.JoinRoomRequest{
		DisplayName: "Ben",
		Password:    "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", w.Code)
	}

	// Rejected join leaves the participant count unchanged.
	stored, _ := memStore.GetRoom(context.Background(), code)
	if len(stored.Participants) != 1 {
		t.Errorf("participants after rejected join = %d, want 1", len(stored.Participants))
	}

	w = doJSON(t, r, http.MethodPost, "/api/rooms/"+code+"/join", dto.JoinRoomRequest{
		DisplayName: "Ben",
		Password:    "hunter2",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("correct password status = %d", w.Code)
	}
	stored, _ = memStore.GetRoom(context.Background(), code)
	if len(stored.Participants) != 2 {
		t.Errorf("participants after join = %d, want 2", len(stored.Participants))
	}
}

func TestJoinLockedRoom(t *testing.T) {
	r, memStore := setupRouter(t)
	created := createRoom(t, r, dto.CreateRoomRequest{DisplayName: "Ann"})
	code := created.Room.Code

	memStore.UpdateRoom(context.Background(), code, func(room *models.Room) error {
		room.Settings.Locked = true
		return nil
	})

	w := doJSON(t, r, http.MethodPost, "/api/rooms/"+code+"/join", dto.JoinRoomRequest{DisplayName: "Ben"})
	if w.Code != http.StatusForbidden {
		t.Errorf("join locked room status = %d, want 403", w.Code)
	}
}

func TestJoinAsSpectator(t *testing.T) {
	r, _ := setupRouter(t)
	created := createRoom(t, r, dto.CreateRoomRequest{DisplayName: "Ann"})

	w := doJSON(t, r, http.MethodPost, "/api/rooms/"+created.Room.Code+"/join", dto.JoinRoomRequest{
		DisplayName: "Sam",
		Spectator:   true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("spectator join status = %d", w.Code)
	}
	var resp dto.RoomResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Room.Participants[resp.ParticipantID].Role != models.RoleSpectator {
		t.Error("joiner should be a spectator")
	}
}

func TestKickRequiresAdmin(t *testing.T) {
	r, memStore := setupRouter(t)
	created := createRoom(t, r, dto.CreateRoomRequest{DisplayName: "Ann"})
	code := created.Room.Code

	w := doJSON(t, r, http.MethodPost, "/api/rooms/"+code+"/join", dto.JoinRoomRequest{DisplayName: "Ben"})
	var joined dto.RoomResponse
	json.Unmarshal(w.Body.Bytes(), &joined)

	// Non-admin cannot kick.
	w = doJSON(t, r, http.MethodPost, "/api/rooms/"+code+"/kick", dto.KickRequest{
		ParticipantID: joined.ParticipantID,
		TargetID:      created.ParticipantID,
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("non-admin kick status = %d, want 403", w.Code)
	}

	// Host kicks and the target's vote is pruned.
	memStore.UpdateRoom(context.Background(), code, func(room *models.Room) error {
		return room.CastVote(joined.ParticipantID, "5")
	})
	w = doJSON(t, r, http.MethodPost, "/api/rooms/"+code+"/kick", dto.KickRequest{
		ParticipantID: created.ParticipantID,
		TargetID:      joined.ParticipantID,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("host kick status = %d", w.Code)
	}

	stored, _ := memStore.GetRoom(context.Background(), code)
	if _, ok := stored.Participants[joined.ParticipantID]; ok {
		t.Error("kicked participant still present")
	}
	if _, ok := stored.Votes[joined.ParticipantID]; ok {
		t.Error("kicked participant's vote still present")
	}
}

func TestGetRoomRedactsHiddenVotes(t *testing.T) {
	r, memStore := setupRouter(t)
	created := createRoom(t, r, dto.CreateRoomRequest{DisplayName: "Ann"})
	code := created.Room.Code

	w := doJSON(t, r, http.MethodPost, "/api/rooms/"+code+"/join", dto.JoinRoomRequest{DisplayName: "Ben"})
	var joined dto.RoomResponse
	json.Unmarshal(w.Body.Bytes(), &joined)

	memStore.UpdateRoom(context.Background(), code, func(room *models.Room) error {
		return room.CastVote(joined.ParticipantID, "5")
	})

	// Non-admin viewer sees who voted but not the value.
	w = doJSON(t, r, http.MethodGet, "/api/rooms/"+code+"?participant="+joined.ParticipantID, nil)
	var state dto.RoomState
	json.Unmarshal(w.Body.Bytes(), &state)
	if !state.Voted[joined.ParticipantID] {
		t.Error("voted marker missing")
	}
	if len(state.Votes) != 0 {
		t.Error("hidden votes leaked to non-admin viewer")
	}

	// The host sees values even before reveal.
	w = doJSON(t, r, http.MethodGet, "/api/rooms/"+code+"?participant="+created.ParticipantID, nil)
	json.Unmarshal(w.Body.Bytes(), &state)
	if state.Votes[joined.ParticipantID] != "5" {
		t.Error("host should see hidden vote values")
	}
}

func TestLeaveRoom(t *testing.T) {
	r, memStore := setupRouter(t)
	created := createRoom(t, r, dto.CreateRoomRequest{DisplayName: "Ann"})
	code := created.Room.Code

	w := doJSON(t, r, http.MethodPost, "/api/rooms/"+code+"/leave", dto.LeaveRoomRequest{
		ParticipantID: created.ParticipantID,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("leave status = %d", w.Code)
	}

	stored, _ := memStore.GetRoom(context.Background(), code)
	if len(stored.Participants) != 0 {
		t.Errorf("participants after leave = %d, want 0", len(stored.Participants))
	}
}

func TestGetTicketsView(t *testing.T) {
	r, memStore := setupRouter(t)
	created := createRoom(t, r, dto.CreateRoomRequest{DisplayName: "Ann"})
	code := created.Room.Code

	memStore.UpdateRoom(context.Background(), code, func(room *models.Room) error {
		for _, title := range []string{"Login flow", "Export job"} {
			ticket, err := models.NewTicketItem(title, "", created.ParticipantID)
			if err != nil {
				return err
			}
			room.AddTicket(ticket)
		}
		return nil
	})

	w := doJSON(t, r, http.MethodGet, "/api/rooms/"+code+"/tickets?filter=login", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("tickets status = %d", w.Code)
	}
	var page models.QueuePage
	json.Unmarshal(w.Body.Bytes(), &page)
	if page.TotalItems != 1 {
		t.Errorf("filtered total = %d, want 1", page.TotalItems)
	}
}
