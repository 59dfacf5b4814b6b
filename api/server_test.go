package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	gws "github.com/gorilla/websocket"

	"github.com/wricardo/quoridor/game/config"
	"github.com/wricardo/quoridor/game/engine"
	"github.com/wricardo/quoridor/game/service"
	"github.com/wricardo/quoridor/game/session"
	"github.com/wricardo/quoridor/transport/websocket"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context, configName string) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	// Game Operations
	MoveFunc      func(ctx context.Context, sessionID string, dest engine.Coordinate) (*service.ActionResult, error)
	PlaceWallFunc func(ctx context.Context, sessionID string, cell engine.Coordinate, orientation string) (*service.ActionResult, error)
	NewGameFunc   func(ctx context.Context, sessionID string) (*engine.Snapshot, error)

	// Game State
	GetGameStateFunc func(ctx context.Context, sessionID string) (*engine.Snapshot, error)
	LegalMovesFunc   func(ctx context.Context, sessionID string) ([]engine.Coordinate, error)
	GetHistoryFunc   func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error)

	// Configuration
	ListConfigsFunc func(ctx context.Context) ([]*service.ConfigInfo, error)
	LoadConfigFunc  func(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfigFunc  func(ctx context.Context, configName string, config *engine.GameConfig) error
}

// Session Management
func (m *MockGameService) CreateSession(ctx context.Context, configName string) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, configName)
	}
	return &service.SessionInfo{
		ID:         "test-session",
		ConfigName: configName,
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{
		ID:         sessionID,
		ConfigName: "test-config",
		CreatedAt:  time.Now(),
		State:      engine.NewGame(2).Snapshot(),
	}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

// Game Operations
func (m *MockGameService) Move(ctx context.Context, sessionID string, dest engine.Coordinate) (*service.ActionResult, error) {
	if m.MoveFunc != nil {
		return m.MoveFunc(ctx, sessionID, dest)
	}
	return &service.ActionResult{
		Success: true,
		Winner:  engine.NoWinner,
		State:   engine.NewGame(2).Snapshot(),
	}, nil
}

func (m *MockGameService) PlaceWall(ctx context.Context, sessionID string, cell engine.Coordinate, orientation string) (*service.ActionResult, error) {
	if m.PlaceWallFunc != nil {
		return m.PlaceWallFunc(ctx, sessionID, cell, orientation)
	}
	return &service.ActionResult{
		Success: true,
		Winner:  engine.NoWinner,
		State:   engine.NewGame(2).Snapshot(),
	}, nil
}

func (m *MockGameService) NewGame(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	if m.NewGameFunc != nil {
		return m.NewGameFunc(ctx, sessionID)
	}
	return engine.NewGame(2).Snapshot(), nil
}

// Game State
func (m *MockGameService) GetGameState(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	if m.GetGameStateFunc != nil {
		return m.GetGameStateFunc(ctx, sessionID)
	}
	return engine.NewGame(2).Snapshot(), nil
}

func (m *MockGameService) LegalMoves(ctx context.Context, sessionID string) ([]engine.Coordinate, error) {
	if m.LegalMovesFunc != nil {
		return m.LegalMovesFunc(ctx, sessionID)
	}
	return engine.NewGame(2).LegalMoves(), nil
}

func (m *MockGameService) GetHistory(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
	if m.GetHistoryFunc != nil {
		return m.GetHistoryFunc(ctx, sessionID, opts)
	}
	return &service.HistoryResponse{
		Actions:    []engine.ActionRecord{},
		Page:       opts.Page,
		PageSize:   opts.Limit,
		TotalPages: 1,
	}, nil
}

// Configuration
func (m *MockGameService) ListConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return []*service.ConfigInfo{}, nil
}

func (m *MockGameService) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(ctx, configName)
	}
	return &engine.GameConfig{
		Name:        configName,
		Description: "Test config",
		PlayerCount: 2,
		TotalWalls:  20,
	}, nil
}

func (m *MockGameService) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if m.SaveConfigFunc != nil {
		return m.SaveConfigFunc(ctx, configName, config)
	}
	return nil
}

// Test helpers
func setupTestServer(t *testing.T, mockService service.GameService) (*Server, *websocket.Hub) {
	t.Helper()
	hub := websocket.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return NewServer(mockService, hub), hub
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

// Session Management Tests

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "Create session with default config",
			requestBody: nil,
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					if configName != "" {
						t.Errorf("Expected empty config name, got %s", configName)
					}
					return &service.SessionInfo{
						ID:             "a1b2",
						ConfigName:     "classic",
						CreatedAt:      time.Now(),
						LastAccessedAt: time.Now(),
					}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != "a1b2" {
					t.Errorf("Expected session ID a1b2, got %s", resp.ID)
				}
			},
		},
		{
			name:        "Create session with config_id",
			requestBody: map[string]string{"config_id": "blitz"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					if configName != "blitz" {
						t.Errorf("Expected config name 'blitz', got %s", configName)
					}
					return &service.SessionInfo{ID: "c3d4", ConfigName: configName}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ConfigName != "blitz" {
					t.Errorf("Expected config name 'blitz', got %s", resp.ConfigName)
				}
			},
		},
		{
			name:        "Create session with legacy config_name",
			requestBody: map[string]string{"config_name": "blitz"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					if configName != "blitz" {
						t.Errorf("Expected config name 'blitz', got %s", configName)
					}
					return &service.SessionInfo{ID: "e5f6", ConfigName: configName}, nil
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:        "Unknown config",
			requestBody: map[string]string{"config_id": "giant"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("%w: 'giant'", service.ErrConfigNotFound)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:        "Handle service error",
			requestBody: nil,
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("service error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "service error" {
					t.Errorf("Expected error message 'service error', got %s", resp["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server, _ := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			req := makeRequest("POST", "/api/sessions", tt.requestBody)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestListSessions(t *testing.T) {
	now := time.Now()
	sessions := func() []*service.SessionInfo {
		return []*service.SessionInfo{
			{ID: "old", CreatedAt: now.Add(-3 * time.Hour), LastAccessedAt: now.Add(-1 * time.Minute)},
			{ID: "mid", CreatedAt: now.Add(-2 * time.Hour), LastAccessedAt: now.Add(-2 * time.Hour)},
			{ID: "new", CreatedAt: now.Add(-1 * time.Hour), LastAccessedAt: now.Add(-3 * time.Hour)},
		}
	}

	tests := []struct {
		name          string
		query         string
		expectedOrder []string
		expectedTotal int
	}{
		{name: "default sorts by access, newest first", query: "", expectedOrder: []string{"old", "mid", "new"}, expectedTotal: 3},
		{name: "created ascending", query: "?sort=created&order=asc", expectedOrder: []string{"old", "mid", "new"}, expectedTotal: 3},
		{name: "created descending", query: "?sort=created", expectedOrder: []string{"new", "mid", "old"}, expectedTotal: 3},
		{name: "limit", query: "?sort=created&limit=2", expectedOrder: []string{"new", "mid"}, expectedTotal: 3},
		{name: "bad limit is ignored", query: "?limit=zero", expectedOrder: []string{"old", "mid", "new"}, expectedTotal: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{
				ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
					return sessions(), nil
				},
			}

			server, _ := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("GET", "/api/sessions"+tt.query, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}

			var resp struct {
				Count    int                    `json:"count"`
				Total    int                    `json:"total"`
				Sessions []*service.SessionInfo `json:"sessions"`
			}
			parseResponse(t, w, &resp)

			if resp.Count != len(tt.expectedOrder) || resp.Total != tt.expectedTotal {
				t.Errorf("Expected count %d total %d, got %d %d", len(tt.expectedOrder), tt.expectedTotal, resp.Count, resp.Total)
			}
			for i, id := range tt.expectedOrder {
				if i >= len(resp.Sessions) || resp.Sessions[i].ID != id {
					t.Errorf("Expected %v at %d, got %+v", id, i, resp.Sessions)
					break
				}
			}
		})
	}

	t.Run("service error", func(t *testing.T) {
		mockService := &MockGameService{
			ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
				return nil, fmt.Errorf("store unavailable")
			},
		}
		server, _ := setupTestServer(t, mockService)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/sessions", nil))

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected status 500, got %d", w.Code)
		}
	})
}

func TestGetSession(t *testing.T) {
	tests := []struct {
		name           string
		sessionID      string
		expectedStatus int
	}{
		{name: "Get existing session", sessionID: "a1b2", expectedStatus: http.StatusOK},
		{name: "Session not found", sessionID: "nope", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{
				GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
					if sessionID != "a1b2" {
						return nil, fmt.Errorf("%w: %s", service.ErrSessionNotFound, sessionID)
					}
					return &service.SessionInfo{ID: sessionID, ConfigName: "classic"}, nil
				},
			}

			server, _ := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			req := makeRequest("GET", "/api/sessions/"+tt.sessionID, nil)
			req = mux.SetURLVars(req, map[string]string{"id": tt.sessionID})

			server.handleGetSession(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestDeleteSession(t *testing.T) {
	mockService := &MockGameService{
		DeleteSessionFunc: func(ctx context.Context, sessionID string) error {
			if sessionID != "a1b2" {
				return service.ErrSessionNotFound
			}
			return nil
		},
	}
	server, _ := setupTestServer(t, mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("DELETE", "/api/sessions/a1b2", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var resp map[string]string
	parseResponse(t, w, &resp)
	if resp["message"] != "Session a1b2 deleted" {
		t.Errorf("Unexpected message: %s", resp["message"])
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("DELETE", "/api/sessions/zzzz", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

// Game Operations Tests

func TestMove(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "Accepted move",
			requestBody: map[string]int{"row": 7, "col": 4},
			setupMock: func(m *MockGameService) {
				m.MoveFunc = func(ctx context.Context, sessionID string, dest engine.Coordinate) (*service.ActionResult, error) {
					if dest != (engine.Coordinate{Row: 7, Col: 4}) {
						t.Errorf("Expected destination (7,4), got %v", dest)
					}
					game := engine.NewGame(2)
					game.AttemptMove(dest)
					return &service.ActionResult{Success: true, Winner: engine.NoWinner, State: game.Snapshot()}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.ActionResult
				parseResponse(t, w, &resp)
				if !resp.Success {
					t.Error("Expected success to be true")
				}
				if resp.State.Positions[0] != (engine.Coordinate{Row: 7, Col: 4}) {
					t.Errorf("Expected player 0 at (7,4), got %v", resp.State.Positions[0])
				}
			},
		},
		{
			name:        "Rejected move is still 200",
			requestBody: map[string]int{"row": 6, "col": 4},
			setupMock: func(m *MockGameService) {
				m.MoveFunc = func(ctx context.Context, sessionID string, dest engine.Coordinate) (*service.ActionResult, error) {
					return &service.ActionResult{
						Success:   false,
						Rejection: &service.RejectionInfo{Code: "jump_no_opponent", Message: "to jump, you need an opponent next to you"},
						Winner:    engine.NoWinner,
						State:     engine.NewGame(2).Snapshot(),
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.ActionResult
				parseResponse(t, w, &resp)
				if resp.Success {
					t.Error("Expected success to be false")
				}
				if resp.Rejection == nil || resp.Rejection.Code != "jump_no_opponent" {
					t.Errorf("Expected jump_no_opponent rejection, got %+v", resp.Rejection)
				}
			},
		},
		{
			name:           "Missing coordinates",
			requestBody:    map[string]string{"direction": "up"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Malformed body",
			requestBody:    "not json",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Off-board destination",
			requestBody: map[string]int{"row": 9, "col": 0},
			setupMock: func(m *MockGameService) {
				m.MoveFunc = func(ctx context.Context, sessionID string, dest engine.Coordinate) (*service.ActionResult, error) {
					return nil, fmt.Errorf("%w: %v is not on the board", service.ErrInvalidCoordinate, dest)
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Game over",
			requestBody: map[string]int{"row": 1, "col": 4},
			setupMock: func(m *MockGameService) {
				m.MoveFunc = func(ctx context.Context, sessionID string, dest engine.Coordinate) (*service.ActionResult, error) {
					return nil, fmt.Errorf("%w: player 1 has won", service.ErrGameOver)
				}
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:        "Session not found",
			requestBody: map[string]int{"row": 7, "col": 4},
			setupMock: func(m *MockGameService) {
				m.MoveFunc = func(ctx context.Context, sessionID string, dest engine.Coordinate) (*service.ActionResult, error) {
					return nil, fmt.Errorf("%w: %s", service.ErrSessionNotFound, sessionID)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server, _ := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			req := makeRequest("POST", "/api/sessions/a1b2/move", tt.requestBody)
			req = mux.SetURLVars(req, map[string]string{"id": "a1b2"})

			server.handleMove(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestPlaceWall(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockGameService)
		expectedStatus int
	}{
		{
			name:        "Accepted wall",
			requestBody: map[string]interface{}{"row": 3, "col": 3, "orientation": "h"},
			setupMock: func(m *MockGameService) {
				m.PlaceWallFunc = func(ctx context.Context, sessionID string, cell engine.Coordinate, orientation string) (*service.ActionResult, error) {
					if cell != (engine.Coordinate{Row: 3, Col: 3}) || orientation != "h" {
						t.Errorf("Unexpected wall %v %s", cell, orientation)
					}
					return &service.ActionResult{Success: true, Winner: engine.NoWinner, State: engine.NewGame(2).Snapshot()}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Missing anchor",
			requestBody:    map[string]interface{}{"orientation": "v"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Bad orientation",
			requestBody: map[string]interface{}{"row": 3, "col": 3, "orientation": "diagonal"},
			setupMock: func(m *MockGameService) {
				m.PlaceWallFunc = func(ctx context.Context, sessionID string, cell engine.Coordinate, orientation string) (*service.ActionResult, error) {
					return nil, fmt.Errorf("%w: %q", service.ErrInvalidOrientation, orientation)
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Anchor outside the wall grid",
			requestBody: map[string]interface{}{"row": 8, "col": 3, "orientation": "v"},
			setupMock: func(m *MockGameService) {
				m.PlaceWallFunc = func(ctx context.Context, sessionID string, cell engine.Coordinate, orientation string) (*service.ActionResult, error) {
					return nil, fmt.Errorf("%w: wall anchor %v", service.ErrInvalidCoordinate, cell)
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server, _ := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("POST", "/api/sessions/a1b2/wall", tt.requestBody))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestNewGame(t *testing.T) {
	called := false
	mockService := &MockGameService{
		NewGameFunc: func(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
			called = true
			return engine.NewGame(2).Snapshot(), nil
		},
	}
	server, _ := setupTestServer(t, mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/a1b2/new-game", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !called {
		t.Error("Expected NewGame to be called")
	}

	var resp struct {
		Message string           `json:"message"`
		State   *engine.Snapshot `json:"state"`
	}
	parseResponse(t, w, &resp)
	if resp.State == nil || resp.State.Winner != engine.NoWinner {
		t.Errorf("Expected a fresh snapshot, got %+v", resp.State)
	}
}

func TestLegalMoves(t *testing.T) {
	server, _ := setupTestServer(t, &MockGameService{})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/a1b2/legal-moves", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var resp struct {
		Count int                 `json:"count"`
		Moves []engine.Coordinate `json:"moves"`
	}
	parseResponse(t, w, &resp)
	if resp.Count != 3 || len(resp.Moves) != 3 {
		t.Errorf("Expected 3 opening moves, got %+v", resp)
	}
}

func TestGetHistory(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected service.HistoryOptions
	}{
		{name: "defaults", query: "", expected: service.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}},
		{name: "explicit", query: "?page=2&limit=5&order=asc", expected: service.HistoryOptions{Page: 2, Limit: 5, Order: "asc"}},
		{name: "invalid values fall back", query: "?page=-1&limit=abc&order=sideways", expected: service.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got service.HistoryOptions
			mockService := &MockGameService{
				GetHistoryFunc: func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
					got = opts
					return &service.HistoryResponse{Actions: []engine.ActionRecord{}, Page: opts.Page, PageSize: opts.Limit}, nil
				},
			}
			server, _ := setupTestServer(t, mockService)

			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("GET", "/api/sessions/a1b2/history"+tt.query, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
			if got != tt.expected {
				t.Errorf("Expected options %+v, got %+v", tt.expected, got)
			}
		})
	}
}

func TestGetGameState(t *testing.T) {
	mockService := &MockGameService{
		GetGameStateFunc: func(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
			if sessionID != "a1b2" {
				return nil, service.ErrSessionNotFound
			}
			return engine.NewGame(2).Snapshot(), nil
		},
	}
	server, _ := setupTestServer(t, mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/a1b2/state", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var state engine.Snapshot
	parseResponse(t, w, &state)
	if len(state.Positions) != 2 || state.RemainingWalls[1] != 10 {
		t.Errorf("Unexpected snapshot: %+v", state)
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/gone/state", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

// Configuration Tests

func TestListConfigs(t *testing.T) {
	mockService := &MockGameService{
		ListConfigsFunc: func(ctx context.Context) ([]*service.ConfigInfo, error) {
			return []*service.ConfigInfo{
				{Filename: "classic.json", ConfigID: "classic", Name: "classic", TotalWalls: 20, WallsPerPlayer: 10},
				{Filename: "blitz.json", ConfigID: "blitz", Name: "blitz", TotalWalls: 10, WallsPerPlayer: 5},
			}, nil
		},
	}
	server, _ := setupTestServer(t, mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/configs", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var configs []*service.ConfigInfo
	parseResponse(t, w, &configs)
	if len(configs) != 2 || configs[1].WallsPerPlayer != 5 {
		t.Errorf("Unexpected configs: %+v", configs)
	}
}

func TestGetConfig(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{name: "by name", path: "/api/configs/blitz", expectedStatus: http.StatusOK},
		{name: "with json suffix", path: "/api/configs/blitz.json", expectedStatus: http.StatusOK},
		{name: "unknown", path: "/api/configs/giant", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{
				LoadConfigFunc: func(ctx context.Context, configName string) (*engine.GameConfig, error) {
					if configName != "blitz" {
						return nil, service.ErrConfigNotFound
					}
					return &engine.GameConfig{Name: "blitz", Description: "Five walls each", PlayerCount: 2, TotalWalls: 10}, nil
				},
			}
			server, _ := setupTestServer(t, mockService)

			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("GET", tt.path, nil))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestCreateConfig(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		saveErr        error
		expectedID     string
		expectedStatus int
	}{
		{
			name:           "name doubles as id",
			requestBody:    map[string]interface{}{"name": "duel", "description": "Eight walls each", "player_count": 2, "total_walls": 16},
			expectedID:     "duel",
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "explicit config_id",
			requestBody:    map[string]interface{}{"config_id": "duel-v2", "name": "Duel", "description": "Eight walls each", "player_count": 2, "total_walls": 16},
			expectedID:     "duel-v2",
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing name",
			requestBody:    map[string]interface{}{"description": "nameless"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid rule set",
			requestBody:    map[string]interface{}{"name": "odd", "description": "odd walls", "player_count": 2, "total_walls": 7},
			saveErr:        fmt.Errorf("%w: total_walls must be divisible by player_count", service.ErrInvalidConfig),
			expectedID:     "odd",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var savedID string
			var saved *engine.GameConfig
			mockService := &MockGameService{
				SaveConfigFunc: func(ctx context.Context, configName string, config *engine.GameConfig) error {
					savedID, saved = configName, config
					return tt.saveErr
				},
			}
			server, _ := setupTestServer(t, mockService)

			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("POST", "/api/configs", tt.requestBody))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if savedID != tt.expectedID {
				t.Errorf("Expected save under %q, got %q", tt.expectedID, savedID)
			}
			if tt.expectedStatus == http.StatusCreated && saved.TotalWalls != 16 {
				t.Errorf("Expected decoded rule set, got %+v", saved)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	server, _ := setupTestServer(t, &MockGameService{})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var resp map[string]string
	parseResponse(t, w, &resp)
	if resp["status"] != "healthy" {
		t.Errorf("Expected healthy, got %v", resp)
	}
}

// WebSocket Tests

func TestWebSocketRequiresSession(t *testing.T) {
	mockService := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			return nil, service.ErrSessionNotFound
		},
	}
	server, _ := setupTestServer(t, mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/ws", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without session, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/ws?session=nope", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown session, got %d", w.Code)
	}
}

func readSnapshot(t *testing.T, conn *gws.Conn) websocket.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var message websocket.Message
	if err := conn.ReadJSON(&message); err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}
	return message
}

// TestPlayThroughHTTP drives a real service over HTTP and watches the board view.
func TestPlayThroughHTTP(t *testing.T) {
	configs, err := config.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	gameService := service.NewGameService(session.NewManager(), configs)
	server, hub := setupTestServer(t, gameService)

	ts := httptest.NewServer(server)
	defer ts.Close()

	post := func(path string, body interface{}) *http.Response {
		data, _ := json.Marshal(body)
		resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(data))
		if err != nil {
			t.Fatalf("POST %s failed: %v", path, err)
		}
		return resp
	}

	resp := post("/api/sessions", map[string]string{})
	var created service.SessionInfo
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated || created.ID == "" {
		t.Fatalf("Failed to create session: %d %+v", resp.StatusCode, created)
	}

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?session=" + strings.ToUpper(created.ID)
	conn, _, err := gws.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	initial := readSnapshot(t, conn)
	if initial.State == nil || initial.State.CurrentPlayer != 0 {
		t.Fatalf("Expected initial snapshot, got %+v", initial)
	}
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount(strings.ToLower(created.ID)) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	// A rejected move is reported but not broadcast
	resp = post("/api/sessions/"+created.ID+"/move", map[string]int{"row": 6, "col": 4})
	var rejected service.ActionResult
	json.NewDecoder(resp.Body).Decode(&rejected)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || rejected.Success || rejected.Rejection.Code != "jump_no_opponent" {
		t.Fatalf("Expected jump_no_opponent rejection, got %d %+v", resp.StatusCode, rejected)
	}

	resp = post("/api/sessions/"+created.ID+"/wall", map[string]interface{}{"row": 3, "col": 3, "orientation": "v"})
	var placed service.ActionResult
	json.NewDecoder(resp.Body).Decode(&placed)
	resp.Body.Close()
	if !placed.Success {
		t.Fatalf("Expected wall to be accepted, got %+v", placed)
	}

	update := readSnapshot(t, conn)
	if update.State == nil || len(update.State.Walls) != 1 || update.State.CurrentPlayer != 1 {
		t.Errorf("Expected broadcast after the wall, got %+v", update.State)
	}

	resp = post("/api/sessions/"+created.ID+"/new-game", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected new game, got %d", resp.StatusCode)
	}
	fresh := readSnapshot(t, conn)
	if fresh.State == nil || len(fresh.State.Walls) != 0 {
		t.Errorf("Expected fresh board broadcast, got %+v", fresh.State)
	}
	if fresh.State != nil && update.State != nil && fresh.State.Revision <= update.State.Revision {
		t.Errorf("Expected revision to grow across a new game: %d then %d", update.State.Revision, fresh.State.Revision)
	}
	if event := readSnapshot(t, conn); event.Event != "new_game" {
		t.Errorf("Expected new_game event, got %+v", event)
	}
}

func TestBroadcastsVictoryEvent(t *testing.T) {
	won := engine.NewGame(2).Snapshot()
	won.Winner = 0
	won.Revision = 2

	mockService := &MockGameService{
		GetGameStateFunc: func(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
			state := engine.NewGame(2).Snapshot()
			state.Revision = 1
			return state, nil
		},
		MoveFunc: func(ctx context.Context, sessionID string, dest engine.Coordinate) (*service.ActionResult, error) {
			return &service.ActionResult{
				Success:  true,
				Message:  "Player 1 wins!",
				Winner:   0,
				GameOver: true,
				Events: []service.GameEvent{
					{Type: "move", Message: "Player 1 moved to (0,4)", Position: &dest},
					{Type: "victory", Message: "Player 1 wins!", Player: 0},
				},
				State: won,
			}, nil
		},
	}
	server, hub := setupTestServer(t, mockService)

	ts := httptest.NewServer(server)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?session=board"
	conn, _, err := gws.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	if initial := readSnapshot(t, conn); initial.State == nil || initial.State.Revision != 1 {
		t.Fatalf("Expected initial snapshot at revision 1, got %+v", initial)
	}
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount("board") == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	resp, err := http.Post(ts.URL+"/api/sessions/board/move", "application/json", strings.NewReader(`{"row": 0, "col": 4}`))
	if err != nil {
		t.Fatalf("POST move failed: %v", err)
	}
	resp.Body.Close()

	update := readSnapshot(t, conn)
	if update.Event != "state_update" || update.State == nil || update.State.Winner != 0 {
		t.Fatalf("Expected winning snapshot, got %+v", update)
	}

	victory := readSnapshot(t, conn)
	if victory.Event != "victory" {
		t.Fatalf("Expected victory event after the snapshot, got %+v", victory)
	}
	data, ok := victory.Data.(map[string]interface{})
	if !ok || data["message"] != "Player 1 wins!" {
		t.Errorf("Expected victory details, got %#v", victory.Data)
	}
}
