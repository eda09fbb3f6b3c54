package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/planhub/planhub-cli/internal/auth"
)

// testAccessToken mints an unsigned but well-formed JWT that expires an
// hour from now. Claims are parsed without signature verification, so a
// dummy signature is enough.
func testAccessToken(t *testing.T) string {
	t.Helper()

	seg := func(v any) string {
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to encode token segment: %v", err)
		}
		return base64.RawURLEncoding.EncodeToString(b)
	}
	header := seg(map[string]string{"alg": "none", "typ": "JWT"})
	payload := seg(map[string]any{
		"id":    int64(1),
		"email": "a@b.com",
		"role":  "DEVELOPER",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	return header + "." + payload + "." + base64.RawURLEncoding.EncodeToString([]byte("sig"))
}

// recordedRequest captures what one handler invocation saw.
type recordedRequest struct {
	method string
	path   string
	query  string
	body   []byte
}

// newTestClient spins up a server answering every request with the given
// envelope result and returns a Client authenticated against it.
func newTestClient(t *testing.T, result any, rec *recordedRequest) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rec != nil {
			rec.method = r.Method
			rec.path = r.URL.Path
			rec.query = r.URL.RawQuery
			rec.body, _ = io.ReadAll(r.Body)
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]any{
			"code":    200,
			"message": nil,
			"result":  result,
		}); err != nil {
			t.Fatalf("failed to write response: %v", err)
		}
	}))
	t.Cleanup(srv.Close)

	store := auth.NewMemStore()
	if err := store.Save(&auth.Session{AccessToken: testAccessToken(t), RefreshToken: "r1"}); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
	return NewClient(auth.NewManager(srv.URL, store)), srv
}

func TestMyTasksDecodesEnvelope(t *testing.T) {
	var rec recordedRequest
	client, _ := newTestClient(t, []map[string]any{
		{"id": 1, "title": "write parser", "status": "TODO", "priority": "HIGH", "dueDate": "2026-09-15"},
		{"id": 2, "title": "fix login", "status": "IN_PROGRESS", "priority": "MEDIUM", "dueDate": "2026-09-01"},
	}, &rec)

	tasks, err := client.MyTasks(context.Background(), 10)
	if err != nil {
		t.Fatalf("MyTasks failed: %v", err)
	}

	if rec.method != http.MethodGet || rec.path != "/api/tasks/projects/10/my-tasks" {
		t.Errorf("request was %s %s", rec.method, rec.path)
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}
	if tasks[0].ID != 1 || tasks[0].Status != StatusTodo || tasks[0].Priority != PriorityHigh {
		t.Errorf("task decoded wrong: %+v", tasks[0])
	}
}

func TestUpdateTaskStatusRequestShape(t *testing.T) {
	var rec recordedRequest
	client, _ := newTestClient(t, nil, &rec)

	if err := client.UpdateTaskStatus(context.Background(), 5, 10, StatusCompleted); err != nil {
		t.Fatalf("UpdateTaskStatus failed: %v", err)
	}

	if rec.method != http.MethodPatch || rec.path != "/api/tasks/5/projects/10/status" {
		t.Errorf("request was %s %s", rec.method, rec.path)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.body, &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["status"] != "COMPLETED" {
		t.Errorf("body = %v, want status COMPLETED", body)
	}
}

func TestAllProjectTasksPaging(t *testing.T) {
	var rec recordedRequest
	client, _ := newTestClient(t, map[string]any{
		"content": []map[string]any{
			{"id": 1, "title": "write parser", "status": "TODO", "assignedTo": "Dana"},
			{"id": 2, "title": "fix login", "status": "COMPLETED", "assignedTo": nil},
		},
		"page":          1,
		"size":          2,
		"totalElements": 7,
		"totalPages":    4,
		"last":          false,
	}, &rec)

	page, err := client.AllProjectTasks(context.Background(), 10, 1, 2)
	if err != nil {
		t.Fatalf("AllProjectTasks failed: %v", err)
	}

	if rec.path != "/api/tasks/projects/10/all-tasks" || rec.query != "page=1&size=2" {
		t.Errorf("request was %s?%s", rec.path, rec.query)
	}
	if page.TotalElements != 7 || page.TotalPages != 4 || page.Last {
		t.Errorf("page metadata decoded wrong: %+v", page)
	}
	if len(page.Content) != 2 {
		t.Fatalf("got %d rows, want 2", len(page.Content))
	}
	if page.Content[0].AssignedTo == nil || *page.Content[0].AssignedTo != "Dana" {
		t.Errorf("assignee decoded wrong: %+v", page.Content[0])
	}
	if page.Content[1].AssignedTo != nil {
		t.Error("null assignee should decode to nil")
	}
}

func TestCreateProjectRequestShape(t *testing.T) {
	var rec recordedRequest
	client, _ := newTestClient(t, map[string]any{"id": 3, "name": "Atlas"}, &rec)

	proj, err := client.CreateProject(context.Background(), CreateProjectRequest{
		Name:        "Atlas",
		Description: "maps",
		StartDate:   "2026-09-01",
		EndDate:     "2026-12-01",
	})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if rec.method != http.MethodPost || rec.path != "/api/projects" {
		t.Errorf("request was %s %s", rec.method, rec.path)
	}
	if proj.ID != 3 || proj.Name != "Atlas" {
		t.Errorf("project decoded wrong: %+v", proj)
	}
}

func TestAPIErrorSurfacesThroughClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{"code": 403, "message": "no access to project"})
	}))
	defer srv.Close()

	store := auth.NewMemStore()
	store.Save(&auth.Session{AccessToken: testAccessToken(t), RefreshToken: "r1"})
	client := NewClient(auth.NewManager(srv.URL, store))

	_, err := client.MyTasks(context.Background(), 10)
	var apiErr *auth.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *auth.APIError", err)
	}
	if apiErr.StatusCode != http.StatusForbidden || apiErr.Message != "no access to project" {
		t.Errorf("unexpected APIError: %+v", apiErr)
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"todo", StatusTodo, false},
		{"TODO", StatusTodo, false},
		{"in_progress", StatusInProgress, false},
		{"in-progress", StatusInProgress, false},
		{"In Progress", StatusInProgress, false},
		{"completed", StatusCompleted, false},
		{"done", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseStatus(%q) should fail", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseStatus(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{"low", PriorityLow, false},
		{"Medium", PriorityMedium, false},
		{"HIGH", PriorityHigh, false},
		{"urgent", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePriority(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParsePriority(%q) should fail", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParsePriority(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
}
