package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/starford/zametki/internal/models"
	"github.com/starford/zametki/internal/noteservice"
	"github.com/starford/zametki/internal/testutil"
)

// testEnv sets up a temp store, service, and router for testing.
// An empty authToken means disabled auth mode.
func testEnv(t *testing.T, authToken string, notes []models.Note) (*noteservice.Service, http.Handler) {
	t.Helper()
	svc, _ := testutil.TestService(t, notes)
	sse := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return svc, NewRouter(svc, authToken != "", authToken, sse)
}

func do(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeReport(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ReportResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v (body %s)", err, w.Body.String())
	}
	return resp.Report
}

func TestCreateAndGetNote(t *testing.T) {
	_, router := testEnv(t, "", nil)

	w := do(t, router, http.MethodPost, "/notes", map[string]string{"title": "Привет", "text": "мир <b>"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var created Note
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if created.ID != 1 || created.Title != "Привет" {
		t.Errorf("created = %+v", created)
	}

	w = do(t, router, http.MethodGet, "/notes/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	report := decodeReport(t, w)
	if !strings.HasPrefix(report, "ID: 1\nНазвание: Привет\nТекст: \nмир <b>\n") {
		t.Errorf("report = %q", report)
	}
}

func TestCreateNote_Validation(t *testing.T) {
	_, router := testEnv(t, "", nil)

	w := do(t, router, http.MethodPost, "/notes", map[string]string{"title": "", "text": "x"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty title = %d, want 400", w.Code)
	}

	w = do(t, router, http.MethodPost, "/notes", map[string]string{"title": "x", "text": "y", "date": "yesterday"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad date = %d, want 400", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid json = %d, want 400", rec.Code)
	}
}

func TestCreateNote_RequiresJSONContentType(t *testing.T) {
	_, router := testEnv(t, "", nil)

	req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader("title=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("form body = %d, want 415", rec.Code)
	}
}

func TestListNotes(t *testing.T) {
	_, router := testEnv(t, "", testutil.SampleNotes())

	w := do(t, router, http.MethodGet, "/notes", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	report := decodeReport(t, w)
	if strings.Count(report, strings.Repeat("=", 40)) != 2 {
		t.Errorf("report = %q", report)
	}

	w = do(t, router, http.MethodGet, "/notes/titles", nil)
	if got := decodeReport(t, w); got != "A\nB" {
		t.Errorf("titles = %q", got)
	}
}

func TestListNotes_Empty(t *testing.T) {
	_, router := testEnv(t, "", nil)
	w := do(t, router, http.MethodGet, "/notes", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("empty list = %d, want 404", w.Code)
	}
}

func TestGetNote_NotFoundAndBadID(t *testing.T) {
	_, router := testEnv(t, "", testutil.SampleNotes())

	if w := do(t, router, http.MethodGet, "/notes/99", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing note = %d, want 404", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/notes/abc", nil); w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id = %d, want 400", w.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	_, router := testEnv(t, "", testutil.SampleNotes())

	w := do(t, router, http.MethodGet, "/search?keyword=world", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search status = %d", w.Code)
	}
	if got := decodeReport(t, w); strings.Count(got, "ID: ") != 2 {
		t.Errorf("keyword report = %q", got)
	}

	w = do(t, router, http.MethodGet, "/search?title=A", nil)
	if got := decodeReport(t, w); !strings.HasPrefix(got, "Название: A\n") {
		t.Errorf("title report = %q", got)
	}

	w = do(t, router, http.MethodGet, "/search?date=02.01.2024+11%3A00", nil)
	if got := decodeReport(t, w); !strings.Contains(got, "Название: B") {
		t.Errorf("date report = %q", got)
	}

	if w := do(t, router, http.MethodGet, "/search?title=a", nil); w.Code != http.StatusNotFound {
		t.Errorf("case-mismatched title = %d, want 404", w.Code)
	}
}

func TestSearchRequiresExactlyOneMode(t *testing.T) {
	_, router := testEnv(t, "", nil)

	if w := do(t, router, http.MethodGet, "/search", nil); w.Code != http.StatusBadRequest {
		t.Errorf("no mode = %d, want 400", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/search?title=a&keyword=b", nil); w.Code != http.StatusBadRequest {
		t.Errorf("two modes = %d, want 400", w.Code)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	_, router := testEnv(t, "secret123", nil)
	body, _ := json.Marshal(map[string]string{"title": "t", "text": "x"})
	req := httptest.NewRequest(http.MethodPost, "/notes", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer secret123")
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Errorf("authed create = %d, want 201", w.Code)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	_, router := testEnv(t, "secret123", nil)
	if w := do(t, router, http.MethodGet, "/notes", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("no token = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	_, router := testEnv(t, "secret123", nil)
	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}
}

func TestSSEEvents_AuthProtected(t *testing.T) {
	_, router := testEnv(t, "tok", nil)
	if w := do(t, router, http.MethodGet, "/events", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("SSE without token = %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("SSE with token = %d, want 200", w.Code)
	}

	if w := do(t, router, http.MethodGet, "/events?access_token=tok", nil); w.Code != http.StatusOK {
		t.Errorf("SSE with query token = %d, want 200", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/events?access_token=nope", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("SSE with wrong query token = %d, want 401", w.Code)
	}
}

func TestQueryTokenOnlyForEvents(t *testing.T) {
	_, router := testEnv(t, "tok", nil)
	if w := do(t, router, http.MethodGet, "/notes?access_token=tok", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("query token on /notes = %d, want 401", w.Code)
	}
}
