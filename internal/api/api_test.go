package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/starford/scistudy/internal/app"
	"github.com/starford/scistudy/internal/catalog"
	"github.com/starford/scistudy/internal/eventloop"
	"github.com/starford/scistudy/internal/models"
	"github.com/starford/scistudy/internal/testutil"
)

// testEnv builds a core on a running event loop and returns its router.
// An empty authToken means disabled mode.
func testEnv(t *testing.T, authToken string) http.Handler {
	t.Helper()

	loop := eventloop.New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = loop.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	cat, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	core := app.New(app.Config{
		Store:     testutil.TestDB(t),
		Catalog:   cat,
		Clock:     testutil.NewClock(time.Date(2025, 6, 18, 9, 0, 0, 0, time.UTC)),
		Scheduler: testutil.NewScheduler(),
		Runner:    loop,
		Logger:    testutil.Logger(),
	})
	return NewRouter(core, authToken != "", authToken, nil)
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, rd)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestState(t *testing.T) {
	h := testEnv(t, "")
	w := do(t, h, http.MethodGet, "/state", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var st app.State
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	if st.Timer.Display != "25:00" || st.Timer.Phase != models.PhaseFocus {
		t.Errorf("timer = %+v", st.Timer)
	}
	if st.Flashcards.Total == 0 {
		t.Error("flashcard deck should be generated at start")
	}
	if st.Goals.Goals != models.DefaultGoals() {
		t.Errorf("goals = %+v", st.Goals.Goals)
	}
}

func TestDispatchAction(t *testing.T) {
	h := testEnv(t, "")
	w := do(t, h, http.MethodPost, "/actions/timer.start", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	w = do(t, h, http.MethodGet, "/state", nil)
	var st app.State
	_ = json.Unmarshal(w.Body.Bytes(), &st)
	if !st.Timer.Running {
		t.Error("timer should be running")
	}
}

func TestDispatchErrors(t *testing.T) {
	h := testEnv(t, "")

	if w := do(t, h, http.MethodPost, "/actions/timer.explode", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown action status = %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/actions/notes.create", strings.NewReader("{oops"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad JSON status = %d", w.Code)
	}

	w = do(t, h, http.MethodPost, "/actions/notes.create", map[string]string{"title": "x", "content": ""})
	if w.Code != http.StatusBadRequest {
		t.Errorf("validation status = %d", w.Code)
	}

	w = do(t, h, http.MethodPost, "/actions/translator.select", map[string]string{"english": "unobtainium"})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown term status = %d", w.Code)
	}
}

func TestSearch(t *testing.T) {
	h := testEnv(t, "")
	if w := do(t, h, http.MethodGet, "/search", nil); w.Code != http.StatusBadRequest {
		t.Errorf("missing q status = %d", w.Code)
	}

	w := do(t, h, http.MethodGet, "/search?q=energy", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp SearchResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Results) == 0 || len(resp.Results) > catalog.DefaultSearchLimit {
		t.Fatalf("results = %d", len(resp.Results))
	}
	for _, r := range resp.Results {
		if !strings.Contains(strings.ToLower(r.English), "energy") {
			t.Errorf("unexpected match %q", r.English)
		}
	}

	w = do(t, h, http.MethodGet, "/search?q=e", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if w.Code != http.StatusOK || len(resp.Results) != 0 {
		t.Errorf("short query: status %d, %d results", w.Code, len(resp.Results))
	}
}

func TestNotesEndpoints(t *testing.T) {
	h := testEnv(t, "")
	w := do(t, h, http.MethodPost, "/notes", CreateNoteRequest{Title: "Acids", Subject: "chemistry", Content: "pH below 7"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var note models.Note
	_ = json.Unmarshal(w.Body.Bytes(), &note)
	if note.ID == "" || note.Subject != models.SubjectChemistry {
		t.Fatalf("note = %+v", note)
	}

	w = do(t, h, http.MethodGet, "/notes?subject=chemistry", nil)
	var list NoteListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if list.Total != 1 {
		t.Errorf("chemistry notes = %d", list.Total)
	}
	w = do(t, h, http.MethodGet, "/notes?subject=physics", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if list.Total != 0 {
		t.Errorf("physics notes = %d", list.Total)
	}
	if w := do(t, h, http.MethodGet, "/notes?subject=alchemy", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad filter status = %d", w.Code)
	}

	if w := do(t, h, http.MethodDelete, "/notes/"+note.ID, nil); w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", w.Code)
	}
	if w := do(t, h, http.MethodDelete, "/notes/"+note.ID, nil); w.Code != http.StatusNoContent {
		t.Errorf("second delete status = %d, want 204", w.Code)
	}
	if w := do(t, h, http.MethodGet, "/notes", nil); w.Code == http.StatusOK {
		_ = json.Unmarshal(w.Body.Bytes(), &list)
		if list.Total != 0 {
			t.Errorf("notes after delete = %d", list.Total)
		}
	}
}

func TestAuthMiddleware(t *testing.T) {
	h := testEnv(t, "secret")

	if w := do(t, h, http.MethodGet, "/state", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token status = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/state", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token status = %d", w.Code)
	}
}
