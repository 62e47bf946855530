package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ianeli1/discordrs-diy/internal/command"
	"github.com/ianeli1/discordrs-diy/internal/dispatch"
	"github.com/ianeli1/discordrs-diy/internal/storage"
	"github.com/ianeli1/discordrs-diy/internal/trigger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, opts ...Option) *gin.Engine {
	t.Helper()
	cfg, err := trigger.NewConfig("!", "", true)
	if err != nil {
		t.Fatal(err)
	}
	reg := command.NewRegistry(cfg.Normalize)
	reg.RegisterCommand(command.Ping())
	reg.RegisterCommand(command.Echo())
	reg.RegisterCommand(command.Apply(command.Canned("rules", "Show the rules", "Be nice, {args}."), command.WithLogger()))
	return NewRouter(dispatch.New(cfg, reg), opts...)
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("healthz = %d %s", w.Code, w.Body)
	}
}

func TestCommands(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodGet, "/commands", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var body struct {
		Trigger  string        `json:"trigger"`
		Commands []commandInfo `json:"commands"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Trigger != `prefix "!"` {
		t.Errorf("trigger = %q", body.Trigger)
	}
	if len(body.Commands) != 3 || body.Commands[0].Name != "echo" || body.Commands[1].Name != "ping" {
		t.Fatalf("commands = %+v", body.Commands)
	}
	if body.Commands[1].Reply != "" {
		t.Errorf("built-in reported reply %q", body.Commands[1].Reply)
	}
	if rules := body.Commands[2]; rules.Name != "rules" || rules.Reply != "Be nice, {args}." {
		t.Errorf("canned command = %+v", rules)
	}
}

func TestDispatch(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		body    string
		matched bool
		reply   string
	}{
		{`{"content":"!PING"}`, true, "pong"},
		{`{"content":"!echo Hello There"}`, true, "Hello There"},
		{`{"content":"just chatting"}`, false, ""},
		{`{"content":"!missing"}`, false, ""},
		{`{"content":""}`, false, ""},
		{`{}`, false, ""},
	}

	for _, tt := range tests {
		w := do(t, r, http.MethodPost, "/dispatch", tt.body)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", tt.body, w.Code)
		}
		var got struct {
			Matched bool   `json:"matched"`
			Reply   string `json:"reply"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		if got.Matched != tt.matched || got.Reply != tt.reply {
			t.Errorf("%s: got %+v", tt.body, got)
		}
	}
}

func TestDispatchBadRequest(t *testing.T) {
	r := newTestRouter(t)
	for _, body := range []string{`{`, `[1]`, `{"content": 5}`} {
		if w := do(t, r, http.MethodPost, "/dispatch", body); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d", body, w.Code)
		}
	}
}

func TestHistoryRoutesNeedStore(t *testing.T) {
	if w := do(t, newTestRouter(t), http.MethodGet, "/history", ""); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 without a store", w.Code)
	}
}

func TestHistory(t *testing.T) {
	store, err := storage.New(filepath.Join(t.TempDir(), "db.json"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	if err := store.SetCommand(storage.CommandHistoryRecord{Destination: "chan", Command: "ping"}); err != nil {
		t.Fatal(err)
	}

	r := newTestRouter(t, WithHistory(store))

	w := do(t, r, http.MethodGet, "/healthz", "")
	if !strings.Contains(w.Body.String(), `"keys":1`) {
		t.Errorf("healthz = %s", w.Body)
	}

	w = do(t, r, http.MethodGet, "/history", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `["chan"]`) {
		t.Errorf("history = %d %s", w.Code, w.Body)
	}

	w = do(t, r, http.MethodGet, "/history/chan", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"command":"ping"`) {
		t.Errorf("history/chan = %d %s", w.Code, w.Body)
	}

	if w = do(t, r, http.MethodDelete, "/history/chan", ""); w.Code != http.StatusNoContent {
		t.Errorf("delete = %d", w.Code)
	}
	w = do(t, r, http.MethodGet, "/history", "")
	if !strings.Contains(w.Body.String(), `"destinations":[]`) {
		t.Errorf("after delete = %s", w.Body)
	}
}
