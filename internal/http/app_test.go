package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"aifinder/internal/config"
	apphttp "aifinder/internal/http"
	applog "aifinder/internal/log"
	"aifinder/internal/metrics"
	"aifinder/internal/repos"
)

func testConfig() config.Config {
	return config.Config{
		DatabaseURL:  ":memory:",
		DBTimeout:    5 * time.Second,
		BcryptCost:   bcrypt.MinCost,
		Environment:  "test",
		CORSOrigins:  "*",
		TemplatesDir: "../../web/templates",
	}
}

// newTestApp builds the real app over an in-memory store holding category 1
// "Text" with network 10 "Bot".
func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	applog.SetOutput(io.Discard, "aifinder-test")

	cfg := testConfig()
	db, err := repos.OpenDB(cfg.DatabaseURL, false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.MustExec(`
	INSERT INTO neuro_categories(category_id, category_name) VALUES (1,'Text'),(2,'Images');
	INSERT INTO neural_networks(neuro_id, name, description, category_id) VALUES
	  (10,'Bot','Chat assistant',1),
	  (11,'Painter','Draws pictures',2);
	`)
	app, err := apphttp.NewApp(cfg, db, metrics.New())
	require.NoError(t, err)
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func doForm(t *testing.T, app *fiber.App, path string, form url.Values) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func register(t *testing.T, app *fiber.App, email string) int64 {
	t.Helper()
	resp, body := doJSON(t, app, "POST", "/api/v1/auth/register", map[string]string{
		"email": email, "username": "tester", "password": "correct-horse",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))
	var out struct {
		UserID int64 `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	return out.UserID
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field"`
}

func decodeError(t *testing.T, body []byte) errorBody {
	t.Helper()
	var e errorBody
	require.NoError(t, json.Unmarshal(body, &e), string(body))
	return e
}

type logEntry struct {
	Level  string `json:"level"`
	Action string `json:"action"`
	Status int    `json:"status"`
	ReqID  string `json:"req_id"`
}

type lockedWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

// captureLogs redirects the process logger for the duration of fn and
// returns the parsed entries plus the raw output.
func captureLogs(t *testing.T, fn func()) ([]logEntry, string) {
	t.Helper()
	w := &lockedWriter{}
	applog.SetOutput(w, "aifinder-test")
	defer applog.SetOutput(io.Discard, "aifinder-test")

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(w.buf.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries, w.buf.String()
}

func findAction(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
