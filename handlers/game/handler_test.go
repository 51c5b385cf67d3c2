package game

import (
	"bytes"
	"encoding/json"
	"flag"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli"

	"github.com/gamelib-io/web-ui/models"
	"github.com/gamelib-io/web-ui/services/igdb"
	"github.com/gamelib-io/web-ui/services/metadata"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	set := flag.NewFlagSet("test", 0)
	set.String("igdb-client-id", "", "")
	set.String("igdb-client-secret", "", "")
	set.String("ratings-path", filepath.Join(t.TempDir(), "absent.csv"), "")
	c := cli.NewContext(cli.NewApp(), set, nil)
	provider := metadata.New(c, igdb.New(c, http.DefaultClient))

	r := gin.New()
	RegisterHandler(r, provider)
	return r
}

func uploadRequest(t *testing.T, payload string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "games.txt")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(payload)); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/games/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	r := testRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestUpload(t *testing.T) {
	r := testRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "Steam: Portal 2 | PC\n# comment\n\nHades\n"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var collection models.GameCollection
	if err := json.Unmarshal(w.Body.Bytes(), &collection); err != nil {
		t.Fatal(err)
	}
	if len(collection.Games) != 2 {
		t.Fatalf("got %d games, want 2", len(collection.Games))
	}
	first := collection.Games[0]
	if first.Title != "Portal 2" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Source == nil || *first.Source != "Steam" {
		t.Errorf("source = %v, want Steam", first.Source)
	}
	if first.Platform == nil || *first.Platform != "PC" {
		t.Errorf("platform = %v, want PC", first.Platform)
	}
	if first.Description == "" {
		t.Error("resolved game must carry a description")
	}
	if first.Status != models.StatusNotAllocated {
		t.Errorf("status = %q", first.Status)
	}
}

func TestUploadMissingFile(t *testing.T) {
	r := testRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/games/upload", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestUploadEmptyFile(t *testing.T) {
	r := testRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, ""))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestUploadNoParseableLines(t *testing.T) {
	r := testRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "# only comments\n\n   \n"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "no games were detected") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestUploadBinaryFile(t *testing.T) {
	r := testRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, string([]byte{0xff, 0xfe, 0x00, 0x81})))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestCreate(t *testing.T) {
	r := testRouter(t)
	w := httptest.NewRecorder()
	body := strings.NewReader(`{"title":"Celeste","platform":"Switch"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/games/create", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var game models.Game
	if err := json.Unmarshal(w.Body.Bytes(), &game); err != nil {
		t.Fatal(err)
	}
	if game.Title != "Celeste" {
		t.Errorf("title = %q", game.Title)
	}
	if game.Source == nil || *game.Source != "Switch" {
		t.Errorf("source = %v, want platform default", game.Source)
	}
}

func TestCreateBlankTitle(t *testing.T) {
	r := testRouter(t)
	for _, body := range []string{`{"title":""}`, `{"title":"   "}`, `{}`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/games/create", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, w.Code)
		}
	}
}

func TestSearchWithoutCatalog(t *testing.T) {
	r := testRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/games/search", strings.NewReader(`{"title":"Hades"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 without catalog matches", w.Code)
	}
}

func TestCandidatesWithoutCatalog(t *testing.T) {
	r := testRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/games/candidates", strings.NewReader(`{"title":"Hades"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var collection models.GameCollection
	if err := json.Unmarshal(w.Body.Bytes(), &collection); err != nil {
		t.Fatal(err)
	}
	if len(collection.Games) != 1 {
		t.Fatalf("got %d candidates, want single placeholder", len(collection.Games))
	}
}

func TestSample(t *testing.T) {
	r := testRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/games/sample", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var collection models.GameCollection
	if err := json.Unmarshal(w.Body.Bytes(), &collection); err != nil {
		t.Fatal(err)
	}
	if len(collection.Games) != 5 {
		t.Fatalf("got %d sample games, want 5", len(collection.Games))
	}
	if collection.Games[0].Title != "Elden Ring" {
		t.Errorf("first sample = %q", collection.Games[0].Title)
	}
}
