package profile

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
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

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSaveLoadDeleteRoundtrip(t *testing.T) {
	r := testRouter(t)
	dir := t.TempDir()

	payload := fmt.Sprintf(`{"directory":%q,"games":[{"title":"Hades","platform":"PC"},{"title":"Celeste"}]}`, dir)
	w := postJSON(t, r, "/api/profile/save", payload)
	if w.Code != http.StatusOK {
		t.Fatalf("save status = %d, body = %s", w.Code, w.Body.String())
	}
	if _, err := os.Stat(filepath.Join(dir, profileFilename)); err != nil {
		t.Fatalf("profile file not written: %v", err)
	}

	w = postJSON(t, r, "/api/profile/load", fmt.Sprintf(`{"directory":%q}`, dir))
	if w.Code != http.StatusOK {
		t.Fatalf("load status = %d, body = %s", w.Code, w.Body.String())
	}
	var collection models.GameCollection
	if err := json.Unmarshal(w.Body.Bytes(), &collection); err != nil {
		t.Fatal(err)
	}
	if len(collection.Games) != 2 {
		t.Fatalf("loaded %d games, want 2", len(collection.Games))
	}
	if collection.Games[0].Title != "Hades" || collection.Games[0].Description == "" {
		t.Errorf("loaded game not re-resolved: %+v", collection.Games[0])
	}

	w = postJSON(t, r, "/api/profile/delete", fmt.Sprintf(`{"directory":%q}`, dir))
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body = %s", w.Code, w.Body.String())
	}
	if _, err := os.Stat(filepath.Join(dir, profileFilename)); !os.IsNotExist(err) {
		t.Error("profile file still present after delete")
	}
}

func TestSaveMissingDirectory(t *testing.T) {
	r := testRouter(t)
	if w := postJSON(t, r, "/api/profile/save", `{"games":[]}`); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestLoadMissingProfile(t *testing.T) {
	r := testRouter(t)
	w := postJSON(t, r, "/api/profile/load", fmt.Sprintf(`{"directory":%q}`, t.TempDir()))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	r := testRouter(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, profileFilename), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	w := postJSON(t, r, "/api/profile/load", fmt.Sprintf(`{"directory":%q}`, dir))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestLoadProfileWithoutGames(t *testing.T) {
	r := testRouter(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, profileFilename), []byte(`[{"title":""}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	w := postJSON(t, r, "/api/profile/load", fmt.Sprintf(`{"directory":%q}`, dir))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestDeleteMissingProfile(t *testing.T) {
	r := testRouter(t)
	w := postJSON(t, r, "/api/profile/delete", fmt.Sprintf(`{"directory":%q}`, t.TempDir()))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
