package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pe-collective-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

type fakeSheetsAPI struct {
	titles   []string
	appended [][]interface{}
	query    map[string]string
	failWith int
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/v4/spreadsheets/sheet-1":
		var sheets []map[string]any
		for _, title := range f.titles {
			sheets = append(sheets, map[string]any{"properties": map[string]any{"title": title}})
		}
		json.NewEncoder(w).Encode(map[string]any{"sheets": sheets})

	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
		if f.failWith != 0 {
			w.WriteHeader(f.failWith)
			msg := "Internal error"
			if f.failWith == http.StatusBadRequest {
				msg = "Unable to parse range: 'Gone'!A1"
			}
			json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": f.failWith, "message": msg}})
			return
		}
		var body struct {
			Values [][]interface{} `json:"values"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.appended = append(f.appended, body.Values...)
		f.query = map[string]string{
			"valueInputOption": r.URL.Query().Get("valueInputOption"),
			"insertDataOption": r.URL.Query().Get("insertDataOption"),
			"path":             r.URL.Path,
		}
		json.NewEncoder(w).Encode(map[string]any{"spreadsheetId": "sheet-1"})

	default:
		http.NotFound(w, r)
	}
}

func newTestRepository(t *testing.T, api *fakeSheetsAPI) *SheetRepository {
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	repo, err := NewSheetRepository(context.Background(), "sheet-1",
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	return repo
}

func TestSheetRepository_SheetExists(t *testing.T) {
	repo := newTestRepository(t, &fakeSheetsAPI{titles: []string{"Leads", "Members"}})
	ctx := context.Background()

	exists, err := repo.SheetExists(ctx, "Members")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.SheetExists(ctx, "members")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSheetRepository_AppendRow(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		api := &fakeSheetsAPI{titles: []string{"Members"}}
		repo := newTestRepository(t, api)

		row := []string{"Test", "User", "test@example.com", "", "", "", "02/14/2026"}
		require.NoError(t, repo.AppendRow(ctx, "Members", row))

		require.Len(t, api.appended, 1)
		assert.Equal(t, []interface{}{"Test", "User", "test@example.com", "", "", "", "02/14/2026"}, api.appended[0])
		assert.Equal(t, "RAW", api.query["valueInputOption"])
		assert.Equal(t, "INSERT_ROWS", api.query["insertDataOption"])
		assert.Contains(t, api.query["path"], "'Members'!A1")
	})

	t.Run("Missing tab", func(t *testing.T) {
		repo := newTestRepository(t, &fakeSheetsAPI{failWith: http.StatusBadRequest})

		err := repo.AppendRow(ctx, "Gone", []string{"a"})
		assert.ErrorIs(t, err, repository.ErrSheetNotFound)
		assert.Contains(t, err.Error(), `"Gone"`)
	})

	t.Run("Server error", func(t *testing.T) {
		repo := newTestRepository(t, &fakeSheetsAPI{failWith: http.StatusInternalServerError})

		err := repo.AppendRow(ctx, "Members", []string{"a"})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, repository.ErrSheetNotFound)
		assert.Contains(t, err.Error(), "failed to append row")
	})
}

func TestA1Range(t *testing.T) {
	assert.Equal(t, "'Members'!A1", a1Range("Members"))
	assert.Equal(t, "'Bob''s Sheet'!A1", a1Range("Bob's Sheet"))
}
