package moviedetails

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/blakestevenson/moviedetails/internal/configstore"
	"github.com/blakestevenson/moviedetails/internal/omdb"
	"github.com/blakestevenson/moviedetails/internal/plugins"
	"github.com/blakestevenson/moviedetails/internal/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const shawshankJSON = `{"Title":"The Shawshank Redemption","Year":"1994","Genre":"Drama","Director":"Frank Darabont","imdbRating":"9.3","imdbID":"tt0111161","Poster":"http://example/x.jpg","Response":"True"}`

const shawshankBlock = "---\nYear: 1994\nGenre: \n  - Drama\n\nDirector: Frank Darabont\nIMDB ID: tt0111161\nRating: 9.3\nPoster: http://example/x.jpg\n---"

type fixture struct {
	manager *plugins.PluginManager
	plugin  *Plugin
	vault   *vault.Vault
	store   *configstore.Store

	mu      sync.Mutex
	queries []string
}

func (f *fixture) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func newFixture(t *testing.T, status int, body string) *fixture {
	t.Helper()

	f := &fixture{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.queries = append(f.queries, r.URL.RawQuery)
		f.mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "The Shawshank Redemption.md"), []byte("Great film.\n"), 0o644))

	v, err := vault.Open(root, zap.NewNop())
	require.NoError(t, err)

	f.vault = v
	f.store = configstore.New(configstore.NewFileBackend(filepath.Join(t.TempDir(), "data.json")))
	f.plugin = New(omdb.NewClient(srv.URL+"/", zap.NewNop()), "", zap.NewNop())
	f.manager = plugins.NewPluginManager(f.store, v, zap.NewNop())

	require.NoError(t, f.manager.Load(context.Background(), f.plugin))
	t.Cleanup(f.manager.Shutdown)

	return f
}

func (f *fixture) open(t *testing.T) *vault.Document {
	t.Helper()
	doc, err := f.vault.OpenDocument("The Shawshank Redemption.md")
	require.NoError(t, err)
	return doc
}

func (f *fixture) lastNotice(t *testing.T) string {
	t.Helper()
	notices := f.vault.Notices()
	require.NotEmpty(t, notices)
	return notices[len(notices)-1].Message
}

func content(t *testing.T, doc *vault.Document) string {
	t.Helper()
	c, err := doc.Content()
	require.NoError(t, err)
	return c
}

func TestRegistersCommands(t *testing.T) {
	f := newFixture(t, http.StatusOK, shawshankJSON)

	cmds := f.manager.Commands()
	require.Len(t, cmds, 2)
	assert.Equal(t, CommandFetchByID, cmds[0].ID)
	assert.Equal(t, CommandFetchByTitle, cmds[1].ID)
}

func TestFetchByTitleInsertsAtTop(t *testing.T) {
	f := newFixture(t, http.StatusOK, shawshankJSON)
	ctx := context.Background()
	require.NoError(t, f.plugin.UpdateAPIKey(ctx, "secret"))

	doc := f.open(t)
	require.NoError(t, f.manager.Execute(ctx, CommandFetchByTitle, nil))

	assert.Equal(t, []string{"t=The+Shawshank+Redemption&apikey=secret"}, f.seen())
	assert.Equal(t, shawshankBlock+"\nGreat film.\n", content(t, doc))
	assert.Equal(t, plugins.Position{}, doc.Cursor())
	assert.Equal(t, "Movie details inserted", f.lastNotice(t))
}

func TestInsertedFrontMatterIsClosed(t *testing.T) {
	f := newFixture(t, http.StatusOK, shawshankJSON)
	ctx := context.Background()
	require.NoError(t, f.plugin.UpdateAPIKey(ctx, "secret"))

	doc := f.open(t)
	require.NoError(t, f.manager.Execute(ctx, CommandFetchByTitle, nil))

	lines := strings.Split(content(t, doc), "\n")
	require.Equal(t, "---", lines[0])

	closing := -1
	for i := 1; i < len(lines); i++ {
		if lines[i] == "---" {
			closing = i
			break
		}
	}
	require.Greater(t, closing, 0, "front matter is never closed")

	var meta map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(strings.Join(lines[1:closing], "\n")), &meta))
	assert.Equal(t, "tt0111161", meta["IMDB ID"])
	assert.Equal(t, []interface{}{"Drama"}, meta["Genre"])

	assert.Equal(t, "Great film.\n", strings.Join(lines[closing+1:], "\n"))
}

func TestFetchByIDUsesIdentifier(t *testing.T) {
	f := newFixture(t, http.StatusOK, shawshankJSON)
	ctx := context.Background()
	require.NoError(t, f.plugin.UpdateAPIKey(ctx, "secret"))

	doc := f.open(t)
	require.NoError(t, f.manager.Execute(ctx, CommandFetchByID, map[string]string{ArgIdentifier: "tt0111161"}))

	assert.Equal(t, []string{"i=tt0111161&apikey=secret"}, f.seen())
	assert.True(t, strings.HasPrefix(content(t, doc), shawshankBlock))
}

func TestFetchByIDRequiresIdentifier(t *testing.T) {
	f := newFixture(t, http.StatusOK, shawshankJSON)
	ctx := context.Background()
	require.NoError(t, f.plugin.UpdateAPIKey(ctx, "secret"))
	f.open(t)

	err := f.manager.Execute(ctx, CommandFetchByID, nil)
	assert.ErrorIs(t, err, plugins.ErrMissingArgument)
	assert.Empty(t, f.seen())
}

func TestNonSuccessStatusLeavesDocumentUnchanged(t *testing.T) {
	f := newFixture(t, http.StatusUnauthorized, `{"Response":"False","Error":"Invalid API key!"}`)
	ctx := context.Background()
	require.NoError(t, f.plugin.UpdateAPIKey(ctx, "wrong"))

	doc := f.open(t)
	err := f.manager.Execute(ctx, CommandFetchByTitle, nil)

	var statusErr *omdb.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, "Great film.\n", content(t, doc))
	assert.Contains(t, f.lastNotice(t), "401")
}

func TestLookupFailureLeavesDocumentUnchanged(t *testing.T) {
	f := newFixture(t, http.StatusOK, `{"Response":"False","Error":"Movie not found!"}`)
	ctx := context.Background()
	require.NoError(t, f.plugin.UpdateAPIKey(ctx, "secret"))

	doc := f.open(t)
	err := f.manager.Execute(ctx, CommandFetchByTitle, nil)

	require.Error(t, err)
	assert.Equal(t, "Great film.\n", content(t, doc))
	assert.Contains(t, f.lastNotice(t), "Movie not found!")
}

func TestNoActiveDocument(t *testing.T) {
	f := newFixture(t, http.StatusOK, shawshankJSON)
	ctx := context.Background()
	require.NoError(t, f.plugin.UpdateAPIKey(ctx, "secret"))

	err := f.manager.Execute(ctx, CommandFetchByTitle, nil)

	assert.ErrorIs(t, err, plugins.ErrNoActiveDocument)
	assert.Equal(t, "No active document", f.lastNotice(t))
	assert.Empty(t, f.seen())
}

func TestPlaceholderKeySkipsRequest(t *testing.T) {
	f := newFixture(t, http.StatusOK, shawshankJSON)
	doc := f.open(t)

	assert.Equal(t, DefaultAPIKey, f.plugin.Settings().APIKey)

	err := f.manager.Execute(context.Background(), CommandFetchByTitle, nil)
	assert.ErrorIs(t, err, ErrAPIKeyNotConfigured)
	assert.Empty(t, f.seen())
	assert.Equal(t, "Great film.\n", content(t, doc))
}

func TestSettingsPersistAcrossLoads(t *testing.T) {
	f := newFixture(t, http.StatusOK, shawshankJSON)
	ctx := context.Background()
	require.NoError(t, f.plugin.UpdateAPIKey(ctx, " persisted "))

	stored, err := f.store.GetString(ctx, APIKeySetting)
	require.NoError(t, err)
	assert.Equal(t, "persisted", stored)

	reloaded := New(omdb.NewClient("", zap.NewNop()), "ignored-seed", zap.NewNop())
	manager := plugins.NewPluginManager(f.store, f.vault, zap.NewNop())
	require.NoError(t, manager.Load(ctx, reloaded))

	assert.Equal(t, "persisted", reloaded.Settings().APIKey)
	assert.True(t, reloaded.Settings().Configured())
}

func TestSeedKeyUsedWhenStoreEmpty(t *testing.T) {
	store := configstore.New(configstore.NewFileBackend(filepath.Join(t.TempDir(), "data.json")))
	v, err := vault.Open(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	p := New(omdb.NewClient("", zap.NewNop()), "from-env", zap.NewNop())
	require.NoError(t, plugins.NewPluginManager(store, v, zap.NewNop()).Load(context.Background(), p))

	assert.Equal(t, "from-env", p.Settings().APIKey)
}
