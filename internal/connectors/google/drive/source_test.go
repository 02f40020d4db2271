package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/custodia-labs/drive-etl/internal/connectors/google"
	"github.com/custodia-labs/drive-etl/internal/core/domain"
)

// fakeDrive serves the subset of the Drive v3 API a Source uses.
type fakeDrive struct {
	mu       sync.Mutex
	pages    [][]map[string]string
	contents map[string][]byte
	status   map[string]int
	listCode int
	queries  []url.Values
	paths    []string
	auth     []string
}

func (f *fakeDrive) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, r.URL.Query())
	f.paths = append(f.paths, r.URL.Path)
	f.auth = append(f.auth, r.Header.Get("Authorization"))
}

func (f *fakeDrive) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /files", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		if f.listCode != 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.listCode)
			fmt.Fprintf(w, `{"error":{"code":%d,"message":"denied","errors":[{"reason":"userRateLimitExceeded","message":"denied"}]}}`, f.listCode)
			return
		}
		idx := 0
		if tok := r.URL.Query().Get("pageToken"); tok != "" {
			idx, _ = strconv.Atoi(tok)
		}
		resp := map[string]any{"files": []map[string]string{}}
		if idx < len(f.pages) {
			resp["files"] = f.pages[idx]
		}
		if idx+1 < len(f.pages) {
			resp["nextPageToken"] = strconv.Itoa(idx + 1)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})

	serve := func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		id := r.PathValue("id")
		if code, ok := f.status[id]; ok {
			http.Error(w, "backend error", code)
			return
		}
		data, ok := f.contents[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}
	mux.HandleFunc("GET /files/{id}", serve)
	mux.HandleFunc("GET /files/{id}/export", serve)

	return mux
}

func newTestSource(t *testing.T, f *fakeDrive) *Source {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	svc, err := drive.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.RateLimit = google.RateLimitConfig{}
	return NewSource(svc, cfg)
}

func TestSource_List_FollowsPagesInOrder(t *testing.T) {
	f := &fakeDrive{pages: [][]map[string]string{
		{
			{"id": "1", "name": "0.passthru", "mimeType": "some/type"},
			{"id": "2", "name": "1.passthru", "mimeType": "some/type"},
		},
		{
			{"id": "3", "name": "2.bin", "mimeType": "application/octet-stream", "fullFileExtension": "bin"},
		},
	}}
	src := newTestSource(t, f)

	files, err := src.List(context.Background(), "folder-1", "")

	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{files[0].ID, files[1].ID, files[2].ID})
	assert.Equal(t, "bin", files[2].FullFileExtension)
	assert.True(t, files[2].IsBinary())

	require.Len(t, f.queries, 2)
	q := f.queries[0]
	assert.Equal(t, "'folder-1' in parents and (trashed = false)", q.Get("q"))
	assert.Equal(t, "true", q.Get("includeItemsFromAllDrives"))
	assert.Equal(t, "true", q.Get("supportsAllDrives"))
	assert.Equal(t, "drive", q.Get("spaces"))
	assert.Equal(t, "100", q.Get("pageSize"))
	assert.Equal(t, string(listFields), q.Get("fields"))
	assert.Equal(t, "1", f.queries[1].Get("pageToken"))
}

func TestSource_List_CustomQuery(t *testing.T) {
	f := &fakeDrive{pages: [][]map[string]string{{}}}
	src := newTestSource(t, f)

	files, err := src.List(context.Background(), "f", `mimeType = "application/vnd.google-apps.document"`)

	require.NoError(t, err)
	assert.Empty(t, files)
	assert.Equal(t, `'f' in parents and (mimeType = "application/vnd.google-apps.document")`, f.queries[0].Get("q"))
}

func TestSource_List_Error(t *testing.T) {
	f := &fakeDrive{listCode: http.StatusForbidden}
	src := newTestSource(t, f)

	_, err := src.List(context.Background(), "folder-1", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrList)
	assert.True(t, google.IsForbidden(err))

	status, _ := domain.FieldOf(err, "status")
	assert.Equal(t, "forbidden", status)
	reasons, _ := domain.FieldOf(err, "reasons")
	assert.Equal(t, "userRateLimitExceeded", reasons)
	query, _ := domain.FieldOf(err, "query")
	assert.Equal(t, "'folder-1' in parents and (trashed = false)", query)
}

func TestSource_Fetch_Get(t *testing.T) {
	f := &fakeDrive{contents: map[string][]byte{"101010": []byte("myspecialtestchunk")}}
	src := newTestSource(t, f)

	rec, err := src.Fetch(context.Background(), domain.FileDescriptor{
		ID: "101010", Name: "mockFile.mockExt", MIMEType: "some/type",
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "mockFile", rec.Name)
	assert.Equal(t, ".mockExt", rec.Ext)
	assert.Equal(t, "myspecialtestchunk", rec.Text())
	assert.False(t, rec.Binary)
	assert.Equal(t, domain.FetchGet, rec.DownloadMeta.Method)
	assert.Equal(t, map[string]string{"fileId": "101010", "alt": "media"}, rec.DownloadMeta.Parameters)

	assert.Equal(t, "/files/101010", f.paths[0])
	assert.Equal(t, "media", f.queries[0].Get("alt"))
}

func TestSource_Fetch_BinaryUsesFullFileExtension(t *testing.T) {
	raw := []byte{0xff, 0xd8, 0xff, 0x00, 0xfe}
	f := &fakeDrive{contents: map[string][]byte{"567": raw}}
	src := newTestSource(t, f)

	rec, err := src.Fetch(context.Background(), domain.FileDescriptor{
		ID: "567", Name: "photo.jpeg", MIMEType: "image/jpeg", FullFileExtension: "bin",
	}, nil)

	require.NoError(t, err)
	assert.True(t, rec.Binary)
	assert.Equal(t, "photo", rec.Name)
	assert.Equal(t, ".bin", rec.Ext)
	assert.Equal(t, raw, rec.Data)
}

func TestSource_Fetch_TextIsDecodedAsUTF8(t *testing.T) {
	f := &fakeDrive{contents: map[string][]byte{"1": {'o', 'k', 0xff}}}
	src := newTestSource(t, f)

	rec, err := src.Fetch(context.Background(), domain.FileDescriptor{ID: "1", Name: "a.txt"}, nil)

	require.NoError(t, err)
	assert.Equal(t, "ok\uFFFD", rec.Text())
}

func TestSource_Fetch_Export(t *testing.T) {
	f := &fakeDrive{contents: map[string][]byte{"234": []byte("exported text")}}
	src := newTestSource(t, f)
	exportMimeMap := map[string]string{MimeTypeGoogleDoc: ExportMimeText}

	rec, err := src.Fetch(context.Background(), domain.FileDescriptor{
		ID: "234", Name: "0.doc", MIMEType: MimeTypeGoogleDoc,
	}, exportMimeMap)

	require.NoError(t, err)
	assert.Equal(t, domain.FetchExport, rec.DownloadMeta.Method)
	assert.Equal(t, "text/plain", rec.DownloadMeta.Parameters["mimeType"])
	assert.Equal(t, "234", rec.DownloadMeta.Parameters["fileId"])
	assert.NotContains(t, rec.DownloadMeta.Parameters, "alt")
	assert.Equal(t, "exported text", rec.Text())

	assert.Equal(t, "/files/234/export", f.paths[0])
	assert.Equal(t, "text/plain", f.queries[0].Get("mimeType"))
}

func TestSource_Fetch_ExportFallsBackToOwnMimeType(t *testing.T) {
	f := &fakeDrive{contents: map[string][]byte{"345": []byte("x")}}
	src := newTestSource(t, f)

	rec, err := src.Fetch(context.Background(), domain.FileDescriptor{
		ID: "345", Name: "1.bin", MIMEType: "image/jpeg",
	}, map[string]string{MimeTypeGoogleDoc: ExportMimeText})

	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", rec.DownloadMeta.Parameters["mimeType"])
}

func TestSource_Fetch_Error(t *testing.T) {
	f := &fakeDrive{status: map[string]int{"456": http.StatusInternalServerError}}
	src := newTestSource(t, f)

	_, err := src.Fetch(context.Background(), domain.FileDescriptor{
		ID: "456", Name: "b.json", MIMEType: "application/json",
	}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFetch)
	assert.Equal(t, http.StatusInternalServerError, google.StatusCode(err))

	for key, want := range map[string]any{
		"fileName":          "b.json",
		"fileId":            "456",
		"mimeType":          "application/json",
		"fullFileExtension": "",
		"method":            domain.FetchGet,
		"status":            "Internal Server Error",
	} {
		got, ok := domain.FieldOf(err, key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
}

func TestSource_Fetch_CancelledContext(t *testing.T) {
	f := &fakeDrive{contents: map[string][]byte{"1": []byte("x")}}
	src := newTestSource(t, f)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Fetch(ctx, domain.FileDescriptor{ID: "1", Name: "a.txt"}, nil)

	assert.ErrorIs(t, err, domain.ErrFetch)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewSourceFactory_UsesCredential(t *testing.T) {
	f := &fakeDrive{pages: [][]map[string]string{{{"id": "1", "name": "a.md"}}}}
	srv := httptest.NewServer(f.handler())
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.RateLimit = google.RateLimitConfig{}
	factory := NewSourceFactory(cfg, option.WithEndpoint(srv.URL+"/"))

	src, err := factory.NewSource(context.Background(), google.StaticToken("tok-1"))
	require.NoError(t, err)

	files, err := src.List(context.Background(), "folder", "")
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, "Bearer tok-1", f.auth[0])
}
