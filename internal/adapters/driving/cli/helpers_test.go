package cli

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/custodia-labs/drive-etl/internal/core/domain"
	"github.com/custodia-labs/drive-etl/internal/core/ports/driven"
	"github.com/custodia-labs/drive-etl/internal/core/ports/driving"
	"github.com/custodia-labs/drive-etl/internal/stream"
)

// memStore is an in-memory driven.ConfigStore.
type memStore struct {
	data map[string]any
}

func newMemStore(kv map[string]any) *memStore {
	if kv == nil {
		kv = make(map[string]any)
	}
	return &memStore{data: kv}
}

func (m *memStore) Get(key string) (any, bool) { v, ok := m.data[key]; return v, ok }

func (m *memStore) GetString(key string) string {
	s, _ := m.data[key].(string)
	return s
}

func (m *memStore) GetFloat(key string) float64 {
	f, _ := m.data[key].(float64)
	return f
}

func (m *memStore) GetInt(key string) int {
	switch v := m.data[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func (m *memStore) GetStringSlice(key string) []string {
	s, _ := m.data[key].([]string)
	return s
}

func (m *memStore) GetStringMap(prefix string) map[string]string {
	var out map[string]string
	for k, v := range m.data {
		sub, ok := strings.CutPrefix(k, prefix+".")
		s, isStr := v.(string)
		if !ok || !isStr {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[sub] = s
	}
	return out
}

func (m *memStore) Keys() []string {
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *memStore) Set(key string, value any) error { m.data[key] = value; return nil }
func (m *memStore) Unset(key string) error          { delete(m.data, key); return nil }
func (m *memStore) Load() error                     { return nil }
func (m *memStore) Path() string                    { return "/tmp/drive-etl/config.toml" }

// fakeExtractor implements driving.Extractor by replaying results.
type fakeExtractor struct {
	results   []domain.InputRecord
	startErr  error
	streamErr error

	folderID string
	userID   string
	opts     driving.ExtractOptions
}

func (f *fakeExtractor) ExtractTransform(
	ctx context.Context, folderID, userID string, opts driving.ExtractOptions,
) (*stream.Stage, error) {
	f.folderID, f.userID, f.opts = folderID, userID, opts
	if f.startErr != nil {
		return nil, f.startErr
	}

	stage := stream.New(ctx, opts.Transformer)
	go func() {
		for _, in := range f.results {
			if err := stage.Write(ctx, in); err != nil {
				return
			}
		}
		if f.streamErr != nil {
			stage.Fail(f.streamErr)
			return
		}
		stage.End()
	}()
	return stage, nil
}

func (f *fakeExtractor) Load(
	ctx context.Context, folderID, userID string, opts driving.ExtractOptions,
) ([]domain.ResultRecord, error) {
	stage, err := f.ExtractTransform(ctx, folderID, userID, opts)
	if err != nil {
		return nil, err
	}
	return stage.Collect(ctx)
}

// wiring captures what runExtract handed to the services.
type wiring struct {
	store   driven.ConfigStore
	keyFile string
	dir     string
}

// setup installs services backed by store and ext, and resets flag state.
func setup(t *testing.T, store *memStore, ext *fakeExtractor) *wiring {
	t.Helper()
	w := &wiring{}

	old := services
	SetServices(&Services{
		OpenConfigStore: func(dir string) (driven.ConfigStore, error) {
			w.dir = dir
			if store == nil {
				return nil, nil
			}
			return store, nil
		},
		NewExtractor: func(s driven.ConfigStore, keyFile string) driving.Extractor {
			w.store, w.keyFile = s, keyFile
			return ext
		},
		ExportDefaults: func() map[string]string {
			return map[string]string{
				"application/vnd.google-apps.document":    "text/plain",
				"application/vnd.google-apps.spreadsheet": "application/pdf",
			}
		},
	})

	t.Cleanup(func() {
		services = old
		resetFlags()
		rootCmd.SetArgs(nil)
	})
	resetFlags()
	return w
}

func resetFlags() {
	extractUser, extractQuery, extractOutput = "", "", ""
	extractScopes, extractExport = nil, nil
	extractExportDefaults, extractNoConvert, extractPlain = false, false, false
	extractCredentials, extractAccessToken = "", ""
	verbose, configDir = false, ""

	for _, name := range []string{
		"user", "query", "scope", "output", "export", "export-defaults",
		"credentials", "access-token", "no-convert", "plain",
	} {
		extractCmd.Flags().Lookup(name).Changed = false
	}
	for _, name := range []string{"verbose", "config-dir"} {
		rootCmd.PersistentFlags().Lookup(name).Changed = false
	}
}

func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}
