package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/drive-etl/internal/adapters/driving/tui"
	"github.com/custodia-labs/drive-etl/internal/connectors/google"
	"github.com/custodia-labs/drive-etl/internal/converters"
	"github.com/custodia-labs/drive-etl/internal/core/ports/driven"
	"github.com/custodia-labs/drive-etl/internal/core/ports/driving"
	"github.com/custodia-labs/drive-etl/internal/stream"
)

var (
	extractUser           string
	extractQuery          string
	extractScopes         []string
	extractOutput         string
	extractExport         map[string]string
	extractExportDefaults bool
	extractCredentials    string
	extractAccessToken    string
	extractNoConvert      bool
	extractPlain          bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <folder-id>",
	Short: "Extract and transform every file in a Drive folder",
	Long: `Lists the files directly inside a Drive folder and downloads them strictly one
at a time, converting each on the way (.md to .html, .json compacted).

Without --output every result is printed to stdout as one JSON line. With
--output each result is written to <output>/<name><ext>; the directory must
already exist.

Values not given as flags are read from the config file; the key file falls
back to the SVC_ACCT_CREDENTIALS environment variable.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	f := extractCmd.Flags()
	f.StringVarP(&extractUser, "user", "u", "", "identity to act as (config: user)")
	f.StringVarP(&extractQuery, "query", "q", "", `Drive file query (default "trashed = false")`)
	f.StringSliceVar(&extractScopes, "scope", nil, "OAuth scopes (default drive.readonly)")
	f.StringVarP(&extractOutput, "output", "o", "", "write results to this existing directory")
	f.StringToStringVar(&extractExport, "export", nil, "export mode: source MIME type=target MIME type")
	f.BoolVar(&extractExportDefaults, "export-defaults", false, "export Google Workspace files with the default formats")
	f.StringVar(&extractCredentials, "credentials", "", "service account key file (config: credentials)")
	f.StringVar(&extractAccessToken, "access-token", "", "use this OAuth access token instead of the key file")
	f.BoolVar(&extractNoConvert, "no-convert", false, "pass every file through unchanged")
	f.BoolVar(&extractPlain, "plain", false, "print one line per file instead of the progress view")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if services == nil || services.NewExtractor == nil {
		return errors.New("extract service not configured")
	}
	folderID := args[0]

	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}

	opts, err := extractOptions(cmd, store)
	if err != nil {
		return err
	}
	userID := stringSetting(cmd, "user", extractUser, store, keyUser)
	keyFile := stringSetting(cmd, "credentials", extractCredentials, store, keyCredentials)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	extractor := services.NewExtractor(store, keyFile)
	stage, err := extractor.ExtractTransform(ctx, folderID, userID, opts)
	if err != nil {
		return err
	}

	switch {
	case opts.OutputDirectory == "":
		return writeJSONLines(cmd.OutOrStdout(), stage)
	case !extractPlain && isTerminal(cmd.OutOrStdout()):
		return showProgress(stage, cancel, folderID, opts.OutputDirectory)
	default:
		return writeSummary(cmd, stage, opts.OutputDirectory)
	}
}

// extractOptions merges flags over config values.
func extractOptions(cmd *cobra.Command, store driven.ConfigStore) (driving.ExtractOptions, error) {
	opts := driving.ExtractOptions{
		FileQuery:       stringSetting(cmd, "query", extractQuery, store, keyQuery),
		OutputDirectory: stringSetting(cmd, "output", extractOutput, store, keyOutput),
		Transformer:     converters.Default().Transform,
	}

	opts.Scopes = extractScopes
	if !cmd.Flags().Changed("scope") && store != nil {
		opts.Scopes = store.GetStringSlice(keyScopes)
	}

	if extractNoConvert {
		opts.Transformer = driven.PassthroughTransformer
	}

	if extractAccessToken != "" {
		opts.Auth = google.StaticToken(extractAccessToken)
	}

	exportMap, err := exportMimeMap(store)
	if err != nil {
		return opts, err
	}
	opts.ExportMimeMap = exportMap

	return opts, nil
}

// exportMimeMap layers --export over config over --export-defaults.
// It returns nil, selecting plain downloads, when none of them is set.
func exportMimeMap(store driven.ConfigStore) (map[string]string, error) {
	var m map[string]string
	merge := func(src map[string]string) {
		if len(src) == 0 {
			return
		}
		if m == nil {
			m = make(map[string]string)
		}
		for k, v := range src {
			m[k] = v
		}
	}

	if extractExportDefaults {
		if services.ExportDefaults == nil {
			return nil, errors.New("--export-defaults: no default export formats configured")
		}
		merge(services.ExportDefaults())
	}
	if store != nil {
		merge(store.GetStringMap(keyExportMimeMap))
	}
	merge(extractExport)

	return m, nil
}

// stringSetting returns the flag value when the flag was given, else the config value.
func stringSetting(cmd *cobra.Command, flag, value string, store driven.ConfigStore, key string) string {
	if cmd.Flags().Changed(flag) || store == nil {
		return value
	}
	if v := store.GetString(key); v != "" {
		return v
	}
	return value
}

// writeJSONLines prints each result as it arrives and returns the terminal error.
func writeJSONLines(w io.Writer, stage *stream.Stage) error {
	enc := json.NewEncoder(w)
	for rec := range stage.Results() {
		if err := enc.Encode(rec); err != nil {
			stage.Fail(fmt.Errorf("write result: %w", err))
			return drain(stage)
		}
	}
	return stage.Err()
}

func writeSummary(cmd *cobra.Command, stage *stream.Stage, dir string) error {
	count := 0
	for rec := range stage.Results() {
		count++
		if rec.Converted {
			cmd.Printf("%s -> %s\n", rec.Input.Name+rec.Input.Ext, rec.Output.FileName())
		} else {
			cmd.Println(rec.Output.FileName())
		}
	}
	if err := stage.Err(); err != nil {
		return err
	}
	cmd.Printf("Extracted %d file(s) to %s\n", count, dir)
	return nil
}

func showProgress(stage *stream.Stage, cancel context.CancelFunc, folderID, dir string) error {
	model := tui.NewProgress(stage, cancel, folderID, dir)
	if _, err := tea.NewProgram(model, tea.WithOutput(os.Stderr)).Run(); err != nil {
		cancel()
		_ = drain(stage)
		return fmt.Errorf("progress view: %w", err)
	}
	return model.Err()
}

func drain(stage *stream.Stage) error {
	for range stage.Results() {
	}
	return stage.Err()
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
