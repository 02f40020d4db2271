package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// Configuration keys shared with the extract command.
const (
	keyCredentials   = "credentials"
	keyUser          = "user"
	keyScopes        = "scopes"
	keyQuery         = "query"
	keyOutput        = "output"
	keyExportMimeMap = "export_mime_map"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
	Long: `Read and write drive-etl configuration.

Keys:
  credentials                   path to the service account key file
  user                          identity to act as
  scopes                        comma-separated OAuth scopes
  query                         Drive file query added to every listing
  output                        default output directory
  export_mime_map.<mime type>   export target for a Drive MIME type
  rate.requests_per_second      request pacing (0 disables it)
  rate.burst                    request burst size
  drive.page_size               files requested per listing page`,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store one value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove one value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every value",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	store, err := requireStore()
	if err != nil {
		return err
	}

	val, ok := store.Get(args[0])
	if !ok {
		return fmt.Errorf("config key %q is not set", args[0])
	}
	cmd.Println(formatValue(val))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	store, err := requireStore()
	if err != nil {
		return err
	}

	key, raw := args[0], args[1]
	if err := store.Set(key, parseValue(key, raw)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	cmd.Printf("%s = %s\n", key, formatValue(parseValue(key, raw)))
	return nil
}

// unsetter is implemented by stores that can delete keys.
type unsetter interface {
	Unset(key string) error
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	store, err := requireStore()
	if err != nil {
		return err
	}

	u, ok := store.(unsetter)
	if !ok {
		return fmt.Errorf("config store does not support unset")
	}
	if err := u.Unset(args[0]); err != nil {
		return fmt.Errorf("unset %s: %w", args[0], err)
	}
	cmd.Printf("%s unset\n", args[0])
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	store, err := requireStore()
	if err != nil {
		return err
	}

	keys := store.Keys()
	if len(keys) == 0 {
		cmd.Println("No configuration set.")
		return nil
	}
	for _, key := range keys {
		val, _ := store.Get(key)
		cmd.Printf("%s = %s\n", key, formatValue(val))
	}
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	store, err := requireStore()
	if err != nil {
		return err
	}
	cmd.Println(store.Path())
	return nil
}

// parseValue types a raw CLI value. Scopes are comma-separated lists;
// numbers are stored as numbers so TOML keeps their type.
func parseValue(key, raw string) any {
	if key == keyScopes {
		return splitList(raw)
	}
	if strings.HasPrefix(key, keyExportMimeMap+".") {
		return raw
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

func formatValue(val any) string {
	switch v := val.(type) {
	case []string:
		return strings.Join(v, ",")
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
