package drive

import (
	"fmt"
	"strings"
)

// DefaultFileQuery selects every file that is not in the trash.
const DefaultFileQuery = "trashed = false"

var queryEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// BuildQuery returns the listing query for the direct children of folderID.
// An empty fileQuery falls back to DefaultFileQuery. fileQuery is
// parenthesised so an "or" in it stays inside the folder.
func BuildQuery(folderID, fileQuery string) string {
	if strings.TrimSpace(fileQuery) == "" {
		fileQuery = DefaultFileQuery
	}
	return fmt.Sprintf("'%s' in parents and (%s)", EscapeQueryValue(folderID), fileQuery)
}

// EscapeQueryValue escapes a value for use inside a quoted query string.
func EscapeQueryValue(v string) string {
	return queryEscaper.Replace(v)
}
