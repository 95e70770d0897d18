// Package assets embeds the game's text resources: the message catalog,
// menus, rules and SQL migrations.
package assets

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed errors.txt menu.txt pause.txt rules.txt sql/*.sql
var FS embed.FS

const (
	ErrorsFile = "errors.txt"
	MenuFile   = "menu.txt"
	PauseFile  = "pause.txt"
	RulesFile  = "rules.txt"

	MigrationsDir = "sql"
)

// Dir returns the embedded assets, or dir on disk when it is set.
func Dir(dir string) fs.FS {
	if dir == "" {
		return FS
	}
	return os.DirFS(dir)
}
