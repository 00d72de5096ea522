package assets

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed migrations seed_colors.json
var FS embed.FS

// Migration is one embedded SQL file.
type Migration struct {
	Name string // e.g. migrations/sqlite3/001_kv.sql
	SQL  string
}

// Migrations returns the *.sql files for driver in lexical order.
func Migrations(driver string) ([]Migration, error) {
	dir := path.Join("migrations", driver)
	entries, err := fs.ReadDir(FS, dir)
	if err != nil {
		return nil, err
	}
	var out []Migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".sql") {
			continue
		}
		name := path.Join(dir, e.Name())
		b, err := FS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		out = append(out, Migration{Name: name, SQL: string(b)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// SeedColors returns the JSON list of catalog entries a fresh install
// starts from.
func SeedColors() []byte {
	b, _ := FS.ReadFile("seed_colors.json")
	return b
}
