// Package migrate applies the catalog schema to PostgreSQL and tracks which
// versions have run in schema_migrations.
package migrate

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
)

//go:embed sql/*.sql
var embedded embed.FS

// Migration represents a single database migration
type Migration struct {
	Version   int64     // Ordering key, parsed from the file name
	Name      string    // Human-readable name
	Up        string    // SQL to apply
	Down      string    // SQL to rollback
	Applied   bool      // Whether this migration has been applied
	AppliedAt time.Time // When the migration was applied
}

// Embedded returns the catalog schema migrations shipped with the binary.
func Embedded() ([]*Migration, error) {
	sub, err := fs.Sub(embedded, "sql")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// Load reads migrations from the root of fsys. Files are named
// <version>_<name>.up.sql and <version>_<name>.down.sql; the down file is
// optional. The result is sorted by version.
func Load(fsys fs.FS) ([]*Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	byVersion := make(map[int64]*Migration)
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".sql" {
			continue
		}

		version, name, direction, err := parseFileName(entry.Name())
		if err != nil {
			return nil, err
		}

		content, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}

		m, ok := byVersion[version]
		if !ok {
			m = &Migration{Version: version, Name: name}
			byVersion[version] = m
		} else if m.Name != name {
			return nil, fmt.Errorf("migration version %d has two names: %s and %s", version, m.Name, name)
		}

		if direction == "up" {
			m.Up = string(content)
		} else {
			m.Down = string(content)
		}
	}

	migrations := make([]*Migration, 0, len(byVersion))
	for _, m := range byVersion {
		if strings.TrimSpace(m.Up) == "" {
			return nil, fmt.Errorf("migration %d_%s has no up SQL", m.Version, m.Name)
		}
		migrations = append(migrations, m)
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

func parseFileName(file string) (int64, string, string, error) {
	base := strings.TrimSuffix(file, ".sql")
	var direction string
	switch {
	case strings.HasSuffix(base, ".up"):
		direction = "up"
	case strings.HasSuffix(base, ".down"):
		direction = "down"
	default:
		return 0, "", "", fmt.Errorf("migration %s: expected .up.sql or .down.sql", file)
	}
	base = strings.TrimSuffix(base, "."+direction)

	prefix, name, ok := strings.Cut(base, "_")
	if !ok || name == "" {
		return 0, "", "", fmt.Errorf("migration %s: expected <version>_<name>", file)
	}
	version, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return 0, "", "", fmt.Errorf("migration %s: invalid version %q", file, prefix)
	}
	return version, name, direction, nil
}
