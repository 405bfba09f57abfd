package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

const versionLayout = "20060102150405"

var (
	unsafeNameRe  = regexp.MustCompile(`[^a-z0-9_]+`)
	migrationRe   = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)
	requiredMarks = []string{"-- +goose Up", "-- +goose Down"}
)

const sqlTemplate = `-- +goose Up
-- +goose StatementBegin
-- %[1]s
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- rollback %[1]s
-- +goose StatementEnd
`

// slug lowercases name and collapses anything outside [a-z0-9_] to '_'.
func slug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = unsafeNameRe.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// CreateSQLMigration writes an empty goose migration named
// <dir>/<YYYYMMDDHHMMSS>_<slug>.sql and returns its path.
func CreateSQLMigration(dir string, name string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	s := slug(name)
	if s == "" {
		return "", fmt.Errorf("name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.sql", time.Now().UTC().Format(versionLayout), s))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create migration %q: %w", path, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, sqlTemplate, s); err != nil {
		return "", fmt.Errorf("write migration %q: %w", path, err)
	}
	return path, nil
}

// ValidateDir checks every .sql file in dir for a well-formed, unique version
// prefix and both goose sections. An empty dir is valid.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	names, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("list %q: %w", dir, err)
	}
	sort.Strings(names)

	versions := map[string]string{}
	for _, full := range names {
		name := filepath.Base(full)
		m := migrationRe.FindStringSubmatch(name)
		if m == nil {
			return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		if prev, dup := versions[m[1]]; dup {
			return fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, name)
		}
		versions[m[1]] = name

		body, err := os.ReadFile(full)
		if err != nil {
			return fmt.Errorf("read %q: %w", full, err)
		}
		for _, mark := range requiredMarks {
			if !strings.Contains(string(body), mark) {
				return fmt.Errorf("migration %q missing %q", name, mark)
			}
		}
	}
	return nil
}
