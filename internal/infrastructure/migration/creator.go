package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/template"
	"time"
)

var stub = template.Must(template.New("migration").Parse(
	`-- Migration: {{.File.Name}}{{if eq .Direction "DOWN"}} (Rollback){{end}}
-- Created: {{.File.Timestamp}}
-- Description: {{if eq .Direction "DOWN"}}Rollback for {{end}}{{.File.Description}}

-- Write your {{.Direction}} migration SQL here

`))

// MigrationFile describes a freshly created up/down pair
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	Timestamp   string
	UpPath      string
	DownPath    string
}

// CreateMigration writes the next numbered pair into dir, for example
// 000002_add_supplier_rating.up.sql and its .down.sql.
func CreateMigration(dir, name, description string) (*MigrationFile, error) {
	slug := sanitizeName(name)
	if slug == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create migrations directory: %w", err)
	}
	existing, err := ListMigrations(dir)
	if err != nil {
		return nil, err
	}

	version := fmt.Sprintf("%06d", nextVersion(existing))
	base := filepath.Join(dir, version+"_"+slug)
	mf := &MigrationFile{
		Version:     version,
		Name:        name,
		Description: description,
		Timestamp:   time.Now().Format(time.RFC3339),
		UpPath:      base + ".up.sql",
		DownPath:    base + ".down.sql",
	}

	if err := writeStub(mf.UpPath, "UP", mf); err != nil {
		return nil, err
	}
	if err := writeStub(mf.DownPath, "DOWN", mf); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, err
	}
	return mf, nil
}

func writeStub(path, direction string, mf *MigrationFile) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	return stub.Execute(f, struct {
		Direction string
		File      *MigrationFile
	}{direction, mf})
}

func nextVersion(names []string) uint64 {
	var last uint64
	for _, name := range names {
		prefix, _, _ := strings.Cut(name, "_")
		if v, err := strconv.ParseUint(prefix, 10, 64); err == nil {
			last = max(last, v)
		}
	}
	return last + 1
}

// sanitizeName lowercases name, turns spaces, dashes and underscores into
// single underscores and drops everything else outside [a-z0-9].
func sanitizeName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + 'a' - 'A'
		case r == ' ' || r == '-' || r == '_':
			return ' '
		}
		return -1
	}, name)
	return strings.Join(strings.Fields(cleaned), "_")
}

// ListMigrations returns the sorted base names of the up files in dir. A
// missing dir has none.
func ListMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	names := []string{}
	for _, e := range entries {
		if base, ok := strings.CutSuffix(e.Name(), ".up.sql"); ok && !e.IsDir() && base != "" {
			names = append(names, base)
		}
	}
	slices.Sort(names)
	return names, nil
}
