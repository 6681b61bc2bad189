package migrator

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDocuments_Order(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "20240102000000_second.sql", "-- second")
	writeDoc(t, dir, "20240101000000_first.sql", "-- first")
	writeDoc(t, dir, "20240103000000_third.sql", "-- third")
	writeDoc(t, dir, "notes.txt", "ignored")
	if err := os.Mkdir(filepath.Join(dir, "archive.sql"), 0o755); err != nil {
		t.Fatal(err)
	}

	m := NewMigrator(nil, dir)
	names, err := m.Documents()
	if err != nil {
		t.Fatalf("Documents error: %v", err)
	}

	want := []string{
		"20240101000000_first.sql",
		"20240102000000_second.sql",
		"20240103000000_third.sql",
	}
	if len(names) != len(want) {
		t.Fatalf("Documents returned %d names, want %d: %v", len(names), len(want), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Documents[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestDocuments_MissingDir(t *testing.T) {
	m := NewMigrator(nil, "/nonexistent/migrations")
	if _, err := m.Documents(); err == nil {
		t.Error("Documents should fail for a missing directory")
	}
}

func TestMigrate_DryRun(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "20240101000000_init.sql", "CREATE TABLE users (id uuid PRIMARY KEY);\n")
	writeDoc(t, dir, "20240102000000_posts.sql", "CREATE TABLE posts (id uuid PRIMARY KEY);\n")

	// Dry-run never touches the database, so a nil Execer is fine.
	m := NewMigrator(nil, dir)

	var buf bytes.Buffer
	applied, err := m.Migrate(context.Background(), MigrateOptions{DryRun: &buf})
	if err != nil {
		t.Fatalf("Migrate error: %v", err)
	}
	if applied != 2 {
		t.Errorf("Migrate applied = %d, want 2", applied)
	}

	out := buf.String()
	if !strings.Contains(out, "-- 20240101000000_init.sql") {
		t.Error("dry-run output missing first document header")
	}
	if !strings.Contains(out, "CREATE TABLE posts") {
		t.Error("dry-run output missing second document body")
	}

	first := strings.Index(out, "init.sql")
	second := strings.Index(out, "posts.sql")
	if first == -1 || second == -1 || first > second {
		t.Error("dry-run output should emit documents in filename order")
	}
}

func TestMigrate_DryRunEmptyDir(t *testing.T) {
	dir := t.TempDir()
	m := NewMigrator(nil, dir)

	var buf bytes.Buffer
	applied, err := m.Migrate(context.Background(), MigrateOptions{DryRun: &buf})
	if err != nil {
		t.Fatalf("Migrate error: %v", err)
	}
	if applied != 0 {
		t.Errorf("Migrate applied = %d, want 0", applied)
	}
	if buf.Len() != 0 {
		t.Errorf("dry-run output should be empty, got %q", buf.String())
	}
}
