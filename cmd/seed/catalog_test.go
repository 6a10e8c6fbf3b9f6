package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AlexTLDR/wedding/internal/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open("sqlite", database.DialectConfig{Path: filepath.Join(t.TempDir(), "seed.db")})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}
	return db
}

func TestDefaultCatalog(t *testing.T) {
	c, err := parseCatalog(bytes.NewReader(defaultCatalog))
	if err != nil {
		t.Fatalf("parseCatalog() error = %v", err)
	}
	if len(c.Questions) != 6 {
		t.Fatalf("got %d questions, want 6", len(c.Questions))
	}

	multi := 0
	for _, q := range c.Questions {
		if q.Kind == string(database.KindMulti) {
			multi++
		}
		if len(q.Choices) == 0 {
			t.Errorf("question %q has no choices", q.Text)
		}
	}
	if multi != 2 {
		t.Errorf("got %d multi questions, want 2", multi)
	}
	if last := c.Questions[5].Text; !strings.Contains(last, "+1") {
		t.Errorf("last question %q should carry the companion marker", last)
	}
}

func TestParseCatalogRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad kind", "questions:\n  - text: Q\n    kind: many\n"},
		{"missing text", "questions:\n  - kind: single\n"},
		{"unknown field", "questions:\n  - text: Q\n    colour: red\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseCatalog(strings.NewReader(tt.yaml)); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestParseCatalogDefaultsKind(t *testing.T) {
	c, err := parseCatalog(strings.NewReader("questions:\n  - text: Q\n    choices: [A]\n"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Questions[0].Kind != string(database.KindSingle) {
		t.Errorf("Kind = %q, want single", c.Questions[0].Kind)
	}
}

func TestSeedCatalogIsRepeatable(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c, err := parseCatalog(bytes.NewReader(defaultCatalog))
	if err != nil {
		t.Fatal(err)
	}

	first, err := seedCatalog(ctx, db, c)
	if err != nil {
		t.Fatalf("seedCatalog() error = %v", err)
	}
	if first.Questions != 6 || first.Choices != 19 {
		t.Errorf("first run = %+v, want 6 questions and 19 choices", first)
	}

	second, err := seedCatalog(ctx, db, c)
	if err != nil {
		t.Fatal(err)
	}
	if second != (seedStats{}) {
		t.Errorf("second run created %+v", second)
	}

	questions, err := db.ListQuestions(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(questions) != 6 || questions[0].Order != 1 || questions[1].Kind != database.KindMulti {
		t.Errorf("unexpected catalog: %d questions", len(questions))
	}
}

func TestSeedCompanions(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c, _ := parseCatalog(bytes.NewReader(defaultCatalog))
	if _, err := seedCatalog(ctx, db, c); err != nil {
		t.Fatal(err)
	}

	added, err := seedCompanions(ctx, db, "+1")
	if err != nil || added != 2 {
		t.Fatalf("seedCompanions() = %d, %v", added, err)
	}
	if again, _ := seedCompanions(ctx, db, "+1"); again != 0 {
		t.Errorf("second run added %d", again)
	}

	questions, _ := db.ListQuestions(ctx, false)
	plusOne := questions[5]
	var texts []string
	for _, ch := range plusOne.Choices {
		texts = append(texts, ch.Text)
	}
	if got := strings.Join(texts, ","); got != "Так,Ні,Друга половинка,Дитина" {
		t.Errorf("choices = %s", got)
	}

	if _, err := seedCompanions(ctx, db, "no such marker"); err == nil {
		t.Errorf("expected error when no question carries the marker")
	}
}
