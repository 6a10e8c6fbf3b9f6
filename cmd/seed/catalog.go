package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/AlexTLDR/wedding/internal/database"
	"github.com/AlexTLDR/wedding/internal/logging"
)

// companionChoices are added to the "+1" question by -companions.
var companionChoices = []string{"Друга половинка", "Дитина"}

type catalogFile struct {
	Questions []catalogQuestion `yaml:"questions"`
}

type catalogQuestion struct {
	Text    string   `yaml:"text"`
	Order   int      `yaml:"order"`
	Kind    string   `yaml:"kind"`
	Active  *bool    `yaml:"active"`
	Choices []string `yaml:"choices"`
}

// seedStats counts what a seed run created.
type seedStats struct {
	Questions int
	Choices   int
}

func parseCatalog(r io.Reader) (*catalogFile, error) {
	var c catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	for i, q := range c.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return nil, fmt.Errorf("question %d has no text", i+1)
		}
		if q.Kind == "" {
			c.Questions[i].Kind = string(database.KindSingle)
		} else if !database.QuestionKind(q.Kind).Valid() {
			return nil, fmt.Errorf("question %q: invalid kind %q", q.Text, q.Kind)
		}
	}
	return &c, nil
}

// seedCatalog upserts every question and its choices.
func seedCatalog(ctx context.Context, db *database.DB, c *catalogFile) (seedStats, error) {
	var stats seedStats
	for _, cq := range c.Questions {
		active := cq.Active == nil || *cq.Active
		q, created, err := db.UpsertQuestion(ctx, database.Question{
			Text:     strings.TrimSpace(cq.Text),
			Order:    cq.Order,
			Kind:     database.QuestionKind(cq.Kind),
			IsActive: active,
		})
		if err != nil {
			return stats, fmt.Errorf("question %q: %w", cq.Text, err)
		}
		if created {
			stats.Questions++
			logging.Log.Info("Question created", zap.String("text", q.Text))
		}

		for i, text := range cq.Choices {
			_, created, err := db.UpsertChoice(ctx, database.Choice{
				QuestionID: q.ID,
				Text:       strings.TrimSpace(text),
				Order:      i + 1,
			})
			if err != nil {
				return stats, fmt.Errorf("choice %q: %w", text, err)
			}
			if created {
				stats.Choices++
			}
		}
	}
	return stats, nil
}

// seedCompanions adds the companion choices to the first question whose
// text contains marker.
func seedCompanions(ctx context.Context, db *database.DB, marker string) (int, error) {
	questions, err := db.ListQuestions(ctx, false)
	if err != nil {
		return 0, err
	}

	for _, q := range questions {
		if !strings.Contains(q.Text, marker) {
			continue
		}
		added := 0
		for i, text := range companionChoices {
			_, created, err := db.UpsertChoice(ctx, database.Choice{
				QuestionID: q.ID,
				Text:       text,
				Order:      len(q.Choices) + i + 1,
			})
			if err != nil {
				return added, fmt.Errorf("choice %q: %w", text, err)
			}
			if created {
				added++
			}
		}
		logging.Log.Info("Companion choices seeded", zap.String("question", q.Text), zap.Int("added", added))
		return added, nil
	}

	return 0, fmt.Errorf("no question contains %q", marker)
}
