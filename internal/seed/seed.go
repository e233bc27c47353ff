// Package seed loads the sample catalog, question bank and mood presets.
// Running it again only adds what is missing.
package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/saulo-duarte/scent-quiz/internal/catalog"
	"github.com/saulo-duarte/scent-quiz/internal/config"
	"github.com/saulo-duarte/scent-quiz/internal/quiz"
	"github.com/saulo-duarte/scent-quiz/internal/suggestion"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type noteSeed struct {
	name     string
	category catalog.Category
}

var notes = []noteSeed{
	{"Lavender", catalog.CategoryTop},
	{"Vanilla", catalog.CategoryMiddle},
	{"Sandalwood", catalog.CategoryBase},
	{"Jasmine", catalog.CategoryMiddle},
	{"Citrus", catalog.CategoryTop},
}

type optionSeed struct {
	text string
	note string
}

type questionSeed struct {
	text    string
	kind    quiz.QuestionType
	options []optionSeed
}

var questions = []questionSeed{
	{
		text: "Which scent do you prefer in the morning?",
		kind: quiz.SingleChoice,
		options: []optionSeed{
			{"Fresh Lavender", "Lavender"},
			{"Citrus Burst", "Citrus"},
		},
	},
	{
		text: "Choose your favorite relaxing scent",
		kind: quiz.SingleChoice,
		options: []optionSeed{
			{"Warm Vanilla", "Vanilla"},
			{"Soothing Jasmine", "Jasmine"},
		},
	},
	{
		text: "Select scents you find energizing",
		kind: quiz.MultiChoice,
		options: []optionSeed{
			{"Sandalwood Base", "Sandalwood"},
		},
	},
}

type suggestionSeed struct {
	mood              suggestion.Mood
	description       string
	base, middle, top string
}

var suggestions = []suggestionSeed{
	{suggestion.MoodNeutral, "Balanced and calming formula", "Sandalwood", "Vanilla", "Lavender"},
	{suggestion.MoodConfused, "Invigorating mix for uncertain moods", "Sandalwood", "Jasmine", "Citrus"},
	{suggestion.MoodUndecided, "Gentle uplifting combination", "Sandalwood", "Vanilla", "Citrus"},
}

// Report counts the rows a run added.
type Report struct {
	Notes       int
	Questions   int
	Suggestions int
}

// Run seeds everything in one transaction.
func Run(ctx context.Context, db *gorm.DB) (Report, error) {
	var report Report

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		notesRepo := catalog.NewRepository(tx)
		byName, added, err := seedNotes(ctx, notesRepo)
		if err != nil {
			return err
		}
		report.Notes = added

		if report.Questions, err = seedQuestions(ctx, quiz.NewRepository(tx), byName); err != nil {
			return err
		}
		if report.Suggestions, err = seedSuggestions(ctx, suggestion.NewRepository(tx), byName); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return Report{}, fmt.Errorf("seed: %w", err)
	}

	config.WithContext(ctx).WithFields(logrus.Fields{
		"notes":       report.Notes,
		"questions":   report.Questions,
		"suggestions": report.Suggestions,
	}).Info("Seed data loaded")
	return report, nil
}

func seedNotes(ctx context.Context, repo catalog.Repository) (map[string]uuid.UUID, int, error) {
	var missing []*catalog.ScentNote
	for i, n := range notes {
		count, err := repo.CountByName(ctx, n.name, n.category)
		if err != nil {
			return nil, 0, fmt.Errorf("count note %s: %w", n.name, err)
		}
		if count == 0 {
			missing = append(missing, &catalog.ScentNote{Name: n.name, Category: n.category, OrderIndex: i + 1})
		}
	}
	if err := repo.Create(ctx, missing); err != nil {
		return nil, 0, fmt.Errorf("create notes: %w", err)
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list notes: %w", err)
	}
	byName := make(map[string]uuid.UUID, len(all))
	for _, n := range all {
		if _, ok := byName[n.Name]; !ok {
			byName[n.Name] = n.ID
		}
	}
	return byName, len(missing), nil
}

// seedQuestions leaves a non-empty bank alone.
func seedQuestions(ctx context.Context, repo quiz.Repository, noteIDs map[string]uuid.UUID) (int, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	for i, qs := range questions {
		q := &quiz.Question{Text: qs.text, Type: qs.kind, OrderIndex: i + 1}
		for j, o := range qs.options {
			opt := quiz.Option{Text: o.text, OrderIndex: j + 1}
			if id, ok := noteIDs[o.note]; ok {
				opt.ScentNoteID = &id
			}
			q.Options = append(q.Options, opt)
		}
		if err := repo.CreateWithOptions(ctx, q); err != nil {
			return 0, fmt.Errorf("create question %q: %w", qs.text, err)
		}
	}
	return len(questions), nil
}

func seedSuggestions(ctx context.Context, repo suggestion.Repository, noteIDs map[string]uuid.UUID) (int, error) {
	added := 0
	for _, ss := range suggestions {
		count, err := repo.CountByMood(ctx, ss.mood)
		if err != nil {
			return 0, fmt.Errorf("count suggestions: %w", err)
		}
		if count > 0 {
			continue
		}

		s := &suggestion.Suggestion{
			MoodType:     ss.mood,
			Description:  ss.description,
			BaseNoteID:   noteIDs[ss.base],
			MiddleNoteID: noteIDs[ss.middle],
			TopNoteID:    noteIDs[ss.top],
		}
		if err := repo.Create(ctx, s); err != nil {
			return 0, fmt.Errorf("create suggestion %s: %w", ss.mood, err)
		}
		added++
	}
	return added, nil
}
