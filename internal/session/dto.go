package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/scent-quiz/internal/analytics"
	"github.com/saulo-duarte/scent-quiz/internal/catalog"
	"github.com/saulo-duarte/scent-quiz/internal/formula"
	"github.com/saulo-duarte/scent-quiz/internal/quiz"
)

// SelectionDTO carries option ids for one question. A nil Options in a move
// request keeps the displayed selection; an empty list clears it.
type SelectionDTO struct {
	Options *[]uuid.UUID `json:"options"`
}

type View struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"user_id"`
	State       string         `json:"state"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Total       int            `json:"total_questions"`
	Current     int            `json:"current_index"`
	Question    *quiz.Question `json:"question,omitempty"`
	Selected    []uuid.UUID    `json:"selected"`
	Answers     []*uuid.UUID   `json:"answers,omitempty"`
	Missing     []int          `json:"missing,omitempty"`

	// Responses is filled for completed sessions only.
	Responses []ResponseDetail `json:"responses,omitempty"`
}

func newView(r *Runner) *View {
	s := r.Session()
	v := &View{
		ID:          s.ID,
		UserID:      s.UserID,
		State:       r.State().String(),
		StartedAt:   s.StartedAt,
		CompletedAt: s.CompletedAt,
		Total:       len(r.Questions()),
		Current:     r.CurrentIndex(),
		Selected:    r.Displayed(),
		Missing:     r.Missing(),
	}
	if v.Selected == nil {
		v.Selected = []uuid.UUID{}
	}
	if q, err := r.CurrentQuestion(); err == nil {
		v.Question = &q
	}
	v.Answers = make([]*uuid.UUID, v.Total)
	for i := range v.Answers {
		if id, ok := r.Answer(i); ok {
			v.Answers[i] = &id
		}
	}
	return v
}

func completedView(s *Session, responses []ResponseDetail) *View {
	return &View{
		ID:          s.ID,
		UserID:      s.UserID,
		State:       StateCompleted.String(),
		StartedAt:   s.StartedAt,
		CompletedAt: s.CompletedAt,
		Total:       len(responses),
		Selected:    []uuid.UUID{},
		Responses:   responses,
	}
}

type FormulaNotes struct {
	ID     uuid.UUID         `json:"id"`
	Policy formula.Policy    `json:"policy"`
	Base   catalog.ScentNote `json:"base"`
	Middle catalog.ScentNote `json:"middle"`
	Top    catalog.ScentNote `json:"top"`
}

type SubmitView struct {
	Session   Session              `json:"session"`
	Responses int                  `json:"responses"`
	Formula   FormulaNotes         `json:"formula"`
	Analytics *analytics.Analytics `json:"analytics"`
}

func newSubmitView(res *Result) *SubmitView {
	return &SubmitView{
		Session:   res.Session,
		Responses: len(res.Responses),
		Formula: FormulaNotes{
			ID:     res.Formula.ID,
			Policy: res.Selection.Policy,
			Base:   res.Selection.Base,
			Middle: res.Selection.Middle,
			Top:    res.Selection.Top,
		},
		Analytics: res.Analytics,
	}
}
