package quiz

import "github.com/google/uuid"

type CreateOptionDTO struct {
	Text        string     `json:"text" validate:"required,max=255"`
	ScentNoteID *uuid.UUID `json:"scent_note_id"`
}

type CreateQuestionDTO struct {
	Text       string            `json:"text" validate:"required,max=255"`
	Type       QuestionType      `json:"type" validate:"required,oneof=single-choice multi-choice"`
	OrderIndex *int              `json:"order_index"`
	Options    []CreateOptionDTO `json:"options" validate:"required,min=1,dive"`
}
