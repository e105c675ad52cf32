package adapter

import (
	"io"

	"interview-prep-backend/internal/domain/model"
)

// Renderer turns a session's questions into one export document.
type Renderer interface {
	Render(w io.Writer, session *model.Session, questions []*model.Question) error
}
