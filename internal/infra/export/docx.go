package export

import (
	"fmt"
	"io"
	"strings"

	"baliance.com/gooxml/document"

	"interview-prep-backend/internal/domain/model"
	"interview-prep-backend/internal/domain/ports/adapter"
)

var _ adapter.Renderer = (*DocxRenderer)(nil)

// DocxRenderer produces a Word document: bold question paragraphs followed
// by plain answer paragraphs.
type DocxRenderer struct{}

func (DocxRenderer) Render(w io.Writer, session *model.Session, questions []*model.Question) error {
	doc := document.New()

	title := doc.AddParagraph()
	run := title.AddRun()
	run.Properties().SetBold(true)
	run.Properties().SetSize(16)
	run.AddText(fmt.Sprintf("Interview Preparation: %s (%s)", session.Role, session.Experience))

	topics := doc.AddParagraph()
	topics.AddRun().AddText("Topics: " + strings.Join(session.Topics, ", "))

	for i, q := range questions {
		qp := doc.AddParagraph()
		qr := qp.AddRun()
		qr.Properties().SetBold(true)
		qr.AddText(fmt.Sprintf("Q%d. %s", i+1, q.Question))

		ap := doc.AddParagraph()
		ap.AddRun().AddText(q.Answer)
	}

	if err := doc.Save(w); err != nil {
		return fmt.Errorf("render docx: %w", err)
	}
	return nil
}
