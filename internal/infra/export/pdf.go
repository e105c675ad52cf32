package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"interview-prep-backend/internal/domain/model"
	"interview-prep-backend/internal/domain/ports/adapter"
)

var _ adapter.Renderer = (*PDFRenderer)(nil)

// PDFRenderer writes one A4 portrait document, one numbered question block
// per pair, pinned questions first in whatever order they arrive.
type PDFRenderer struct{}

func (PDFRenderer) Render(w io.Writer, session *model.Session, questions []*model.Question) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Interview Prep: %s", session.Role), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, fmt.Sprintf("Interview Preparation: %s (%s)", session.Role, session.Experience), "", "L", false)

	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, "Topics: "+strings.Join(session.Topics, ", "), "", "L", false)
	pdf.Ln(4)

	for i, q := range questions {
		pdf.SetFont("Helvetica", "B", 11)
		label := fmt.Sprintf("Q%d. %s", i+1, q.Question)
		if q.IsPinned {
			label = fmt.Sprintf("Q%d. [pinned] %s", i+1, q.Question)
		}
		pdf.MultiCell(0, 6, label, "", "L", false)

		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, q.Answer, "", "L", false)
		pdf.Ln(3)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
