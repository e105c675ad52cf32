package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"interview-prep-backend/internal/domain/model"
	"interview-prep-backend/internal/domain/ports/adapter"
)

var _ adapter.Renderer = (*CSVRenderer)(nil)

// CSVRenderer emits a header row plus one record per question. Session
// metadata repeats on every row so the file stands alone in a spreadsheet.
type CSVRenderer struct{}

func (CSVRenderer) Render(w io.Writer, session *model.Session, questions []*model.Question) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"role", "experience", "question", "answer", "pinned", "category"}); err != nil {
		return fmt.Errorf("render csv: %w", err)
	}
	for _, q := range questions {
		record := []string{
			session.Role,
			session.Experience,
			q.Question,
			q.Answer,
			strconv.FormatBool(q.IsPinned),
			q.Category,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("render csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("render csv: %w", err)
	}
	return nil
}
