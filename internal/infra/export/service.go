package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"interview-prep-backend/internal/domain"
	"interview-prep-backend/internal/domain/model"
	"interview-prep-backend/internal/domain/ports/adapter"
)

// Service renders export documents to a scratch directory and serves them
// back exactly once. Files carry ULID names so they cannot collide and
// cannot be guessed from the job id alone.
type Service struct {
	dir       string
	renderers map[model.ExportFormat]adapter.Renderer
	log       *zerolog.Logger
}

func NewService(dir string, logger *zerolog.Logger) (*Service, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	return &Service{
		dir: dir,
		renderers: map[model.ExportFormat]adapter.Renderer{
			model.ExportPDF:  PDFRenderer{},
			model.ExportCSV:  CSVRenderer{},
			model.ExportDOCX: DocxRenderer{},
		},
		log: logger,
	}, nil
}

// Export renders the session into the requested format and returns the
// stored filename.
func (s *Service) Export(ctx context.Context, format model.ExportFormat, session *model.Session, questions []*model.Question) (string, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return "", fmt.Errorf("%w: unsupported export format %q", domain.ErrInvalidArgument, format)
	}

	name := fmt.Sprintf("export_%s.%s", ulid.Make().String(), format)
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}

	if err := renderer.Render(f, session, questions); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close export file: %w", err)
	}

	s.log.Debug().Str("file", name).Str("format", string(format)).Msg("export rendered")
	return name, nil
}

// Open returns the rendered file for streaming. Names are reduced to their
// base component so a crafted path cannot escape the export directory.
func (s *Service) Open(name string) (*os.File, error) {
	f, err := os.Open(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("open export file: %w", err)
	}
	return f, nil
}

// Remove deletes a rendered file after download. Missing files are fine,
// a retried download just gets a 404.
func (s *Service) Remove(name string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove export file: %w", err)
	}
	return nil
}
