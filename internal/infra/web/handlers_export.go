package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"interview-prep-backend/internal/domain/model"
)

func (s *Server) handleExportRequest(w http.ResponseWriter, r *http.Request) {
	format := model.ExportFormat(r.URL.Query().Get("format"))
	uid, _ := userID(r)

	job, err := s.exportUC.Request(r.Context(), uid, chi.URLParam(r, "sessionId"), format)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	respondAccepted(w, map[string]any{
		"jobId":          job.ID,
		"checkStatusUrl": fmt.Sprintf("/api/v1/export/status/%s", job.ID),
	})
}

func (s *Server) handleExportStatus(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	view, err := s.exportUC.Status(r.Context(), uid, chi.URLParam(r, "jobId"))
	if err != nil {
		respondError(w, s.log, err)
		return
	}

	payload := statusPayload(view)
	if view.State == model.JobStateCompleted && view.Result != nil {
		var result model.ExportResult
		if err := json.Unmarshal(view.Result, &result); err == nil && result.Filename != "" {
			payload["downloadUrl"] = fmt.Sprintf("/api/v1/export/download/%s", result.Filename)
		}
	}
	respondJSON(w, payload)
}

// handleExportDownload streams a rendered export exactly once: the file is
// removed after a successful transfer, so retrying the link yields a 404.
func (s *Server) handleExportDownload(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	f, err := s.exporter.Open(filename)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", contentTypeFor(filename))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := io.Copy(w, f); err != nil {
		// Partial transfer; keep the file so the client can retry.
		s.log.Warn().Err(err).Str("file", filename).Msg("export download interrupted")
		return
	}

	if err := s.exporter.Remove(filename); err != nil {
		s.log.Warn().Err(err).Str("file", filename).Msg("export cleanup failed")
	}
}

func contentTypeFor(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(filename, ".csv"):
		return "text/csv"
	case strings.HasSuffix(filename, ".docx"):
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/octet-stream"
}
