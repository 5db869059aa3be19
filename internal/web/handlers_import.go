package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/go-chi/chi/v5"
)

// formOverhead is the multipart framing allowed on top of the file itself.
const formOverhead = 64 << 10

// ColumnsResponse lists the documented header of an import file.
type ColumnsResponse struct {
	Columns   []string `json:"columns"`
	Delimiter string   `json:"delimiter"`
}

// StatusResponse reports import capacity.
type StatusResponse struct {
	Limiter         core.ImportLimiterStatus `json:"limiter"`
	PendingPreviews int                      `json:"pendingPreviews"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleColumns returns the template header. The delimiter is the configured
// one, or ";" when text files are sniffed.
func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	delim := s.cfg.Import.DelimiterRune()
	if delim == 0 {
		delim = ';'
	}
	writeJSON(w, r, http.StatusOK, ColumnsResponse{
		Columns:   core.ExpectedColumns,
		Delimiter: string(delim),
	})
}

func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, StatusResponse{
		Limiter:         s.service.LimiterStatus(),
		PendingPreviews: s.service.PendingCount(),
	})
}

// handlePreview validates an uploaded file and stores the preview for commit.
// The response holds the summary and every row outcome.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	fileName, data, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	info, err := s.service.StartPreview(r.Context(), fileName, data)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, info)
}

// readUpload reads the multipart "file" field, bounded by Import.MaxFileSize.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+formOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, fmt.Errorf("%w: limit %d bytes", core.ErrFileTooLarge, maxSize)
		}
		return "", nil, fmt.Errorf("%w: %v", core.ErrNoFile, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", core.ErrNoFile, err)
	}
	defer file.Close()

	if header.Size > maxSize {
		return "", nil, fmt.Errorf("%w: %d bytes, limit %d", core.ErrFileTooLarge, header.Size, maxSize)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	return header.Filename, data, nil
}

// handleGetPreview returns a stored preview. ?outcomes=false omits the rows.
func (s *Server) handleGetPreview(w http.ResponseWriter, r *http.Request) {
	withOutcomes := true
	if v := r.URL.Query().Get("outcomes"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			withOutcomes = b
		}
	}

	info, err := s.service.GetPreview(chi.URLParam(r, "previewID"), withOutcomes)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, info)
}

func (s *Server) handleDiscardPreview(w http.ResponseWriter, r *http.Request) {
	if !s.service.DiscardPreview(chi.URLParam(r, "previewID")) {
		s.respondError(w, r, core.ErrPreviewNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCommit stores the accepted rows of a preview in one transaction.
func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if timeout := s.cfg.Import.CommitTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result, err := s.service.CommitPreview(ctx, chi.URLParam(r, "previewID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}
