package extraction

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

// maxUploadSize bounds multipart uploads (high-resolution phone photos)
const maxUploadSize = int64(50 << 20)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Error encoding response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// handleListDocuments returns the session's results and failures
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	session := s.Session()

	results := session.Results()
	if results == nil {
		results = []*Result{}
	}
	failures := session.Failures()
	if failures == nil {
		failures = []Failure{}
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"results":  results,
		"failures": failures,
	})
}

// handleGetDocument returns one result
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	result, ok := s.Session().Result(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Document not found")
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// handleUploadDocument processes one uploaded file
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.logger.Error("Error parsing multipart form", "error", err)
		message := "Error parsing form"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			message = "File is too large. Maximum size is 50MB."
		}
		s.writeError(w, http.StatusBadRequest, message)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		s.logger.Error("Error reading file data", "error", err, "filename", header.Filename)
		s.writeError(w, http.StatusInternalServerError, "Error reading file. Please try again.")
		return
	}

	doc := Document{
		Name:        header.Filename,
		Data:        data,
		ContentType: DetectContentType(header.Header.Get("Content-Type"), header.Filename),
	}

	result, err := s.batch.ProcessOne(r.Context(), s.Session(), doc)
	switch {
	case errors.Is(err, ErrDuplicate):
		s.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidDocument):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case err != nil:
		s.writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.writeJSON(w, http.StatusCreated, result)
	}
}

// handleReport returns the session's results as a workbook, archiving a copy
// when storage is configured
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	workbook, err := WriteWorkbook(s.Session().Results(), s.logger)
	if err != nil {
		s.logger.Error("Error generating report", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Error generating report")
		return
	}

	if s.archiver != nil {
		if location, err := s.archiver.ArchiveReport(r.Context(), workbook); err != nil {
			s.logger.Error("Error archiving report", "error", err)
		} else {
			w.Header().Set("X-Report-Location", location)
		}
	}

	w.Header().Set("Content-Type", WorkbookContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="document_report.xlsx"`)
	if _, err := w.Write(workbook); err != nil {
		s.logger.Error("Error writing report", "error", err)
	}
}

// handleResetSession discards the session's results and dedup set
func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	s.resetSession()
	w.WriteHeader(http.StatusNoContent)
}

// DetectContentType falls back to the file extension when contentType is empty
// or generic
func DetectContentType(contentType, filename string) string {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	}
	return "application/octet-stream"
}

