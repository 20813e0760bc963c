package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/simplylegal/simplylegal/internal/apperrors"
	"github.com/simplylegal/simplylegal/internal/chunker"
	"github.com/simplylegal/simplylegal/internal/extract"
	"github.com/simplylegal/simplylegal/internal/logger"
	"github.com/simplylegal/simplylegal/internal/normalize"
	"github.com/simplylegal/simplylegal/internal/report"
	"github.com/simplylegal/simplylegal/internal/version"
)

// uploadBodyLimit caps the whole multipart request body. It sits above
// the per-file limit to leave room for multipart framing.
const uploadBodyLimit = extract.MaxUploadBytes + 1<<20

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "simplylegal",
		"version": version.Version,
	})
}

type translateRequest struct {
	Text string `json:"text"`
}

type translateResponse struct {
	Text            string              `json:"text"`
	RedFlags        []normalize.RedFlag `json:"red_flags"`
	ChunksProcessed int                 `json:"chunks_processed"`
	// Audio is base64-encoded WAV, omitted when synthesis is disabled.
	Audio string `json:"audio,omitempty"`
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validateInput(req.Text, s.cfg.Pipeline.MaxInputChars); err != nil {
		s.writeAppError(w, r, err)
		return
	}

	release, err := s.acquire(r.Context())
	if err != nil {
		s.metrics.TranslationsTotal.WithLabelValues("rejected").Inc()
		writeError(w, http.StatusServiceUnavailable, "Server is busy. Please try again shortly.")
		return
	}
	defer release()

	start := time.Now()
	result, err := s.pipeline.Process(r.Context(), req.Text)
	if err != nil {
		s.metrics.TranslationsTotal.WithLabelValues("failed").Inc()
		s.writeAppError(w, r, err)
		return
	}
	s.metrics.TranslationsTotal.WithLabelValues("done").Inc()
	s.metrics.TranslationSeconds.Observe(time.Since(start).Seconds())
	s.metrics.ChunksPerDocument.Observe(float64(result.ChunksProcessed))
	s.metrics.RedFlagsPerDocument.Observe(float64(len(result.RedFlags)))

	resp := translateResponse{
		Text:            result.Text,
		RedFlags:        result.RedFlags,
		ChunksProcessed: result.ChunksProcessed,
	}
	// The clients iterate red_flags unconditionally, so it must be a
	// list even when empty.
	if resp.RedFlags == nil {
		resp.RedFlags = []normalize.RedFlag{}
	}
	if len(result.Audio) > 0 {
		resp.Audio = base64.StdEncoding.EncodeToString(result.Audio)
	}
	writeJSON(w, http.StatusOK, resp)
}

// validateInput enforces the translate request text bounds before any
// permit is taken.
func validateInput(text string, maxChars int) error {
	if strings.TrimSpace(text) == "" {
		return apperrors.InvalidInput("Document text must not be empty.")
	}
	if n := chunker.Size(text); n > maxChars {
		return apperrors.InvalidInput(fmt.Sprintf("Document text is too long (%d characters). Maximum is %d.", n, maxChars))
	}
	return nil
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	// Parts are streamed from the capped body straight into memory.
	// ParseMultipartForm would spool large files to disk, and document
	// content must never touch disk here.
	r.Body = http.MaxBytesReader(w, r.Body, uploadBodyLimit)

	mr, err := r.MultipartReader()
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart/form-data body with a 'file' field is required")
		return
	}

	var (
		filename string
		data     []byte
		found    bool
	)
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.writeUploadReadError(w, err)
			return
		}
		if part.FormName() != "file" {
			part.Close()
			continue
		}
		filename = part.FileName()
		data, err = io.ReadAll(part)
		part.Close()
		if err != nil {
			s.writeUploadReadError(w, err)
			return
		}
		found = true
		break
	}
	if !found {
		writeError(w, http.StatusBadRequest, "multipart/form-data body with a 'file' field is required")
		return
	}

	doc, err := extract.FromUpload(filename, data)
	if err != nil {
		s.metrics.UploadsTotal.WithLabelValues(uploadTypeLabel(filename), outcomeLabel(err)).Inc()
		s.writeAppError(w, r, err)
		return
	}
	s.metrics.UploadsTotal.WithLabelValues(doc.FileType, "ok").Inc()
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) writeUploadReadError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		s.metrics.UploadsTotal.WithLabelValues("other", string(apperrors.KindTooLarge)).Inc()
		writeError(w, http.StatusRequestEntityTooLarge, "File is too large. Maximum is 10 MB.")
		return
	}
	writeError(w, http.StatusBadRequest, "malformed multipart body")
}

// uploadTypeLabel maps a filename to a bounded metric label value.
func uploadTypeLabel(filename string) string {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".txt", ".pdf", ".docx":
		return ext
	case "":
		return "none"
	default:
		return "other"
	}
}

type reportRequest struct {
	Title    string              `json:"title"`
	Text     string              `json:"text"`
	RedFlags []normalize.RedFlag `json:"red_flags"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.writeAppError(w, r, apperrors.InvalidInput("Report text must not be empty."))
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Plain-Language Summary"
	}

	data, err := report.Build(title, req.Text, req.RedFlags)
	if err != nil {
		logger.FromContext(r.Context()).Error("Report rendering failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not render the report.")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	w.Header().Set("Content-Disposition", `attachment; filename="simplylegal-report.docx"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.FromContext(r.Context()).Error("Writing report response failed", "error", err)
	}
}

type healthResponse struct {
	Status   string         `json:"status"`
	Provider providerHealth `json:"provider"`
	Speech   speechHealth   `json:"speech"`
}

type providerHealth struct {
	Backend string `json:"backend"`
	Model   string `json:"model"`
}

type speechHealth struct {
	Enabled   bool `json:"enabled"`
	Available bool `json:"available"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status: "ok",
		Provider: providerHealth{
			Backend: s.provider.Name(),
			Model:   s.provider.Model(),
		},
	}
	if s.rawSynth != nil {
		resp.Speech.Enabled = true
		resp.Speech.Available = true
		if probe, ok := s.rawSynth.(interface{ Available() bool }); ok {
			resp.Speech.Available = probe.Available()
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeAppError translates an error into its HTTP status and safe
// message. Server-side failures also get logged with their cause.
func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("Request failed", "status", status, "error", err)
	}
	writeError(w, status, apperrors.PublicMessage(err))
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Writing response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
