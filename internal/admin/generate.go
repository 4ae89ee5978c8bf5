package admin

import (
	"errors"
	"net/http"

	"github.com/Kush-Singh-26/quire/builder/conflicts"
	"github.com/Kush-Singh-26/quire/builder/renderer"
)

// GenerateResponse summarizes a generation started through the API.
type GenerateResponse struct {
	Posts       int    `json:"posts"`
	Drafts      int    `json:"drafts"`
	Files       int    `json:"files"`
	Archives    int    `json:"archives"`
	Fingerprint string `json:"fingerprint"`
	Changed     bool   `json:"changed"`
	DurationMs  int64  `json:"duration_ms"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if !s.genMu.TryLock() {
		s.Error(w, http.StatusConflict, "a generation is already running")
		return
	}
	defer s.genMu.Unlock()

	res, err := s.builder.Generate(r.Context())
	if err != nil {
		var conflictErr *conflicts.ConflictError
		var syntaxErr *renderer.TemplateSyntaxError
		switch {
		case errors.As(err, &conflictErr):
			s.write(w, http.StatusConflict, Response{Error: err.Error(), Data: conflictList(conflictErr.Conflicts)})
		case errors.As(err, &syntaxErr):
			s.Error(w, http.StatusUnprocessableEntity, err.Error())
		default:
			s.logger.Error("Generation failed", "error", err)
			s.Error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	s.Success(w, http.StatusOK, GenerateResponse{
		Posts:       res.Posts,
		Drafts:      res.Drafts,
		Files:       res.Files,
		Archives:    res.Archives,
		Fingerprint: res.Fingerprint,
		Changed:     res.Changed,
		DurationMs:  res.Metrics.TotalDuration().Milliseconds(),
	})
}
