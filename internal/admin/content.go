package admin

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/Kush-Singh-26/quire/builder/conflicts"
	"github.com/Kush-Singh-26/quire/builder/content"
	"github.com/Kush-Singh-26/quire/builder/preview"
	"github.com/Kush-Singh-26/quire/builder/site"
)

const maxDraftBody = 1 << 20

// FileResponse describes a post or draft.
type FileResponse struct {
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	URL        string    `json:"url"`
	Path       string    `json:"path,omitempty"`
	Created    time.Time `json:"created"`
	Updated    time.Time `json:"updated"`
	Draft      bool      `json:"draft"`
	PreviewURL string    `json:"preview_url,omitempty"`
}

// DraftRequest creates a draft. Slug defaults to the slugified title.
type DraftRequest struct {
	Title string `json:"title"`
	Slug  string `json:"slug,omitempty"`
	Body  string `json:"body"`
}

// ConflictResponse lists the files sharing a URL.
type ConflictResponse struct {
	URL   string         `json:"url"`
	Files []FileResponse `json:"files"`
}

func describe(f content.File) FileResponse {
	return FileResponse{
		Title:   f.Title(),
		Slug:    f.Slug(),
		URL:     f.URL(),
		Path:    f.Path(),
		Created: f.Created(),
		Updated: f.Updated(),
		Draft:   f.IsDraft(),
	}
}

func describeAll(files []content.File) []FileResponse {
	out := make([]FileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, describe(f))
	}
	return out
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.builder.Site().Posts()
	if err != nil {
		s.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]FileResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, describe(p))
	}
	s.Success(w, http.StatusOK, out)
}

// handleListDrafts includes the preview URL of drafts that already have one
// in the live tree.
func (s *Server) handleListDrafts(w http.ResponseWriter, r *http.Request) {
	st := s.builder.Site()
	drafts, err := st.Drafts()
	if err != nil {
		s.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	alloc := preview.NewAllocator(st.Fs, st.Path(site.LiveDir))
	out := make([]FileResponse, 0, len(drafts))
	for _, d := range drafts {
		resp := describe(d)
		if url, ok, err := alloc.URLFor(d.Slug()); err == nil && ok {
			resp.PreviewURL = url
		}
		out = append(out, resp)
	}
	s.Success(w, http.StatusOK, out)
}

func (s *Server) handleConflicts(w http.ResponseWriter, r *http.Request) {
	found, err := s.builder.Site().Conflicts()
	if err != nil {
		s.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.Success(w, http.StatusOK, conflictList(found))
}

func conflictList(found map[string][]content.File) []ConflictResponse {
	e := &conflicts.ConflictError{Conflicts: found}
	out := make([]ConflictResponse, 0, len(found))
	for _, url := range e.URLs() {
		out = append(out, ConflictResponse{URL: url, Files: describeAll(found[url])})
	}
	return out
}

// handleCreateDraft saves a new draft unless its URL is already taken by a
// post or another draft.
func (s *Server) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	var req DraftRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxDraftBody)).Decode(&req); err != nil {
		s.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	saved, err := s.builder.Site().CreateDraft(req.Title, req.Slug, req.Body)
	if err != nil {
		var conflictErr *conflicts.ConflictError
		switch {
		case errors.Is(err, site.ErrEmptyTitle), errors.Is(err, site.ErrInvalidSlug):
			s.Error(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &conflictErr):
			url := conflictErr.URLs()[0]
			s.write(w, http.StatusConflict, Response{
				Error: "url " + url + " is already in use",
				Data:  ConflictResponse{URL: url, Files: describeAll(conflictErr.Conflicts[url])},
			})
		case errors.Is(err, fs.ErrExist):
			s.Error(w, http.StatusConflict, err.Error())
		default:
			s.Error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	s.logger.Info("Draft created", "slug", saved.Slug(), "path", saved.Path())
	s.Success(w, http.StatusCreated, describe(saved))
}
