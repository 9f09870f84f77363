package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	v1 "github.com/Tiag8/bible-study-sub001/apis/v1"
	"github.com/Tiag8/bible-study-sub001/internal/content"
	"github.com/Tiag8/bible-study-sub001/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// Handler exposes the study and reference services over REST.
type Handler struct {
	studies    *service.StudyService
	references *service.ReferenceService
}

func NewHandler(studies *service.StudyService, references *service.ReferenceService) *Handler {
	return &Handler{
		studies:    studies,
		references: references,
	}
}

// Routes mounts the REST surface on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/books", h.listBooks)
		r.Get("/search", h.search)
		r.Get("/trash", h.listTrash)

		r.Route("/studies", func(r chi.Router) {
			r.Post("/", h.createStudy)
			r.Get("/", h.listStudies)
			r.Get("/{studyID}", h.getStudy)
			r.Put("/{studyID}", h.updateStudy)
			r.Delete("/{studyID}", h.deleteStudy)
			r.Post("/{studyID}/restore", h.restoreStudy)
			r.Get("/{studyID}/revisions", h.listRevisions)
			r.Get("/{studyID}/references", h.listReferences)
			r.Post("/{studyID}/references", h.createReference)
		})

		r.Route("/references", func(r chi.Router) {
			r.Delete("/{referenceID}", h.deleteReference)
			r.Post("/{referenceID}/reorder", h.reorderReference)
		})

		r.Post("/content/rewrite", h.rewriteContent)
	})
}

func (h *Handler) createStudy(w http.ResponseWriter, r *http.Request) {
	var req v1.CreateStudyRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.studies.CreateStudy(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) getStudy(w http.ResponseWriter, r *http.Request) {
	res, err := h.studies.GetStudy(r.Context(), chi.URLParam(r, "studyID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) listStudies(w http.ResponseWriter, r *http.Request) {
	chapter := 0
	if c := r.URL.Query().Get("chapter"); c != "" {
		n, err := strconv.Atoi(c)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, &v1.ErrorResponse{Error: "chapter must be a number"})
			return
		}
		chapter = n
	}

	res, err := h.studies.ListStudies(r.Context(), r.URL.Query().Get("book"), chapter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) updateStudy(w http.ResponseWriter, r *http.Request) {
	var req v1.UpdateStudyRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.studies.UpdateStudy(r.Context(), chi.URLParam(r, "studyID"), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) deleteStudy(w http.ResponseWriter, r *http.Request) {
	res, err := h.studies.SoftDeleteStudy(r.Context(), chi.URLParam(r, "studyID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) restoreStudy(w http.ResponseWriter, r *http.Request) {
	res, err := h.studies.RestoreStudy(r.Context(), chi.URLParam(r, "studyID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) listTrash(w http.ResponseWriter, r *http.Request) {
	res, err := h.studies.ListDeletedStudies(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) listRevisions(w http.ResponseWriter, r *http.Request) {
	res, err := h.studies.ListStudyRevisions(r.Context(), chi.URLParam(r, "studyID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	res, err := h.studies.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	res, err := h.studies.ListBooks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) listReferences(w http.ResponseWriter, r *http.Request) {
	res, err := h.references.ListReferences(r.Context(), chi.URLParam(r, "studyID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) createReference(w http.ResponseWriter, r *http.Request) {
	var req v1.CreateReferenceRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.references.AddReference(r.Context(), chi.URLParam(r, "studyID"), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) deleteReference(w http.ResponseWriter, r *http.Request) {
	if err := h.references.DeleteReference(r.Context(), chi.URLParam(r, "referenceID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) reorderReference(w http.ResponseWriter, r *http.Request) {
	var req v1.ReorderReferenceRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.references.Reorder(r.Context(), chi.URLParam(r, "referenceID"), req.Direction)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// rewriteContent normalizes study links inside editor HTML: legacy scheme
// hrefs become /estudo/{id} routes, external anchors pass through as-is.
func (h *Handler) rewriteContent(w http.ResponseWriter, r *http.Request) {
	var req v1.RewriteContentRequest
	if !decode(w, r, &req) {
		return
	}

	rewritten, err := content.RewriteLinks(req.HTML)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, &v1.ErrorResponse{Error: "invalid html"})
		return
	}
	writeJSON(w, http.StatusOK, &v1.RewriteContentResponse{HTML: rewritten})
}

func decode(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeJSON(w, http.StatusBadRequest, &v1.ErrorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.Errorf("error writing response: %v", err)
	}
}

// writeError maps service errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, service.ErrStudyNotFound),
		errors.Is(err, service.ErrReferenceNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrTargetStudyNotFound),
		errors.Is(err, service.ErrInvalidExternalURL),
		errors.Is(err, service.ErrInvalidReference),
		errors.Is(err, service.ErrInvalidDirection),
		errors.Is(err, service.ErrMissingTitle):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrVersionMismatch):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		logrus.Errorf("internal error: %v", err)
		writeJSON(w, status, &v1.ErrorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, status, &v1.ErrorResponse{Error: err.Error()})
}
