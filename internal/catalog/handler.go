package catalog

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayush/movie-reviews/internal/apperr"
	"github.com/ayush/movie-reviews/internal/models"
)

// Handler holds movie and review HTTP handlers.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the movie and review routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/movies", h.ListMovies)
	r.Get("/movies/{movieID}", h.GetMovie)
	r.Get("/review", h.ListReviews)
	r.Post("/review", h.CreateReview)
	r.Delete("/review/{id}", h.DeleteReview)
}

// includeReviews reports whether the query asks for the review join. Only
// the literal "true" enables it.
func includeReviews(r *http.Request) bool {
	return r.URL.Query().Get("reviews") == "true"
}

// ListMovies handles GET /movies[?reviews=true].
func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.svc.ListMovies(r.Context(), includeReviews(r))
	if err != nil {
		apperr.Write(w, r, h.logger, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "movies": movies})
}

// GetMovie handles GET /movies/{movieID}[?reviews=true].
func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	movie, err := h.svc.GetMovie(r.Context(), chi.URLParam(r, "movieID"), includeReviews(r))
	if err != nil {
		apperr.Write(w, r, h.logger, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "movie": movie})
}

// ListReviews handles GET /review.
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.svc.ListReviews(r.Context())
	if err != nil {
		apperr.Write(w, r, h.logger, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, reviews)
}

// CreateReview handles POST /review.
func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req models.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, r, h.logger, apperr.Validation("invalid request body"))
		return
	}
	if _, err := h.svc.CreateReview(r.Context(), req); err != nil {
		apperr.Write(w, r, h.logger, err)
		return
	}
	apperr.WriteJSON(w, http.StatusCreated, map[string]string{"message": "Review created!"})
}

// DeleteReview handles DELETE /review/{id}.
func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteReview(r.Context(), chi.URLParam(r, "id")); err != nil {
		apperr.Write(w, r, h.logger, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, map[string]string{"message": "Review deleted"})
}
