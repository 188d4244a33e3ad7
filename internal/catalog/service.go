package catalog

import (
	"cmp"
	"context"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/movie-reviews/internal/apperr"
	"github.com/ayush/movie-reviews/internal/models"
	"github.com/ayush/movie-reviews/internal/observability"
)

// MovieStore defines the movie reads the catalog needs.
type MovieStore interface {
	List(ctx context.Context) ([]models.Movie, error)
	GetByID(ctx context.Context, id string) (*models.Movie, error)
	ListWithReviews(ctx context.Context, movieID string) ([]models.MovieWithReviews, error)
}

// ReviewStore defines review persistence.
type ReviewStore interface {
	Insert(ctx context.Context, review *models.Review) (string, error)
	ListWithMovies(ctx context.Context) ([]models.ReviewWithMovie, error)
	Delete(ctx context.Context, id string) error
}

// Policy toggles behaviour that differs between deployments.
type Policy struct {
	// StrictReferentialCheck makes CreateReview confirm the movie exists
	// before inserting. The check and the insert are not atomic.
	StrictReferentialCheck bool
}

// Service joins movies with their reviews and enforces review rules.
type Service struct {
	movies  MovieStore
	reviews ReviewStore
	policy  Policy
	logger  *slog.Logger
}

func NewService(movies MovieStore, reviews ReviewStore, policy Policy, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{movies: movies, reviews: reviews, policy: policy, logger: logger}
}

// ListMovies returns plain movies in store order, or every movie joined
// with its reviews and ranked when includeReviews is set.
func (s *Service) ListMovies(ctx context.Context, includeReviews bool) (interface{}, error) {
	if includeReviews {
		return s.ListMoviesWithReviews(ctx, "")
	}
	return s.movies.List(ctx)
}

// GetMovie returns a single movie, joined with its reviews when requested.
func (s *Service) GetMovie(ctx context.Context, id string, includeReviews bool) (interface{}, error) {
	if !includeReviews {
		return s.movies.GetByID(ctx, id)
	}
	out, err := s.ListMoviesWithReviews(ctx, id)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// ListMoviesWithReviews joins reviews into movies, fills in the average
// rating and ranks the result. An empty movieID selects every movie; a
// movieID that matches nothing is reported as not found.
func (s *Service) ListMoviesWithReviews(ctx context.Context, movieID string) ([]models.MovieWithReviews, error) {
	start := time.Now()
	movies, err := s.movies.ListWithReviews(ctx, movieID)
	if err != nil {
		observability.ObserveAggregation("error", time.Since(start))
		return nil, err
	}
	if movieID != "" && len(movies) == 0 {
		observability.ObserveAggregation("not_found", time.Since(start))
		return nil, apperr.NotFound("Movie not found")
	}
	for i := range movies {
		movies[i].AverageRating = AverageRating(movies[i].Reviews)
	}
	Rank(movies)
	observability.ObserveAggregation("ok", time.Since(start))
	return movies, nil
}

// AverageRating is the mean rating of reviews, or nil when there are none.
func AverageRating(reviews []models.Review) *float64 {
	if len(reviews) == 0 {
		return nil
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := sum / float64(len(reviews))
	return &avg
}

// Rank orders movies by average rating, highest first, then by title.
// Movies without an average come after every rated movie.
func Rank(movies []models.MovieWithReviews) {
	slices.SortStableFunc(movies, func(a, b models.MovieWithReviews) int {
		switch {
		case a.AverageRating == nil && b.AverageRating != nil:
			return 1
		case a.AverageRating != nil && b.AverageRating == nil:
			return -1
		case a.AverageRating != nil && b.AverageRating != nil:
			if c := cmp.Compare(*b.AverageRating, *a.AverageRating); c != 0 {
				return c
			}
		}
		return strings.Compare(a.Title, b.Title)
	})
}

// ListReviews returns every review with its movie expanded.
func (s *Service) ListReviews(ctx context.Context) ([]models.ReviewWithMovie, error) {
	return s.reviews.ListWithMovies(ctx)
}

// CreateReview validates and stores a review, returning its id.
func (s *Service) CreateReview(ctx context.Context, req models.CreateReviewRequest) (string, error) {
	req.MovieID = strings.TrimSpace(req.MovieID)
	req.Username = strings.TrimSpace(req.Username)
	req.Review = strings.TrimSpace(req.Review)
	if err := models.Validate(req); err != nil {
		return "", err
	}
	rating := *req.Rating
	if math.IsNaN(rating) || math.IsInf(rating, 0) || rating != math.Trunc(rating) {
		return "", apperr.Validation("rating must be a whole number between 0 and 5")
	}
	movieID, err := primitive.ObjectIDFromHex(req.MovieID)
	if err != nil {
		return "", apperr.Validation("movieId is invalid")
	}

	if s.policy.StrictReferentialCheck {
		if _, err := s.movies.GetByID(ctx, req.MovieID); err != nil {
			return "", err
		}
	}

	review := &models.Review{
		MovieID:  movieID,
		Username: req.Username,
		Text:     req.Review,
		Rating:   rating,
	}
	id, err := s.reviews.Insert(ctx, review)
	if err != nil {
		return "", err
	}
	observability.IncReviewsCreated()
	s.logger.Info("review created",
		slog.String("review_id", id),
		slog.String("movie_id", req.MovieID),
		slog.String("username", req.Username),
	)
	return id, nil
}

// DeleteReview removes a review; a missing review is reported as not found.
func (s *Service) DeleteReview(ctx context.Context, id string) error {
	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("review deleted", slog.String("review_id", id))
	return nil
}
