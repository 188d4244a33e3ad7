package catalog

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/movie-reviews/internal/apperr"
	"github.com/ayush/movie-reviews/internal/models"
)

// memStore is an in-memory stand-in for both the movie and review stores.
type memStore struct {
	movies    []models.Movie
	reviews   []models.Review
	insertErr error
}

func (m *memStore) addMovie(title string) primitive.ObjectID {
	id := primitive.NewObjectID()
	m.movies = append(m.movies, models.Movie{ID: id, Title: title, Genre: "Drama", Actors: []string{"A", "B", "C"}})
	return id
}

func (m *memStore) addReview(movieID primitive.ObjectID, rating float64) {
	m.reviews = append(m.reviews, models.Review{
		ID:       primitive.NewObjectID(),
		MovieID:  movieID,
		Username: "critic",
		Text:     "review",
		Rating:   rating,
	})
}

func (m *memStore) List(context.Context) ([]models.Movie, error) {
	return append([]models.Movie{}, m.movies...), nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*models.Movie, error) {
	for _, mv := range m.movies {
		if mv.ID.Hex() == id {
			cp := mv
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("Movie not found")
}

func (m *memStore) ListWithReviews(_ context.Context, movieID string) ([]models.MovieWithReviews, error) {
	out := []models.MovieWithReviews{}
	for _, mv := range m.movies {
		if movieID != "" && mv.ID.Hex() != movieID {
			continue
		}
		joined := models.MovieWithReviews{Movie: mv, Reviews: []models.Review{}}
		for _, r := range m.reviews {
			if r.MovieID == mv.ID {
				joined.Reviews = append(joined.Reviews, r)
			}
		}
		out = append(out, joined)
	}
	return out, nil
}

func (m *memStore) Insert(_ context.Context, r *models.Review) (string, error) {
	if m.insertErr != nil {
		return "", m.insertErr
	}
	r.ID = primitive.NewObjectID()
	m.reviews = append(m.reviews, *r)
	return r.ID.Hex(), nil
}

func (m *memStore) ListWithMovies(_ context.Context) ([]models.ReviewWithMovie, error) {
	out := []models.ReviewWithMovie{}
	for _, r := range m.reviews {
		rw := models.ReviewWithMovie{ID: r.ID, Username: r.Username, Text: r.Text, Rating: r.Rating}
		for _, mv := range m.movies {
			if mv.ID == r.MovieID {
				cp := mv
				rw.Movie = &cp
			}
		}
		out = append(out, rw)
	}
	return out, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	for i, r := range m.reviews {
		if r.ID.Hex() == id {
			m.reviews = append(m.reviews[:i], m.reviews[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Review not found")
}

// failingStore returns a storage error from every read.
type failingStore struct{ memStore }

var errBackend = errors.New("connection refused")

func (f *failingStore) List(context.Context) ([]models.Movie, error) {
	return nil, apperr.Storage("list movies", errBackend)
}

func (f *failingStore) ListWithReviews(context.Context, string) ([]models.MovieWithReviews, error) {
	return nil, apperr.Storage("aggregate movies", errBackend)
}

func (f *failingStore) ListWithMovies(context.Context) ([]models.ReviewWithMovie, error) {
	return nil, apperr.Storage("list reviews", errBackend)
}
