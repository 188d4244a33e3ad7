package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ayush/movie-reviews/internal/apperr"
	"github.com/ayush/movie-reviews/internal/models"
)

// MovieStore reads movie documents, optionally joined with their reviews.
type MovieStore struct {
	col *mongo.Collection
}

func NewMovieStore(db *mongo.Database) *MovieStore {
	return &MovieStore{col: db.Collection(MoviesCollection)}
}

// List returns every movie in natural collection order.
func (s *MovieStore) List(ctx context.Context) ([]models.Movie, error) {
	cur, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, apperr.Storage("list movies", fmt.Errorf("mongo find: %w", err))
	}
	defer cur.Close(ctx)

	movies := []models.Movie{}
	if err := cur.All(ctx, &movies); err != nil {
		return nil, apperr.Storage("list movies", fmt.Errorf("mongo decode: %w", err))
	}
	return movies, nil
}

// GetByID returns the movie with the given ObjectID hex. Malformed ids are
// reported as not found since they cannot match any document.
func (s *MovieStore) GetByID(ctx context.Context, id string) (*models.Movie, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("Movie not found")
	}
	var movie models.Movie
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&movie); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("Movie not found")
		}
		return nil, apperr.Storage("get movie", fmt.Errorf("mongo find one: %w", err))
	}
	return &movie, nil
}

// ListWithReviews left-joins reviews into movies in a single aggregation.
// An empty movieID selects every movie; otherwise only that movie, which
// yields an empty slice when it does not exist.
func (s *MovieStore) ListWithReviews(ctx context.Context, movieID string) ([]models.MovieWithReviews, error) {
	pipeline := mongo.Pipeline{}
	if movieID != "" {
		oid, err := primitive.ObjectIDFromHex(movieID)
		if err != nil {
			return []models.MovieWithReviews{}, nil
		}
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"_id": oid}}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: ReviewsCollection},
		{Key: "localField", Value: "_id"},
		{Key: "foreignField", Value: "movieId"},
		{Key: "as", Value: "reviews"},
	}}})

	cur, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Storage("aggregate movies", fmt.Errorf("mongo aggregate: %w", err))
	}
	defer cur.Close(ctx)

	out := []models.MovieWithReviews{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.Storage("aggregate movies", fmt.Errorf("mongo decode: %w", err))
	}
	for i := range out {
		if out[i].Reviews == nil {
			out[i].Reviews = []models.Review{}
		}
	}
	return out, nil
}
