package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ayush/movie-reviews/internal/apperr"
	"github.com/ayush/movie-reviews/internal/models"
)

// ReviewStore handles review document CRUD in MongoDB.
type ReviewStore struct {
	col *mongo.Collection
}

func NewReviewStore(db *mongo.Database) *ReviewStore {
	return &ReviewStore{col: db.Collection(ReviewsCollection)}
}

// Insert persists a review and returns its id as hex. The id is assigned
// here when the review does not carry one.
func (s *ReviewStore) Insert(ctx context.Context, review *models.Review) (string, error) {
	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	if _, err := s.col.InsertOne(ctx, review); err != nil {
		return "", apperr.Storage("create review", fmt.Errorf("mongo insert: %w", err))
	}
	return review.ID.Hex(), nil
}

// ListWithMovies returns every review with movieId replaced by the movie it
// references. Reviews of deleted movies come back with a nil Movie.
func (s *ReviewStore) ListWithMovies(ctx context.Context) ([]models.ReviewWithMovie, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: MoviesCollection},
			{Key: "localField", Value: "movieId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "movieDocs"},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "movieId", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{"$movieDocs", 0}}}},
		}}},
		{{Key: "$project", Value: bson.D{{Key: "movieDocs", Value: 0}}}},
	}

	cur, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Storage("list reviews", fmt.Errorf("mongo aggregate: %w", err))
	}
	defer cur.Close(ctx)

	reviews := []models.ReviewWithMovie{}
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, apperr.Storage("list reviews", fmt.Errorf("mongo decode: %w", err))
	}
	return reviews, nil
}

// Delete removes a review by id. A malformed id or a missing document is
// reported as not found.
func (s *ReviewStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.NotFound("Review not found")
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return apperr.Storage("delete review", fmt.Errorf("mongo delete: %w", err))
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("Review not found")
	}
	return nil
}
