package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Review is a document in the reviews collection. New reviews always carry
// a whole-number rating; Rating is a float so older documents holding
// fractional ratings still decode.
type Review struct {
	ID       primitive.ObjectID `json:"_id"      bson:"_id,omitempty"`
	MovieID  primitive.ObjectID `json:"movieId"  bson:"movieId"`
	Username string             `json:"username" bson:"username"`
	Text     string             `json:"review"   bson:"review"`
	Rating   float64            `json:"rating"   bson:"rating"`
}

// ReviewWithMovie is a review whose movieId has been expanded into the
// referenced movie. Movie is nil when the movie no longer exists.
type ReviewWithMovie struct {
	ID       primitive.ObjectID `json:"_id"      bson:"_id"`
	Movie    *Movie             `json:"movieId"  bson:"movieId,omitempty"`
	Username string             `json:"username" bson:"username"`
	Text     string             `json:"review"   bson:"review"`
	Rating   float64            `json:"rating"   bson:"rating"`
}

// CreateReviewRequest is the JSON body for POST /review.
type CreateReviewRequest struct {
	MovieID  string   `json:"movieId"  validate:"required"`
	Username string   `json:"username" validate:"required"`
	Review   string   `json:"review"   validate:"required"`
	Rating   *float64 `json:"rating"   validate:"required,gte=0,lte=5"`
}
