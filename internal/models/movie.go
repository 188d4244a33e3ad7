package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Movie is a document in the movies collection.
type Movie struct {
	ID          primitive.ObjectID `json:"_id"         bson:"_id,omitempty"`
	Title       string             `json:"title"       bson:"title"`
	ReleaseDate time.Time          `json:"releaseDate" bson:"releaseDate"`
	Genre       string             `json:"genre"       bson:"genre"`
	Actors      []string           `json:"actors"      bson:"actors"`
}

// MovieWithReviews is a movie joined with its reviews. AverageRating is nil
// when the movie has no reviews.
type MovieWithReviews struct {
	Movie         `bson:",inline"`
	Reviews       []Review `json:"reviews"       bson:"reviews"`
	AverageRating *float64 `json:"averageRating" bson:"-"`
}
