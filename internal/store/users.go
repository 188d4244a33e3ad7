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

type userDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Username string             `bson:"username"`
	Password string             `bson:"password"`
}

// MongoUsers keeps user records in the users collection. Username
// uniqueness relies on the index created by EnsureIndexes.
type MongoUsers struct {
	col *mongo.Collection
}

func NewMongoUsers(db *mongo.Database) *MongoUsers {
	return &MongoUsers{col: db.Collection(UsersCollection)}
}

func (s *MongoUsers) Insert(ctx context.Context, user *models.User) error {
	res, err := s.col.InsertOne(ctx, userDoc{
		Name:     user.Name,
		Username: user.Username,
		Password: user.Password,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("A user with that username already exists.")
		}
		return apperr.Storage("create user", fmt.Errorf("mongo insert: %w", err))
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid.Hex()
	}
	return nil
}

func (s *MongoUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var doc userDoc
	if err := s.col.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Storage("find user", fmt.Errorf("mongo find one: %w", err))
	}
	return &models.User{
		ID:       doc.ID.Hex(),
		Name:     doc.Name,
		Username: doc.Username,
		Password: doc.Password,
	}, nil
}
