package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/quickcart-grocery/api/pkg/models"
)

var (
	ErrDuplicateEmail = errors.New("email already in use")
	ErrUserNotFound   = errors.New("user not found")
)

// CreateUser inserts a new account. The unique email index is the source of
// truth for duplicate detection.
func CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	collection := GetCollection("users")

	user.Email = models.NormalizeEmail(user.Email)
	user.SetTimestamps()
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}

	if _, err := collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	return user, nil
}

func GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	collection := GetCollection("users")

	var user models.User
	err := collection.FindOne(ctx, bson.D{{Key: "email", Value: models.NormalizeEmail(email)}}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

func GetUserByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	collection := GetCollection("users")

	var user models.User
	err := collection.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// GetUsersByIDs resolves a batch of user references, keyed by hex id.
func GetUsersByIDs(ctx context.Context, ids []bson.ObjectID) (map[string]models.User, error) {
	users := make(map[string]models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	collection := GetCollection("users")
	cursor, err := collection.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []models.User
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}

	for _, user := range results {
		users[user.ID.Hex()] = user
	}
	return users, nil
}
