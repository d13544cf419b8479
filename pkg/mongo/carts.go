package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/quickcart-grocery/api/pkg/models"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrCartConflict = errors.New("cart modified concurrently")
)

// casMaxAttempts bounds the retry loop on version conflicts. A single user
// editing their own cart rarely needs more than one pass.
const casMaxAttempts = 3

func GetCartByUser(ctx context.Context, userID bson.ObjectID) (*models.Cart, error) {
	collection := GetCollection("carts")

	var cart models.Cart
	err := collection.FindOne(ctx, bson.D{{Key: "user", Value: userID}}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	return &cart, nil
}

// saveCartCAS writes the cart's items only when the stored version still
// matches the one the caller read. A failed match means a concurrent writer
// won the race.
func saveCartCAS(ctx context.Context, cart *models.Cart) error {
	collection := GetCollection("carts")

	filter := bson.D{
		{Key: "_id", Value: cart.ID},
		{Key: "version", Value: cart.Version},
	}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "items", Value: cart.Items},
			{Key: "updated_at", Value: time.Now()},
		}},
		{Key: "$inc", Value: bson.D{{Key: "version", Value: 1}}},
	}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrCartConflict
	}
	return nil
}

func insertCart(ctx context.Context, cart *models.Cart) error {
	collection := GetCollection("carts")

	now := time.Now()
	cart.ID = bson.NewObjectID()
	cart.Version = 1
	cart.CreatedAt = now
	cart.UpdatedAt = now

	_, err := collection.InsertOne(ctx, cart)
	return err
}

// MutateCart loads the user's cart (creating it lazily when absent), applies
// mutate, and persists the result with a compare-and-swap on the version
// field, retrying on conflict. mutate returning an error aborts the write.
func MutateCart(ctx context.Context, userID bson.ObjectID, mutate func(*models.Cart) error) (*models.Cart, error) {
	for attempt := 0; attempt < casMaxAttempts; attempt++ {
		cart, err := GetCartByUser(ctx, userID)
		created := false
		if errors.Is(err, ErrCartNotFound) {
			cart = &models.Cart{User: userID, Items: []models.CartItem{}}
			created = true
		} else if err != nil {
			return nil, err
		}

		if err := mutate(cart); err != nil {
			return nil, err
		}

		if created {
			err = insertCart(ctx, cart)
			// A concurrent first-add hit the unique user index; reload
			// and retry against the winner's document.
			if mongo.IsDuplicateKeyError(err) {
				continue
			}
			if err != nil {
				return nil, err
			}
			return cart, nil
		}

		err = saveCartCAS(ctx, cart)
		if errors.Is(err, ErrCartConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		cart.Version++
		return cart, nil
	}

	return nil, ErrCartConflict
}

// MutateExistingCart is MutateCart without lazy creation: callers that
// require a cart to already exist get ErrCartNotFound instead.
func MutateExistingCart(ctx context.Context, userID bson.ObjectID, mutate func(*models.Cart) error) (*models.Cart, error) {
	for attempt := 0; attempt < casMaxAttempts; attempt++ {
		cart, err := GetCartByUser(ctx, userID)
		if err != nil {
			return nil, err
		}

		if err := mutate(cart); err != nil {
			return nil, err
		}

		err = saveCartCAS(ctx, cart)
		if errors.Is(err, ErrCartConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		cart.Version++
		return cart, nil
	}

	return nil, ErrCartConflict
}
