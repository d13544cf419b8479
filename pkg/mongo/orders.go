package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/quickcart-grocery/api/pkg/models"
)

var ErrOrderNotFound = errors.New("order not found")

func CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	collection := GetCollection("orders")

	order.SetTimestamps()
	if order.ID.IsZero() {
		order.ID = bson.NewObjectID()
	}

	if _, err := collection.InsertOne(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

func GetOrderByID(ctx context.Context, id bson.ObjectID) (*models.Order, error) {
	collection := GetCollection("orders")

	var order models.Order
	err := collection.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	return &order, nil
}

// GetOrdersByUser returns the user's orders, newest first.
func GetOrdersByUser(ctx context.Context, userID bson.ObjectID) ([]models.Order, error) {
	collection := GetCollection("orders")

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := collection.Find(ctx, bson.D{{Key: "user", Value: userID}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// GetAllOrders returns every order across all users, newest first.
func GetAllOrders(ctx context.Context) ([]models.Order, error) {
	collection := GetCollection("orders")

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// SetOrderStatus updates only the status field and returns the new document.
// Transition validation happens at the service boundary before this call.
func SetOrderStatus(ctx context.Context, id bson.ObjectID, status string) (*models.Order, error) {
	collection := GetCollection("orders")

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.D{
		{Key: "$set", Value: bson.D{{Key: "status", Value: status}}},
		{Key: "$currentDate", Value: bson.D{{Key: "updated_at", Value: true}}},
	}

	var order models.Order
	err := collection.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, update, opts).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	return &order, nil
}
