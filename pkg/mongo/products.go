package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/quickcart-grocery/api/pkg/models"
)

var ErrProductNotFound = errors.New("product not found")

func GetActiveProducts(ctx context.Context) ([]models.Product, error) {
	collection := GetCollection("products")

	cursor, err := collection.Find(ctx, bson.D{{Key: "is_active", Value: true}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}

	return products, nil
}

func GetProductByID(ctx context.Context, id bson.ObjectID) (*models.Product, error) {
	collection := GetCollection("products")

	var product models.Product
	err := collection.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	return &product, nil
}

// GetProductsByIDs resolves a batch of product references, keyed by hex id.
// Missing ids are simply absent from the map.
func GetProductsByIDs(ctx context.Context, ids []bson.ObjectID) (map[string]models.Product, error) {
	products := make(map[string]models.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	collection := GetCollection("products")
	cursor, err := collection.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []models.Product
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}

	for _, product := range results {
		products[product.ID.Hex()] = product
	}
	return products, nil
}

func CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	collection := GetCollection("products")

	product.SetTimestamps()
	if product.ID.IsZero() {
		product.ID = bson.NewObjectID()
	}

	if _, err := collection.InsertOne(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// UpdateProduct applies a partial update and returns the new document.
func UpdateProduct(ctx context.Context, id bson.ObjectID, updates bson.D) (*models.Product, error) {
	collection := GetCollection("products")

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.D{{Key: "$set", Value: updates}, {Key: "$currentDate", Value: bson.D{{Key: "updated_at", Value: true}}}}

	var product models.Product
	err := collection.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, update, opts).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	return &product, nil
}

func DeleteProduct(ctx context.Context, id bson.ObjectID) (*models.Product, error) {
	collection := GetCollection("products")

	var product models.Product
	err := collection.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	return &product, nil
}

func CountProducts(ctx context.Context) (int64, error) {
	return GetCollection("products").CountDocuments(ctx, bson.D{})
}
