package mongo

import (
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/quickcart-grocery/api/pkg/global"
)

var (
	client       *mongo.Client
	databaseName string
)

// InitMongoDB connects once at startup and caches the client for the
// lifetime of the process.
func InitMongoDB(cfg *global.Config) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(serverAPI)

	c, err := mongo.Connect(clientOptions)
	if err != nil {
		global.Log().Fatalf("Failed to create MongoDB client: %v", err)
	}

	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	if err := c.Ping(ctx, nil); err != nil {
		global.Log().Fatalf("Failed to ping MongoDB: %v", err)
	}

	client = c
	databaseName = cfg.MongoDatabase
	global.Log().Info("Connected to MongoDB successfully")
}

func GetClient() *mongo.Client {
	return client
}

func GetDatabase() *mongo.Database {
	return client.Database(databaseName)
}

func GetCollection(collectionName string) *mongo.Collection {
	return GetDatabase().Collection(collectionName)
}
