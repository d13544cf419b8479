package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/quickcart-grocery/api/pkg/models"
)

type DailySales struct {
	Day        string  `json:"day" bson:"_id"`
	Revenue    float64 `json:"revenue" bson:"revenue"`
	OrderCount int     `json:"order_count" bson:"order_count"`
	ItemsSold  int     `json:"items_sold" bson:"items_sold"`
}

type SalesAnalyticsResult struct {
	Days         []DailySales `json:"days"`
	TotalRevenue float64      `json:"total_revenue"`
	TotalOrders  int          `json:"total_orders"`
}

// GetSalesAnalytics aggregates non-cancelled orders into per-day revenue and
// volume buckets, oldest day first.
func GetSalesAnalytics(ctx context.Context) (*SalesAnalyticsResult, error) {
	collection := GetCollection("orders")

	pipeline := bson.A{
		bson.D{
			{Key: "$match", Value: bson.D{
				{Key: "status", Value: bson.D{{Key: "$ne", Value: models.OrderStatusCancelled}}},
			}},
		},
		bson.D{
			{Key: "$group", Value: bson.D{
				{Key: "_id", Value: bson.D{
					{Key: "$dateToString", Value: bson.D{
						{Key: "format", Value: "%Y-%m-%d"},
						{Key: "date", Value: "$created_at"},
					}},
				}},
				{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$total_amount"}}},
				{Key: "order_count", Value: bson.D{{Key: "$sum", Value: 1}}},
				{Key: "items_sold", Value: bson.D{{Key: "$sum", Value: bson.D{
					{Key: "$sum", Value: "$items.quantity"},
				}}}},
			}},
		},
		bson.D{
			{Key: "$addFields", Value: bson.D{
				{Key: "revenue", Value: bson.D{{Key: "$round", Value: bson.A{"$revenue", 2}}}},
			}},
		},
		bson.D{
			{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}},
		},
	}

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var days []DailySales
	if err := cursor.All(ctx, &days); err != nil {
		return nil, err
	}

	result := &SalesAnalyticsResult{Days: days}
	for _, day := range days {
		result.TotalRevenue += day.Revenue
		result.TotalOrders += day.OrderCount
	}

	return result, nil
}
