package ai

import (
	"encoding/json"
	"fmt"

	"github.com/quickcart-grocery/api/pkg/mongo"
)

const salesReportSystemPrompt = `You are a business analyst for an online grocery store.
Generate concise, actionable insights from daily sales data. Focus on:
- Revenue and order-volume trends
- Days or categories that over- or under-performed
- Specific recommendations for promotions and stock planning
Keep responses to 3-4 paragraphs maximum.`

func formatSalesDataPrompt(sales *mongo.SalesAnalyticsResult) string {
	data, err := json.Marshal(sales)
	if err != nil {
		return "No sales data available."
	}
	return fmt.Sprintf("Daily sales data for the store (JSON):\n%s", data)
}
