package ai

import (
	"context"
	"time"

	"github.com/quickcart-grocery/api/pkg/mongo"
)

// AIReportResponse is the envelope for AI-assisted analytics reports.
type AIReportResponse struct {
	Status      string     `json:"status"`
	Data        ReportData `json:"data"`
	GeneratedAt time.Time  `json:"generated_at"`
	AIEnabled   bool       `json:"ai_enabled"`
}

type ReportData struct {
	RawData    interface{} `json:"raw_data"`
	AIInsights string      `json:"ai_insights,omitempty"`
	Summary    string      `json:"summary"`
	Error      string      `json:"error,omitempty"`
}

// GenerateSalesReport fetches the sales aggregation and, when the AI service
// is configured, augments it with generated insights.
func GenerateSalesReport(ctx context.Context) (*AIReportResponse, error) {
	salesData, err := mongo.GetSalesAnalytics(ctx)
	if err != nil {
		return &AIReportResponse{
			Status:      "error",
			Data:        ReportData{Error: "Failed to fetch sales data: " + err.Error()},
			GeneratedAt: time.Now(),
			AIEnabled:   IsEnabled(),
		}, err
	}

	response := &AIReportResponse{
		Status:      "success",
		GeneratedAt: time.Now(),
		AIEnabled:   IsEnabled(),
		Data: ReportData{
			RawData: salesData,
			Summary: "Sales data retrieved successfully",
		},
	}

	if IsEnabled() {
		userPrompt := formatSalesDataPrompt(salesData)
		aiInsights, err := generateCompletion(ctx, salesReportSystemPrompt, userPrompt)
		if err != nil {
			response.Data.Error = "AI analysis failed: " + err.Error()
		} else {
			response.Data.AIInsights = aiInsights
			response.Data.Summary = "AI-generated sales insights and recommendations"
		}
	} else {
		response.Data.Summary = "Raw sales data (AI insights unavailable)"
	}

	return response, nil
}
