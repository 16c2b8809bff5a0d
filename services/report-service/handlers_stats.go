package main

import (
	"context"
	"net/http"
	"time"

	"animal-safety-hub/pkg/middleware"
	"animal-safety-hub/pkg/response"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type groupCount struct {
	ID    string `bson:"_id"`
	Count int64  `bson:"count"`
}

type statsFacets struct {
	Total      []groupCount `bson:"total"`
	RecentWeek []groupCount `bson:"recentWeek"`
	ByStatus   []groupCount `bson:"byStatus"`
	ByType     []groupCount `bson:"byType"`
	ByUrgency  []groupCount `bson:"byUrgency"`
}

// countMap reshapes an ordered group-count list into a key-to-count mapping.
func countMap(groups []groupCount) map[string]int64 {
	m := make(map[string]int64, len(groups))
	for _, g := range groups {
		m[g.ID] = g.Count
	}
	return m
}

func firstCount(groups []groupCount) int64 {
	if len(groups) == 0 {
		return 0
	}
	return groups[0].Count
}

func groupBy(field string) []bson.M {
	return []bson.M{
		{"$group": bson.M{"_id": field, "count": bson.M{"$sum": 1}}},
	}
}

// handleStatistics computes every aggregate in a single pipeline pass;
// nothing is cached between calls.
func (a *App) handleStatistics(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	weekAgo := time.Now().UTC().AddDate(0, 0, -7)

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$facet", Value: bson.M{
			"total": []bson.M{
				{"$count": "count"},
			},
			"recentWeek": []bson.M{
				{"$match": bson.M{"createdAt": bson.M{"$gte": weekAgo}}},
				{"$count": "count"},
			},
			"byStatus":  groupBy("$status"),
			"byType":    groupBy("$incidentType"),
			"byUrgency": groupBy("$incident.urgency"),
		}}},
	}

	cursor, err := a.reports.Aggregate(ctx, pipeline)
	if err != nil {
		middleware.LogError(traceID, "Failed to aggregate statistics", err)
		response.Error(w, http.StatusInternalServerError, "Failed to compute statistics")
		return
	}
	defer cursor.Close(ctx)

	var facets []statsFacets
	if err := cursor.All(ctx, &facets); err != nil {
		middleware.LogError(traceID, "Failed to decode statistics", err)
		response.Error(w, http.StatusInternalServerError, "Failed to compute statistics")
		return
	}
	if len(facets) == 0 {
		facets = []statsFacets{{}}
	}

	f := facets[0]
	response.Success(w, http.StatusOK, "", map[string]interface{}{
		"total":      firstCount(f.Total),
		"recentWeek": firstCount(f.RecentWeek),
		"byStatus":   countMap(f.ByStatus),
		"byType":     countMap(f.ByType),
		"byUrgency":  countMap(f.ByUrgency),
	})
}
