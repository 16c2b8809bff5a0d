package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"animal-safety-hub/pkg/middleware"
	"animal-safety-hub/pkg/queue"
	"animal-safety-hub/pkg/response"
	"animal-safety-hub/services/report-service/models"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func pathID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

const (
	defaultPage  = 1
	defaultLimit = 20
)

// listQuery is the parsed form of the admin listing parameters.
type listQuery struct {
	page      int64
	limit     int64
	filter    bson.M
	sortField string
	sortDir   int
}

func parseListQuery(r *http.Request) (listQuery, error) {
	q := r.URL.Query()

	lq := listQuery{
		page:      defaultPage,
		limit:     defaultLimit,
		filter:    bson.M{},
		sortField: "createdAt",
		sortDir:   -1,
	}

	if v := q.Get("page"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 {
			return lq, fmt.Errorf("page must be a positive integer")
		}
		lq.page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 {
			return lq, fmt.Errorf("limit must be a positive integer")
		}
		lq.limit = n
	}

	if v := q.Get("status"); v != "" {
		lq.filter["status"] = v
	}
	if v := q.Get("incidentType"); v != "" {
		lq.filter["incidentType"] = v
	}
	if v := q.Get("urgency"); v != "" {
		lq.filter["incident.urgency"] = v
	}

	if v := q.Get("startDate"); v != "" {
		t, err := parseIncidentDate(v)
		if err != nil {
			return lq, fmt.Errorf("invalid startDate (RFC3339 or YYYY-MM-DD)")
		}
		setRange(lq.filter, "createdAt", "$gte", t)
	}
	if v := q.Get("endDate"); v != "" {
		t, err := parseIncidentDate(v)
		if err != nil {
			return lq, fmt.Errorf("invalid endDate (RFC3339 or YYYY-MM-DD)")
		}
		setRange(lq.filter, "createdAt", "$lte", t)
	}

	if v := q.Get("sortBy"); v != "" {
		// urgency lives on the embedded incident document
		if v == "urgency" {
			v = "incident.urgency"
		}
		lq.sortField = v
	}
	if v := q.Get("sortOrder"); v != "" {
		switch v {
		case "asc":
			lq.sortDir = 1
		case "desc":
			lq.sortDir = -1
		default:
			return lq, fmt.Errorf("sortOrder must be asc or desc")
		}
	}

	return lq, nil
}

func setRange(m bson.M, key, op string, t time.Time) {
	if m[key] == nil {
		m[key] = bson.M{}
	}
	m[key].(bson.M)[op] = t
}

// statusUpdateDoc builds the single update applied on a status change.
// resolvedAt is written exactly once, on the first transition to resolved,
// and never cleared afterwards. A non-empty note rides along as an
// append-only entry.
func statusUpdateDoc(current *models.Report, newStatus models.Status, note, addedBy string, now time.Time) bson.M {
	set := bson.M{
		"status":    newStatus,
		"updatedAt": now,
	}
	if newStatus == models.StatusResolved && current.ResolvedAt == nil {
		set["resolvedAt"] = now
	}

	update := bson.M{"$set": set}
	if note != "" {
		update["$push"] = bson.M{"adminNotes": models.AdminNote{
			Note:    note,
			AddedBy: addedBy,
			AddedAt: now,
		}}
	}
	return update
}

// statusUpdateFilter keys the update on the status the handler just read, so
// a concurrent change surfaces as MatchedCount == 0 instead of a silent
// clobber.
func statusUpdateFilter(id primitive.ObjectID, readStatus models.Status) bson.M {
	return bson.M{"_id": id, "status": readStatus}
}

// noteAppendDoc appends one admin note atomically; nothing else on the
// document changes besides updatedAt.
func noteAppendDoc(note, addedBy string, now time.Time) bson.M {
	return bson.M{
		"$push": bson.M{"adminNotes": models.AdminNote{
			Note:    note,
			AddedBy: addedBy,
			AddedAt: now,
		}},
		"$set": bson.M{"updatedAt": now},
	}
}

// urgentFilter selects escalated reports still in an active status.
func urgentFilter() bson.M {
	return bson.M{
		"incident.urgency": bson.M{"$in": models.EscalatedUrgencies},
		"status":           bson.M{"$in": models.ActiveStatuses},
	}
}

func totalPages(total, limit int64) int64 {
	if limit < 1 {
		return 0
	}
	return (total + limit - 1) / limit
}

func (a *App) handleListReports(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r)

	lq, err := parseListQuery(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	total, err := a.reports.CountDocuments(ctx, lq.filter)
	if err != nil {
		middleware.LogError(traceID, "Failed to count reports", err)
		response.Error(w, http.StatusInternalServerError, "Failed to fetch reports")
		return
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: lq.sortField, Value: lq.sortDir}}).
		SetSkip((lq.page - 1) * lq.limit).
		SetLimit(lq.limit)

	cursor, err := a.reports.Find(ctx, lq.filter, findOpts)
	if err != nil {
		middleware.LogError(traceID, "Failed to fetch reports", err)
		response.Error(w, http.StatusInternalServerError, "Failed to fetch reports")
		return
	}
	defer cursor.Close(ctx)

	reports := []models.Report{}
	if err := cursor.All(ctx, &reports); err != nil {
		middleware.LogError(traceID, "Failed to decode reports", err)
		response.Error(w, http.StatusInternalServerError, "Failed to decode reports")
		return
	}

	pages := totalPages(total, lq.limit)
	response.Success(w, http.StatusOK, "", map[string]interface{}{
		"reports": reports,
		"pagination": paginationResp{
			CurrentPage:  lq.page,
			TotalPages:   pages,
			TotalReports: total,
			HasNextPage:  lq.page < pages,
			HasPrevPage:  lq.page > 1,
		},
	})
}

func (a *App) handleGetReport(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r)

	objID, err := primitive.ObjectIDFromHex(pathID(r))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid report ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var report models.Report
	if err := a.reports.FindOne(ctx, bson.M{"_id": objID}).Decode(&report); err != nil {
		if err == mongo.ErrNoDocuments {
			response.Error(w, http.StatusNotFound, "Report not found")
			return
		}
		middleware.LogError(traceID, "Failed to fetch report", err)
		response.Error(w, http.StatusInternalServerError, "Failed to fetch report")
		return
	}

	decryptContact(&report.Reporter)
	response.Success(w, http.StatusOK, "", report)
}

func (a *App) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r)

	objID, err := primitive.ObjectIDFromHex(pathID(r))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid report ID")
		return
	}

	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	newStatus := models.Status(req.Status)
	if !newStatus.Valid() {
		response.Error(w, http.StatusBadRequest, fmt.Sprintf("Invalid status %q", req.Status))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Read the current status for transition validation; the update below is
	// conditional on it so a concurrent change surfaces as a conflict rather
	// than a silent clobber.
	var current models.Report
	err = a.reports.FindOne(ctx, bson.M{"_id": objID},
		options.FindOne().SetProjection(bson.M{"status": 1, "resolvedAt": 1}),
	).Decode(&current)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			response.Error(w, http.StatusNotFound, "Report not found")
			return
		}
		middleware.LogError(traceID, "Failed to fetch report", err)
		response.Error(w, http.StatusInternalServerError, "Failed to update status")
		return
	}

	if err := a.transitions.Check(current.Status, newStatus); err != nil {
		response.Error(w, http.StatusConflict, err.Error())
		return
	}

	now := time.Now().UTC()
	update := statusUpdateDoc(&current, newStatus, req.Note, adminName(r, req.AdminName), now)

	result, err := a.reports.UpdateOne(ctx, statusUpdateFilter(objID, current.Status), update)
	if err != nil {
		middleware.LogError(traceID, "Failed to update status", err)
		response.Error(w, http.StatusInternalServerError, "Failed to update status")
		return
	}
	if result.MatchedCount == 0 {
		response.Error(w, http.StatusConflict, "Report was modified concurrently, retry")
		return
	}

	a.publishEvent(queue.KeyReportUpdated, models.ReportEvent{
		Type:      "status_update",
		ReportID:  objID.Hex(),
		Status:    newStatus,
		CreatedAt: now,
	})

	response.Success(w, http.StatusOK, "Report status updated", map[string]interface{}{
		"id":        objID.Hex(),
		"status":    newStatus,
		"updatedAt": now,
	})
}

func (a *App) handleAddNote(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r)

	objID, err := primitive.ObjectIDFromHex(pathID(r))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid report ID")
		return
	}

	var req addNoteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	if req.Note == "" {
		response.Error(w, http.StatusBadRequest, "note is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	result, err := a.reports.UpdateOne(ctx, bson.M{"_id": objID},
		noteAppendDoc(req.Note, adminName(r, req.AdminName), now))
	if err != nil {
		middleware.LogError(traceID, "Failed to add note", err)
		response.Error(w, http.StatusInternalServerError, "Failed to add note")
		return
	}
	if result.MatchedCount == 0 {
		response.Error(w, http.StatusNotFound, "Report not found")
		return
	}

	var report models.Report
	err = a.reports.FindOne(ctx, bson.M{"_id": objID},
		options.FindOne().SetProjection(bson.M{"adminNotes": 1}),
	).Decode(&report)
	if err != nil {
		middleware.LogError(traceID, "Failed to fetch updated notes", err)
		response.Error(w, http.StatusInternalServerError, "Failed to fetch updated notes")
		return
	}

	response.Success(w, http.StatusOK, "Note added", map[string]interface{}{
		"id":    objID.Hex(),
		"notes": report.AdminNotes,
	})
}

func (a *App) handleUrgentReports(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := a.reports.Find(ctx, urgentFilter(),
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		middleware.LogError(traceID, "Failed to fetch urgent reports", err)
		response.Error(w, http.StatusInternalServerError, "Failed to fetch urgent reports")
		return
	}
	defer cursor.Close(ctx)

	reports := []models.Report{}
	if err := cursor.All(ctx, &reports); err != nil {
		middleware.LogError(traceID, "Failed to decode urgent reports", err)
		response.Error(w, http.StatusInternalServerError, "Failed to decode urgent reports")
		return
	}

	response.Success(w, http.StatusOK, "", map[string]interface{}{
		"count":   len(reports),
		"reports": reports,
	})
}

func (a *App) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r)

	objID, err := primitive.ObjectIDFromHex(pathID(r))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid report ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := a.reports.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		middleware.LogError(traceID, "Failed to delete report", err)
		response.Error(w, http.StatusInternalServerError, "Failed to delete report")
		return
	}
	if result.DeletedCount == 0 {
		response.Error(w, http.StatusNotFound, "Report not found")
		return
	}

	response.Success(w, http.StatusOK, "Report deleted", nil)
}

// adminName resolves the moderator attribution for a note: explicit name,
// then the authenticated user, then the historical default.
func adminName(r *http.Request, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if claims, ok := middleware.ClaimsFrom(r); ok && claims.Name != "" {
		return claims.Name
	}
	return "Admin"
}
