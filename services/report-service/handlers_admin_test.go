package main

import (
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"animal-safety-hub/services/report-service/models"

	"github.com/stretchr/testify/require"
)

func TestParseListQueryDefaults(t *testing.T) {
	require := require.New(t)

	req := httptest.NewRequest("GET", "/api/admin/reports", nil)
	lq, err := parseListQuery(req)
	require.NoError(err)

	require.EqualValues(defaultPage, lq.page)
	require.EqualValues(defaultLimit, lq.limit)
	require.Empty(lq.filter)
	require.Equal("createdAt", lq.sortField)
	require.Equal(-1, lq.sortDir)
}

func TestParseListQueryFilters(t *testing.T) {
	require := require.New(t)

	req := httptest.NewRequest("GET",
		"/api/admin/reports?page=2&limit=10&status=pending&incidentType=stray&urgency=high"+
			"&sortBy=urgency&sortOrder=asc&startDate=2024-01-01&endDate=2024-02-01", nil)
	lq, err := parseListQuery(req)
	require.NoError(err)

	require.EqualValues(2, lq.page)
	require.EqualValues(10, lq.limit)
	require.Equal("pending", lq.filter["status"])
	require.Equal("stray", lq.filter["incidentType"])
	require.Equal("high", lq.filter["incident.urgency"])
	require.Equal("incident.urgency", lq.sortField)
	require.Equal(1, lq.sortDir)

	created, ok := lq.filter["createdAt"].(bson.M)
	require.True(ok)
	require.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), created["$gte"])
	require.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), created["$lte"])
}

func TestParseListQueryRejectsBadInput(t *testing.T) {
	for _, target := range []string{
		"/api/admin/reports?page=0",
		"/api/admin/reports?page=abc",
		"/api/admin/reports?limit=-1",
		"/api/admin/reports?sortOrder=up",
		"/api/admin/reports?startDate=yesterday",
		"/api/admin/reports?endDate=01/02/2024",
	} {
		req := httptest.NewRequest("GET", target, nil)
		_, err := parseListQuery(req)
		require.Error(t, err, target)
	}
}

func TestStatusUpdateDocSetsResolvedAtOnce(t *testing.T) {
	require := require.New(t)
	now := time.Now().UTC()

	// first transition to resolved writes resolvedAt
	current := &models.Report{Status: models.StatusPending}
	update := statusUpdateDoc(current, models.StatusResolved, "", "Admin", now)
	set := update["$set"].(bson.M)
	require.Equal(models.StatusResolved, set["status"])
	require.Equal(now, set["updatedAt"])
	require.Equal(now, set["resolvedAt"])

	// a second resolve leaves the original resolvedAt untouched
	earlier := now.Add(-time.Hour)
	current = &models.Report{Status: models.StatusInProgress, ResolvedAt: &earlier}
	update = statusUpdateDoc(current, models.StatusResolved, "", "Admin", now)
	set = update["$set"].(bson.M)
	require.NotContains(set, "resolvedAt")

	// moving away from resolved never clears it
	update = statusUpdateDoc(current, models.StatusClosed, "", "Admin", now)
	set = update["$set"].(bson.M)
	require.NotContains(set, "resolvedAt")
	require.Equal(models.StatusClosed, set["status"])
}

func TestStatusUpdateDocNotePush(t *testing.T) {
	require := require.New(t)
	now := time.Now().UTC()
	current := &models.Report{Status: models.StatusPending}

	// no note, no push
	update := statusUpdateDoc(current, models.StatusUnderReview, "", "Admin", now)
	require.NotContains(update, "$push")

	// note rides along as an append, never a replace
	update = statusUpdateDoc(current, models.StatusUnderReview, "taking a look", "Sam", now)
	push := update["$push"].(bson.M)
	note := push["adminNotes"].(models.AdminNote)
	require.Equal("taking a look", note.Note)
	require.Equal("Sam", note.AddedBy)
	require.Equal(now, note.AddedAt)
}

func TestStatusUpdateFilterGuardsReadStatus(t *testing.T) {
	require := require.New(t)

	id := primitive.NewObjectID()
	filter := statusUpdateFilter(id, models.StatusPending)

	// the update only matches while the document still holds the status the
	// handler read, so a concurrent change yields MatchedCount == 0
	require.Equal(id, filter["_id"])
	require.Equal(models.StatusPending, filter["status"])
	require.Len(filter, 2)
}

func TestNoteAppendDoc(t *testing.T) {
	require := require.New(t)
	now := time.Now().UTC()

	update := noteAppendDoc("call back tomorrow", "Jo", now)

	push := update["$push"].(bson.M)
	note := push["adminNotes"].(models.AdminNote)
	require.Equal("call back tomorrow", note.Note)
	require.Equal("Jo", note.AddedBy)

	set := update["$set"].(bson.M)
	require.Equal(now, set["updatedAt"])
	require.Len(set, 1, "only updatedAt may change alongside an append")
	require.Len(update, 2)
}

func TestUrgentFilter(t *testing.T) {
	require := require.New(t)

	filter := urgentFilter()

	urgencies := filter["incident.urgency"].(bson.M)["$in"].([]models.Urgency)
	require.ElementsMatch([]models.Urgency{models.UrgencyHigh, models.UrgencyCritical}, urgencies)
	require.NotContains(urgencies, models.UrgencyLow)
	require.NotContains(urgencies, models.UrgencyMedium)

	statuses := filter["status"].(bson.M)["$in"].([]models.Status)
	require.ElementsMatch([]models.Status{models.StatusPending, models.StatusUnderReview, models.StatusInProgress}, statuses)
	require.NotContains(statuses, models.StatusResolved)
	require.NotContains(statuses, models.StatusClosed)
	require.NotContains(statuses, models.StatusRejected)
}

func TestTotalPages(t *testing.T) {
	require := require.New(t)

	require.EqualValues(3, totalPages(25, 10))
	require.EqualValues(2, totalPages(20, 10))
	require.EqualValues(0, totalPages(0, 10))
	require.EqualValues(1, totalPages(1, 20))
}

func TestPaginationFlags(t *testing.T) {
	require := require.New(t)

	// 25 reports, page 2 of 3 at limit 10
	var page, limit, total int64 = 2, 10, 25
	pages := totalPages(total, limit)

	require.EqualValues(3, pages)
	require.True(page < pages)
	require.True(page > 1)
}
