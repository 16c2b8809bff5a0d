package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"animal-safety-hub/pkg/middleware"
	"animal-safety-hub/pkg/queue"
	"animal-safety-hub/pkg/response"
	"animal-safety-hub/pkg/security"
	"animal-safety-hub/services/report-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status":  "UP",
		"service": "report-service",
	})
}

// parseIncidentDate accepts RFC3339 timestamps and bare dates.
func parseIncidentDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// validateSubmission checks required fields and enum values, returning one
// message per failing field.
func validateSubmission(req *submitReportReq) (errs []string) {
	if req.IncidentType == "" {
		errs = append(errs, "incidentType is required")
	} else if !models.IncidentType(req.IncidentType).Valid() {
		errs = append(errs, fmt.Sprintf("incidentType %q is not a valid incident type", req.IncidentType))
	}

	if req.Location.Address == "" {
		errs = append(errs, "location.address is required")
	}
	if req.Location.Date == "" {
		errs = append(errs, "location.date is required")
	} else if _, err := parseIncidentDate(req.Location.Date); err != nil {
		errs = append(errs, "location.date must be an RFC3339 timestamp or YYYY-MM-DD date")
	}

	if req.Animals.Type == "" {
		errs = append(errs, "animals.type is required")
	} else if !models.AnimalType(req.Animals.Type).Valid() {
		errs = append(errs, fmt.Sprintf("animals.type %q is not a valid animal type", req.Animals.Type))
	}
	if req.Animals.Count != nil && *req.Animals.Count < 1 {
		errs = append(errs, "animals.count must be at least 1")
	}

	if req.Incident.Description == "" {
		errs = append(errs, "incident.description is required")
	}
	if req.Incident.Urgency != "" && !models.Urgency(req.Incident.Urgency).Valid() {
		errs = append(errs, fmt.Sprintf("incident.urgency %q is not a valid urgency", req.Incident.Urgency))
	}
	if req.Incident.Ongoing != "" && !models.Ongoing(req.Incident.Ongoing).Valid() {
		errs = append(errs, fmt.Sprintf("incident.ongoing %q is not a valid value", req.Incident.Ongoing))
	}
	if req.Reporter.ContactPreference != "" && !models.ContactPreference(req.Reporter.ContactPreference).Valid() {
		errs = append(errs, fmt.Sprintf("reporter.contactPreference %q is not a valid value", req.Reporter.ContactPreference))
	}
	return errs
}

// buildReport applies the documented field defaults and produces the document
// to persist. Validation must have passed already.
func buildReport(req *submitReportReq, now time.Time) models.Report {
	reporterName := req.Reporter.Name
	if reporterName == "" {
		reporterName = "Anonymous"
	}
	contactPref := models.ContactPreference(req.Reporter.ContactPreference)
	if contactPref == "" {
		contactPref = models.ContactNone
	}

	count := 1
	if req.Animals.Count != nil {
		count = *req.Animals.Count
	}

	urgency := models.Urgency(req.Incident.Urgency)
	if urgency == "" {
		urgency = models.UrgencyMedium
	}
	ongoing := models.Ongoing(req.Incident.Ongoing)
	if ongoing == "" {
		ongoing = models.OngoingRecent
	}

	date, _ := parseIncidentDate(req.Location.Date)

	photos := req.Evidence.Photos
	if photos == nil {
		photos = []string{}
	}
	videos := req.Evidence.Videos
	if videos == nil {
		videos = []string{}
	}

	return models.Report{
		ID:           primitive.NewObjectID(),
		IncidentType: models.IncidentType(req.IncidentType),
		Reporter: models.Reporter{
			Name:              reporterName,
			Email:             req.Reporter.Email,
			Phone:             req.Reporter.Phone,
			ContactPreference: contactPref,
		},
		Location: models.Location{
			Address:     req.Location.Address,
			Description: req.Location.Description,
			Coordinates: models.Coordinates{
				Latitude:  req.Location.Coordinates.Latitude,
				Longitude: req.Location.Coordinates.Longitude,
			},
			Date: date,
			Time: req.Location.Time,
		},
		Animals: models.Animals{
			Type:        models.AnimalType(req.Animals.Type),
			Count:       count,
			Description: req.Animals.Description,
		},
		Incident: models.Incident{
			Description:    req.Incident.Description,
			Urgency:        urgency,
			Ongoing:        ongoing,
			AdditionalInfo: req.Incident.AdditionalInfo,
		},
		Evidence: models.Evidence{
			Photos: photos,
			Videos: videos,
		},
		Status:     models.StatusPending,
		AdminNotes: []models.AdminNote{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (a *App) handleSubmitReport(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r)

	var req submitReportReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	if errs := validateSubmission(&req); len(errs) > 0 {
		response.Error(w, http.StatusBadRequest, "Validation failed", errs...)
		return
	}

	report := buildReport(&req, time.Now().UTC())

	if a.cfg.ContactEnc {
		if err := encryptContact(&report.Reporter); err != nil {
			middleware.LogError(traceID, "Failed to encrypt reporter contact", err)
			response.Error(w, http.StatusInternalServerError, "Failed to save report")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := a.reports.InsertOne(ctx, report); err != nil {
		middleware.LogError(traceID, "Failed to insert report", err)
		response.Error(w, http.StatusInternalServerError, "Failed to save report")
		return
	}

	a.publishEvent(queue.KeyReportCreated, models.ReportEvent{
		Type:         "new_report",
		ReportID:     report.ID.Hex(),
		IncidentType: report.IncidentType,
		Urgency:      report.Incident.Urgency,
		Status:       report.Status,
		Address:      report.Location.Address,
		CreatedAt:    report.CreatedAt,
	})

	response.Success(w, http.StatusCreated, "Report submitted successfully", map[string]interface{}{
		"id":        report.ID.Hex(),
		"status":    report.Status,
		"createdAt": report.CreatedAt,
	})
}

func (a *App) handleReportStatus(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r)

	objID, err := primitive.ObjectIDFromHex(pathID(r))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid report ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Public view exposes only the lifecycle fields, never evidence or notes.
	var report models.Report
	err = a.reports.FindOne(ctx, bson.M{"_id": objID},
		options.FindOne().SetProjection(bson.M{
			"status":       1,
			"incidentType": 1,
			"createdAt":    1,
			"updatedAt":    1,
		}),
	).Decode(&report)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			response.Error(w, http.StatusNotFound, "Report not found")
			return
		}
		middleware.LogError(traceID, "Failed to fetch report status", err)
		response.Error(w, http.StatusInternalServerError, "Failed to fetch report status")
		return
	}

	response.Success(w, http.StatusOK, "", map[string]interface{}{
		"id":           report.ID.Hex(),
		"status":       report.Status,
		"incidentType": report.IncidentType,
		"createdAt":    report.CreatedAt,
		"updatedAt":    report.UpdatedAt,
	})
}

func (a *App) handlePresignEvidence(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r)

	var req presignEvidenceReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	if req.Filename == "" {
		response.Error(w, http.StatusBadRequest, "filename is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	uploadURL, objectURL, err := a.evidence.PresignUpload(ctx, req.Filename)
	if err != nil {
		middleware.LogError(traceID, "Failed to presign evidence upload", err)
		response.Error(w, http.StatusInternalServerError, "Failed to presign upload")
		return
	}

	response.Success(w, http.StatusOK, "", map[string]interface{}{
		"uploadUrl": uploadURL,
		"objectUrl": objectURL,
	})
}

func encryptContact(rep *models.Reporter) error {
	if rep.Email != "" {
		enc, err := security.EncryptString(rep.Email)
		if err != nil {
			return err
		}
		rep.Email = enc
		rep.ContactEncrypted = true
	}
	if rep.Phone != "" {
		enc, err := security.EncryptString(rep.Phone)
		if err != nil {
			return err
		}
		rep.Phone = enc
		rep.ContactEncrypted = true
	}
	return nil
}

func decryptContact(rep *models.Reporter) {
	if !rep.ContactEncrypted {
		return
	}
	if rep.Email != "" {
		if pt, err := security.DecryptString(rep.Email); err == nil {
			rep.Email = pt
		}
	}
	if rep.Phone != "" {
		if pt, err := security.DecryptString(rep.Phone); err == nil {
			rep.Phone = pt
		}
	}
	rep.ContactEncrypted = false
}
