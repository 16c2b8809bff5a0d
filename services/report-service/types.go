package main

// Request/response DTOs. Keep them minimal and explicit.

type submitReporterReq struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	ContactPreference string `json:"contactPreference"`
}

type submitCoordinatesReq struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type submitLocationReq struct {
	Address     string               `json:"address"`
	Description string               `json:"description"`
	Coordinates submitCoordinatesReq `json:"coordinates"`
	Date        string               `json:"date"`
	Time        string               `json:"time"`
}

type submitAnimalsReq struct {
	Type        string `json:"type"`
	Count       *int   `json:"count"`
	Description string `json:"description"`
}

type submitIncidentReq struct {
	Description    string `json:"description"`
	Urgency        string `json:"urgency"`
	Ongoing        string `json:"ongoing"`
	AdditionalInfo string `json:"additionalInfo"`
}

type submitEvidenceReq struct {
	Photos []string `json:"photos"`
	Videos []string `json:"videos"`
}

type submitReportReq struct {
	IncidentType string            `json:"incidentType"`
	Reporter     submitReporterReq `json:"reporter"`
	Location     submitLocationReq `json:"location"`
	Animals      submitAnimalsReq  `json:"animals"`
	Incident     submitIncidentReq `json:"incident"`
	Evidence     submitEvidenceReq `json:"evidence"`
}

type updateStatusReq struct {
	Status    string `json:"status"`
	Note      string `json:"note"`
	AdminName string `json:"adminName"`
}

type addNoteReq struct {
	Note      string `json:"note"`
	AdminName string `json:"adminName"`
}

type presignEvidenceReq struct {
	Filename string `json:"filename"`
}

type paginationResp struct {
	CurrentPage  int64 `json:"currentPage"`
	TotalPages   int64 `json:"totalPages"`
	TotalReports int64 `json:"totalReports"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}
