package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is the report's stage in the moderation workflow.
type Status string

const (
	StatusPending     Status = "pending"
	StatusUnderReview Status = "under_review"
	StatusInProgress  Status = "in_progress"
	StatusResolved    Status = "resolved"
	StatusClosed      Status = "closed"
	StatusRejected    Status = "rejected"
)

var validStatuses = map[Status]bool{
	StatusPending:     true,
	StatusUnderReview: true,
	StatusInProgress:  true,
	StatusResolved:    true,
	StatusClosed:      true,
	StatusRejected:    true,
}

func (s Status) Valid() bool { return validStatuses[s] }

// ActiveStatuses are the stages a report can occupy before moderation ends.
var ActiveStatuses = []Status{StatusPending, StatusUnderReview, StatusInProgress}

// Urgency classifies severity independent of status.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

var validUrgencies = map[Urgency]bool{
	UrgencyLow:      true,
	UrgencyMedium:   true,
	UrgencyHigh:     true,
	UrgencyCritical: true,
}

func (u Urgency) Valid() bool { return validUrgencies[u] }

// EscalatedUrgencies feed the urgent-reports queue.
var EscalatedUrgencies = []Urgency{UrgencyHigh, UrgencyCritical}

type IncidentType string

const (
	IncidentCruelty     IncidentType = "cruelty"
	IncidentInjury      IncidentType = "injury"
	IncidentStray       IncidentType = "stray"
	IncidentHoarding    IncidentType = "hoarding"
	IncidentIllegal     IncidentType = "illegal"
	IncidentEnvironment IncidentType = "environment"
)

var validIncidentTypes = map[IncidentType]bool{
	IncidentCruelty:     true,
	IncidentInjury:      true,
	IncidentStray:       true,
	IncidentHoarding:    true,
	IncidentIllegal:     true,
	IncidentEnvironment: true,
}

func (t IncidentType) Valid() bool { return validIncidentTypes[t] }

type AnimalType string

const (
	AnimalDog      AnimalType = "dog"
	AnimalCat      AnimalType = "cat"
	AnimalBird     AnimalType = "bird"
	AnimalRabbit   AnimalType = "rabbit"
	AnimalReptile  AnimalType = "reptile"
	AnimalWildlife AnimalType = "wildlife"
	AnimalFarm     AnimalType = "farm"
	AnimalOther    AnimalType = "other"
)

var validAnimalTypes = map[AnimalType]bool{
	AnimalDog: true, AnimalCat: true, AnimalBird: true, AnimalRabbit: true,
	AnimalReptile: true, AnimalWildlife: true, AnimalFarm: true, AnimalOther: true,
}

func (t AnimalType) Valid() bool { return validAnimalTypes[t] }

type Ongoing string

const (
	OngoingYes        Ongoing = "yes"
	OngoingRecent     Ongoing = "recent"
	OngoingContinuing Ongoing = "continuing"
)

var validOngoing = map[Ongoing]bool{
	OngoingYes: true, OngoingRecent: true, OngoingContinuing: true,
}

func (o Ongoing) Valid() bool { return validOngoing[o] }

type ContactPreference string

const (
	ContactNone  ContactPreference = "none"
	ContactEmail ContactPreference = "email"
	ContactPhone ContactPreference = "phone"
)

var validContactPreferences = map[ContactPreference]bool{
	ContactNone: true, ContactEmail: true, ContactPhone: true,
}

func (p ContactPreference) Valid() bool { return validContactPreferences[p] }

type Reporter struct {
	Name              string            `bson:"name" json:"name"`
	Email             string            `bson:"email,omitempty" json:"email,omitempty"`
	Phone             string            `bson:"phone,omitempty" json:"phone,omitempty"`
	ContactPreference ContactPreference `bson:"contactPreference" json:"contactPreference"`
	// ContactEncrypted marks email/phone as AES-GCM sealed at rest.
	ContactEncrypted bool `bson:"contactEncrypted,omitempty" json:"-"`
}

type Coordinates struct {
	Latitude  *float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude *float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`
}

type Location struct {
	Address     string      `bson:"address" json:"address"`
	Description string      `bson:"description,omitempty" json:"description,omitempty"`
	Coordinates Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
	Date        time.Time   `bson:"date" json:"date"`
	Time        string      `bson:"time,omitempty" json:"time,omitempty"`
}

type Animals struct {
	Type        AnimalType `bson:"type" json:"type"`
	Count       int        `bson:"count" json:"count"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
}

type Incident struct {
	Description    string  `bson:"description" json:"description"`
	Urgency        Urgency `bson:"urgency" json:"urgency"`
	Ongoing        Ongoing `bson:"ongoing" json:"ongoing"`
	AdditionalInfo string  `bson:"additionalInfo,omitempty" json:"additionalInfo,omitempty"`
}

type Evidence struct {
	Photos []string `bson:"photos" json:"photos"`
	Videos []string `bson:"videos" json:"videos"`
}

// AdminNote is an append-only moderator comment. Notes are never edited or
// removed through the API.
type AdminNote struct {
	Note    string    `bson:"note" json:"note"`
	AddedBy string    `bson:"addedBy" json:"addedBy"`
	AddedAt time.Time `bson:"addedAt" json:"addedAt"`
}

// Report is one submitted incident record.
type Report struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IncidentType IncidentType       `bson:"incidentType" json:"incidentType"`
	Reporter     Reporter           `bson:"reporter" json:"reporter"`
	Location     Location           `bson:"location" json:"location"`
	Animals      Animals            `bson:"animals" json:"animals"`
	Incident     Incident           `bson:"incident" json:"incident"`
	Evidence     Evidence           `bson:"evidence" json:"evidence"`
	Status       Status             `bson:"status" json:"status"`
	AdminNotes   []AdminNote        `bson:"adminNotes" json:"adminNotes"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
	ResolvedAt   *time.Time         `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
}

// ReportEvent is published to the reports exchange on submission and on
// status changes. Consumed by the notification service.
type ReportEvent struct {
	Type         string       `json:"type"` // new_report or status_update
	ReportID     string       `json:"report_id"`
	IncidentType IncidentType `json:"incident_type"`
	Urgency      Urgency      `json:"urgency"`
	Status       Status       `json:"status"`
	Address      string       `json:"address,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}
