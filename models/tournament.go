package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TournamentStatus represents the overall lifecycle state of a tournament.
// It is independent of the statuses of individual participants.
type TournamentStatus string

const (
	StatusUpcoming  TournamentStatus = "upcoming"
	StatusOngoing   TournamentStatus = "ongoing"
	StatusCompleted TournamentStatus = "completed"
)

// Valid reports whether s is one of the known tournament statuses.
func (s TournamentStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusOngoing, StatusCompleted:
		return true
	}
	return false
}

// ParticipantStatus represents the state of a single registration.
// Any status may be set from any other status; there is no transition graph.
type ParticipantStatus string

const (
	ParticipantRegistered ParticipantStatus = "registered"
	ParticipantCheckedIn  ParticipantStatus = "checked-in"
	ParticipantEliminated ParticipantStatus = "eliminated"
	ParticipantWinner     ParticipantStatus = "winner"
)

func (s ParticipantStatus) Valid() bool {
	switch s {
	case ParticipantRegistered, ParticipantCheckedIn, ParticipantEliminated, ParticipantWinner:
		return true
	}
	return false
}

// Tournament is the root aggregate. Participants are embedded so that the
// whole roster lives inside one document and a single conditional write can
// enforce capacity and email uniqueness.
type Tournament struct {
	ID              primitive.ObjectID `json:"id" bson:"_id"`
	GameName        string             `json:"gameName" bson:"gameName"`
	ImageURL        string             `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	ImageKey        string             `json:"-" bson:"imageKey,omitempty"`
	Description     string             `json:"description,omitempty" bson:"description,omitempty"`
	NumberOfPlayers int                `json:"numberOfPlayers" bson:"numberOfPlayers"`
	DateTime        time.Time          `json:"dateTime" bson:"dateTime"`
	Prize           string             `json:"prize" bson:"prize"`
	RegistrationFee float64            `json:"registrationFee" bson:"registrationFee"`
	Status          TournamentStatus   `json:"status" bson:"status"`
	Participants    []Participant      `json:"participants" bson:"participants"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// IsFull reports whether the roster has reached capacity.
func (t *Tournament) IsFull() bool {
	return len(t.Participants) >= t.NumberOfPlayers
}

// HasParticipantEmail reports whether email is already registered.
// The match is case-sensitive and exact.
func (t *Tournament) HasParticipantEmail(email string) bool {
	for i := range t.Participants {
		if t.Participants[i].Email == email {
			return true
		}
	}
	return false
}

// FindParticipant returns the embedded participant with the given id, or nil.
func (t *Tournament) FindParticipant(id primitive.ObjectID) *Participant {
	for i := range t.Participants {
		if t.Participants[i].ID == id {
			return &t.Participants[i]
		}
	}
	return nil
}

// Participant is a registration record owned by exactly one tournament.
// UserID is nil for unauthenticated registrations.
type Participant struct {
	ID           primitive.ObjectID  `json:"id" bson:"_id"`
	UserID       *primitive.ObjectID `json:"userId,omitempty" bson:"userId,omitempty"`
	FullName     string              `json:"fullName" bson:"fullName"`
	Email        string              `json:"email" bson:"email"`
	GamerTag     string              `json:"gamerTag" bson:"gamerTag"`
	Status       ParticipantStatus   `json:"status" bson:"status"`
	RegisteredAt time.Time           `json:"registeredAt" bson:"registeredAt"`
}

// TournamentHistoryEntry is the per-tournament projection returned by the
// user history operation.
type TournamentHistoryEntry struct {
	TournamentID      primitive.ObjectID `json:"tournamentId"`
	GameName          string             `json:"gameName"`
	DateTime          time.Time          `json:"dateTime"`
	TournamentStatus  TournamentStatus   `json:"tournamentStatus"`
	ParticipantStatus ParticipantStatus  `json:"participantStatus"`
	Prize             string             `json:"prize"`
	GamerTag          string             `json:"gamerTag"`
}
