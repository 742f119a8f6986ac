package services

import (
	"github.com/nexusarena/tournament-service/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event types pushed to websocket subscribers of a tournament room.
const (
	EventParticipantRegistered    = "PARTICIPANT_REGISTERED"
	EventParticipantStatusChanged = "PARTICIPANT_STATUS_CHANGED"
	EventTournamentUpdated        = "TOURNAMENT_UPDATED"
	EventTournamentDeleted        = "TOURNAMENT_DELETED"
)

// EventBroadcaster delivers an event to every subscriber of a room.
// Satisfied by realtime.Hub.
type EventBroadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

type RosterEvent struct {
	Type        string              `json:"type"`
	Tournament  *models.Tournament  `json:"tournament,omitempty"`
	Participant *models.Participant `json:"participant,omitempty"`
}

func roomID(id primitive.ObjectID) string {
	return "tournament_" + id.Hex()
}
