package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nexusarena/tournament-service/metrics"
	"github.com/nexusarena/tournament-service/models"
	"github.com/nexusarena/tournament-service/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// registerAttempts bounds the retry loop around the conditional roster
// write. A retry only happens when the precondition re-read shows the
// roster was neither full nor a duplicate, i.e. a concurrent writer moved
// the document between our write and the re-read.
const registerAttempts = 3

// RegisterParticipantInput is the registration payload. TeamName is an
// accepted alias for GamerTag; GamerTag wins when both are present.
// UserID is the raw value from the client and is coerced leniently: a
// malformed id is logged and treated as absent, never rejected.
type RegisterParticipantInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	GamerTag string `json:"gamerTag"`
	TeamName string `json:"teamName"`
	UserID   string `json:"userId"`
}

// RegistrationResult is the trimmed echo returned on success; the full
// roster is intentionally not included.
type RegistrationResult struct {
	TournamentID primitive.ObjectID `json:"tournamentId"`
	GameName     string             `json:"gameName"`
	DateTime     time.Time          `json:"dateTime"`
}

// UpdateParticipantStatusInput identifies one embedded participant and the
// status to overwrite it with.
type UpdateParticipantStatusInput struct {
	ParticipantID string                   `json:"participantId"`
	Status        models.ParticipantStatus `json:"status"`
}

type ParticipantService interface {
	Register(ctx context.Context, tournamentID primitive.ObjectID, input RegisterParticipantInput) (*RegistrationResult, error)
	UpdateStatus(ctx context.Context, tournamentID primitive.ObjectID, input UpdateParticipantStatusInput) (*models.Participant, error)
	ListByTournament(ctx context.Context, tournamentID primitive.ObjectID) ([]models.Participant, error)
	UserHistory(ctx context.Context, userID primitive.ObjectID) ([]models.TournamentHistoryEntry, error)
}

type participantService struct {
	repo   repositories.TournamentRepository
	hub    EventBroadcaster
	logger *slog.Logger
}

func NewParticipantService(repo repositories.TournamentRepository, hub EventBroadcaster, logger *slog.Logger) ParticipantService {
	return &participantService{
		repo:   repo,
		hub:    hub,
		logger: logger,
	}
}

func (s *participantService) Register(ctx context.Context, tournamentID primitive.ObjectID, input RegisterParticipantInput) (*RegistrationResult, error) {
	gamerTag := input.GamerTag
	if gamerTag == "" {
		gamerTag = input.TeamName
	}

	if input.FullName == "" {
		return nil, ErrParticipantFullNameRequired
	}
	if input.Email == "" {
		return nil, ErrParticipantEmailRequired
	}
	if gamerTag == "" {
		return nil, ErrParticipantGamerTagRequired
	}

	participant := models.Participant{
		ID:           primitive.NewObjectID(),
		UserID:       s.coerceUserID(input.UserID),
		FullName:     input.FullName,
		Email:        input.Email,
		GamerTag:     gamerTag,
		Status:       models.ParticipantRegistered,
		RegisteredAt: time.Now().UTC(),
	}

	for attempt := 0; attempt < registerAttempts; attempt++ {
		err := s.repo.AppendParticipant(ctx, tournamentID, participant)
		if err == nil {
			metrics.RegistrationOutcomes.WithLabelValues("accepted").Inc()
			if s.hub != nil {
				s.hub.BroadcastToRoom(roomID(tournamentID), RosterEvent{
					Type:        EventParticipantRegistered,
					Participant: &participant,
				})
			}
			t, err := s.repo.GetByID(ctx, tournamentID)
			if err != nil {
				// The write landed; fall back to a minimal echo.
				return &RegistrationResult{TournamentID: tournamentID}, nil
			}
			return &RegistrationResult{
				TournamentID: t.ID,
				GameName:     t.GameName,
				DateTime:     t.DateTime,
			}, nil
		}
		if !errors.Is(err, repositories.ErrRosterConditionFailed) {
			return nil, fmt.Errorf("register participant: %w", err)
		}

		// The conditional write matched nothing. Re-read to find out why.
		t, err := s.repo.GetByID(ctx, tournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return nil, ErrTournamentNotFound
			}
			return nil, err
		}
		if t.HasParticipantEmail(participant.Email) {
			metrics.RegistrationOutcomes.WithLabelValues("duplicate").Inc()
			return nil, ErrDuplicateRegistration
		}
		if t.IsFull() {
			metrics.RegistrationOutcomes.WithLabelValues("full").Inc()
			return nil, ErrTournamentFull
		}
		// Neither condition holds anymore; a concurrent writer interleaved.
		// Try the conditional write again.
	}

	return nil, fmt.Errorf("register participant: retries exhausted for tournament %s", tournamentID.Hex())
}

// coerceUserID parses the optional userId reference. Malformed values are
// deliberately tolerated: the registration proceeds anonymously.
func (s *participantService) coerceUserID(raw string) *primitive.ObjectID {
	if raw == "" {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("ignoring malformed userId on registration",
				slog.String("userId", raw),
				slog.Any("error", err))
		}
		return nil
	}
	return &id
}

func (s *participantService) UpdateStatus(ctx context.Context, tournamentID primitive.ObjectID, input UpdateParticipantStatusInput) (*models.Participant, error) {
	if input.ParticipantID == "" {
		return nil, ErrParticipantIDRequired
	}
	if input.Status == "" {
		return nil, ErrParticipantStatusRequired
	}
	if !input.Status.Valid() {
		return nil, ErrParticipantInvalidStatus
	}

	participantID, err := primitive.ObjectIDFromHex(input.ParticipantID)
	if err != nil {
		return nil, ErrParticipantNotFound
	}

	t, err := s.repo.SetParticipantStatus(ctx, tournamentID, participantID, input.Status)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotMatched) {
			// Distinguish a missing tournament from a missing participant.
			if _, getErr := s.repo.GetByID(ctx, tournamentID); getErr != nil {
				if errors.Is(getErr, repositories.ErrTournamentNotFound) {
					return nil, ErrTournamentNotFound
				}
				return nil, getErr
			}
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}

	updated := t.FindParticipant(participantID)
	if updated == nil {
		return nil, ErrParticipantNotFound
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(roomID(tournamentID), RosterEvent{
			Type:        EventParticipantStatusChanged,
			Participant: updated,
		})
	}
	return updated, nil
}

func (s *participantService) ListByTournament(ctx context.Context, tournamentID primitive.ObjectID) ([]models.Participant, error) {
	t, err := s.repo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t.Participants, nil
}

// UserHistory scans every tournament the user appears in, newest event
// first. This is a full-collection lookup on an embedded field and is only
// acceptable at the platform's current scale.
func (s *participantService) UserHistory(ctx context.Context, userID primitive.ObjectID) ([]models.TournamentHistoryEntry, error) {
	tournaments, err := s.repo.ListByParticipantUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	history := []models.TournamentHistoryEntry{}
	for i := range tournaments {
		t := &tournaments[i]
		for j := range t.Participants {
			p := &t.Participants[j]
			if p.UserID == nil || *p.UserID != userID {
				continue
			}
			history = append(history, models.TournamentHistoryEntry{
				TournamentID:      t.ID,
				GameName:          t.GameName,
				DateTime:          t.DateTime,
				TournamentStatus:  t.Status,
				ParticipantStatus: p.Status,
				Prize:             t.Prize,
				GamerTag:          p.GamerTag,
			})
		}
	}
	return history, nil
}
