package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/nexusarena/tournament-service/models"
	"github.com/nexusarena/tournament-service/repositories"
	"github.com/nexusarena/tournament-service/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultRegistrationFee = 10

// CreateTournamentInput carries the create payload. dateTime in the past is
// accepted on purpose: the client form checks it, the service never has.
type CreateTournamentInput struct {
	GameName        string                   `json:"gameName"`
	ImageURL        string                   `json:"imageUrl"`
	Description     string                   `json:"description"`
	NumberOfPlayers int                      `json:"numberOfPlayers"`
	DateTime        time.Time                `json:"dateTime"`
	Prize           string                   `json:"prize"`
	RegistrationFee *float64                 `json:"registrationFee"`
	Status          *models.TournamentStatus `json:"status"`
}

// UpdateTournamentInput carries a partial update; nil fields are untouched.
type UpdateTournamentInput struct {
	GameName        *string                  `json:"gameName"`
	ImageURL        *string                  `json:"imageUrl"`
	Description     *string                  `json:"description"`
	NumberOfPlayers *int                     `json:"numberOfPlayers"`
	DateTime        *time.Time               `json:"dateTime"`
	Prize           *string                  `json:"prize"`
	RegistrationFee *float64                 `json:"registrationFee"`
	Status          *models.TournamentStatus `json:"status"`
}

type TournamentService interface {
	CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetTournamentByID(ctx context.Context, id primitive.ObjectID) (*models.Tournament, error)
	ListTournaments(ctx context.Context) ([]models.Tournament, error)
	UpdateTournament(ctx context.Context, id primitive.ObjectID, input UpdateTournamentInput) (*models.Tournament, error)
	DeleteTournament(ctx context.Context, id primitive.ObjectID) error
	UploadTournamentImage(ctx context.Context, id primitive.ObjectID, contentType, filename string, file io.Reader) (*models.Tournament, error)
}

type tournamentService struct {
	repo     repositories.TournamentRepository
	uploader storage.FileUploader
	hub      EventBroadcaster
}

func NewTournamentService(repo repositories.TournamentRepository, uploader storage.FileUploader, hub EventBroadcaster) TournamentService {
	return &tournamentService{
		repo:     repo,
		uploader: uploader,
		hub:      hub,
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	if input.GameName == "" {
		return nil, ErrTournamentGameNameRequired
	}
	if input.NumberOfPlayers <= 0 {
		return nil, ErrTournamentInvalidCapacity
	}
	if input.DateTime.IsZero() {
		return nil, ErrTournamentDateTimeRequired
	}
	if input.Prize == "" {
		return nil, ErrTournamentPrizeRequired
	}

	status := models.StatusUpcoming
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrTournamentInvalidStatus
		}
		status = *input.Status
	}

	fee := float64(defaultRegistrationFee)
	if input.RegistrationFee != nil {
		if *input.RegistrationFee < 0 {
			return nil, ErrTournamentInvalidFee
		}
		fee = *input.RegistrationFee
	}

	t := &models.Tournament{
		GameName:        input.GameName,
		ImageURL:        input.ImageURL,
		Description:     input.Description,
		NumberOfPlayers: input.NumberOfPlayers,
		DateTime:        input.DateTime,
		Prize:           input.Prize,
		RegistrationFee: fee,
		Status:          status,
		Participants:    []models.Participant{},
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create tournament: %w", err)
	}
	return t, nil
}

func (s *tournamentService) GetTournamentByID(ctx context.Context, id primitive.ObjectID) (*models.Tournament, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context) ([]models.Tournament, error) {
	return s.repo.List(ctx)
}

func (s *tournamentService) UpdateTournament(ctx context.Context, id primitive.ObjectID, input UpdateTournamentInput) (*models.Tournament, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	if input.GameName != nil && *input.GameName == "" {
		return nil, ErrTournamentGameNameRequired
	}
	if input.NumberOfPlayers != nil {
		if *input.NumberOfPlayers <= 0 {
			return nil, ErrTournamentInvalidCapacity
		}
		// The roster is append-only, so shrinking capacity below it would
		// leave the tournament permanently over-subscribed.
		if *input.NumberOfPlayers < len(current.Participants) {
			return nil, ErrTournamentCapacityBelowRoster
		}
	}
	if input.Prize != nil && *input.Prize == "" {
		return nil, ErrTournamentPrizeRequired
	}
	if input.RegistrationFee != nil && *input.RegistrationFee < 0 {
		return nil, ErrTournamentInvalidFee
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrTournamentInvalidStatus
	}

	upd := repositories.TournamentUpdate{
		GameName:        input.GameName,
		ImageURL:        input.ImageURL,
		Description:     input.Description,
		NumberOfPlayers: input.NumberOfPlayers,
		DateTime:        input.DateTime,
		Prize:           input.Prize,
		RegistrationFee: input.RegistrationFee,
		Status:          input.Status,
	}

	t, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(roomID(id), RosterEvent{Type: EventTournamentUpdated, Tournament: t})
	}
	return t, nil
}

func (s *tournamentService) DeleteTournament(ctx context.Context, id primitive.ObjectID) error {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}

	// Banner cleanup is best effort: the document is already gone.
	if t.ImageKey != "" && s.uploader != nil {
		_ = s.uploader.Delete(ctx, t.ImageKey)
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(roomID(id), RosterEvent{Type: EventTournamentDeleted})
	}
	return nil
}

func (s *tournamentService) UploadTournamentImage(ctx context.Context, id primitive.ObjectID, contentType, filename string, file io.Reader) (*models.Tournament, error) {
	if s.uploader == nil {
		return nil, errors.New("image uploads are not configured")
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	key := fmt.Sprintf("tournaments/%s/banner_%s%s", id.Hex(), uuid.NewString(), path.Ext(filename))
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("upload tournament image: %w", err)
	}

	if err := s.repo.UpdateImage(ctx, id, result.Key, result.Location); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	if current.ImageKey != "" && current.ImageKey != result.Key {
		_ = s.uploader.Delete(ctx, current.ImageKey)
	}

	return s.GetTournamentByID(ctx, id)
}
