package services

import (
	"context"
	"sync"
	"time"

	"github.com/nexusarena/tournament-service/models"
	"github.com/nexusarena/tournament-service/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeTournamentRepo is an in-memory TournamentRepository whose
// AppendParticipant mirrors the conditional-write semantics of the mongo
// implementation: capacity and email uniqueness are checked and the push
// applied under one lock.
type fakeTournamentRepo struct {
	mu          sync.Mutex
	tournaments map[primitive.ObjectID]*models.Tournament
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{
		tournaments: make(map[primitive.ObjectID]*models.Tournament),
	}
}

func (f *fakeTournamentRepo) Create(ctx context.Context, t *models.Tournament) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Participants == nil {
		t.Participants = []models.Participant{}
	}
	cp := *t
	f.tournaments[t.ID] = &cp
	return nil
}

func (f *fakeTournamentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tournament, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	cp := *t
	cp.Participants = append([]models.Participant{}, t.Participants...)
	return &cp, nil
}

func (f *fakeTournamentRepo) List(ctx context.Context) ([]models.Tournament, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Tournament{}
	for _, t := range f.tournaments {
		out = append(out, *t)
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].DateTime.Before(out[i].DateTime) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (f *fakeTournamentRepo) Update(ctx context.Context, id primitive.ObjectID, upd repositories.TournamentUpdate) (*models.Tournament, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	if upd.GameName != nil {
		t.GameName = *upd.GameName
	}
	if upd.ImageURL != nil {
		t.ImageURL = *upd.ImageURL
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.NumberOfPlayers != nil {
		t.NumberOfPlayers = *upd.NumberOfPlayers
	}
	if upd.DateTime != nil {
		t.DateTime = *upd.DateTime
	}
	if upd.Prize != nil {
		t.Prize = *upd.Prize
	}
	if upd.RegistrationFee != nil {
		t.RegistrationFee = *upd.RegistrationFee
	}
	if upd.Status != nil {
		t.Status = *upd.Status
	}
	t.UpdatedAt = time.Now().UTC()
	cp := *t
	return &cp, nil
}

func (f *fakeTournamentRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(f.tournaments, id)
	return nil
}

func (f *fakeTournamentRepo) AppendParticipant(ctx context.Context, id primitive.ObjectID, p models.Participant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tournaments[id]
	if !ok {
		return repositories.ErrRosterConditionFailed
	}
	if len(t.Participants) >= t.NumberOfPlayers {
		return repositories.ErrRosterConditionFailed
	}
	for i := range t.Participants {
		if t.Participants[i].Email == p.Email {
			return repositories.ErrRosterConditionFailed
		}
	}
	t.Participants = append(t.Participants, p)
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeTournamentRepo) SetParticipantStatus(ctx context.Context, id, participantID primitive.ObjectID, status models.ParticipantStatus) (*models.Tournament, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tournaments[id]
	if !ok {
		return nil, repositories.ErrParticipantNotMatched
	}
	for i := range t.Participants {
		if t.Participants[i].ID == participantID {
			t.Participants[i].Status = status
			t.UpdatedAt = time.Now().UTC()
			cp := *t
			cp.Participants = append([]models.Participant{}, t.Participants...)
			return &cp, nil
		}
	}
	return nil, repositories.ErrParticipantNotMatched
}

func (f *fakeTournamentRepo) ListByParticipantUserID(ctx context.Context, userID primitive.ObjectID) ([]models.Tournament, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Tournament{}
	for _, t := range f.tournaments {
		for i := range t.Participants {
			if t.Participants[i].UserID != nil && *t.Participants[i].UserID == userID {
				out = append(out, *t)
				break
			}
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].DateTime.After(out[i].DateTime) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (f *fakeTournamentRepo) UpdateImage(ctx context.Context, id primitive.ObjectID, imageKey, imageURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.ImageKey = imageKey
	t.ImageURL = imageURL
	return nil
}

func (f *fakeTournamentRepo) CountByStatus(ctx context.Context, status models.TournamentStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, t := range f.tournaments {
		if t.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeTournamentRepo) CountAll(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.tournaments)), nil
}

func (f *fakeTournamentRepo) CountParticipants(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, t := range f.tournaments {
		n += int64(len(t.Participants))
	}
	return n, nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}
