package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nexusarena/tournament-service/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTournamentService(repo *fakeTournamentRepo) TournamentService {
	return NewTournamentService(repo, nil, nil)
}

func TestCreateTournament_DefaultsAndEcho(t *testing.T) {
	repo := newFakeTournamentRepo()
	svc := newTournamentService(repo)

	created, err := svc.CreateTournament(context.Background(), CreateTournamentInput{
		GameName:        "Valorant Cup",
		NumberOfPlayers: 2,
		DateTime:        time.Now().Add(24 * time.Hour),
		Prize:           "$100",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID.IsZero() {
		t.Error("created tournament has no id")
	}
	if created.Status != models.StatusUpcoming {
		t.Errorf("default status: got %q, want %q", created.Status, models.StatusUpcoming)
	}
	if created.RegistrationFee != 10 {
		t.Errorf("default registrationFee: got %v, want 10", created.RegistrationFee)
	}
	if created.Participants == nil || len(created.Participants) != 0 {
		t.Errorf("new tournament roster should be empty, got %v", created.Participants)
	}
}

func TestCreateTournament_PastDateAccepted(t *testing.T) {
	repo := newFakeTournamentRepo()
	svc := newTournamentService(repo)

	// The service never validates that dateTime is in the future; only the
	// client form does.
	_, err := svc.CreateTournament(context.Background(), CreateTournamentInput{
		GameName:        "Retro Night",
		NumberOfPlayers: 8,
		DateTime:        time.Now().Add(-24 * time.Hour),
		Prize:           "Bragging rights",
	})
	if err != nil {
		t.Errorf("past dateTime rejected: %v", err)
	}
}

func TestCreateTournament_Validation(t *testing.T) {
	repo := newFakeTournamentRepo()
	svc := newTournamentService(repo)
	ctx := context.Background()
	future := time.Now().Add(24 * time.Hour)
	badStatus := models.TournamentStatus("paused")
	negativeFee := -1.0

	cases := []struct {
		name  string
		input CreateTournamentInput
		want  error
	}{
		{"missing gameName", CreateTournamentInput{NumberOfPlayers: 2, DateTime: future, Prize: "$1"}, ErrTournamentGameNameRequired},
		{"zero capacity", CreateTournamentInput{GameName: "X", DateTime: future, Prize: "$1"}, ErrTournamentInvalidCapacity},
		{"negative capacity", CreateTournamentInput{GameName: "X", NumberOfPlayers: -3, DateTime: future, Prize: "$1"}, ErrTournamentInvalidCapacity},
		{"missing dateTime", CreateTournamentInput{GameName: "X", NumberOfPlayers: 2, Prize: "$1"}, ErrTournamentDateTimeRequired},
		{"missing prize", CreateTournamentInput{GameName: "X", NumberOfPlayers: 2, DateTime: future}, ErrTournamentPrizeRequired},
		{"invalid status", CreateTournamentInput{GameName: "X", NumberOfPlayers: 2, DateTime: future, Prize: "$1", Status: &badStatus}, ErrTournamentInvalidStatus},
		{"negative fee", CreateTournamentInput{GameName: "X", NumberOfPlayers: 2, DateTime: future, Prize: "$1", RegistrationFee: &negativeFee}, ErrTournamentInvalidFee},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateTournament(ctx, tc.input); !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestListTournaments_SortedByDate(t *testing.T) {
	repo := newFakeTournamentRepo()
	svc := newTournamentService(repo)
	ctx := context.Background()

	base := time.Now()
	for _, offset := range []time.Duration{72 * time.Hour, 24 * time.Hour, 48 * time.Hour} {
		if _, err := svc.CreateTournament(ctx, CreateTournamentInput{
			GameName:        "Cup",
			NumberOfPlayers: 2,
			DateTime:        base.Add(offset),
			Prize:           "$1",
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	list, err := svc.ListTournaments(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("list length: got %d, want 3", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].DateTime.Before(list[i-1].DateTime) {
			t.Errorf("list not sorted ascending at index %d", i)
		}
	}
}

func TestUpdateTournament_PartialAndStatus(t *testing.T) {
	repo := newFakeTournamentRepo()
	svc := newTournamentService(repo)
	ctx := context.Background()

	created, err := svc.CreateTournament(ctx, CreateTournamentInput{
		GameName:        "Valorant Cup",
		NumberOfPlayers: 4,
		DateTime:        time.Now().Add(24 * time.Hour),
		Prize:           "$100",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	prize := "$500"
	status := models.StatusOngoing
	updated, err := svc.UpdateTournament(ctx, created.ID, UpdateTournamentInput{
		Prize:  &prize,
		Status: &status,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Prize != "$500" {
		t.Errorf("prize: got %q, want %q", updated.Prize, "$500")
	}
	if updated.Status != models.StatusOngoing {
		t.Errorf("status: got %q, want %q", updated.Status, models.StatusOngoing)
	}
	// Untouched fields survive a partial update.
	if updated.GameName != "Valorant Cup" {
		t.Errorf("gameName clobbered: got %q", updated.GameName)
	}

	// Status transitions are unconstrained: completed back to upcoming is
	// legal.
	back := models.StatusUpcoming
	if _, err := svc.UpdateTournament(ctx, created.ID, UpdateTournamentInput{Status: &back}); err != nil {
		t.Errorf("reverse status transition rejected: %v", err)
	}
}

func TestUpdateTournament_CapacityBelowRoster(t *testing.T) {
	repo := newFakeTournamentRepo()
	svc := newTournamentService(repo)
	participants := newParticipantService(repo)
	ctx := context.Background()

	created, err := svc.CreateTournament(ctx, CreateTournamentInput{
		GameName:        "Cup",
		NumberOfPlayers: 3,
		DateTime:        time.Now().Add(24 * time.Hour),
		Prize:           "$1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, email := range []string{"a@x.com", "b@x.com"} {
		if _, err := participants.Register(ctx, created.ID, RegisterParticipantInput{
			FullName: "P", Email: email, GamerTag: email,
		}); err != nil {
			t.Fatalf("register: %v", err)
		}
	}

	one := 1
	_, err = svc.UpdateTournament(ctx, created.ID, UpdateTournamentInput{NumberOfPlayers: &one})
	if !errors.Is(err, ErrTournamentCapacityBelowRoster) {
		t.Errorf("got %v, want ErrTournamentCapacityBelowRoster", err)
	}

	// Shrinking down to exactly the roster size is allowed.
	two := 2
	if _, err := svc.UpdateTournament(ctx, created.ID, UpdateTournamentInput{NumberOfPlayers: &two}); err != nil {
		t.Errorf("shrink to roster size rejected: %v", err)
	}
}

func TestUpdateTournament_NotFound(t *testing.T) {
	repo := newFakeTournamentRepo()
	svc := newTournamentService(repo)

	prize := "$1"
	_, err := svc.UpdateTournament(context.Background(), primitive.NewObjectID(), UpdateTournamentInput{Prize: &prize})
	if !errors.Is(err, ErrTournamentNotFound) {
		t.Errorf("got %v, want ErrTournamentNotFound", err)
	}
}

func TestDeleteTournament_CascadesRoster(t *testing.T) {
	repo := newFakeTournamentRepo()
	svc := newTournamentService(repo)
	participants := newParticipantService(repo)
	ctx := context.Background()

	created, err := svc.CreateTournament(ctx, CreateTournamentInput{
		GameName:        "Cup",
		NumberOfPlayers: 2,
		DateTime:        time.Now().Add(24 * time.Hour),
		Prize:           "$1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := participants.Register(ctx, created.ID, RegisterParticipantInput{
		FullName: "A", Email: "a@x.com", GamerTag: "AA",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.DeleteTournament(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.GetTournamentByID(ctx, created.ID); !errors.Is(err, ErrTournamentNotFound) {
		t.Errorf("get after delete: got %v, want ErrTournamentNotFound", err)
	}
	if _, err := participants.ListByTournament(ctx, created.ID); !errors.Is(err, ErrTournamentNotFound) {
		t.Errorf("roster after delete: got %v, want ErrTournamentNotFound", err)
	}

	if err := svc.DeleteTournament(ctx, created.ID); !errors.Is(err, ErrTournamentNotFound) {
		t.Errorf("double delete: got %v, want ErrTournamentNotFound", err)
	}
}

func TestDashboardStats(t *testing.T) {
	repo := newFakeTournamentRepo()
	svc := newTournamentService(repo)
	participants := newParticipantService(repo)
	dashboard := NewDashboardService(repo)
	ctx := context.Background()

	ongoing := models.StatusOngoing
	for i, status := range []*models.TournamentStatus{nil, nil, &ongoing} {
		created, err := svc.CreateTournament(ctx, CreateTournamentInput{
			GameName:        "Cup",
			NumberOfPlayers: 4,
			DateTime:        time.Now().Add(time.Duration(i+1) * 24 * time.Hour),
			Prize:           "$1",
			Status:          status,
		})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if i == 0 {
			if _, err := participants.Register(ctx, created.ID, RegisterParticipantInput{
				FullName: "A", Email: "a@x.com", GamerTag: "AA",
			}); err != nil {
				t.Fatalf("register: %v", err)
			}
		}
	}

	stats, err := dashboard.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalTournaments != 3 {
		t.Errorf("totalTournaments: got %d, want 3", stats.TotalTournaments)
	}
	if stats.Upcoming != 2 {
		t.Errorf("upcoming: got %d, want 2", stats.Upcoming)
	}
	if stats.Ongoing != 1 {
		t.Errorf("ongoing: got %d, want 1", stats.Ongoing)
	}
	if stats.TotalParticipants != 1 {
		t.Errorf("totalParticipants: got %d, want 1", stats.TotalParticipants)
	}
}
