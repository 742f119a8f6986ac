package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nexusarena/tournament-service/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")

	// ErrRosterConditionFailed is returned by AppendParticipant when the
	// conditional write matched no document: the tournament is missing, the
	// roster is full, or the email is already present. The caller re-reads
	// the document to tell these apart.
	ErrRosterConditionFailed = errors.New("roster precondition failed")

	// ErrParticipantNotMatched is returned by SetParticipantStatus when no
	// document matched the tournament/participant pair.
	ErrParticipantNotMatched = errors.New("participant not matched")
)

// TournamentUpdate carries the replaceable tournament fields for a partial
// update. Nil fields are left untouched.
type TournamentUpdate struct {
	GameName        *string
	ImageURL        *string
	Description     *string
	NumberOfPlayers *int
	DateTime        *time.Time
	Prize           *string
	RegistrationFee *float64
	Status          *models.TournamentStatus
}

type TournamentRepository interface {
	Create(ctx context.Context, t *models.Tournament) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tournament, error)
	List(ctx context.Context) ([]models.Tournament, error)
	Update(ctx context.Context, id primitive.ObjectID, upd TournamentUpdate) (*models.Tournament, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	// AppendParticipant pushes p onto the roster only if the tournament
	// still has free capacity and no existing participant carries the same
	// email. The check and the append execute as one conditional write, so
	// concurrent registrations cannot race past either invariant.
	AppendParticipant(ctx context.Context, id primitive.ObjectID, p models.Participant) error

	// SetParticipantStatus overwrites the status of one embedded
	// participant and returns the updated tournament document.
	SetParticipantStatus(ctx context.Context, id, participantID primitive.ObjectID, status models.ParticipantStatus) (*models.Tournament, error)

	// ListByParticipantUserID returns all tournaments containing a
	// participant registered under the given user, newest event first.
	ListByParticipantUserID(ctx context.Context, userID primitive.ObjectID) ([]models.Tournament, error)

	UpdateImage(ctx context.Context, id primitive.ObjectID, imageKey, imageURL string) error

	CountByStatus(ctx context.Context, status models.TournamentStatus) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	CountParticipants(ctx context.Context) (int64, error)
}

type mongoTournamentRepository struct {
	c *mongo.Collection
}

func NewMongoTournamentRepository(database *mongo.Database) TournamentRepository {
	return &mongoTournamentRepository{c: database.Collection("tournaments")}
}

func (r *mongoTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	t.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Participants == nil {
		t.Participants = []models.Participant{}
	}

	if _, err := r.c.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert tournament: %w", err)
	}
	return nil
}

func (r *mongoTournamentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tournament, error) {
	var t models.Tournament
	err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("find tournament %s: %w", id.Hex(), err)
	}
	return &t, nil
}

func (r *mongoTournamentRepository) List(ctx context.Context) ([]models.Tournament, error) {
	cur, err := r.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "dateTime", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}
	tournaments := []models.Tournament{}
	if err := cur.All(ctx, &tournaments); err != nil {
		return nil, fmt.Errorf("decode tournaments: %w", err)
	}
	return tournaments, nil
}

func (r *mongoTournamentRepository) Update(ctx context.Context, id primitive.ObjectID, upd TournamentUpdate) (*models.Tournament, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.GameName != nil {
		set["gameName"] = *upd.GameName
	}
	if upd.ImageURL != nil {
		set["imageUrl"] = *upd.ImageURL
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.NumberOfPlayers != nil {
		set["numberOfPlayers"] = *upd.NumberOfPlayers
	}
	if upd.DateTime != nil {
		set["dateTime"] = *upd.DateTime
	}
	if upd.Prize != nil {
		set["prize"] = *upd.Prize
	}
	if upd.RegistrationFee != nil {
		set["registrationFee"] = *upd.RegistrationFee
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var t models.Tournament
	err := r.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("update tournament %s: %w", id.Hex(), err)
	}
	return &t, nil
}

func (r *mongoTournamentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete tournament %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return ErrTournamentNotFound
	}
	return nil
}

func (r *mongoTournamentRepository) AppendParticipant(ctx context.Context, id primitive.ObjectID, p models.Participant) error {
	// Capacity and email uniqueness are part of the filter: the push only
	// happens when both still hold at write time.
	filter := bson.M{
		"_id":                id,
		"participants.email": bson.M{"$ne": p.Email},
		"$expr": bson.M{
			"$lt": bson.A{bson.M{"$size": "$participants"}, "$numberOfPlayers"},
		},
	}
	update := bson.M{
		"$push": bson.M{"participants": p},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}

	res, err := r.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("append participant to tournament %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrRosterConditionFailed
	}
	return nil
}

func (r *mongoTournamentRepository) SetParticipantStatus(ctx context.Context, id, participantID primitive.ObjectID, status models.ParticipantStatus) (*models.Tournament, error) {
	filter := bson.M{"_id": id, "participants._id": participantID}
	update := bson.M{
		"$set": bson.M{
			"participants.$.status": status,
			"updatedAt":             time.Now().UTC(),
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var t models.Tournament
	err := r.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrParticipantNotMatched
		}
		return nil, fmt.Errorf("set participant status in tournament %s: %w", id.Hex(), err)
	}
	return &t, nil
}

func (r *mongoTournamentRepository) ListByParticipantUserID(ctx context.Context, userID primitive.ObjectID) ([]models.Tournament, error) {
	filter := bson.M{"participants.userId": userID}
	cur, err := r.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "dateTime", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list tournaments for user %s: %w", userID.Hex(), err)
	}
	tournaments := []models.Tournament{}
	if err := cur.All(ctx, &tournaments); err != nil {
		return nil, fmt.Errorf("decode tournaments for user %s: %w", userID.Hex(), err)
	}
	return tournaments, nil
}

func (r *mongoTournamentRepository) UpdateImage(ctx context.Context, id primitive.ObjectID, imageKey, imageURL string) error {
	update := bson.M{"$set": bson.M{
		"imageKey":  imageKey,
		"imageUrl":  imageURL,
		"updatedAt": time.Now().UTC(),
	}}
	res, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update tournament image %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrTournamentNotFound
	}
	return nil
}

func (r *mongoTournamentRepository) CountByStatus(ctx context.Context, status models.TournamentStatus) (int64, error) {
	n, err := r.c.CountDocuments(ctx, bson.M{"status": status})
	if err != nil {
		return 0, fmt.Errorf("count tournaments by status %q: %w", status, err)
	}
	return n, nil
}

func (r *mongoTournamentRepository) CountAll(ctx context.Context) (int64, error) {
	n, err := r.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count tournaments: %w", err)
	}
	return n, nil
}

func (r *mongoTournamentRepository) CountParticipants(ctx context.Context) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": bson.M{"$size": "$participants"}},
		}}},
	}
	cur, err := r.c.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("count participants: %w", err)
	}
	defer cur.Close(ctx)

	var out []struct {
		Total int64 `bson:"total"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return 0, fmt.Errorf("decode participant count: %w", err)
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Total, nil
}
