package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/convoo/convoo-backend/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const pendingCollection = "pending_users"

type pendingRecord struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Email             string             `bson:"email"`
	FullName          string             `bson:"full_name"`
	PasswordHash      string             `bson:"password_hash"`
	VerificationToken string             `bson:"verification_token"`
	TokenExpiry       time.Time          `bson:"token_expiry"`
	CreatedAt         time.Time          `bson:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at"`
}

func (r pendingRecord) toDomain() *domain.PendingUser {
	return &domain.PendingUser{
		ID:                r.ID.Hex(),
		Email:             r.Email,
		FullName:          r.FullName,
		PasswordHash:      r.PasswordHash,
		VerificationToken: r.VerificationToken,
		TokenExpiry:       r.TokenExpiry,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

type PendingUserRepository struct {
	col *mongo.Collection
}

func NewPendingUserRepository(db *DB) *PendingUserRepository {
	return &PendingUserRepository{col: db.Collection(pendingCollection)}
}

// EnsureIndexes creates the unique email index and the TTL index that lets
// MongoDB reap rows once token_expiry has passed. The TTL monitor runs with
// an unbounded delay, so readers still filter by expiry themselves.
func (r *PendingUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "token_expiry", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	})
	if err != nil {
		return fmt.Errorf("create pending_users indexes: %w", err)
	}
	return nil
}

func (r *PendingUserRepository) Insert(ctx context.Context, pending *domain.PendingUser) error {
	now := time.Now().UTC()
	rec := pendingRecord{
		ID:                primitive.NewObjectID(),
		Email:             pending.Email,
		FullName:          pending.FullName,
		PasswordHash:      pending.PasswordHash,
		VerificationToken: pending.VerificationToken,
		TokenExpiry:       pending.TokenExpiry,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if _, err := r.col.InsertOne(ctx, rec); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert pending user: %w", err)
	}

	pending.ID = rec.ID.Hex()
	pending.CreatedAt = rec.CreatedAt
	pending.UpdatedAt = rec.UpdatedAt
	return nil
}

func (r *PendingUserRepository) FindByEmail(ctx context.Context, email string) (*domain.PendingUser, error) {
	var rec pendingRecord
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPendingNotFound
		}
		return nil, fmt.Errorf("find pending by email: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *PendingUserRepository) FindByToken(ctx context.Context, token string, now time.Time) (*domain.PendingUser, error) {
	filter := bson.M{
		"verification_token": token,
		"token_expiry":       bson.M{"$gt": now},
	}

	var rec pendingRecord
	err := r.col.FindOne(ctx, filter).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPendingNotFound
		}
		return nil, fmt.Errorf("find pending by token: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *PendingUserRepository) UpdateToken(ctx context.Context, email, token string, expiry time.Time) error {
	update := bson.M{"$set": bson.M{
		"verification_token": token,
		"token_expiry":       expiry,
		"updated_at":         time.Now().UTC(),
	}}

	res, err := r.col.UpdateOne(ctx, bson.M{"email": email}, update)
	if err != nil {
		return fmt.Errorf("rotate pending token: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPendingNotFound
	}
	return nil
}

func (r *PendingUserRepository) DeleteByEmail(ctx context.Context, email string) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"email": email}); err != nil {
		return fmt.Errorf("delete pending by email: %w", err)
	}
	return nil
}

func (r *PendingUserRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPendingNotFound
	}
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete pending by id: %w", err)
	}
	return nil
}

func (r *PendingUserRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"token_expiry": bson.M{"$lte": now}})
	if err != nil {
		return 0, fmt.Errorf("delete expired pending users: %w", err)
	}
	return res.DeletedCount, nil
}
