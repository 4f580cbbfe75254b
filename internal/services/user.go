package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/biasadhi/biasadhi-gobackend/internal/db"
	"github.com/biasadhi/biasadhi-gobackend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type UserService struct {
	collection *mongo.Collection
	timeout    time.Duration
	logger     *zap.Logger
}

func NewUserService(database *mongo.Database, timeout time.Duration, logger *zap.Logger) *UserService {
	return &UserService{
		collection: database.Collection(db.Users),
		timeout:    timeout,
		logger:     logger.Named("users"),
	}
}

// Register inserts user unless the email is already taken, in which case it
// returns ErrAlreadyExists. New accounts always start as regular members.
func (s *UserService) Register(ctx context.Context, user *models.User) (*models.InsertResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user.Email = strings.TrimSpace(user.Email)

	err := s.collection.FindOne(ctx, bson.M{"email": user.Email}).Err()
	switch {
	case err == nil:
		return nil, ErrAlreadyExists
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, fmt.Errorf("looking up user %s: %w", user.Email, err)
	}

	user.ID = primitive.NewObjectID()
	user.Role = models.RoleMember
	user.CustomerType = models.CustomerRegular
	user.CreatedAt = time.Now().UTC()

	result, err := s.collection.InsertOne(ctx, user)
	if err != nil {
		// the unique index catches a registration that raced ours
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("inserting user %s: %w", user.Email, err)
	}

	s.logger.Info("user registered", zap.String("email", user.Email))
	return &models.InsertResult{Acknowledged: true, InsertedID: result.InsertedID}, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cur, err := s.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decoding users: %w", err)
	}
	return users, nil
}

// FindByEmail returns ErrNotFound when no user has email.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var user models.User
	if err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding user %s: %w", email, err)
	}
	return &user, nil
}

// Delete removes the user only. Biodata, favourites and payments stay.
func (s *UserService) Delete(ctx context.Context, id string) (*models.DeleteResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, fmt.Errorf("deleting user %s: %w", id, err)
	}
	return &models.DeleteResult{Acknowledged: true, DeletedCount: result.DeletedCount}, nil
}

func (s *UserService) PromoteToAdmin(ctx context.Context, id string) (*models.UpdateResult, error) {
	return s.setField(ctx, id, "role", models.RoleAdmin)
}

func (s *UserService) PromoteToPremium(ctx context.Context, id string) (*models.UpdateResult, error) {
	return s.setField(ctx, id, "customerType", models.CustomerPremium)
}

func (s *UserService) setField(ctx context.Context, id, field, value string) (*models.UpdateResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{field: value}})
	if err != nil {
		return nil, fmt.Errorf("setting %s on user %s: %w", field, id, err)
	}

	s.logger.Info("user updated", zap.String("id", id), zap.String(field, value))
	return updateResult(result), nil
}

func updateResult(r *mongo.UpdateResult) *models.UpdateResult {
	return &models.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  r.MatchedCount,
		ModifiedCount: r.ModifiedCount,
		UpsertedCount: r.UpsertedCount,
		UpsertedID:    r.UpsertedID,
	}
}
