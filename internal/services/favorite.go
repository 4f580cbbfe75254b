package services

import (
	"context"
	"fmt"
	"time"

	"github.com/biasadhi/biasadhi-gobackend/internal/db"
	"github.com/biasadhi/biasadhi-gobackend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FavoriteService struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewFavoriteService(database *mongo.Database, timeout time.Duration) *FavoriteService {
	return &FavoriteService{collection: database.Collection(db.Favorites), timeout: timeout}
}

func (s *FavoriteService) Add(ctx context.Context, fav *models.Favorite) (*models.InsertResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	fav.ID = primitive.NewObjectID()
	fav.CreatedAt = time.Now().UTC()

	result, err := s.collection.InsertOne(ctx, fav)
	if err != nil {
		return nil, fmt.Errorf("inserting favourite for %s: %w", fav.Email, err)
	}
	return &models.InsertResult{Acknowledged: true, InsertedID: result.InsertedID}, nil
}

func (s *FavoriteService) ListByEmail(ctx context.Context, email string) ([]models.Favorite, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cur, err := s.collection.Find(ctx, bson.M{"email": email}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("finding favourites for %s: %w", email, err)
	}
	defer cur.Close(ctx)

	favorites := []models.Favorite{}
	if err := cur.All(ctx, &favorites); err != nil {
		return nil, fmt.Errorf("decoding favourites: %w", err)
	}
	return favorites, nil
}

func (s *FavoriteService) Delete(ctx context.Context, id string) (*models.DeleteResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, fmt.Errorf("deleting favourite %s: %w", id, err)
	}
	return &models.DeleteResult{Acknowledged: true, DeletedCount: result.DeletedCount}, nil
}
