package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/biasadhi/biasadhi-gobackend/internal/db"
	"github.com/biasadhi/biasadhi-gobackend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type BiodataService struct {
	collection *mongo.Collection
	counters   *mongo.Collection
	timeout    time.Duration
	logger     *zap.Logger
}

func NewBiodataService(database *mongo.Database, timeout time.Duration, logger *zap.Logger) *BiodataService {
	return &BiodataService{
		collection: database.Collection(db.Biodata),
		counters:   database.Collection(db.Counters),
		timeout:    timeout,
		logger:     logger.Named("biodata"),
	}
}

// Stats returns every biodata along with the total and per-gender counts.
func (s *BiodataService) Stats(ctx context.Context) (*models.BiodataStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}

	stats := &models.BiodataStats{Result: result}
	counts := []struct {
		filter bson.M
		dst    *int64
	}{
		{bson.M{}, &stats.AllCount},
		{bson.M{"gender": models.GenderMale}, &stats.MenCount},
		{bson.M{"gender": models.GenderFemale}, &stats.FemaleCount},
	}
	for _, c := range counts {
		n, err := s.collection.CountDocuments(ctx, c.filter)
		if err != nil {
			return nil, fmt.Errorf("counting biodata: %w", err)
		}
		*c.dst = n
	}
	return stats, nil
}

// Page returns size documents after skipping page*size, in insertion order.
func (s *BiodataService) Page(ctx context.Context, page, size int64) ([]models.Biodata, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.find(ctx, bson.M{}, pageOptions(page, size))
}

func (s *BiodataService) Search(ctx context.Context, q models.BiodataQuery) ([]models.Biodata, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.find(ctx, SearchFilter(q), pageOptions(q.Page, q.Size))
}

// SearchFilter matches name by case-insensitive prefix and the division and
// gender exactly. Selecting both genders, or neither, does not filter.
func SearchFilter(q models.BiodataQuery) bson.M {
	filter := bson.M{}
	if name := strings.TrimSpace(q.Name); name != "" {
		filter["name"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(name), Options: "i"}
	}
	if division := strings.TrimSpace(q.PermanentDivision); division != "" {
		filter["permanentDivision"] = division
	}
	switch {
	case q.Male && !q.Female:
		filter["gender"] = models.GenderMale
	case q.Female && !q.Male:
		filter["gender"] = models.GenderFemale
	}
	return filter
}

func pageOptions(page, size int64) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if size > 0 {
		opts.SetSkip(page * size).SetLimit(size)
	}
	return opts
}

// Create stores b for email under the next per-email biodataID.
func (s *BiodataService) Create(ctx context.Context, email string, b *models.Biodata) (*models.Biodata, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	email = strings.TrimSpace(email)
	seq, err := s.nextBiodataID(ctx, email)
	if err != nil {
		return nil, err
	}

	b.ID = primitive.NewObjectID()
	b.Email = email
	b.BiodataID = seq

	if _, err := s.collection.InsertOne(ctx, b); err != nil {
		return nil, fmt.Errorf("inserting biodata for %s: %w", email, err)
	}

	s.logger.Info("biodata created", zap.String("email", email), zap.Int64("biodataID", seq))
	return b, nil
}

// nextBiodataID increments the counter document of email and returns the new
// value. A missing counter is first seeded with the number of biodata the
// email already owns, so stores written before the counter existed continue
// their sequence.
func (s *BiodataService) nextBiodataID(ctx context.Context, email string) (int64, error) {
	key := bson.M{"_id": "biodata:" + email}
	inc := bson.M{"$inc": bson.M{"seq": 1}}
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)

	seq, err := s.incrementCounter(ctx, key, inc, after)
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return seq, err
	}

	existing, err := s.collection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return 0, fmt.Errorf("counting biodata of %s: %w", email, err)
	}
	// concurrent seeders race on the _id; the loser's duplicate key is fine
	_, err = s.counters.UpdateOne(ctx, key,
		bson.M{"$setOnInsert": bson.M{"seq": existing}},
		options.Update().SetUpsert(true),
	)
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return 0, fmt.Errorf("seeding biodataID counter for %s: %w", email, err)
	}

	return s.incrementCounter(ctx, key, inc, after.SetUpsert(true))
}

func (s *BiodataService) incrementCounter(ctx context.Context, key, inc bson.M, opts *options.FindOneAndUpdateOptions) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx, key, inc, opts).Decode(&counter)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, err
	}
	if err != nil {
		return 0, fmt.Errorf("allocating biodataID for %v: %w", key["_id"], err)
	}
	return counter.Seq, nil
}

func (s *BiodataService) ListByEmail(ctx context.Context, email string) ([]models.Biodata, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.find(ctx, bson.M{"email": email}, options.Find().SetSort(bson.D{{Key: "biodataID", Value: 1}}))
}

func (s *BiodataService) GetByID(ctx context.Context, id string) (*models.Biodata, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var b models.Biodata
	if err := s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding biodata %s: %w", id, err)
	}
	return &b, nil
}

// Replace overwrites the whole document with b, inserting it when id is
// unknown. Fields absent from b are absent afterwards.
func (s *BiodataService) Replace(ctx context.Context, id string, b *models.Biodata) (*models.UpdateResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	b.ID = oid
	result, err := s.collection.ReplaceOne(ctx, bson.M{"_id": oid}, b, options.Replace().SetUpsert(true))
	if err != nil {
		return nil, fmt.Errorf("replacing biodata %s: %w", id, err)
	}
	return updateResult(result), nil
}

func (s *BiodataService) Delete(ctx context.Context, id string) (*models.DeleteResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, fmt.Errorf("deleting biodata %s: %w", id, err)
	}
	return &models.DeleteResult{Acknowledged: true, DeletedCount: result.DeletedCount}, nil
}

// IsMale reports whether the first biodata of email is male. An email with no
// biodata is not.
func (s *BiodataService) IsMale(ctx context.Context, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var b models.Biodata
	err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("finding biodata for %s: %w", email, err)
	}
	return b.IsMale(), nil
}

func (s *BiodataService) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Biodata, error) {
	cur, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("finding biodata: %w", err)
	}
	defer cur.Close(ctx)

	result := []models.Biodata{}
	if err := cur.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decoding biodata: %w", err)
	}
	return result, nil
}
