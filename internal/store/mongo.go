package store

import (
	"context"
	"errors"
	"time"

	"github.com/AnshRaj112/petverse-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection = "users"
	petsCollection  = "pets"
)

type userDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Username string             `bson:"username"`
	Mobile   string             `bson:"mobile"`
	Email    string             `bson:"email"`
	Password string             `bson:"password"`
}

type petDocument struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	PetName            string             `bson:"petName"`
	Breed              string             `bson:"breed"`
	Description        string             `bson:"description"`
	Color              string             `bson:"color"`
	LastSeenLocation   string             `bson:"lastSeenLocation"`
	DateLost           string             `bson:"dateLost"`
	ContactInfo        string             `bson:"contactInfo"`
	ImageURL           string             `bson:"imageUrl"`
	IdentificationMark string             `bson:"identificationMark"`
	Status             string             `bson:"status"`
	CreatedAt          time.Time          `bson:"createdAt"`
}

// EnsureIndexes configures the unique email index and the index backing the
// lost/found match query. Called on startup after Mongo has connected.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("idx_email_unique").SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(petsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "identificationMark", Value: 1},
			{Key: "breed", Value: 1},
			{Key: "color", Value: 1},
			{Key: "createdAt", Value: 1},
		},
		Options: options.Index().SetName("idx_pet_match"),
	})
	return err
}

type MongoUserStore struct {
	col *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{col: db.Collection(usersCollection)}
}

func (s *MongoUserStore) Create(ctx context.Context, u models.User) (models.User, error) {
	doc := userDocument{
		Username: u.Username,
		Mobile:   u.Mobile,
		Email:    u.Email,
		Password: u.PasswordHash,
	}
	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid.Hex()
	}
	return u, nil
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var doc userDocument
	err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return models.User{
		ID:           doc.ID.Hex(),
		Username:     doc.Username,
		Mobile:       doc.Mobile,
		Email:        doc.Email,
		PasswordHash: doc.Password,
	}, nil
}

type MongoPetStore struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoPetStore(db *mongo.Database) *MongoPetStore {
	return &MongoPetStore{col: db.Collection(petsCollection), now: time.Now}
}

// oldestFirst orders by creation time; _id breaks ties between records
// created within the same millisecond.
var oldestFirst = bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}

func (s *MongoPetStore) Create(ctx context.Context, rec models.PetRecord) (models.PetRecord, error) {
	doc := toPetDocument(rec)
	doc.CreatedAt = s.now().UTC().Truncate(time.Millisecond)

	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		return models.PetRecord{}, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toRecord(), nil
}

func (s *MongoPetStore) FindOne(ctx context.Context, f models.PetFilter) (models.PetRecord, error) {
	var doc petDocument
	err := s.col.FindOne(ctx, petFilter(f), options.FindOne().SetSort(oldestFirst)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.PetRecord{}, ErrNotFound
		}
		return models.PetRecord{}, err
	}
	return doc.toRecord(), nil
}

func (s *MongoPetStore) Find(ctx context.Context, f models.PetFilter) ([]models.PetRecord, error) {
	cur, err := s.col.Find(ctx, petFilter(f), options.Find().SetSort(oldestFirst))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.PetRecord, 0)
	for cur.Next(ctx) {
		var doc petDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toRecord())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByID is conditional: a record removed by a concurrent request
// yields (false, nil).
func (s *MongoPetStore) DeleteByID(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func petFilter(f models.PetFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.IdentificationMark != nil {
		filter["identificationMark"] = *f.IdentificationMark
	}
	if f.Breed != nil {
		filter["breed"] = *f.Breed
	}
	if f.Color != nil {
		filter["color"] = *f.Color
	}
	return filter
}

func toPetDocument(rec models.PetRecord) petDocument {
	return petDocument{
		PetName:            rec.PetName,
		Breed:              rec.Breed,
		Description:        rec.Description,
		Color:              rec.Color,
		LastSeenLocation:   rec.LastSeenLocation,
		DateLost:           rec.DateLost,
		ContactInfo:        rec.ContactInfo,
		ImageURL:           rec.ImageURL,
		IdentificationMark: rec.IdentificationMark,
		Status:             string(rec.Status),
		CreatedAt:          rec.CreatedAt,
	}
}

func (d petDocument) toRecord() models.PetRecord {
	return models.PetRecord{
		ID:                 d.ID.Hex(),
		PetName:            d.PetName,
		Breed:              d.Breed,
		Description:        d.Description,
		Color:              d.Color,
		LastSeenLocation:   d.LastSeenLocation,
		DateLost:           d.DateLost,
		ContactInfo:        d.ContactInfo,
		ImageURL:           d.ImageURL,
		IdentificationMark: d.IdentificationMark,
		Status:             models.PetStatus(d.Status),
		CreatedAt:          d.CreatedAt,
	}
}
