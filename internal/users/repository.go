package users

import (
	"context"
	"errors"
	"time"

	"pizzeria-backend/internal/apperr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrDuplicateEmail = errors.New("email already registered")

type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	SetAdmin(ctx context.Context, id string, admin bool) error
	UpdateProfile(ctx context.Context, id string, in ProfileInput) error
	// BackfillCreatedAt stamps users that predate the createdAt field.
	BackfillCreatedAt(ctx context.Context, at time.Time) (int64, error)
}

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Phone     string             `bson:"phone,omitempty"`
	Password  string             `bson:"password"`
	IsAdmin   bool               `bson:"isAdmin"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type MongoRepository struct {
	users *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{users: db.Collection("users")}
}

func (r *MongoRepository) Create(ctx context.Context, u *User) error {
	d := userDoc{
		ID:        primitive.NewObjectID(),
		Name:      u.Name,
		Email:     NormalizeEmail(u.Email),
		Phone:     u.Phone,
		Password:  u.PasswordHash,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
	if _, err := r.users.InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return apperr.Persistence("insert user", err)
	}
	u.ID = d.ID.Hex()
	u.Email = d.Email
	return nil
}

func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, bson.M{"email": NormalizeEmail(email)})
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("User")
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*User, error) {
	var d userDoc
	if err := r.users.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("User")
		}
		return nil, apperr.Persistence("find user", err)
	}
	u := d.toUser()
	return &u, nil
}

func (r *MongoRepository) List(ctx context.Context) ([]User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperr.Persistence("find users", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, apperr.Persistence("decode users", err)
	}
	out := make([]User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toUser())
	}
	return out, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.NotFound("User")
	}
	res, err := r.users.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return apperr.Persistence("delete user", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, apperr.Persistence("count users", err)
	}
	return n, nil
}

func (r *MongoRepository) SetAdmin(ctx context.Context, id string, admin bool) error {
	return r.set(ctx, id, bson.M{"isAdmin": admin})
}

func (r *MongoRepository) UpdateProfile(ctx context.Context, id string, in ProfileInput) error {
	update := bson.M{}
	if in.Name != "" {
		update["name"] = in.Name
	}
	if in.Phone != "" {
		update["phone"] = in.Phone
	}
	if len(update) == 0 {
		return nil
	}
	return r.set(ctx, id, update)
}

func (r *MongoRepository) set(ctx context.Context, id string, fields bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.NotFound("User")
	}
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return apperr.Persistence("update user", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

func (r *MongoRepository) BackfillCreatedAt(ctx context.Context, at time.Time) (int64, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"createdAt": bson.M{"$exists": false}},
		bson.M{"createdAt": nil},
	}}
	res, err := r.users.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"createdAt": at}})
	if err != nil {
		return 0, apperr.Persistence("backfill users", err)
	}
	return res.ModifiedCount, nil
}

func (d userDoc) toUser() User {
	return User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		Phone:        d.Phone,
		PasswordHash: d.Password,
		IsAdmin:      d.IsAdmin,
		CreatedAt:    d.CreatedAt,
	}
}
