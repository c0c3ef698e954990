package cart

import (
	"context"
	"errors"
	"time"

	"pizzeria-backend/internal/apperr"
	"pizzeria-backend/internal/catalog"
	"pizzeria-backend/internal/mongox"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type cartDoc struct {
	UserID    string    `bson:"userId"`
	Items     []lineDoc `bson:"items"`
	Version   int64     `bson:"version"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type lineDoc struct {
	CartItemID string      `bson:"cartItemId"`
	PizzaID    string      `bson:"pizzaId"`
	Name       string      `bson:"name"`
	Image      string      `bson:"image"`
	Size       string      `bson:"selectedSize"`
	Extras     []extraDoc  `bson:"selectedExtras"`
	FinalPrice interface{} `bson:"finalPrice"`
	Quantity   int         `bson:"quantity"`
}

type extraDoc struct {
	ID    string      `bson:"_id"`
	Name  string      `bson:"name"`
	Price interface{} `bson:"price"`
}

// MongoStore keeps one document per user in the carts collection. Writes are
// guarded by a version field; a lost race is retried from a fresh read.
type MongoStore struct {
	carts *mongo.Collection
	now   func() time.Time
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{carts: db.Collection("carts"), now: time.Now}
}

func (s *MongoStore) Get(ctx context.Context, userID string) (*Cart, error) {
	c, _, err := s.load(ctx, userID)
	return c, err
}

func (s *MongoStore) Update(ctx context.Context, userID string, fn func(c *Cart) error) (*Cart, error) {
	for i := 0; i < maxUpdateAttempts; i++ {
		c, version, err := s.load(ctx, userID)
		if err != nil {
			return nil, err
		}
		if err := fn(c); err != nil {
			return nil, err
		}
		c.UpdatedAt = s.now()

		filter := bson.M{"userId": userID, "version": version}
		if version == 0 {
			filter["version"] = bson.M{"$exists": false}
		}
		update := bson.M{"$set": bson.M{
			"items":     toLineDocs(c.Items),
			"version":   version + 1,
			"updatedAt": c.UpdatedAt,
		}}
		res, err := s.carts.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
		if mongo.IsDuplicateKeyError(err) {
			continue
		}
		if err != nil {
			return nil, apperr.Persistence("write cart", err)
		}
		if res.MatchedCount == 0 && res.UpsertedCount == 0 {
			continue
		}
		return c, nil
	}
	return nil, apperr.Persistence("write cart", errors.New("too much contention"))
}

// Delete drops a user's cart document.
func (s *MongoStore) Delete(ctx context.Context, userID string) error {
	if _, err := s.carts.DeleteOne(ctx, bson.M{"userId": userID}); err != nil {
		return apperr.Persistence("delete cart", err)
	}
	return nil
}

func (s *MongoStore) load(ctx context.Context, userID string) (*Cart, int64, error) {
	var d cartDoc
	err := s.carts.FindOne(ctx, bson.M{"userId": userID}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return New(userID), 0, nil
	}
	if err != nil {
		return nil, 0, apperr.Persistence("read cart", err)
	}
	c := New(userID)
	c.UpdatedAt = d.UpdatedAt
	for _, l := range d.Items {
		c.Items = append(c.Items, l.toLineItem())
	}
	return c, d.Version, nil
}

func toLineDocs(items []LineItem) []lineDoc {
	out := make([]lineDoc, 0, len(items))
	for _, li := range items {
		extras := make([]extraDoc, 0, len(li.Extras))
		for _, e := range li.Extras {
			extras = append(extras, extraDoc{ID: e.ID, Name: e.Name, Price: mongox.Decimal(e.Price)})
		}
		out = append(out, lineDoc{
			CartItemID: li.CartItemID,
			PizzaID:    li.PizzaID,
			Name:       li.Name,
			Image:      li.Image,
			Size:       string(li.Size),
			Extras:     extras,
			FinalPrice: mongox.Decimal(li.FinalPrice),
			Quantity:   li.Quantity,
		})
	}
	return out
}

func (d lineDoc) toLineItem() LineItem {
	price, _ := mongox.ToDecimal(d.FinalPrice)
	extras := make([]catalog.ToppingRef, 0, len(d.Extras))
	for _, e := range d.Extras {
		p, _ := mongox.ToDecimal(e.Price)
		extras = append(extras, catalog.ToppingRef{ID: e.ID, Name: e.Name, Price: p})
	}
	return LineItem{
		CartItemID: d.CartItemID,
		PizzaID:    d.PizzaID,
		Name:       d.Name,
		Image:      d.Image,
		Size:       catalog.Size(d.Size),
		Extras:     extras,
		FinalPrice: price,
		Quantity:   d.Quantity,
	}
}
