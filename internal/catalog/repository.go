package catalog

import (
	"context"
	"errors"

	"pizzeria-backend/internal/apperr"
	"pizzeria-backend/internal/mongox"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Repository interface {
	ListPizzas(ctx context.Context) ([]Pizza, error)
	GetPizza(ctx context.Context, id string) (*Pizza, error)
	CreatePizza(ctx context.Context, p *Pizza) error
	UpdatePizza(ctx context.Context, p *Pizza) error
	DeletePizza(ctx context.Context, id string) error
	CreatePizzas(ctx context.Context, ps []Pizza) error
	CountPizzas(ctx context.Context) (int64, error)

	ListToppings(ctx context.Context) ([]Topping, error)
	FindToppings(ctx context.Context, ids []string) ([]Topping, error)
	CreateTopping(ctx context.Context, t *Topping) error
	CreateToppings(ctx context.Context, ts []Topping) error
	CountToppings(ctx context.Context) (int64, error)
}

type pizzaDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Description  string             `bson:"description"`
	Prices       bson.M             `bson:"prices,omitempty"`
	Price        interface{}        `bson:"price,omitempty"`
	Image        string             `bson:"image"`
	Category     string             `bson:"category"`
	Rating       float64            `bson:"rating"`
	IsNewArrival bool               `bson:"isNewArrival"`
}

type toppingDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Price       interface{}        `bson:"price"`
	IsAvailable *bool              `bson:"isAvailable,omitempty"`
}

type MongoRepository struct {
	pizzas   *mongo.Collection
	toppings *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		pizzas:   db.Collection("pizzas"),
		toppings: db.Collection("toppings"),
	}
}

func (r *MongoRepository) ListPizzas(ctx context.Context) ([]Pizza, error) {
	cur, err := r.pizzas.Find(ctx, bson.M{})
	if err != nil {
		return nil, apperr.Persistence("find pizzas", err)
	}
	var docs []pizzaDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, apperr.Persistence("decode pizzas", err)
	}
	out := make([]Pizza, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toPizza())
	}
	return out, nil
}

func (r *MongoRepository) GetPizza(ctx context.Context, id string) (*Pizza, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("Pizza")
	}
	var d pizzaDoc
	if err := r.pizzas.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("Pizza")
		}
		return nil, apperr.Persistence("find pizza", err)
	}
	p := d.toPizza()
	return &p, nil
}

func (r *MongoRepository) CreatePizza(ctx context.Context, p *Pizza) error {
	d := fromPizza(*p)
	d.ID = primitive.NewObjectID()
	if _, err := r.pizzas.InsertOne(ctx, d); err != nil {
		return apperr.Persistence("insert pizza", err)
	}
	p.ID = d.ID.Hex()
	return nil
}

func (r *MongoRepository) CreatePizzas(ctx context.Context, ps []Pizza) error {
	docs := make([]interface{}, 0, len(ps))
	for i := range ps {
		d := fromPizza(ps[i])
		d.ID = primitive.NewObjectID()
		ps[i].ID = d.ID.Hex()
		docs = append(docs, d)
	}
	if _, err := r.pizzas.InsertMany(ctx, docs); err != nil {
		return apperr.Persistence("insert pizzas", err)
	}
	return nil
}

// UpdatePizza replaces the whole document; concurrent admin edits are last-write-wins.
func (r *MongoRepository) UpdatePizza(ctx context.Context, p *Pizza) error {
	oid, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return apperr.NotFound("Pizza")
	}
	d := fromPizza(*p)
	d.ID = oid
	res, err := r.pizzas.ReplaceOne(ctx, bson.M{"_id": oid}, d)
	if err != nil {
		return apperr.Persistence("replace pizza", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("Pizza")
	}
	return nil
}

func (r *MongoRepository) DeletePizza(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.NotFound("Pizza")
	}
	res, err := r.pizzas.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return apperr.Persistence("delete pizza", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("Pizza")
	}
	return nil
}

func (r *MongoRepository) CountPizzas(ctx context.Context) (int64, error) {
	n, err := r.pizzas.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, apperr.Persistence("count pizzas", err)
	}
	return n, nil
}

func (r *MongoRepository) ListToppings(ctx context.Context) ([]Topping, error) {
	return r.findToppings(ctx, bson.M{})
}

func (r *MongoRepository) FindToppings(ctx context.Context, ids []string) ([]Topping, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return nil, nil
	}
	return r.findToppings(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

func (r *MongoRepository) findToppings(ctx context.Context, filter bson.M) ([]Topping, error) {
	cur, err := r.toppings.Find(ctx, filter)
	if err != nil {
		return nil, apperr.Persistence("find toppings", err)
	}
	var docs []toppingDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, apperr.Persistence("decode toppings", err)
	}
	out := make([]Topping, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toTopping())
	}
	return out, nil
}

func (r *MongoRepository) CreateTopping(ctx context.Context, t *Topping) error {
	d := fromTopping(*t)
	d.ID = primitive.NewObjectID()
	if _, err := r.toppings.InsertOne(ctx, d); err != nil {
		return apperr.Persistence("insert topping", err)
	}
	t.ID = d.ID.Hex()
	return nil
}

func (r *MongoRepository) CreateToppings(ctx context.Context, ts []Topping) error {
	docs := make([]interface{}, 0, len(ts))
	for i := range ts {
		d := fromTopping(ts[i])
		d.ID = primitive.NewObjectID()
		ts[i].ID = d.ID.Hex()
		docs = append(docs, d)
	}
	if _, err := r.toppings.InsertMany(ctx, docs); err != nil {
		return apperr.Persistence("insert toppings", err)
	}
	return nil
}

func (r *MongoRepository) CountToppings(ctx context.Context) (int64, error) {
	n, err := r.toppings.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, apperr.Persistence("count toppings", err)
	}
	return n, nil
}

func (d pizzaDoc) toPizza() Pizza {
	return Pizza{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Description:  d.Description,
		Pricing:      ResolvePricing(d.Prices, d.Price),
		Image:        d.Image,
		Category:     Category(d.Category),
		Rating:       d.Rating,
		IsNewArrival: d.IsNewArrival,
	}
}

func fromPizza(p Pizza) pizzaDoc {
	d := pizzaDoc{
		Name:         p.Name,
		Description:  p.Description,
		Image:        p.Image,
		Category:     string(p.Category),
		Rating:       p.Rating,
		IsNewArrival: p.IsNewArrival,
	}
	switch pr := p.Pricing.(type) {
	case TieredPricing:
		d.Prices = bson.M{}
		for size, price := range pr.Prices {
			d.Prices[SizeKey(size)] = mongox.Decimal(price)
		}
	case LegacyPricing:
		d.Price = mongox.Decimal(pr.Price)
	}
	return d
}

func (d toppingDoc) toTopping() Topping {
	available := true
	if d.IsAvailable != nil {
		available = *d.IsAvailable
	}
	price, ok := mongox.ToDecimal(d.Price)
	return Topping{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Price:       price,
		IsAvailable: available,
		Unpriced:    !ok,
	}
}

func fromTopping(t Topping) toppingDoc {
	available := t.IsAvailable
	return toppingDoc{
		Name:        t.Name,
		Price:       mongox.Decimal(t.Price),
		IsAvailable: &available,
	}
}

// ResolvePricing turns the raw price fields of a pizza document into a
// Pricing variant. A "prices" sub-document wins over a legacy "price" field;
// entries that are not numeric are dropped so pricing that size fails later
// with a configuration error.
func ResolvePricing(prices map[string]interface{}, legacy interface{}) Pricing {
	if prices != nil {
		tiered := TieredPricing{Prices: map[Size]decimal.Decimal{}}
		for _, size := range Sizes {
			if v, ok := mongox.ToDecimal(prices[SizeKey(size)]); ok {
				tiered.Prices[size] = v
			}
		}
		return tiered
	}
	if v, ok := mongox.ToDecimal(legacy); ok {
		return LegacyPricing{Price: v}
	}
	return TieredPricing{Prices: map[Size]decimal.Decimal{}}
}
