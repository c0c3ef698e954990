package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pizzeria-backend/internal/apperr"
	"pizzeria-backend/internal/catalog"
	"pizzeria-backend/internal/mongox"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Query selects orders for List. An empty UserID means every order.
type Query struct {
	UserID       string
	WithCustomer bool
}

type Repository interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	// MarkDelivered flags pending orders created before the cutoff and
	// returns how many changed. An empty userID covers every order.
	MarkDelivered(ctx context.Context, userID string, before time.Time) (int64, error)
	// List returns orders newest first.
	List(ctx context.Context, q Query) ([]Order, error)
	Count(ctx context.Context) (int64, error)
	Revenue(ctx context.Context) (decimal.Decimal, error)
}

type orderDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	UserID          primitive.ObjectID `bson:"userId"`
	User            *customerDoc       `bson:"user,omitempty"`
	Items           []itemDoc          `bson:"orderItems"`
	ShippingAddress addressDoc         `bson:"shippingAddress"`
	PaymentMethod   string             `bson:"paymentMethod"`
	ItemsPrice      interface{}        `bson:"itemsPrice,omitempty"`
	DeliveryFee     interface{}        `bson:"deliveryFee,omitempty"`
	TotalPrice      interface{}        `bson:"totalPrice"`
	IsDelivered     bool               `bson:"isDelivered"`
	CreatedAt       time.Time          `bson:"createdAt"`
}

type itemDoc struct {
	Name     string      `bson:"name"`
	Price    interface{} `bson:"price"`
	Quantity int         `bson:"quantity"`
	Image    string      `bson:"image,omitempty"`
	Size     string      `bson:"size,omitempty"`
	Extras   []extraDoc  `bson:"extras,omitempty"`
}

type extraDoc struct {
	ID    string      `bson:"_id"`
	Name  string      `bson:"name"`
	Price interface{} `bson:"price"`
}

type addressDoc struct {
	Address    string `bson:"address"`
	City       string `bson:"city"`
	PostalCode string `bson:"postalCode"`
	Country    string `bson:"country"`
}

type customerDoc struct {
	ID    primitive.ObjectID `bson:"_id"`
	Name  string             `bson:"name"`
	Email string             `bson:"email"`
}

type MongoRepository struct {
	orders *mongo.Collection
	logger *zap.Logger
}

func NewMongoRepository(db *mongo.Database, logger *zap.Logger) *MongoRepository {
	return &MongoRepository{orders: db.Collection("orders"), logger: logger}
}

// decode converts a stored order, warning about money fields that could not
// be read as numbers. Those fields read as zero.
func (r *MongoRepository) decode(d orderDoc) Order {
	o, bad := d.toOrder()
	if len(bad) > 0 {
		r.logger.Warn("order has non-numeric money fields",
			zap.String("order_id", o.ID),
			zap.Strings("fields", bad),
		)
	}
	return o
}

func (r *MongoRepository) Create(ctx context.Context, o *Order) error {
	uid, err := primitive.ObjectIDFromHex(o.UserID)
	if err != nil {
		return apperr.Validation("invalid user id")
	}
	d := fromOrder(*o)
	d.ID = primitive.NewObjectID()
	d.UserID = uid
	if _, err := r.orders.InsertOne(ctx, d); err != nil {
		return apperr.Persistence("insert order", err)
	}
	o.ID = d.ID.Hex()
	return nil
}

func (r *MongoRepository) Get(ctx context.Context, id string) (*Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("Order")
	}
	var d orderDoc
	err = r.orders.FindOne(ctx, bson.M{"_id": oid}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Order")
	}
	if err != nil {
		return nil, apperr.Persistence("find order", err)
	}
	o := r.decode(d)
	return &o, nil
}

func (r *MongoRepository) MarkDelivered(ctx context.Context, userID string, before time.Time) (int64, error) {
	filter := bson.M{"isDelivered": false, "createdAt": bson.M{"$lt": before}}
	if userID != "" {
		uid, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return 0, nil
		}
		filter["userId"] = uid
	}
	res, err := r.orders.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"isDelivered": true}})
	if err != nil {
		return 0, apperr.Persistence("mark orders delivered", err)
	}
	return res.ModifiedCount, nil
}

func (r *MongoRepository) List(ctx context.Context, q Query) ([]Order, error) {
	match := bson.M{}
	if q.UserID != "" {
		uid, err := primitive.ObjectIDFromHex(q.UserID)
		if err != nil {
			return []Order{}, nil
		}
		match["userId"] = uid
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
	}
	if q.WithCustomer {
		pipeline = append(pipeline,
			bson.D{{Key: "$lookup", Value: bson.M{
				"from":         "users",
				"localField":   "userId",
				"foreignField": "_id",
				"as":           "user",
			}}},
			bson.D{{Key: "$unwind", Value: bson.M{"path": "$user", "preserveNullAndEmptyArrays": true}}},
		)
	}
	cur, err := r.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Persistence("find orders", err)
	}
	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, apperr.Persistence("decode orders", err)
	}
	out := make([]Order, 0, len(docs))
	for _, d := range docs {
		out = append(out, r.decode(d))
	}
	return out, nil
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.orders.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, apperr.Persistence("count orders", err)
	}
	return n, nil
}

func (r *MongoRepository) Revenue(ctx context.Context) (decimal.Decimal, error) {
	cur, err := r.orders.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$totalPrice"}}}},
	})
	if err != nil {
		return decimal.Zero, apperr.Persistence("sum revenue", err)
	}
	var rows []struct {
		Total interface{} `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return decimal.Zero, apperr.Persistence("decode revenue", err)
	}
	if len(rows) == 0 {
		return decimal.Zero, nil
	}
	total, ok := mongox.ToDecimal(rows[0].Total)
	if !ok {
		r.logger.Warn("revenue sum is not numeric", zap.Any("total", rows[0].Total))
	}
	// $sum skips totals that are not numbers.
	skipped, err := r.orders.CountDocuments(ctx, bson.M{"totalPrice": bson.M{"$not": bson.M{"$type": "number"}}})
	if err == nil && skipped > 0 {
		r.logger.Warn("orders left out of revenue: totalPrice is not numeric", zap.Int64("count", skipped))
	}
	return total, nil
}

func fromOrder(o Order) orderDoc {
	items := make([]itemDoc, 0, len(o.Items))
	for _, it := range o.Items {
		extras := make([]extraDoc, 0, len(it.Extras))
		for _, e := range it.Extras {
			extras = append(extras, extraDoc{ID: e.ID, Name: e.Name, Price: mongox.Decimal(e.Price)})
		}
		items = append(items, itemDoc{
			Name:     it.Name,
			Price:    mongox.Decimal(it.Price),
			Quantity: it.Quantity,
			Image:    it.Image,
			Size:     string(it.Size),
			Extras:   extras,
		})
	}
	return orderDoc{
		Items: items,
		ShippingAddress: addressDoc{
			Address:    o.ShippingAddress.Address,
			City:       o.ShippingAddress.City,
			PostalCode: o.ShippingAddress.PostalCode,
			Country:    o.ShippingAddress.Country,
		},
		PaymentMethod: string(o.PaymentMethod),
		ItemsPrice:    mongox.Decimal(o.ItemsPrice),
		DeliveryFee:   mongox.Decimal(o.DeliveryFee),
		TotalPrice:    mongox.Decimal(o.TotalPrice),
		IsDelivered:   o.IsDelivered,
		CreatedAt:     o.CreatedAt,
	}
}

// moneyFields reads stored amounts and remembers the ones that were not numeric.
type moneyFields struct {
	bad []string
}

// read converts v; optional fields may be absent from older documents.
func (m *moneyFields) read(field string, v interface{}, optional bool) decimal.Decimal {
	if v == nil && optional {
		return decimal.Zero
	}
	d, ok := mongox.ToDecimal(v)
	if !ok {
		m.bad = append(m.bad, field)
	}
	return d
}

// toOrder returns the order and the names of money fields that did not hold
// a number.
func (d orderDoc) toOrder() (Order, []string) {
	var money moneyFields
	items := make([]OrderItem, 0, len(d.Items))
	for i, it := range d.Items {
		price := money.read(fmt.Sprintf("orderItems.%d.price", i), it.Price, false)
		var extras []catalog.ToppingRef
		for j, e := range it.Extras {
			p := money.read(fmt.Sprintf("orderItems.%d.extras.%d.price", i, j), e.Price, false)
			extras = append(extras, catalog.ToppingRef{ID: e.ID, Name: e.Name, Price: p})
		}
		items = append(items, OrderItem{
			Name:     it.Name,
			Price:    price,
			Quantity: it.Quantity,
			Image:    it.Image,
			Size:     catalog.Size(it.Size),
			Extras:   extras,
		})
	}
	itemsPrice := money.read("itemsPrice", d.ItemsPrice, true)
	fee := money.read("deliveryFee", d.DeliveryFee, true)
	total := money.read("totalPrice", d.TotalPrice, false)
	o := Order{
		ID:     d.ID.Hex(),
		UserID: d.UserID.Hex(),
		Items:  items,
		ShippingAddress: ShippingAddress{
			Address:    d.ShippingAddress.Address,
			City:       d.ShippingAddress.City,
			PostalCode: d.ShippingAddress.PostalCode,
			Country:    d.ShippingAddress.Country,
		},
		PaymentMethod: PaymentMethod(d.PaymentMethod),
		ItemsPrice:    itemsPrice,
		DeliveryFee:   fee,
		TotalPrice:    total,
		IsDelivered:   d.IsDelivered,
		CreatedAt:     d.CreatedAt,
	}
	if d.User != nil {
		o.User = &Customer{ID: d.User.ID.Hex(), Name: d.User.Name, Email: d.User.Email}
	}
	return o, money.bad
}
