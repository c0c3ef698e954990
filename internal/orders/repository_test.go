package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestOrderDoc_ToOrderReportsBadMoney(t *testing.T) {
	d := orderDoc{
		ID:     primitive.NewObjectID(),
		UserID: primitive.NewObjectID(),
		Items: []itemDoc{
			{Name: "Margherita", Price: int32(999), Quantity: 1, Extras: []extraDoc{{ID: "t1", Name: "Cheese", Price: "200"}}},
			{Name: "Diablo", Quantity: 1},
		},
		TotalPrice: "1399",
		CreatedAt:  time.Now(),
	}

	o, bad := d.toOrder()

	assert.ElementsMatch(t, []string{"orderItems.0.extras.0.price", "orderItems.1.price", "totalPrice"}, bad)
	assert.True(t, o.TotalPrice.IsZero())
	assert.Equal(t, "999", o.Items[0].Price.String())
}

func TestOrderDoc_LegacyOrderWithoutBreakdownIsClean(t *testing.T) {
	d := orderDoc{
		ID:         primitive.NewObjectID(),
		UserID:     primitive.NewObjectID(),
		Items:      []itemDoc{{Name: "Margherita", Price: 999.0, Quantity: 2}},
		TotalPrice: 2198.0,
	}

	o, bad := d.toOrder()

	assert.Empty(t, bad)
	assert.Equal(t, "2198", o.TotalPrice.String())
	assert.True(t, o.ItemsPrice.IsZero())
}

func TestMongoRepository_DecodeWarnsOnBadMoney(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r := &MongoRepository{logger: zap.New(core)}
	id := primitive.NewObjectID()

	o := r.decode(orderDoc{ID: id, TotalPrice: "n/a"})
	r.decode(orderDoc{ID: primitive.NewObjectID(), TotalPrice: int64(1199)})

	assert.Equal(t, id.Hex(), o.ID)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "order has non-numeric money fields", entry.Message)
	assert.Equal(t, id.Hex(), entry.ContextMap()["order_id"])
}
