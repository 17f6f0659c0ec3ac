package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/niksmo/vip-store/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OrdersRepository struct {
	coll *mongo.Collection
}

func NewOrdersRepository(coll *mongo.Collection) OrdersRepository {
	return OrdersRepository{coll}
}

func (r OrdersRepository) StoreOrder(ctx context.Context, o domain.Order) error {
	const op = "mongodb.OrdersRepository.StoreOrder"

	doc, err := toOrderDoc(o)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", op, domain.ErrConflict)
		}
		return storageErr(op, err)
	}
	return nil
}

func (r OrdersRepository) ReadOrders(
	ctx context.Context, f domain.OrderFilter,
) ([]domain.Order, error) {
	const op = "mongodb.OrdersRepository.ReadOrders"

	filter := orderFilter(f)
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, storageErr(op, err)
	}

	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storageErr(op, err)
	}

	orders := make([]domain.Order, 0, len(docs))
	for _, d := range docs {
		o, err := d.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r OrdersRepository) ReadOrder(ctx context.Context, id string) (domain.Order, error) {
	const op = "mongodb.OrdersRepository.ReadOrder"
	return r.findOne(ctx, op, bson.M{"_id": id})
}

func (r OrdersRepository) ReadOrderByIdempotencyKey(
	ctx context.Context, key string,
) (domain.Order, error) {
	const op = "mongodb.OrdersRepository.ReadOrderByIdempotencyKey"
	return r.findOne(ctx, op, bson.M{"idempotencyKey": key})
}

func (r OrdersRepository) findOne(
	ctx context.Context, op string, filter bson.M,
) (domain.Order, error) {
	var doc orderDoc
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Order{}, fmt.Errorf("%s: order %w", op, domain.ErrNotFound)
		}
		return domain.Order{}, storageErr(op, err)
	}

	o, err := doc.toDomain()
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

func (r OrdersRepository) UpdateOrder(
	ctx context.Context,
	id string,
	expected domain.OrderStatus,
	change domain.OrderChange,
	at time.Time,
) (domain.Order, error) {
	const op = "mongodb.OrdersRepository.UpdateOrder"

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc orderDoc
	err := r.coll.FindOneAndUpdate(
		ctx, updateFilter(id, expected), orderUpdate(change, at), opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			if expected != "" {
				return domain.Order{}, fmt.Errorf("%s: order status %w", op, domain.ErrConflict)
			}
			return domain.Order{}, fmt.Errorf("%s: order %w", op, domain.ErrNotFound)
		}
		return domain.Order{}, storageErr(op, err)
	}

	o, err := doc.toDomain()
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

func (r OrdersRepository) DeleteOrder(ctx context.Context, id string) error {
	const op = "mongodb.OrdersRepository.DeleteOrder"

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storageErr(op, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: order %w", op, domain.ErrNotFound)
	}
	return nil
}

func (r OrdersRepository) ReadOrderStats(ctx context.Context) (domain.OrderStats, error) {
	const op = "mongodb.OrdersRepository.ReadOrderStats"

	cur, err := r.coll.Aggregate(ctx, statsPipeline())
	if err != nil {
		return domain.OrderStats{}, storageErr(op, err)
	}

	var docs []statsDoc
	if err := cur.All(ctx, &docs); err != nil {
		return domain.OrderStats{}, storageErr(op, err)
	}
	if len(docs) == 0 {
		return domain.OrderStats{}, nil
	}

	stats, err := docs[0].toDomain()
	if err != nil {
		return domain.OrderStats{}, fmt.Errorf("%s: %w", op, err)
	}
	return stats, nil
}

func orderFilter(f domain.OrderFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	return filter
}

// updateFilter matches the order only while it is still in the expected
// status, when one is given.
func updateFilter(id string, expected domain.OrderStatus) bson.M {
	filter := bson.M{"_id": id}
	if expected != "" {
		filter["status"] = string(expected)
	}
	return filter
}

func orderUpdate(change domain.OrderChange, at time.Time) bson.M {
	set := bson.M{"updatedAt": at}
	if change.Status != nil {
		set["status"] = string(*change.Status)
	}
	if change.Notes != nil {
		set["notes"] = *change.Notes
	}
	return bson.M{"$set": set}
}

func statsPipeline() mongo.Pipeline {
	zero, _ := primitive.ParseDecimal128("0")
	countIf := func(status domain.OrderStatus) bson.M {
		return bson.M{"$sum": bson.M{
			"$cond": bson.A{bson.M{"$eq": bson.A{"$status", string(status)}}, 1, 0},
		}}
	}

	return mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":       nil,
			"total":     bson.M{"$sum": 1},
			"pending":   countIf(domain.OrderStatusPending),
			"delivered": countIf(domain.OrderStatusDelivered),
			"revenue": bson.M{"$sum": bson.M{
				"$cond": bson.A{
					bson.M{"$ne": bson.A{"$status", string(domain.OrderStatusCancelled)}},
					"$total",
					zero,
				},
			}},
		}}},
	}
}
