package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/niksmo/vip-store/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProductsRepository struct {
	coll *mongo.Collection
}

func NewProductsRepository(coll *mongo.Collection) ProductsRepository {
	return ProductsRepository{coll}
}

func (r ProductsRepository) StoreProduct(ctx context.Context, p domain.Product) error {
	const op = "mongodb.ProductsRepository.StoreProduct"

	doc, err := toProductDoc(p)
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

// ReplaceCatalog deletes every product and inserts ps.
func (r ProductsRepository) ReplaceCatalog(ctx context.Context, ps []domain.Product) error {
	const op = "mongodb.ProductsRepository.ReplaceCatalog"

	docs := make([]any, 0, len(ps))
	for _, p := range ps {
		doc, err := toProductDoc(p)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		docs = append(docs, doc)
	}

	if _, err := r.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return storageErr(op, err)
	}
	if len(docs) == 0 {
		return nil
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return storageErr(op, err)
	}
	return nil
}

func (r ProductsRepository) ReadProducts(
	ctx context.Context, category *domain.Category,
) ([]domain.Product, error) {
	const op = "mongodb.ProductsRepository.ReadProducts"

	filter := bson.M{}
	if category != nil {
		filter["category"] = string(*category)
	}

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, storageErr(op, err)
	}

	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storageErr(op, err)
	}

	ps := make([]domain.Product, 0, len(docs))
	for _, d := range docs {
		p, err := d.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ps = append(ps, p)
	}
	return ps, nil
}

func (r ProductsRepository) ReadProduct(
	ctx context.Context, id string,
) (domain.Product, error) {
	const op = "mongodb.ProductsRepository.ReadProduct"

	var doc productDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Product{}, fmt.Errorf("%s: product %w", op, domain.ErrNotFound)
		}
		return domain.Product{}, storageErr(op, err)
	}

	p, err := doc.toDomain()
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (r ProductsRepository) ReplaceProduct(
	ctx context.Context, p domain.Product,
) (domain.Product, error) {
	const op = "mongodb.ProductsRepository.ReplaceProduct"

	doc, err := toProductDoc(p)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	opts := options.FindOneAndReplace().SetReturnDocument(options.After)

	var stored productDoc
	err = r.coll.FindOneAndReplace(ctx, bson.M{"_id": p.ID}, doc, opts).Decode(&stored)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Product{}, fmt.Errorf("%s: product %w", op, domain.ErrNotFound)
		}
		return domain.Product{}, storageErr(op, err)
	}

	out, err := stored.toDomain()
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (r ProductsRepository) DeleteProduct(ctx context.Context, id string) error {
	const op = "mongodb.ProductsRepository.DeleteProduct"

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storageErr(op, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: product %w", op, domain.ErrNotFound)
	}
	return nil
}
