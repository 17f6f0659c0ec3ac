package mongodb

import (
	"fmt"
	"time"

	"github.com/niksmo/vip-store/internal/core/domain"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type (
	orderDoc struct {
		ID                string               `bson:"_id"`
		CustomerName      string               `bson:"customerName"`
		Phone             string               `bson:"phone"`
		Address           string               `bson:"address"`
		Items             []orderItemDoc       `bson:"items"`
		Total             primitive.Decimal128 `bson:"total"`
		PaymentScreenshot string               `bson:"paymentScreenshot"`
		Status            string               `bson:"status"`
		Notes             string               `bson:"notes,omitempty"`
		IdempotencyKey    string               `bson:"idempotencyKey,omitempty"`
		CreatedAt         time.Time            `bson:"createdAt"`
		UpdatedAt         time.Time            `bson:"updatedAt"`
	}

	orderItemDoc struct {
		ProductID string               `bson:"productId"`
		Name      string               `bson:"name"`
		NameAr    string               `bson:"nameAr,omitempty"`
		Price     primitive.Decimal128 `bson:"price"`
		Quantity  int                  `bson:"quantity"`
		Size      string               `bson:"size,omitempty"`
		Image     string               `bson:"image,omitempty"`
	}

	productDoc struct {
		ID        string               `bson:"_id"`
		NameEn    string               `bson:"nameEn"`
		NameAr    string               `bson:"nameAr"`
		Category  string               `bson:"category"`
		Price     primitive.Decimal128 `bson:"price"`
		Image     string               `bson:"image"`
		Stock     int                  `bson:"stock"`
		Sold      int                  `bson:"sold"`
		Rating    primitive.Decimal128 `bson:"rating"`
		IsPremium bool                 `bson:"isPremium"`
		IsLimited bool                 `bson:"isLimited"`
		CreatedAt time.Time            `bson:"createdAt"`
		UpdatedAt time.Time            `bson:"updatedAt"`
	}

	statsDoc struct {
		Total     int                  `bson:"total"`
		Pending   int                  `bson:"pending"`
		Delivered int                  `bson:"delivered"`
		Revenue   primitive.Decimal128 `bson:"revenue"`
	}
)

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("failed to convert %s: %w", d, err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf(
			"%w: failed to convert %s: %w", domain.ErrStorage, v, err,
		)
	}
	return d, nil
}

func toOrderDoc(o domain.Order) (orderDoc, error) {
	total, err := toDecimal128(o.Total)
	if err != nil {
		return orderDoc{}, err
	}

	items := make([]orderItemDoc, len(o.Items))
	for i, it := range o.Items {
		price, err := toDecimal128(it.Price)
		if err != nil {
			return orderDoc{}, err
		}
		items[i] = orderItemDoc{
			ProductID: it.ProductID,
			Name:      it.Name,
			NameAr:    it.NameAr,
			Price:     price,
			Quantity:  it.Quantity,
			Size:      it.Size,
			Image:     it.Image,
		}
	}

	return orderDoc{
		ID:                o.ID,
		CustomerName:      o.CustomerName,
		Phone:             o.Phone,
		Address:           o.Address,
		Items:             items,
		Total:             total,
		PaymentScreenshot: o.PaymentScreenshot,
		Status:            string(o.Status),
		Notes:             o.Notes,
		IdempotencyKey:    o.IdempotencyKey,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}, nil
}

func (d orderDoc) toDomain() (domain.Order, error) {
	total, err := fromDecimal128(d.Total)
	if err != nil {
		return domain.Order{}, err
	}

	items := make([]domain.OrderItem, len(d.Items))
	for i, it := range d.Items {
		price, err := fromDecimal128(it.Price)
		if err != nil {
			return domain.Order{}, err
		}
		items[i] = domain.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			NameAr:    it.NameAr,
			Price:     price,
			Quantity:  it.Quantity,
			Size:      it.Size,
			Image:     it.Image,
		}
	}

	return domain.Order{
		ID:                d.ID,
		CustomerName:      d.CustomerName,
		Phone:             d.Phone,
		Address:           d.Address,
		Items:             items,
		Total:             total,
		PaymentScreenshot: d.PaymentScreenshot,
		Status:            domain.OrderStatus(d.Status),
		Notes:             d.Notes,
		IdempotencyKey:    d.IdempotencyKey,
		CreatedAt:         d.CreatedAt.UTC(),
		UpdatedAt:         d.UpdatedAt.UTC(),
	}, nil
}

func toProductDoc(p domain.Product) (productDoc, error) {
	price, err := toDecimal128(p.Price)
	if err != nil {
		return productDoc{}, err
	}
	rating, err := toDecimal128(p.Rating)
	if err != nil {
		return productDoc{}, err
	}
	return productDoc{
		ID:        p.ID,
		NameEn:    p.NameEn,
		NameAr:    p.NameAr,
		Category:  string(p.Category),
		Price:     price,
		Image:     p.Image,
		Stock:     p.Stock,
		Sold:      p.Sold,
		Rating:    rating,
		IsPremium: p.IsPremium,
		IsLimited: p.IsLimited,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}, nil
}

func (d productDoc) toDomain() (domain.Product, error) {
	price, err := fromDecimal128(d.Price)
	if err != nil {
		return domain.Product{}, err
	}
	rating, err := fromDecimal128(d.Rating)
	if err != nil {
		return domain.Product{}, err
	}
	return domain.Product{
		ID:        d.ID,
		NameEn:    d.NameEn,
		NameAr:    d.NameAr,
		Category:  domain.Category(d.Category),
		Price:     price,
		Image:     d.Image,
		Stock:     d.Stock,
		Sold:      d.Sold,
		Rating:    rating,
		IsPremium: d.IsPremium,
		IsLimited: d.IsLimited,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}, nil
}

func (d statsDoc) toDomain() (domain.OrderStats, error) {
	revenue, err := fromDecimal128(d.Revenue)
	if err != nil {
		return domain.OrderStats{}, err
	}
	return domain.OrderStats{
		Total:     d.Total,
		Pending:   d.Pending,
		Delivered: d.Delivered,
		Revenue:   revenue,
	}, nil
}
