package httphandler

import (
	"encoding/json"
	"time"

	"github.com/niksmo/vip-store/internal/core/domain"
	"github.com/shopspring/decimal"
)

type (
	OrderItem struct {
		ProductID string          `json:"productId"`
		Name      string          `json:"name"`
		NameAr    string          `json:"nameAr,omitempty"`
		Price     decimal.Decimal `json:"price"`
		Quantity  int             `json:"quantity"`
		Size      string          `json:"size,omitempty"`
		Image     string          `json:"image,omitempty"`
	}

	CreateOrderRequest struct {
		CustomerName      string           `json:"customerName"`
		Phone             string           `json:"phone"`
		Address           string           `json:"address"`
		Items             []OrderItem      `json:"items"`
		Total             *decimal.Decimal `json:"total"`
		PaymentScreenshot string           `json:"paymentScreenshot"`
		Notes             string           `json:"notes"`
	}

	// ChangeOrderRequest fields left out of the body stay untouched.
	ChangeOrderRequest struct {
		Status *string `json:"status"`
		Notes  *string `json:"notes"`
	}

	OrderItemResponse struct {
		ProductID string      `json:"productId"`
		Name      string      `json:"name"`
		NameAr    string      `json:"nameAr,omitempty"`
		Price     json.Number `json:"price"`
		Quantity  int         `json:"quantity"`
		Size      string      `json:"size,omitempty"`
		Image     string      `json:"image,omitempty"`
	}

	OrderResponse struct {
		ID                string              `json:"id"`
		CustomerName      string              `json:"customerName"`
		Phone             string              `json:"phone"`
		Address           string              `json:"address"`
		Items             []OrderItemResponse `json:"items"`
		Total             json.Number         `json:"total"`
		PaymentScreenshot string              `json:"paymentScreenshot"`
		Status            string              `json:"status"`
		Notes             string              `json:"notes"`
		CreatedAt         time.Time           `json:"createdAt"`
		UpdatedAt         time.Time           `json:"updatedAt"`
	}

	OrderStatsResponse struct {
		Total     int         `json:"total"`
		Pending   int         `json:"pending"`
		Delivered int         `json:"delivered"`
		Revenue   json.Number `json:"revenue"`
	}
)

type (
	ProductRequest struct {
		NameEn    string           `json:"nameEn"`
		NameAr    string           `json:"nameAr"`
		Category  string           `json:"category"`
		Price     decimal.Decimal  `json:"price"`
		Image     string           `json:"image"`
		Stock     *int             `json:"stock"`
		Sold      *int             `json:"sold"`
		Rating    *decimal.Decimal `json:"rating"`
		IsPremium bool             `json:"isPremium"`
		IsLimited bool             `json:"isLimited"`
	}

	ProductResponse struct {
		ID        string      `json:"id"`
		NameEn    string      `json:"nameEn"`
		NameAr    string      `json:"nameAr"`
		Category  string      `json:"category"`
		Price     json.Number `json:"price"`
		Image     string      `json:"image"`
		Stock     int         `json:"stock"`
		Sold      int         `json:"sold"`
		Rating    json.Number `json:"rating"`
		IsPremium bool        `json:"isPremium"`
		IsLimited bool        `json:"isLimited"`
		CreatedAt time.Time   `json:"createdAt"`
		UpdatedAt time.Time   `json:"updatedAt"`
	}
)

type (
	LoginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	UserResponse struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}

	LoginResponse struct {
		Message   string       `json:"message"`
		Token     string       `json:"token"`
		ExpiresAt time.Time    `json:"expiresAt"`
		User      UserResponse `json:"user"`
	}

	VerifyResponse struct {
		Valid bool         `json:"valid"`
		User  UserResponse `json:"user"`
	}
)

type (
	MessageResponse struct {
		Message string `json:"message"`
	}

	ErrorResponse struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}

	HealthResponse struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
)

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func (req CreateOrderRequest) toDomain(idempotencyKey string) (domain.OrderDraft, error) {
	if req.Total == nil {
		return domain.OrderDraft{}, domain.NewValidationError("total", "is required")
	}

	items := make([]domain.OrderItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = domain.OrderItem(it)
	}
	return domain.OrderDraft{
		CustomerName:      req.CustomerName,
		Phone:             req.Phone,
		Address:           req.Address,
		Items:             items,
		Total:             *req.Total,
		PaymentScreenshot: req.PaymentScreenshot,
		Notes:             req.Notes,
		IdempotencyKey:    idempotencyKey,
	}, nil
}

func (req ChangeOrderRequest) toDomain() (domain.OrderChange, error) {
	var change domain.OrderChange
	if req.Status != nil {
		s, err := domain.ParseOrderStatus(*req.Status)
		if err != nil {
			return domain.OrderChange{}, err
		}
		change.Status = &s
	}
	change.Notes = req.Notes
	return change, nil
}

func (req ProductRequest) toDomain() domain.ProductDraft {
	return domain.ProductDraft{
		NameEn:    req.NameEn,
		NameAr:    req.NameAr,
		Category:  req.Category,
		Price:     req.Price,
		Image:     req.Image,
		Stock:     req.Stock,
		Sold:      req.Sold,
		Rating:    req.Rating,
		IsPremium: req.IsPremium,
		IsLimited: req.IsLimited,
	}
}

func orderResponse(o domain.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			NameAr:    it.NameAr,
			Price:     number(it.Price),
			Quantity:  it.Quantity,
			Size:      it.Size,
			Image:     it.Image,
		}
	}
	return OrderResponse{
		ID:                o.ID,
		CustomerName:      o.CustomerName,
		Phone:             o.Phone,
		Address:           o.Address,
		Items:             items,
		Total:             number(o.Total),
		PaymentScreenshot: o.PaymentScreenshot,
		Status:            string(o.Status),
		Notes:             o.Notes,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

func ordersResponse(orders []domain.Order) []OrderResponse {
	res := make([]OrderResponse, len(orders))
	for i, o := range orders {
		res[i] = orderResponse(o)
	}
	return res
}

func productResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		NameEn:    p.NameEn,
		NameAr:    p.NameAr,
		Category:  string(p.Category),
		Price:     number(p.Price),
		Image:     p.Image,
		Stock:     p.Stock,
		Sold:      p.Sold,
		Rating:    number(p.Rating),
		IsPremium: p.IsPremium,
		IsLimited: p.IsLimited,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func productsResponse(ps []domain.Product) []ProductResponse {
	res := make([]ProductResponse, len(ps))
	for i, p := range ps {
		res[i] = productResponse(p)
	}
	return res
}

func userResponse(id domain.Identity) UserResponse {
	return UserResponse{Username: id.Username, Role: id.Role}
}
