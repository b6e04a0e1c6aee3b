package httpx

// Wire types for the checkout API. This is the canonical public
// contract, v1: camelCase field names, internal IDs as orderId /
// internalOrderId, provider IDs prefixed with razorpay.

type CartItemDTO struct {
	ProductID    string  `json:"productId" validate:"required"`
	ProductName  string  `json:"productName"`
	VariantID    string  `json:"variantId" validate:"required"`
	VariantLabel string  `json:"variantLabel"`
	Quantity     int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice    float64 `json:"unitPrice"`
	Image        string  `json:"image"`
}

type CartDTO struct {
	Items []CartItemDTO `json:"items" validate:"required,min=1,dive"`
}

type ContactDTO struct {
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required"`
	EmailUpdates bool   `json:"emailUpdates"`
}

type ShippingAddressDTO struct {
	Country   string `json:"country" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Address1  string `json:"address1" validate:"required"`
	Address2  string `json:"address2"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	PIN       string `json:"pin" validate:"required"`
}

type CreateOrderRequest struct {
	Cart            CartDTO            `json:"cart"`
	Contact         ContactDTO         `json:"contact"`
	ShippingAddress ShippingAddressDTO `json:"shippingAddress"`
	CouponCode      string             `json:"couponCode"`
}

type CreateOrderResponse struct {
	OrderID         string  `json:"orderId"`
	RazorpayOrderID string  `json:"razorpayOrderId"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	KeyID           string  `json:"keyId"`
}

type VerifyPaymentRequest struct {
	InternalOrderID   string `json:"internalOrderId" validate:"required"`
	RazorpayOrderID   string `json:"razorpayOrderId" validate:"required"`
	RazorpayPaymentID string `json:"razorpayPaymentId" validate:"required"`
	RazorpaySignature string `json:"razorpaySignature" validate:"required"`
}

type VerifyPaymentResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
	Message string `json:"message"`
}

type OrderStatusResponse struct {
	OrderID   string  `json:"orderId"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	CreatedAt string  `json:"createdAt"`
	PaidAt    string  `json:"paidAt,omitempty"`
}

type KeyResponse struct {
	KeyID string `json:"keyId"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
