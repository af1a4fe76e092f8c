package domain

// PaymentMethod is one of the payment options offered at checkout.
type PaymentMethod string

const (
	PaymentMercadoPago   PaymentMethod = "mercado-pago"
	PaymentTransferencia PaymentMethod = "transferencia"
	PaymentTarjeta       PaymentMethod = "tarjeta"
	PaymentEfectivo      PaymentMethod = "efectivo"
)

var paymentNames = map[PaymentMethod]string{
	PaymentMercadoPago:   "Mercado Pago",
	PaymentTransferencia: "Transferencia Bancaria",
	PaymentTarjeta:       "Tarjeta de Crédito/Débito",
	PaymentEfectivo:      "Efectivo",
}

// DisplayName returns the human-readable payment name, or the raw key when unknown.
func (p PaymentMethod) DisplayName() string {
	if name, ok := paymentNames[p]; ok {
		return name
	}
	return string(p)
}

// Valid reports whether p is one of the offered payment methods.
func (p PaymentMethod) Valid() bool {
	_, ok := paymentNames[p]
	return ok
}

// Customer holds the buyer details captured by the checkout form.
type Customer struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Province string `json:"province"`
}

// CheckoutForm is the payload accepted at checkout. Field validation is the
// caller's job; the cart stores the values verbatim.
type CheckoutForm struct {
	Customer Customer
	Payment  string
	Notes    string
}

// CheckoutInput is the checkout form as a client submits it, over HTTP or
// the CLI. Its tags carry the form rules for pkg/validator.
type CheckoutInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,min=6,max=30"`
	Address  string `json:"address" validate:"required,max=200"`
	Province string `json:"province" validate:"required,max=100"`
	Payment  string `json:"payment" validate:"required,oneof=mercado-pago transferencia tarjeta efectivo"`
	Notes    string `json:"notes" validate:"max=500"`
}

// Form converts the input into the cart's checkout payload.
func (in CheckoutInput) Form() CheckoutForm {
	return CheckoutForm{
		Customer: Customer{
			Name:     in.Name,
			Email:    in.Email,
			Phone:    in.Phone,
			Address:  in.Address,
			Province: in.Province,
		},
		Payment: in.Payment,
		Notes:   in.Notes,
	}
}

// Order is the immutable record created by a successful checkout.
type Order struct {
	OrderID   string     `json:"orderId"`
	OrderDate string     `json:"orderDate"`
	Customer  Customer   `json:"customer"`
	Payment   string     `json:"payment"`
	Notes     string     `json:"notes"`
	Items     []LineItem `json:"items"`
	Totals    Totals     `json:"totals"`
}

// PaymentName is the display name of the order's payment method.
func (o *Order) PaymentName() string {
	return PaymentMethod(o.Payment).DisplayName()
}
