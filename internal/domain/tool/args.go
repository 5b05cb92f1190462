package tool

import "errors"

// Defaults fills optional arguments the model left out.
type Defaults struct {
	DocumentType  string
	PaymentMethod string
}

// Default values for optional numeric and enum arguments.
const (
	DefaultQuantity     = 1
	DefaultSearchLimit  = 5
	MaxSearchLimit      = 10
	DefaultHistoryLimit = 5
	DefaultPriority     = "normal"
)

// arguments is implemented by every tool argument struct.
type arguments interface {
	applyDefaults(d Defaults)
}

// crossChecker is implemented by argument structs with rules spanning several fields.
type crossChecker interface {
	check() error
}

func intPtr(v int) *int {
	return &v
}

type noArgs struct{}

func (*noArgs) applyDefaults(Defaults) {}

type identifyCustomerArgs struct {
	Name           string `json:"name,omitempty" jsonschema_description:"Nombre completo del cliente" validate:"omitempty,max=120"`
	Email          string `json:"email,omitempty" jsonschema:"format=email" jsonschema_description:"Correo electrónico del cliente" validate:"omitempty,email,max=254"`
	Phone          string `json:"phone,omitempty" jsonschema_description:"Teléfono o WhatsApp del cliente" validate:"omitempty,min=7,max=20"`
	DocumentType   string `json:"document_type,omitempty" jsonschema:"enum=CC,enum=CE,enum=NIT,enum=PP,enum=TI" jsonschema_description:"Tipo de documento. Por defecto CC" validate:"omitempty,oneof=CC CE NIT PP TI"`
	DocumentNumber string `json:"document_number,omitempty" jsonschema_description:"Número de documento de identidad" validate:"omitempty,min=4,max=20"`
}

func (a *identifyCustomerArgs) applyDefaults(d Defaults) {
	if a.DocumentType == "" {
		a.DocumentType = d.DocumentType
	}
}

func (a *identifyCustomerArgs) check() error {
	if a.Email == "" && a.Phone == "" && a.DocumentNumber == "" {
		return errors.New("one of email, phone or document_number is required")
	}
	return nil
}

type searchProductsArgs struct {
	Query    string   `json:"query" jsonschema_description:"Texto a buscar en nombre y descripción" validate:"required,max=200"`
	Category string   `json:"category,omitempty" jsonschema_description:"Categoría para filtrar" validate:"omitempty,max=100"`
	MinPrice *float64 `json:"min_price,omitempty" jsonschema:"minimum=0" jsonschema_description:"Precio mínimo" validate:"omitempty,gte=0"`
	MaxPrice *float64 `json:"max_price,omitempty" jsonschema:"minimum=0" jsonschema_description:"Precio máximo" validate:"omitempty,gte=0"`
	Limit    *int     `json:"limit,omitempty" jsonschema:"minimum=1,maximum=10,default=5" jsonschema_description:"Número máximo de resultados" validate:"required,min=1,max=10"`
}

func (a *searchProductsArgs) applyDefaults(Defaults) {
	if a.Limit == nil {
		a.Limit = intPtr(DefaultSearchLimit)
	}
}

func (a *searchProductsArgs) check() error {
	if a.MinPrice != nil && a.MaxPrice != nil && *a.MinPrice > *a.MaxPrice {
		return errors.New("min_price must not exceed max_price")
	}
	return nil
}

type productArgs struct {
	ProductID string `json:"product_id" jsonschema_description:"ID del producto" validate:"required,max=64"`
}

func (*productArgs) applyDefaults(Defaults) {}

type productVariantArgs struct {
	ProductID string `json:"product_id" jsonschema_description:"ID del producto" validate:"required,max=64"`
	Variant   string `json:"variant,omitempty" jsonschema_description:"Nombre o ID de la variante (talla, color)" validate:"omitempty,max=100"`
}

func (*productVariantArgs) applyDefaults(Defaults) {}

type addToCartArgs struct {
	ProductID string `json:"product_id" jsonschema_description:"ID del producto" validate:"required,max=64"`
	Variant   string `json:"variant,omitempty" jsonschema_description:"Nombre o ID de la variante (talla, color)" validate:"omitempty,max=100"`
	Quantity  *int   `json:"quantity,omitempty" jsonschema:"minimum=1,maximum=100,default=1" jsonschema_description:"Cantidad a agregar" validate:"required,min=1,max=100"`
}

func (a *addToCartArgs) applyDefaults(Defaults) {
	if a.Quantity == nil {
		a.Quantity = intPtr(DefaultQuantity)
	}
}

type updateCartQuantityArgs struct {
	ProductID string `json:"product_id" jsonschema_description:"ID del producto" validate:"required,max=64"`
	Variant   string `json:"variant,omitempty" jsonschema_description:"Variante de la línea a modificar" validate:"omitempty,max=100"`
	Quantity  *int   `json:"quantity" jsonschema:"minimum=0,maximum=100" jsonschema_description:"Nueva cantidad. 0 elimina el producto" validate:"required,min=0,max=100"`
}

func (*updateCartQuantityArgs) applyDefaults(Defaults) {}

type shippingOptionsArgs struct {
	City string `json:"city,omitempty" jsonschema_description:"Ciudad de destino" validate:"omitempty,max=100"`
}

func (*shippingOptionsArgs) applyDefaults(Defaults) {}

type applyDiscountArgs struct {
	Code string `json:"code" jsonschema_description:"Código de descuento" validate:"required,max=50"`
}

func (*applyDiscountArgs) applyDefaults(Defaults) {}

type confirmShippingArgs struct {
	RecipientName    string `json:"recipient_name" jsonschema_description:"Nombre de quien recibe" validate:"required,max=120"`
	Phone            string `json:"phone" jsonschema_description:"Teléfono de contacto para la entrega" validate:"required,min=7,max=20"`
	Address          string `json:"address" jsonschema_description:"Dirección de entrega" validate:"required,max=250"`
	City             string `json:"city" jsonschema_description:"Ciudad de entrega" validate:"required,max=100"`
	Department       string `json:"department,omitempty" jsonschema_description:"Departamento o estado" validate:"omitempty,max=100"`
	Notes            string `json:"notes,omitempty" jsonschema_description:"Indicaciones adicionales para la entrega" validate:"omitempty,max=500"`
	ShippingOptionID string `json:"shipping_option_id,omitempty" jsonschema_description:"ID de la opción de envío elegida" validate:"omitempty,max=64"`
}

func (*confirmShippingArgs) applyDefaults(Defaults) {}

type paymentLinkArgs struct {
	PaymentMethod string `json:"payment_method,omitempty" jsonschema:"enum=wompi,enum=mercadopago,enum=payu,enum=transfer,enum=cash_on_delivery" jsonschema_description:"Medio de pago" validate:"required,oneof=wompi mercadopago payu transfer cash_on_delivery"`
}

func (a *paymentLinkArgs) applyDefaults(d Defaults) {
	if a.PaymentMethod == "" {
		a.PaymentMethod = d.PaymentMethod
	}
}

type orderStatusArgs struct {
	OrderNumber string `json:"order_number" jsonschema_description:"Número del pedido" validate:"required,max=64"`
}

func (*orderStatusArgs) applyDefaults(Defaults) {}

type customerHistoryArgs struct {
	Limit *int `json:"limit,omitempty" jsonschema:"minimum=1,maximum=20,default=5" jsonschema_description:"Número de pedidos a consultar" validate:"required,min=1,max=20"`
}

func (a *customerHistoryArgs) applyDefaults(Defaults) {
	if a.Limit == nil {
		a.Limit = intPtr(DefaultHistoryLimit)
	}
}

type escalateArgs struct {
	Reason   string `json:"reason" jsonschema_description:"Motivo por el que se necesita un humano" validate:"required,max=500"`
	Priority string `json:"priority,omitempty" jsonschema:"enum=low,enum=normal,enum=high,enum=urgent,default=normal" jsonschema_description:"Prioridad de la atención" validate:"required,oneof=low normal high urgent"`
}

func (a *escalateArgs) applyDefaults(Defaults) {
	if a.Priority == "" {
		a.Priority = DefaultPriority
	}
}
