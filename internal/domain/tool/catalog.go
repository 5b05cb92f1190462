package tool

// Tool names.
const (
	IdentifyCustomer       = "identify_customer"
	SearchProducts         = "search_products"
	ShowProduct            = "show_product"
	GetProductAvailability = "get_product_availability"
	AddToCart              = "add_to_cart"
	GetCart                = "get_cart"
	RemoveFromCart         = "remove_from_cart"
	UpdateCartQuantity     = "update_cart_quantity"
	StartCheckout          = "start_checkout"
	GetShippingOptions     = "get_shipping_options"
	ApplyDiscount          = "apply_discount"
	RenderCheckoutSummary  = "render_checkout_summary"
	ConfirmShippingDetails = "confirm_shipping_details"
	CreatePaymentLink      = "create_payment_link"
	GetStoreInfo           = "get_store_info"
	GetOrderStatus         = "get_order_status"
	GetCustomerHistory     = "get_customer_history"
	EscalateToHuman        = "escalate_to_human"
)

// Names is the complete tool set, grouped by identification, catalog, cart, checkout and support.
var Names = []string{
	IdentifyCustomer,
	SearchProducts, ShowProduct, GetProductAvailability,
	AddToCart, GetCart, RemoveFromCart, UpdateCartQuantity,
	StartCheckout, GetShippingOptions, ApplyDiscount, RenderCheckoutSummary, ConfirmShippingDetails, CreatePaymentLink,
	GetStoreInfo, GetOrderStatus, GetCustomerHistory, EscalateToHuman,
}

func registerCatalog(r *Registry) {
	register(r, IdentifyCustomer,
		"Identifica o registra al cliente con su correo, teléfono o documento. Úsala apenas el cliente comparta sus datos de contacto.",
		false, (*Executor).identifyCustomer)

	register(r, SearchProducts,
		"Busca productos activos del catálogo por texto, categoría y rango de precio.",
		true, (*Executor).searchProducts)
	register(r, ShowProduct,
		"Muestra la ficha de un producto con precio, stock y variantes.",
		true, (*Executor).showProduct)
	register(r, GetProductAvailability,
		"Consulta el stock disponible de un producto o de una de sus variantes.",
		false, (*Executor).productAvailability)

	register(r, AddToCart,
		"Agrega un producto al carrito. Si el producto tiene variantes hay que indicar cuál.",
		true, (*Executor).addToCart)
	register(r, GetCart,
		"Muestra el contenido actual del carrito con sus totales.",
		true, (*Executor).getCart)
	register(r, RemoveFromCart,
		"Quita un producto del carrito.",
		true, (*Executor).removeFromCart)
	register(r, UpdateCartQuantity,
		"Cambia la cantidad de un producto que ya está en el carrito. Cantidad 0 lo elimina.",
		true, (*Executor).updateCartQuantity)

	register(r, StartCheckout,
		"Inicia el proceso de compra del carrito actual.",
		false, (*Executor).startCheckout)
	register(r, GetShippingOptions,
		"Lista las opciones de envío disponibles para una ciudad.",
		false, (*Executor).shippingOptions)
	register(r, ApplyDiscount,
		"Aplica un código de descuento al carrito.",
		true, (*Executor).applyDiscount)
	register(r, RenderCheckoutSummary,
		"Muestra el resumen del pedido antes de pagar.",
		true, (*Executor).checkoutSummary)
	register(r, ConfirmShippingDetails,
		"Guarda los datos de envío del pedido y la opción de envío elegida.",
		false, (*Executor).confirmShipping)
	register(r, CreatePaymentLink,
		"Genera el link de pago del pedido. Requiere cliente identificado y datos de envío confirmados.",
		true, (*Executor).createPaymentLink)

	register(r, GetStoreInfo,
		"Devuelve la información de contacto, dirección y horarios de la tienda.",
		false, (*Executor).storeInfo)
	register(r, GetOrderStatus,
		"Consulta el estado de un pedido del cliente identificado.",
		false, (*Executor).orderStatus)
	register(r, GetCustomerHistory,
		"Lista los pedidos recientes del cliente identificado.",
		false, (*Executor).customerHistory)
	register(r, EscalateToHuman,
		"Transfiere la conversación a un asesor humano.",
		true, (*Executor).escalate)
}
