package commerce

import (
	"errors"
	"fmt"
	"strings"

	"github.com/janhq/commerce-api/internal/utils/platformerrors"
)

// MsgProductNotFound is reported for products that are missing, inactive or owned by another tenant.
const MsgProductNotFound = "Producto no encontrado"

// ErrProductNotFound is returned when a product is not visible to the tenant.
var ErrProductNotFound = errors.New(MsgProductNotFound)

// Violation is a business rule the request does not satisfy. It is not a failure of the
// operation; the reason is meant to be relayed to the shopper.
type Violation struct {
	Reason string
}

func (v *Violation) Error() string {
	return v.Reason
}

func violation(format string, args ...any) error {
	return &Violation{Reason: fmt.Sprintf(format, args...)}
}

// AsViolation returns the reason when err is a business rule violation.
func AsViolation(err error) (string, bool) {
	var v *Violation
	if errors.As(err, &v) {
		return v.Reason, true
	}
	return "", false
}

// IsNotFound reports whether err means the record does not exist for the tenant.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) || platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound)
}

func variantRequired(p *Product) error {
	return violation("Este producto requiere seleccionar una variante. Opciones disponibles: %s", strings.Join(p.VariantNames(), ", "))
}

func variantUnknown(p *Product, name string) error {
	if !p.HasVariants() {
		return violation("El producto %s no tiene variantes", p.Name)
	}
	return violation("La variante %q no existe. Opciones disponibles: %s", name, strings.Join(p.VariantNames(), ", "))
}

func insufficientStock(available int) error {
	if available <= 0 {
		return violation("Producto agotado")
	}
	return violation("Stock insuficiente: solo hay %d unidades disponibles", available)
}

var (
	errEmptyCart        = &Violation{Reason: "El carrito está vacío"}
	errItemNotInCart    = &Violation{Reason: "El producto no está en el carrito"}
	errCheckoutNotReady = &Violation{Reason: "Primero debes iniciar el checkout"}
	errNeedsCustomer    = &Violation{Reason: "Debes identificar al cliente antes de continuar con el pago"}
	errNeedsShipping    = &Violation{Reason: "Faltan los datos de envío. Confírmalos antes de generar el link de pago"}
	errUnknownShipping  = &Violation{Reason: "La opción de envío seleccionada no existe"}
	errInvalidDiscount  = &Violation{Reason: "El código de descuento no es válido"}
	errExpiredDiscount  = &Violation{Reason: "El código de descuento ha expirado"}
	errDiscountUsedUp   = &Violation{Reason: "El código de descuento ya alcanzó su límite de usos"}
	errInvalidQuantity  = &Violation{Reason: "La cantidad debe ser mayor a cero"}
)
