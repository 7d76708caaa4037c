package services

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindValidation is a rejected request; the caller can fix the input.
	KindValidation Kind = iota + 1
	// KindInternal is a storage or catalog failure.
	KindInternal
)

const (
	CodeEmptyFields        = "EMPTY_FIELDS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeInvalidRut         = "INVALID_RUT"
	CodeEmptyCart          = "EMPTY_CART"
	CodeMissingCustomer    = "MISSING_CUSTOMER"
	CodeInvalidOrderType   = "INVALID_ORDER_TYPE"
	CodeItemNotFound       = "ITEM_NOT_FOUND"
	CodeItemUnavailable    = "ITEM_UNAVAILABLE"
	CodeInternal           = "INTERNAL"
)

const (
	ErrMsgEmptyFields        = "Por favor completa todos los campos"
	ErrMsgInvalidCredentials = "Email o contraseña incorrectos"
	ErrMsgEmailExists        = "El email ya está registrado"
	ErrMsgInvalidRut         = "El RUT ingresado no es válido"
	ErrMsgEmptyCart          = "El carrito está vacío"
	ErrMsgMissingCustomer    = "Nombre y teléfono del cliente son obligatorios"
	ErrMsgInvalidOrderType   = "Tipo de pedido no válido"
	ErrMsgItemNotFound       = "Producto no encontrado"
	ErrMsgItemUnavailable    = "Producto no disponible"
)

// Error is the failure value returned by every service operation.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func validation(code, msg string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: msg}
}

func internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Message: op, Err: err}
}

// CodeOf returns the machine-readable code of err, or "" when err is not a
// service error.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func IsValidation(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindValidation
}

// asServiceError keeps service errors as they are and wraps anything else
// as an internal failure.
func asServiceError(op string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return internal(op, err)
}
