package analysis

import (
	"errors"
	"fmt"
)

// Kind classifies every failure the analysis, capture and persistence paths can produce.
type Kind string

const (
	KindMissingInput       Kind = "missing_input"
	KindConfiguration      Kind = "configuration"
	KindRateLimited        Kind = "rate_limited"
	KindPaymentRequired    Kind = "payment_required"
	KindGateway            Kind = "gateway"
	KindEmptyCompletion    Kind = "empty_completion"
	KindMalformedResponse  Kind = "malformed_response"
	KindCaptureUnavailable Kind = "capture_unavailable"
	KindStore              Kind = "store"
	KindBusy               Kind = "busy"
)

// Error carries a user-facing message plus the kind used for internal handling.
type Error struct {
	Kind    Kind
	Status  int // provider HTTP status, set for KindGateway
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Kind == KindStore {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind so callers can write errors.Is(err, ErrRateLimited).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Status == 0 || t.Status == e.Status
}

var (
	ErrMissingInput       = &Error{Kind: KindMissingInput, Message: "No se proporcionó imagen"}
	ErrRateLimited        = &Error{Kind: KindRateLimited, Message: "Límite de solicitudes excedido. Por favor, intenta de nuevo en unos momentos."}
	ErrPaymentRequired    = &Error{Kind: KindPaymentRequired, Message: "Se requiere pago. Por favor, añade fondos a tu espacio de trabajo de IA."}
	ErrEmptyCompletion    = &Error{Kind: KindEmptyCompletion, Message: "No se recibió respuesta de la IA"}
	ErrMalformedResponse  = &Error{Kind: KindMalformedResponse, Message: "No se pudo extraer el análisis de la respuesta de IA"}
	ErrCaptureUnavailable = &Error{Kind: KindCaptureUnavailable, Message: "No se pudo acceder a la cámara. Por favor, verifica los permisos."}
	ErrBusy               = &Error{Kind: KindBusy, Message: "Ya hay un análisis en curso"}

	// Targets for errors.Is; construct real values with the helpers below.
	ErrConfiguration = &Error{Kind: KindConfiguration}
	ErrGateway       = &Error{Kind: KindGateway}
	ErrStore         = &Error{Kind: KindStore}
)

// UnknownMessage is shown when an error carries no taxonomy kind.
const UnknownMessage = "Error desconocido al analizar la planta"

// ConfigurationError reports a missing provider credential.
func ConfigurationError(name string) error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf("%s no está configurada", name)}
}

// GatewayError reports any other non-success provider status.
func GatewayError(status int, cause error) error {
	return &Error{
		Kind:    KindGateway,
		Status:  status,
		Message: fmt.Sprintf("Error del gateway de IA: %d", status),
		Err:     cause,
	}
}

// Malformed wraps the parse failure for logs while keeping the fixed message.
func Malformed(cause error) error {
	return &Error{Kind: KindMalformedResponse, Message: ErrMalformedResponse.Message, Err: cause}
}

// CaptureUnavailable wraps the device failure that gated capture.
func CaptureUnavailable(cause error) error {
	return &Error{Kind: KindCaptureUnavailable, Message: ErrCaptureUnavailable.Message, Err: cause}
}

// StoreError wraps a persistence failure. Callers log it and move on.
func StoreError(cause error) error {
	if cause == nil {
		return nil
	}
	var e *Error
	if errors.As(cause, &e) && e.Kind == KindStore {
		return cause
	}
	return &Error{Kind: KindStore, Message: "error al guardar el análisis", Err: cause}
}

// KindOf returns the kind of err, or "" when it is not a taxonomy error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Message returns the user-facing text for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return UnknownMessage
}
