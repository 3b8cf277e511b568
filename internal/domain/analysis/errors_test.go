package analysis

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("calling provider: %w", ErrRateLimited)
	if !errors.Is(err, ErrRateLimited) {
		t.Error("expected errors.Is(err, ErrRateLimited)")
	}
	if errors.Is(err, ErrPaymentRequired) {
		t.Error("rate limit must not match payment required")
	}
}

func TestGatewayErrorStatus(t *testing.T) {
	err := GatewayError(503, errors.New("upstream"))
	if !errors.Is(err, ErrGateway) {
		t.Error("expected errors.Is(err, ErrGateway)")
	}
	if !errors.Is(err, &Error{Kind: KindGateway, Status: 503}) {
		t.Error("expected status-specific match")
	}
	if errors.Is(err, &Error{Kind: KindGateway, Status: 500}) {
		t.Error("status 500 must not match a 503 gateway error")
	}
	if got := Message(err); got != "Error del gateway de IA: 503" {
		t.Errorf("Message = %q", got)
	}
}

func TestMessagesAreDistinct(t *testing.T) {
	gw := Message(GatewayError(500, nil))
	for _, err := range []error{ErrRateLimited, ErrPaymentRequired} {
		if Message(err) == gw {
			t.Errorf("%v shares the generic gateway message", KindOf(err))
		}
	}
}

func TestStoreErrorWrapsOnce(t *testing.T) {
	base := errors.New("connection refused")
	err := StoreError(StoreError(base))
	if !errors.Is(err, base) {
		t.Error("expected underlying error to be reachable")
	}
	if got := err.Error(); got != "error al guardar el análisis: connection refused" {
		t.Errorf("Error() = %q", got)
	}
	if StoreError(nil) != nil {
		t.Error("StoreError(nil) should be nil")
	}
}

func TestMessageFallbacks(t *testing.T) {
	if got := Message(ConfigurationError("LOVABLE_API_KEY")); got != "LOVABLE_API_KEY no está configurada" {
		t.Errorf("Message = %q", got)
	}
	if got := Message(errors.New("")); got != UnknownMessage {
		t.Errorf("Message(empty) = %q", got)
	}
	if KindOf(errors.New("x")) != "" {
		t.Error("plain error should have no kind")
	}
}
