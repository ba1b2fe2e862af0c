package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIsMatchesKind(t *testing.T) {
	err := AlreadySigned("signer %s already signed", "u1")
	wrapped := fmt.Errorf("sign: %w", err)

	if !errors.Is(wrapped, ErrAlreadySigned) {
		t.Fatalf("expected errors.Is to match ErrAlreadySigned")
	}
	if errors.Is(wrapped, ErrWrongState) {
		t.Fatalf("did not expect a match with ErrWrongState")
	}
	if KindOf(wrapped) != KindAlreadySigned {
		t.Fatalf("KindOf = %s", KindOf(wrapped))
	}
	if MessageOf(wrapped) != "signer u1 already signed" {
		t.Fatalf("MessageOf = %q", MessageOf(wrapped))
	}
}

func TestRemoteUnavailableKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := RemoteUnavailable(cause, "blob store unavailable")

	if !errors.Is(err, cause) {
		t.Fatalf("expected cause in chain")
	}
	if MessageOf(err) != "blob store unavailable" {
		t.Fatalf("cause text leaked into message: %q", MessageOf(err))
	}
}

func TestUntypedError(t *testing.T) {
	err := errors.New("boom")
	if KindOf(err) != "" {
		t.Fatalf("KindOf = %s", KindOf(err))
	}
	if MessageOf(err) != "internal error" {
		t.Fatalf("MessageOf = %q", MessageOf(err))
	}
}

func TestInvalidTransitionNamesStates(t *testing.T) {
	err := InvalidTransition("SIGNED", "SENT_FOR_SIGNATURE")
	if err.Message != "cannot move document from SIGNED to SENT_FOR_SIGNATURE" {
		t.Fatalf("message = %q", err.Message)
	}
}
