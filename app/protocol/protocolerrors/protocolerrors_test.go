package protocolerrors

import (
	"testing"

	"github.com/pkg/errors"
)

func TestIsBanningError(t *testing.T) {
	banning := Errorf(true, "malformed message header")
	if !IsBanningError(banning) {
		t.Errorf("IsBanningError: expected true for a banning protocol error")
	}
	if !IsBanningError(errors.Wrap(banning, "while framing")) {
		t.Errorf("IsBanningError: expected true for a wrapped banning protocol error")
	}

	benign := New(false, "duplicate connection")
	if IsBanningError(benign) {
		t.Errorf("IsBanningError: expected false for a non-banning protocol error")
	}
	if IsBanningError(errors.New("dial timeout")) {
		t.Errorf("IsBanningError: expected false for a plain error")
	}
	if IsBanningError(nil) {
		t.Errorf("IsBanningError: expected false for nil")
	}
}

func TestProtocolErrorUnwrap(t *testing.T) {
	cause := errors.New("short payload")
	wrapped := Wrap(true, cause, "invalid version message")
	if !errors.Is(wrapped, cause) {
		t.Errorf("errors.Is: expected the wrapped cause to be found")
	}

	var protocolError *ProtocolError
	if !errors.As(wrapped, &protocolError) {
		t.Fatalf("errors.As: expected to extract a ProtocolError")
	}
	if !protocolError.ShouldBan {
		t.Errorf("ShouldBan: expected true")
	}
}
