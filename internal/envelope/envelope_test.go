package envelope

import (
	"encoding/json"
	"fmt"
	"testing"

	naverrors "codenav/internal/errors"
)

func TestSuccessEnvelope(t *testing.T) {
	resp := Success(map[string]int{"count": 3})
	if !resp.Success {
		t.Error("Expected success=true")
	}
	if resp.Error != nil {
		t.Error("Expected no error body")
	}
}

func TestFailureEnvelopeCarriesCode(t *testing.T) {
	resp := Failure(naverrors.NewSymbolNotFound("no symbol at 10:4"))
	if resp.Success {
		t.Error("Expected success=false")
	}
	if resp.Error == nil {
		t.Fatal("Expected error body")
	}
	if resp.Error.Code != "SYMBOL_NOT_FOUND" {
		t.Errorf("Expected SYMBOL_NOT_FOUND, got %s", resp.Error.Code)
	}
}

func TestFailureEnvelopeMapsUnknownErrors(t *testing.T) {
	resp := Failure(fmt.Errorf("engine exploded"))
	if resp.Error.Code != "PROVIDER_INTERNAL_FAILURE" {
		t.Errorf("Expected PROVIDER_INTERNAL_FAILURE, got %s", resp.Error.Code)
	}
}

func TestEnvelopeJSONShape(t *testing.T) {
	data, err := json.Marshal(Success("ok"))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded["success"] != true {
		t.Errorf("Expected success field, got %v", decoded)
	}
	if _, present := decoded["error"]; present {
		t.Error("Success envelope should omit error field")
	}
}
