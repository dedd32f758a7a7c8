package validate_test

import (
	"testing"

	"github.com/subaquatic-pierre/nebula/foundation/validate"
)

type difficulty struct {
	Value *uint `json:"value" validate:"required,lte=64"`
}

func TestCheck(t *testing.T) {
	ok := uint(4)
	if err := validate.Check(difficulty{Value: &ok}); err != nil {
		t.Fatalf("expected a valid value, got %v", err)
	}

	tooBig := uint(65)
	err := validate.Check(&difficulty{Value: &tooBig})
	if !validate.IsFieldErrors(err) {
		t.Fatalf("expected field errors, got %v", err)
	}

	fields := validate.GetFieldErrors(err).Fields()
	if _, exists := fields["value"]; !exists {
		t.Fatalf("expected the json field name, got %v", fields)
	}

	if err := validate.Check(&difficulty{}); !validate.IsFieldErrors(err) {
		t.Fatalf("expected a missing value to fail, got %v", err)
	}

	if err := validate.Check([]string{"a"}); err != nil {
		t.Fatalf("expected non structs to pass, got %v", err)
	}
}
