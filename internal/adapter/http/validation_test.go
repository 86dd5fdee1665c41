package http

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDec2Validation_Decimal(t *testing.T) {
	type P struct {
		Amount decimal.Decimal `json:"amount" validate:"dec2"`
	}
	cv := NewValidator()

	for _, s := range []string{"0", "12", "12.3", "12.34", "500000.00", "0.01"} {
		if err := cv.Validate(P{Amount: decimal.RequireFromString(s)}); err != nil {
			t.Fatalf("expected %s to be valid, got %v", s, err)
		}
	}
	for _, s := range []string{"12.345", "0.001", "99.999"} {
		err := cv.Validate(P{Amount: decimal.RequireFromString(s)})
		if err == nil {
			t.Fatalf("expected dec2 error for %s", s)
		}
		if !containsFieldMsg(ToFieldErrors(err), "amount", "at most 2 decimal places") {
			t.Fatalf("unexpected field errors for %s: %+v", s, ToFieldErrors(err))
		}
	}
}

func TestDecimalComparisons(t *testing.T) {
	type P struct {
		Amount decimal.Decimal `json:"loan_amount" validate:"required,gt=0"`
		Rate   decimal.Decimal `json:"interest_rate" validate:"gte=0,lte=100"`
	}
	cv := NewValidator()

	if err := cv.Validate(P{Amount: decimal.NewFromInt(1000), Rate: decimal.Zero}); err != nil {
		t.Fatalf("zero rate should pass: %v", err)
	}

	err := cv.Validate(P{Amount: decimal.Zero, Rate: decimal.NewFromInt(101)})
	if err == nil {
		t.Fatal("expected validation error")
	}
	fe := ToFieldErrors(err)
	if !containsFieldMsg(fe, "loan_amount", "is required") {
		t.Fatalf("expected required on loan_amount, got %+v", fe)
	}
	if !containsFieldMsg(fe, "interest_rate", "less than or equal to 100") {
		t.Fatalf("expected lte on interest_rate, got %+v", fe)
	}

	err = cv.Validate(P{Amount: decimal.RequireFromString("-5"), Rate: decimal.RequireFromString("-1")})
	fe = ToFieldErrors(err)
	if !containsFieldMsg(fe, "loan_amount", "greater than 0") {
		t.Fatalf("expected gt on loan_amount, got %+v", fe)
	}
	if !containsFieldMsg(fe, "interest_rate", "greater than or equal to 0") {
		t.Fatalf("expected gte on interest_rate, got %+v", fe)
	}
}

func TestFieldNamesUseJSONTags(t *testing.T) {
	type P struct {
		FirstName string `json:"first_name,omitempty" validate:"required"`
		Untagged  string `validate:"required"`
	}
	fe := ToFieldErrors(NewValidator().Validate(P{}))
	if !containsFieldMsg(fe, "first_name", "is required") {
		t.Fatalf("expected json name, got %+v", fe)
	}
	if !containsFieldMsg(fe, "Untagged", "is required") {
		t.Fatalf("expected struct name fallback, got %+v", fe)
	}
}

func TestToFieldErrors_NonValidationError(t *testing.T) {
	fe := ToFieldErrors(errors.New("boom"))
	if len(fe) != 1 || fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe)
	}
}

func TestToFieldErrors_MaxAndDefault(t *testing.T) {
	type P struct {
		Name  string `json:"name" validate:"max=3"`
		Email string `json:"email" validate:"email"`
	}
	fe := ToFieldErrors(NewValidator().Validate(P{Name: "abcdef", Email: "nope"}))
	if !containsFieldMsg(fe, "name", "at most 3 characters") {
		t.Fatalf("expected max message, got %+v", fe)
	}
	if !containsFieldMsg(fe, "email", "email validation failed") {
		t.Fatalf("expected default message, got %+v", fe)
	}
}
