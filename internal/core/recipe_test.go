package core

import (
	"errors"
	"testing"
)

func TestParseRecipe(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    RecipeLine
		wantErr bool
	}{
		{
			name:  "basic line",
			input: "x3 - Tejido coralino",
			want:  RecipeLine{Quantity: 3, Name: "Tejido coralino", Key: "tejidocoralino"},
		},
		{
			name:  "no spaces around dash",
			input: "x12-Madera",
			want:  RecipeLine{Quantity: 12, Name: "Madera", Key: "madera"},
		},
		{
			name:  "surrounding whitespace",
			input: "  x1 -   Ala de murciélago  ",
			want:  RecipeLine{Quantity: 1, Name: "Ala de murciélago", Key: "alademurcielago"},
		},
		{
			name:  "dash inside name kept",
			input: "x2 - Piedra - Pura",
			want:  RecipeLine{Quantity: 2, Name: "Piedra - Pura", Key: "piedrapura"},
		},
		{
			name:  "leading zeros",
			input: "x007 - Oro",
			want:  RecipeLine{Quantity: 7, Name: "Oro", Key: "oro"},
		},

		// Invalid
		{name: "missing x", input: "3 - x", wantErr: true},
		{name: "zero quantity", input: "x0 - Foo", wantErr: true},
		{name: "non-numeric quantity", input: "xN - ", wantErr: true},
		{name: "empty line", input: "", wantErr: true},
		{name: "blank line", input: "   ", wantErr: true},
		{name: "no dash", input: "x3 Tejido", wantErr: true},
		{name: "empty name", input: "x3 -   ", wantErr: true},
		{name: "uppercase X", input: "X3 - Madera", wantErr: true},
		{name: "overflowing quantity", input: "x99999999999999999999999 - Oro", wantErr: true},
		{name: "placeholder", input: "Y", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecipe(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRecipe(%q) = %+v, want error", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidRecipe) {
					t.Errorf("ParseRecipe(%q) error = %v, want ErrInvalidRecipe", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRecipe(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseRecipe(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRecipeError_Message(t *testing.T) {
	_, err := ParseRecipe("x0 - Foo")

	var re *RecipeError
	if !errors.As(err, &re) {
		t.Fatalf("error type = %T, want *RecipeError", err)
	}
	if re.Line != "x0 - Foo" {
		t.Errorf("Line = %q, want %q", re.Line, "x0 - Foo")
	}
	if re.Reason != "quantity must be positive" {
		t.Errorf("Reason = %q, want %q", re.Reason, "quantity must be positive")
	}
}
