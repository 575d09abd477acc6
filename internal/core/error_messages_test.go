package core

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "recipe error maps correctly",
			err:         &RecipeError{Line: "3 - Madera", Reason: "no x"},
			wantCode:    "REC001",
			wantMessage: "Recipe slot is not valid",
		},
		{
			name:        "missing price row maps correctly",
			err:         fmt.Errorf("%w for %q", ErrNoPriceRow, "Madera"),
			wantCode:    "PRC001",
			wantMessage: "Material is not in the price table",
		},
		{
			name:        "incomplete decomposition maps correctly",
			err:         fmt.Errorf("%w: 3 units left", ErrIncompleteDecomposition),
			wantCode:    "PRC003",
			wantMessage: "Quantity cannot be covered by the known pack prices",
		},
		{
			name:        "missing file maps correctly",
			err:         fmt.Errorf("load catalog x.xlsx: %w", fs.ErrNotExist),
			wantCode:    "STO002",
			wantMessage: "File not found",
		},
		{
			name:        "os missing file message maps correctly",
			err:         errors.New("open data/x.csv: no such file or directory"),
			wantCode:    "STO002",
			wantMessage: "File not found",
		},
		{
			name:        "missing column maps correctly",
			err:         fmt.Errorf("%w %q", ErrMissingColumn, "name"),
			wantCode:    "STO003",
			wantMessage: "Required column is missing from the file",
		},
		{
			name:        "unknown filter maps correctly",
			err:         fmt.Errorf("%w %q", ErrUnknownFilter, "colour"),
			wantCode:    "FLT001",
			wantMessage: "Unknown filter",
		},
		{
			name:        "read-only field maps correctly",
			err:         fmt.Errorf("%w: error", ErrReadOnlyField),
			wantCode:    "EDT001",
			wantMessage: "Computed columns cannot be edited",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("UNSUPPORTED FILE FORMAT .ods"),
			wantCode:    "STO001",
			wantMessage: "File format is not supported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	err := fmt.Errorf("%w: row 7", ErrRowNotInSubset)
	result := FormatUserError(err)

	expected := "Row is not part of the current filter (Code: EDT003). Reset the filters and try again"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "known error is user facing",
			err:  ErrNotLoaded,
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := fmt.Errorf("%w: fabrication_price", ErrReadOnlyField)
		userErr := NewUserError(techErr)

		if userErr.Error() != "Computed columns cannot be edited" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}

		if !errors.Is(userErr, ErrReadOnlyField) {
			t.Error("Unwrap() should return original error")
		}
	})
}
