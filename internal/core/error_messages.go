package core

// # Error Codes Reference
//
// This file defines user-friendly error messages with codes. The editor shows
// them in its status line and the CLI prints them on failure, so a user can
// quote the code when reporting a problem.
//
// Error codes are grouped by category:
//
// # Recipe Errors (REC001-REC099)
//
//	REC001 - Invalid recipe: A recipe slot is not of the form "x<qty> - <name>"
//	         Action: Write the slot as "x3 - Tejido coralino"
//	         Patterns: "invalid recipe line"
//
// # Price Errors (PRC001-PRC099)
//
//	PRC001 - No price row: The material is not in the price table
//	         Action: Check the spelling or refresh the price file
//	         Patterns: "no price row"
//
//	PRC002 - No usable price: The material has no positive price at all
//	         Action: Add at least one pack price or an average price
//	         Patterns: "no usable price"
//
//	PRC003 - Incomplete decomposition: The quantity cannot be covered by the known packs
//	         Action: Add the missing pack price for this material
//	         Patterns: "incomplete pack decomposition"
//
//	PRC004 - No average price: The material has no average price
//	         Action: Add an average price for this material
//	         Patterns: "no average price"
//
// # Storage Errors (STO001-STO099)
//
//	STO001 - Unsupported format: The file extension is not supported
//	         Action: Use .xlsx, .csv, .json, .sqlite or .db
//	         Patterns: "unsupported file format"
//
//	STO002 - File not found: The file does not exist
//	         Action: Check the path in your configuration
//	         Patterns: "no such file", "file does not exist"
//
//	STO003 - Missing column: A required column is missing from the file
//	         Action: Check the header row of the file
//	         Patterns: "missing required column"
//
//	STO004 - Not loaded: No catalog is open
//	         Action: Open a catalog first
//	         Patterns: "catalog not loaded"
//
// # Filter Errors (FLT001-FLT099)
//
//	FLT001 - Unknown filter: The filter name is not recognised
//	         Action: Use one of the filters listed in the menu
//	         Patterns: "unknown filter"
//
// # Edit Errors (EDT001-EDT099)
//
//	EDT001 - Read-only field: Computed columns cannot be edited
//	         Action: Edit the recipe or the price file instead
//	         Patterns: "read-only field"
//
//	EDT002 - Unknown field: The column does not exist in this catalog
//	         Action: Pick a column shown in the grid
//	         Patterns: "unknown field"
//
//	EDT003 - Row not visible: The row is not part of the current filter
//	         Action: Reset the filters and try again
//	         Patterns: "row not in subset"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Check the log file for details
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so order matters.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Recipe Errors (REC001)
	// =========================================================================
	{
		pattern: "invalid recipe line",
		msg: UserMessage{
			Message: "Recipe slot is not valid",
			Action:  `Write the slot as "x3 - Tejido coralino"`,
			Code:    "REC001",
		},
	},

	// =========================================================================
	// Price Errors (PRC001-PRC004)
	// =========================================================================
	{
		pattern: "no price row",
		msg: UserMessage{
			Message: "Material is not in the price table",
			Action:  "Check the spelling or refresh the price file",
			Code:    "PRC001",
		},
	},
	{
		pattern: "no usable price",
		msg: UserMessage{
			Message: "Material has no usable price",
			Action:  "Add at least one pack price or an average price",
			Code:    "PRC002",
		},
	},
	{
		pattern: "incomplete pack decomposition",
		msg: UserMessage{
			Message: "Quantity cannot be covered by the known pack prices",
			Action:  "Add the missing pack price for this material",
			Code:    "PRC003",
		},
	},
	{
		pattern: "no average price",
		msg: UserMessage{
			Message: "Material has no average price",
			Action:  "Add an average price for this material",
			Code:    "PRC004",
		},
	},

	// =========================================================================
	// Storage Errors (STO001-STO004)
	// =========================================================================
	{
		pattern: "unsupported file format",
		msg: UserMessage{
			Message: "File format is not supported",
			Action:  "Use .xlsx, .csv, .json, .sqlite or .db",
			Code:    "STO001",
		},
	},
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "File not found",
			Action:  "Check the path in your configuration",
			Code:    "STO002",
		},
	},
	{
		pattern: "file does not exist",
		msg: UserMessage{
			Message: "File not found",
			Action:  "Check the path in your configuration",
			Code:    "STO002",
		},
	},
	{
		pattern: "missing required column",
		msg: UserMessage{
			Message: "Required column is missing from the file",
			Action:  "Check the header row of the file",
			Code:    "STO003",
		},
	},
	{
		pattern: "catalog not loaded",
		msg: UserMessage{
			Message: "No catalog is open",
			Action:  "Open a catalog first",
			Code:    "STO004",
		},
	},

	// =========================================================================
	// Filter Errors (FLT001)
	// =========================================================================
	{
		pattern: "unknown filter",
		msg: UserMessage{
			Message: "Unknown filter",
			Action:  "Use one of the filters listed in the menu",
			Code:    "FLT001",
		},
	},

	// =========================================================================
	// Edit Errors (EDT001-EDT003)
	// =========================================================================
	{
		pattern: "read-only field",
		msg: UserMessage{
			Message: "Computed columns cannot be edited",
			Action:  "Edit the recipe or the price file instead",
			Code:    "EDT001",
		},
	},
	{
		pattern: "unknown field",
		msg: UserMessage{
			Message: "Column does not exist in this catalog",
			Action:  "Pick a column shown in the grid",
			Code:    "EDT002",
		},
	},
	{
		pattern: "row not in subset",
		msg: UserMessage{
			Message: "Row is not part of the current filter",
			Action:  "Reset the filters and try again",
			Code:    "EDT003",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the log file for details",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, the ERR000 fallback is returned.
//
// Example:
//
//	msg := MapError(fmt.Errorf("%w for %q", ErrNoPriceRow, "Ala de murciélago"))
//	// msg.Code == "PRC001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with the message shown to users.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
