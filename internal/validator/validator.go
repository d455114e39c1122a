// Package validator provides input validation and sanitization functions
// for the EduShare backend security layer.
package validator

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Validation errors
var (
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrInputTooLong    = errors.New("input exceeds maximum length")
	ErrEmptyInput      = errors.New("input cannot be empty")
	ErrSameParticipant = errors.New("sender and receiver must differ")
)

// MaxBodyLength is the maximum message body length in runes.
const MaxBodyLength = 5000

// MaxConversationIDLength bounds the conversation key: two maximum-length
// email addresses plus the delimiter.
const MaxConversationIDLength = 509

// ValidateEmail validates email address format according to RFC 5322.
// Returns nil if valid, or an appropriate error.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if email == "" {
		return ErrEmptyInput
	}

	// RFC 5321 specifies max email length of 254 characters
	if utf8.RuneCountInString(email) > 254 {
		return ErrInputTooLong
	}

	// Use Go's mail package for RFC 5322 validation
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}

	return nil
}

// ValidateMessageBody validates a message body: non-empty after trimming
// and within the length bound.
func ValidateMessageBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return ErrEmptyInput
	}
	if utf8.RuneCountInString(body) > MaxBodyLength {
		return ErrInputTooLong
	}
	return nil
}

// ValidateConversationID validates a conversation key. The key is treated
// as opaque: the system compares it but never parses it back into its
// participant pair, so only emptiness and length are checked.
func ValidateConversationID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrEmptyInput
	}
	if utf8.RuneCountInString(id) > MaxConversationIDLength {
		return ErrInputTooLong
	}
	return nil
}

// ValidateParticipants validates both participant identities of a message
// and rejects self-addressed messages.
func ValidateParticipants(sender, receiver string) error {
	if err := ValidateEmail(sender); err != nil {
		return err
	}
	if err := ValidateEmail(receiver); err != nil {
		return err
	}
	if strings.EqualFold(strings.TrimSpace(sender), strings.TrimSpace(receiver)) {
		return ErrSameParticipant
	}
	return nil
}

// Pagination constants
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ValidatePagination validates and sanitizes pagination parameters.
// Returns sanitized limit and offset values.
func ValidatePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

// SanitizeString removes potentially dangerous characters and enforces length limits.
// Removes control characters and trims whitespace.
func SanitizeString(input string, maxLength int) string {
	// Remove control characters (ASCII 0-31 and 127)
	input = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, input)

	// Trim whitespace
	input = strings.TrimSpace(input)

	// Enforce maximum length if specified
	if maxLength > 0 && utf8.RuneCountInString(input) > maxLength {
		runes := []rune(input)
		input = string(runes[:maxLength])
	}

	return input
}
