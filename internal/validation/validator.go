package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Common validation errors
var (
	ErrInvalidUsername = errors.New("invalid username format")
	ErrWeakPassword    = errors.New("password too weak")
	ErrInvalidRange    = errors.New("value out of valid range")
	ErrStringTooLong   = errors.New("string exceeds maximum length")
	ErrStringTooShort  = errors.New("string below minimum length")
	ErrInvalidBet      = errors.New("invalid bet")
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)

// MaxChatMessageLength caps a single chat line.
const MaxChatMessageLength = 500

// ValidateUsername validates username format
func ValidateUsername(username string) error {
	if username == "" {
		return errors.New("username is required")
	}
	if len(username) < 3 {
		return fmt.Errorf("%w: username must be >= 3 characters", ErrStringTooShort)
	}
	if len(username) > 20 {
		return fmt.Errorf("%w: username must be <= 20 characters", ErrStringTooLong)
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("%w: username can only contain letters, numbers, underscore, and hyphen", ErrInvalidUsername)
	}
	return nil
}

// ValidatePassword validates password strength
func ValidatePassword(password string) error {
	if password == "" {
		return errors.New("password is required")
	}
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrWeakPassword)
	}
	if len(password) > 128 {
		return fmt.Errorf("%w: password must be <= 128 characters", ErrStringTooLong)
	}

	var hasUpper, hasLower, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}
	if !hasUpper || !hasLower || !hasNumber {
		return fmt.Errorf("%w: password must contain at least one uppercase letter, one lowercase letter, and one number", ErrWeakPassword)
	}
	return nil
}

// ValidateBet checks a bet against the seat's bankroll. Bets are placed
// before the deal, so the balance at bet time is the full bound.
func ValidateBet(bet, balance int) error {
	if bet < 1 {
		return fmt.Errorf("%w: bet must be positive", ErrInvalidBet)
	}
	if bet > balance {
		return fmt.Errorf("%w: bet %d exceeds balance %d", ErrInvalidBet, bet, balance)
	}
	return nil
}

// ValidateChatMessage rejects empty and oversized chat lines.
func ValidateChatMessage(message string) error {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return fmt.Errorf("%w: chat message is empty", ErrStringTooShort)
	}
	if len(message) > MaxChatMessageLength {
		return fmt.Errorf("%w: chat message must be <= %d characters", ErrStringTooLong, MaxChatMessageLength)
	}
	return nil
}

// ValidateIntRange validates integer is within range
func ValidateIntRange(value, min, max int, fieldName string) error {
	if value < min || value > max {
		return fmt.Errorf("%w: %s must be between %d and %d", ErrInvalidRange, fieldName, min, max)
	}
	return nil
}

// ValidateMaxSeats bounds a table's configured capacity.
func ValidateMaxSeats(maxSeats int) error {
	return ValidateIntRange(maxSeats, 1, 10, "max seats")
}
