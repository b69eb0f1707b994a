package common

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
var passwordRegex = regexp.MustCompile(`^[a-zA-Z0-9]{6,25}$`)

func ValidateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(email) < 6 || len(email) > 100 {
		return fmt.Errorf("%w: email must be between 6 and 100 characters", ErrValidation)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	return nil
}

// ValidatePassword accepts 6-25 characters, letters or digits only.
func ValidatePassword(password string) error {
	if !passwordRegex.MatchString(password) {
		return fmt.Errorf("%w: password must be 6-25 letters or digits", ErrValidation)
	}
	return nil
}

func ValidateName(field, name string) error {
	name = strings.TrimSpace(name)
	if len(name) < 5 || len(name) > 100 {
		return fmt.Errorf("%w: %s must be between 5 and 100 characters", ErrValidation, field)
	}
	return nil
}

func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if len(title) < 6 || len(title) > 150 {
		return fmt.Errorf("%w: title must be between 6 and 150 characters", ErrValidation)
	}
	return nil
}

func ValidatePostContent(content string) error {
	content = strings.TrimSpace(content)
	if len(content) < 15 || len(content) > 256 {
		return fmt.Errorf("%w: content must be between 15 and 256 characters", ErrValidation)
	}
	return nil
}

func ValidateCommentContent(content string) error {
	content = strings.TrimSpace(content)
	if len(content) < 4 || len(content) > 256 {
		return fmt.Errorf("%w: content must be between 4 and 256 characters", ErrValidation)
	}
	return nil
}
