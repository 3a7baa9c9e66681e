package validation

import "fmt"

// ValidateCredentials проверяет, что username и password переданы
// Username регистрозависим и других ограничений на формат не имеет
func ValidateCredentials(username, password string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	return nil
}
