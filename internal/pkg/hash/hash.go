package hash

import (
	"golang.org/x/crypto/bcrypt"
)

// passwordCost - стоимость bcrypt. Логин не на горячем пути
// (токены живут долго), поэтому можно позволить себе 12
const passwordCost = 12

// HashPassword возвращает bcrypt-хеш пароля
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword проверяет пароль против сохраненного хеша
func CheckPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
