package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const generatedPasswordLen = 12

// passwordClasses are the character sets a generated password draws at least one rune from.
var passwordClasses = []string{
	"ABCDEFGHJKLMNPQRSTUVWXYZ",
	"abcdefghijkmnopqrstuvwxyz",
	"23456789",
	"!@#$%&*",
}

func randIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// GenerateSecurePassword returns a random admin password with one character
// from every class. Look-alike characters (0/O, 1/l/I) are left out because the
// password is read off a terminal. Do not log the result.
func GenerateSecurePassword() (string, error) {
	var all string
	for _, c := range passwordClasses {
		all += c
	}
	out := make([]byte, generatedPasswordLen)
	for i := range out {
		set := all
		if i < len(passwordClasses) {
			set = passwordClasses[i]
		}
		j, err := randIndex(len(set))
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		out[i] = set[j]
	}
	for i := len(out) - 1; i > 0; i-- {
		j, err := randIndex(i + 1)
		if err != nil {
			return "", fmt.Errorf("shuffle: %w", err)
		}
		out[i], out[j] = out[j], out[i]
	}
	return string(out), nil
}
