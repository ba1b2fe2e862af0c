package util

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Lowercase so generated object keys stay valid across blob providers.
const objectIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func GenerateNChar(n int) (string, error) {
	id, err := gonanoid.New(n)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GenerateObjectID returns an n character id drawn from lowercase letters and digits.
func GenerateObjectID(n int) (string, error) {
	return gonanoid.Generate(objectIDAlphabet, n)
}
