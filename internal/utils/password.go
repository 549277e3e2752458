package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the bcrypt hash of a password. The cost comes
// from the BCRYPT_COST configuration; values outside bcrypt's supported
// range fall back to the library default so a misconfigured deployment
// cannot weaken or break hashing.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
