package slash

import "crypto/subtle"

// Authorized reports whether the presented token matches the configured
// secret. An empty secret never authorizes anything.
func Authorized(presented, secret string) bool {
	if secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) == 1
}
