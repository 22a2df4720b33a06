// Package token generates the secret material used by console sessions.
//
// # Signing keys
//
// The session manager signs JWTs with an HS256 key that is created on first
// start and kept in the everest-jwt Secret:
//
//	key, err := token.GenerateSigningKey()
//	if err != nil {
//	    return err
//	}
//
// # Fingerprints
//
// Raw session tokens are never logged. Log lines and verify-token refer to a
// token by its fingerprint, a truncated HMAC-SHA256 of the token under the
// signing key:
//
//	logger.Debug("rejected revoked session", zap.String("token", token.Fingerprint(raw, key)))
package token
