// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing, session tokens and the bearer
token middleware.

# Tokens

Authenticator is the port the handlers depend on. JWTAuthenticator issues
HS256-signed JWTs whose subject is the user ID and whose jti is a random
UUID:

	a := auth.NewJWTAuthenticator(cfg.TokenSecret, cfg.TokenTTL)
	tok, err := a.Issue(user.ID)
	claims, err := a.Verify(tok.Value)

Expired, foreign, or tampered tokens fail with ErrInvalidToken.

# Passwords

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, password) // ErrInvalidCredentials on mismatch

Passwords longer than 72 bytes are rejected with ErrPasswordTooLong.

# Middleware

	h := auth.Authenticate(a, store.UserExists(s), true)(pollHandler.Create)

A malformed or invalid Authorization header is always answered with 401.
A missing header is only rejected when required is set. Given a
UserExists check, a token whose user no longer exists is
rejected as invalid. The user ID of a
valid token is available to the handler through UserIDFrom.
*/
package auth
