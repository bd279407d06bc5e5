// Package hivekeeper is the backend for a small apiary management
// application: beekeepers, their hives, and the measurements and
// maintenance records attached to each hive.
//
// The core of the package is the authentication subsystem:
//   - Passwords are hashed with Argon2id; parameters and salt travel
//     inside the stored hash string.
//   - Logins mint HS256 JWTs through TokenService and persist a Session
//     row per issued token so the server can revoke access before the
//     token's own expiry.
//   - Session validity is always recomputed from the stored flag and
//     expiry timestamp at check time; expired rows are garbage collected
//     by a periodic sweep that authorization never depends on.
//   - middleware/bearer guards protected routes: it validates the bearer
//     token and, by default, re-checks the backing session on every
//     request so revocation takes effect immediately.
package hivekeeper
