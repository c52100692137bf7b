package auth

import "errors"

// Failure modes of credential verification and session resolution. Handlers
// convert these to envelope responses at the request boundary; store errors
// outside this set are internal and must not reach the client verbatim.
var (
	// ErrNotFound: no account matches the login identifier.
	ErrNotFound = errors.New("account not found")
	// ErrBadCredentials: the account exists but the password does not match.
	ErrBadCredentials = errors.New("bad credentials")
	// ErrUnauthenticated: no cookie, bad signature, unknown or expired token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrStaleSession: a valid token whose account no longer exists. Callers
	// treat it exactly like ErrUnauthenticated; the cookie is cleared.
	ErrStaleSession = errors.New("stale session")
)

// MsgBadLogin is the single client-facing message for every login failure.
// ErrNotFound and ErrBadCredentials must be indistinguishable to the caller
// so that account existence cannot be probed.
const MsgBadLogin = "Uh oh, that didn't work! Please check your info."
