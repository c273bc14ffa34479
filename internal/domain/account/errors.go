package account

import "errors"

// Terminal failures of the authentication and registration operations. Each
// maps to exactly one HTTP status at the handler layer; none is retryable.
var (
	// ErrUnknownAccount: no account with the given email. Reported to
	// callers with the same message as ErrBadCredential so account
	// existence cannot be probed.
	ErrUnknownAccount = errors.New("account: unknown account")
	// ErrBadCredential: the password verifier did not match.
	ErrBadCredential = errors.New("account: bad credential")
	// ErrAccountInactive: authentication succeeded but the account is
	// deactivated.
	ErrAccountInactive = errors.New("account: inactive")
	// ErrUnknownSubject: a verified token names a subject that no longer
	// exists in the store.
	ErrUnknownSubject = errors.New("account: unknown subject")
	// ErrDuplicateEmail: registration attempted with an email already in
	// the store.
	ErrDuplicateEmail = errors.New("account: email already registered")
	// ErrInvalidRole: registration attempted with a role outside the
	// fixed enumeration.
	ErrInvalidRole = errors.New("account: invalid role")
)
