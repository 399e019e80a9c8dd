package auth

// State is the login progression for one session. It replaces the ad-hoc
// boolean flags ("awaiting 2FA", "2FA verified") with a single tagged value
// so transitions can be guarded explicitly.
type State int

const (
	// StateAwaitingCredentials is the zero state: no password accepted yet.
	StateAwaitingCredentials State = iota
	// StateAwaitingTwoFactor means the password was accepted but the account
	// has 2FA enabled and no code has been verified for this session.
	StateAwaitingTwoFactor
	// StateAuthenticated grants access to protected resources.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAwaitingCredentials:
		return "awaiting_credentials"
	case StateAwaitingTwoFactor:
		return "awaiting_two_factor"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}
