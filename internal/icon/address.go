package icon

import "regexp"

var (
	eoaPattern      = regexp.MustCompile(`^hx[0-9a-f]{40}$`)
	contractPattern = regexp.MustCompile(`^cx[0-9a-f]{40}$`)
)

// IsEOA reports whether addr is an externally owned account address.
func IsEOA(addr string) bool {
	return eoaPattern.MatchString(addr)
}

// IsContract reports whether addr is a SCORE (contract) address.
func IsContract(addr string) bool {
	return contractPattern.MatchString(addr)
}
