package icon

import (
	"math/big"
	"strings"

	"github.com/cockroachdb/errors"
)

var ErrInvalidNumber = errors.New("icon: invalid number")

// ParseBig reads a node quantity into an exact integer. It accepts 0x-prefixed
// hex as returned by the node and plain decimal strings.
func ParseBig(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.Wrap(ErrInvalidNumber, "empty")
	}

	n := new(big.Int)
	var ok bool
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		digits := s[2:]
		if digits == "" {
			return nil, errors.Wrapf(ErrInvalidNumber, "%q", s)
		}
		_, ok = n.SetString(digits, 16)
	} else {
		_, ok = n.SetString(s, 10)
	}
	if !ok {
		return nil, errors.Wrapf(ErrInvalidNumber, "%q", s)
	}
	return n, nil
}
