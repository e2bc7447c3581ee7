package pairing

import (
	crand "crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/liquid-icx/licx-client/internal/securefile"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

var (
	ErrUnknownPair = errors.New("unknown pair id")
	ErrPairExpired = errors.New("pair expired")
	ErrInvalidCode = errors.New("invalid code")
)

type pending struct {
	codeHash  []byte
	expiresAt time.Time
}

// Registry hands out one-time pair codes and the tokens they unlock. The
// extension presents the token on every relay call.
type Registry struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	pending map[string]pending
	tokens  [][]byte
	path    string
}

// tokenFile holds token hashes only, never the tokens.
type tokenFile struct {
	Tokens []string `json:"tokens"`
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		ttl:     ttl,
		now:     time.Now,
		pending: make(map[string]pending),
	}
}

// Open starts a pairing and returns the id and the code to show the user.
func (r *Registry) Open() (string, string, error) {
	code, err := GeneratePairCode()
	if err != nil {
		return "", "", errors.Wrap(err, "generate pair code")
	}
	id := uuid.NewString()

	r.mu.Lock()
	r.pending[id] = pending{codeHash: HashCode(code), expiresAt: r.now().Add(r.ttl)}
	r.mu.Unlock()
	return id, code, nil
}

// Exchange trades a pair code for a session token. Each pair id works once.
func (r *Registry) Exchange(pairID, code string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pending[pairID]
	if !ok {
		return "", ErrUnknownPair
	}
	if r.now().After(p.expiresAt) {
		delete(r.pending, pairID)
		return "", ErrPairExpired
	}
	if subtle.ConstantTimeCompare(p.codeHash, HashCode(code)) != 1 {
		return "", ErrInvalidCode
	}
	delete(r.pending, pairID)

	token, err := newToken()
	if err != nil {
		return "", err
	}
	r.tokens = append(r.tokens, HashCode(token))
	r.saveLocked()
	return token, nil
}

// Persist loads previously issued tokens from path and keeps the file in sync
// with every later Exchange.
func (r *Registry) Persist(path string) error {
	stored, err := securefile.ReadJSON[tokenFile](path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "load pairing tokens")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.path = path
	for _, t := range stored.Tokens {
		h, err := hex.DecodeString(t)
		if err != nil || len(h) != sha256.Size {
			log.Warn("skipping malformed pairing token", "path", path)
			continue
		}
		r.tokens = append(r.tokens, h)
	}
	return nil
}

func (r *Registry) saveLocked() {
	if r.path == "" {
		return
	}
	out := tokenFile{Tokens: make([]string, 0, len(r.tokens))}
	for _, h := range r.tokens {
		out.Tokens = append(out.Tokens, hex.EncodeToString(h))
	}
	if err := securefile.WriteJSON(r.path, out); err != nil {
		log.Error("failed to save pairing tokens", "error", err)
	}
}

// Verify reports whether token was issued by Exchange.
func (r *Registry) Verify(token string) bool {
	if token == "" {
		return false
	}
	h := HashCode(token)

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if subtle.ConstantTimeCompare(t, h) == 1 {
			return true
		}
	}
	return false
}

func GeneratePairCode() (string, error) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // no 0 O I 1
	const length = 8

	b := make([]byte, length)
	if _, err := crand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = alphabet[int(b[i])%len(alphabet)]
	}
	return string(b), nil
}

func HashCode(code string) []byte {
	h := sha256.Sum256([]byte(code))
	return h[:]
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := crand.Read(b); err != nil {
		return "", errors.Wrap(err, "generate token")
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
