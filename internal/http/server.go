package http

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/event"
	"github.com/gin-gonic/gin"
	"github.com/liquid-icx/licx-client/internal/icon"
	"github.com/liquid-icx/licx-client/internal/notice"
	"github.com/liquid-icx/licx-client/internal/relay"
	"github.com/liquid-icx/licx-client/internal/session"
)

type Bridge interface {
	Connect(ctx context.Context) error
	CheckAddress(address string) bool
	ContractAPI(ctx context.Context) ([]icon.ScoreAPI, error)
}

type Actions interface {
	Transfer(ctx context.Context, to string, amount string) error
	Join(ctx context.Context, amount string) error
}

// Relay is the extension side of the relay bus.
type Relay interface {
	SubscribeRequests(sink chan<- relay.Request) event.Subscription
	Respond(resp relay.Response) int
}

type Session interface {
	session.Reader
	ListenerAttached() bool
	SubscribeWallet(sink chan<- session.Wallet) event.Subscription
}

type Notices interface {
	Recent() []notice.Notice
}

type Pairing interface {
	Exchange(pairID, code string) (string, error)
	Verify(token string) bool
}

type Deps struct {
	Bridge         Bridge
	Actions        Actions
	Relay          Relay
	Session        Session
	Notices        Notices
	Pairing        Pairing
	AllowedOrigins []string
}

// Server is the loopback API used by the UI and by the extension.
type Server struct {
	bridge  Bridge
	actions Actions
	relay   Relay
	session Session
	notices Notices
	pairing Pairing

	engine *gin.Engine
}

func NewServer(d Deps) (*Server, error) {
	if d.Bridge == nil || d.Actions == nil || d.Relay == nil || d.Session == nil || d.Notices == nil || d.Pairing == nil {
		return nil, errors.New("http: missing dependency")
	}
	s := &Server{
		bridge:  d.Bridge,
		actions: d.Actions,
		relay:   d.Relay,
		session: d.Session,
		notices: d.Notices,
		pairing: d.Pairing,
	}
	engine, err := NewRouter(s, d.AllowedOrigins)
	if err != nil {
		return nil, err
	}
	s.engine = engine
	return s, nil
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}
