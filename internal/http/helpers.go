package http

import (
	"net"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/liquid-icx/licx-client/internal/bridge"
	"github.com/liquid-icx/licx-client/internal/notice"
	"github.com/liquid-icx/licx-client/internal/relay"
	"github.com/liquid-icx/licx-client/internal/session"
	"github.com/liquid-icx/licx-client/internal/units"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

func isLoopbackRequest(r *http.Request) bool {
	ra := r.RemoteAddr

	h, _, err := net.SplitHostPort(ra)
	if err != nil {
		ip := net.ParseIP(ra)
		return ip != nil && ip.IsLoopback()
	}
	ip := net.ParseIP(h)
	return ip != nil && ip.IsLoopback()
}

func isSafeLocalHost(hostport string) bool {
	host := hostport
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		host = h
	}
	host = strings.ToLower(host)
	return host == "127.0.0.1" || host == "localhost" || host == "::1"
}

// writeError maps domain errors onto statuses. Notices are the user's fault,
// the rest depend on the relay or the node.
func writeError(c *gin.Context, err error) {
	var n notice.Notice
	switch {
	case errors.As(err, &n):
		c.JSON(http.StatusUnprocessableEntity, okResponse{Error: n.Message, Kind: string(n.Kind)})
	case errors.Is(err, bridge.ErrRequestInFlight):
		c.JSON(http.StatusConflict, okResponse{Error: err.Error(), Kind: string(notice.RequestInFlight)})
	case errors.Is(err, relay.ErrNoRelay):
		c.JSON(http.StatusServiceUnavailable, okResponse{Error: err.Error(), Kind: string(notice.RelayUnavailable)})
	default:
		log.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, okResponse{Error: err.Error()})
	}
}

func newWalletView(w *session.Wallet, listening bool) walletView {
	if w == nil {
		return walletView{Listening: listening}
	}
	return walletView{
		Connected: true,
		Listening: listening,
		Address:   w.Address,
		Balances: &balancesView{
			ICX:  w.Balances.ICX.String(),
			LICX: w.Balances.LICX.String(),
		},
		Display: &balancesView{
			ICX:  units.Format(w.Balances.ICX, displayPlaces),
			LICX: units.Format(w.Balances.LICX, displayPlaces),
		},
	}
}
