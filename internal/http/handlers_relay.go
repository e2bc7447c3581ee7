package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/liquid-icx/licx-client/internal/constants"
	"github.com/liquid-icx/licx-client/internal/pairing"
	"github.com/liquid-icx/licx-client/internal/relay"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, okResponse{OK: true})
}

func (s *Server) handlePairExchange(c *gin.Context) {
	var req pairExchangeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, okResponse{Error: HTTPErrorInvalidJSONText})
		return
	}
	req.PairID = strings.TrimSpace(req.PairID)
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if req.PairID == "" || req.Code == "" {
		c.JSON(http.StatusBadRequest, okResponse{Error: PairingErrorMissingText})
		return
	}

	token, err := s.pairing.Exchange(req.PairID, req.Code)
	switch {
	case errors.Is(err, pairing.ErrUnknownPair):
		c.JSON(http.StatusNotFound, okResponse{Error: PairingErrorUnknownText})
		return
	case errors.Is(err, pairing.ErrPairExpired):
		c.JSON(http.StatusGone, okResponse{Error: PairingErrorExpiredText})
		return
	case errors.Is(err, pairing.ErrInvalidCode):
		c.JSON(http.StatusUnauthorized, okResponse{Error: PairingErrorInvalidCodeText})
		return
	case err != nil:
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, pairExchangeResp{OK: true, Token: token, Header: ExtensionHeader})
}

// handleRelayRequests streams ICONEX_RELAY_REQUEST events to the extension.
func (s *Server) handleRelayRequests(c *gin.Context) {
	requests, overflow, stop := drain(s.relay.SubscribeRequests, streamQueueSize)
	defer stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case req := <-requests:
			c.SSEvent(constants.RelayRequestEvent, req)
			return true
		case <-overflow:
			log.Warn("relay stream fell behind, closing", "queue", streamQueueSize)
			return false
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// handleRelayResponse takes an ICONEX_RELAY_RESPONSE detail from the extension.
func (s *Server) handleRelayResponse(c *gin.Context) {
	var resp relay.Response
	if err := c.ShouldBindJSON(&resp); err != nil {
		c.JSON(http.StatusBadRequest, okResponse{Error: HTTPErrorInvalidJSONText})
		return
	}
	if resp.Type == "" {
		c.JSON(http.StatusBadRequest, okResponse{Error: HTTPErrorMissingTypeText})
		return
	}

	delivered := s.relay.Respond(resp)
	c.JSON(http.StatusOK, okResponse{OK: true, Data: gin.H{"delivered": delivered}})
}
