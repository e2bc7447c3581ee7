package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

func (s *Server) handleWallet(c *gin.Context) {
	c.JSON(http.StatusOK, newWalletView(s.session.Wallet(), s.session.ListenerAttached()))
}

// handleWalletEvents streams every wallet replacement to the UI.
func (s *Server) handleWalletEvents(c *gin.Context) {
	updates, overflow, stop := drain(s.session.SubscribeWallet, streamQueueSize)
	defer stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case wallet := <-updates:
			c.SSEvent(walletEventName, newWalletView(&wallet, s.session.ListenerAttached()))
			return true
		case <-overflow:
			log.Warn("wallet stream fell behind, closing", "queue", streamQueueSize)
			return false
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (s *Server) handleConnect(c *gin.Context) {
	if err := s.bridge.Connect(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, okResponse{OK: true})
}

func (s *Server) handleTransfer(c *gin.Context) {
	var req transferReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, okResponse{Error: HTTPErrorInvalidJSONText})
		return
	}
	if err := s.actions.Transfer(c.Request.Context(), req.To, string(req.Amount)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, okResponse{OK: true})
}

func (s *Server) handleJoin(c *gin.Context) {
	var req joinReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, okResponse{Error: HTTPErrorInvalidJSONText})
		return
	}
	if err := s.actions.Join(c.Request.Context(), string(req.Amount)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, okResponse{OK: true})
}

func (s *Server) handleNotices(c *gin.Context) {
	c.JSON(http.StatusOK, okResponse{OK: true, Data: s.notices.Recent()})
}

func (s *Server) handleContractAPI(c *gin.Context) {
	api, err := s.bridge.ContractAPI(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, okResponse{OK: true, Data: api})
}

func (s *Server) handleCheckAddress(c *gin.Context) {
	addr := strings.TrimSpace(c.Param("address"))
	c.JSON(http.StatusOK, okResponse{OK: true, Data: gin.H{"valid": s.bridge.CheckAddress(addr)}})
}
