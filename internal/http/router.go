package http

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(s *Server, allowedOrigins []string) (engine *gin.Engine, err error) {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	if len(allowedOrigins) > 0 {
		// cors.New panics on a bad origin list instead of returning an error.
		defer func() {
			if rec := recover(); rec != nil {
				engine, err = nil, errors.Newf("cors: %v", rec)
			}
		}()
		r.Use(cors.New(cors.Config{
			AllowOrigins:           allowedOrigins,
			AllowMethods:           []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:           []string{"Origin", "Content-Type", ExtensionHeader},
			AllowBrowserExtensions: true,
			MaxAge:                 10 * time.Minute,
		}))
	}
	r.Use(loopbackOnly())

	r.GET("/healthz", s.handleHealth)
	r.POST("/pair/exchange", s.handlePairExchange)

	ext := r.Group("/relay", s.extensionPaired())
	{
		ext.GET("/requests", s.handleRelayRequests)
		ext.POST("/response", s.handleRelayResponse)
	}

	wallet := r.Group("/wallet")
	{
		wallet.GET("", s.handleWallet)
		wallet.GET("/events", s.handleWalletEvents)
		wallet.POST("/connect", s.handleConnect)
		wallet.POST("/transfer", s.handleTransfer)
		wallet.POST("/join", s.handleJoin)
		wallet.GET("/notices", s.handleNotices)
		wallet.GET("/contract/api", s.handleContractAPI)
		wallet.GET("/address/:address/valid", s.handleCheckAddress)
	}

	return r, nil
}
