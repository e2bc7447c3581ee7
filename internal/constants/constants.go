package constants

import "time"

const (
	AppName = "licx-client"

	// 10^18 loop = 1 ICX
	ICXDecimals = 18

	// relay wire ids
	RelayRequestEvent  = "ICONEX_RELAY_REQUEST"
	RelayResponseEvent = "ICONEX_RELAY_RESPONSE"
	JSONRPCVersion     = "2.0"
	SendTransactionRPC = "icx_sendTransaction"
	RelayRPCID         = 50889

	// transaction stamping
	TxVersion = 3
	TxNonce   = 100

	DefaultTransferStepLimit = 200000
	DefaultJoinStepLimit     = 300000

	DefaultPollInterval   = 2000 * time.Millisecond
	DefaultRequestTimeout = 5 * time.Minute

	NoticeHistory = 64

	PairCodeTTL = 60 * time.Second
	PairingFile = "pairing.json"
)
