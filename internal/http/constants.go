package http

const (
	ExtensionHeader = "X-LICX-Extension"

	walletEventName = "wallet"

	displayPlaces = 4
)

// Error texts
const (
	HTTPErrorInvalidJSONText    = "invalid JSON"
	HTTPErrorForbiddenText      = "forbidden"
	HTTPErrorForbiddenHostText  = "forbidden host"
	HTTPErrorUnauthorizedText   = "unauthorized"
	HTTPErrorMissingTypeText    = "missing type"
	PairingErrorMissingText     = "missing pair_id or code"
	PairingErrorExpiredText     = "pair expired"
	PairingErrorInvalidCodeText = "invalid code"
	PairingErrorUnknownText     = "unknown pair_id"
)
