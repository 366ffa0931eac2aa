package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidOrder         ErrorCode = 102
	ErrCodeInvalidPeriod        ErrorCode = 103
	ErrCodeInvalidType          ErrorCode = 104
	ErrCodeMissingParameter     ErrorCode = 105
	ErrCodeInvalidTierTable     ErrorCode = 106
	ErrCodeInvalidSessionWindow ErrorCode = 107

	// Data/Store errors (200-299)
	ErrCodeDataNotFound         ErrorCode = 200
	ErrCodeStoreUnavailable     ErrorCode = 201
	ErrCodeQueryFailed          ErrorCode = 202
	ErrCodeHistoricalDataFailed ErrorCode = 203
	ErrCodeSnapshotFailed       ErrorCode = 204
	ErrCodeEncodingFailed       ErrorCode = 205

	// Indicator errors (300-399)
	ErrCodeInsufficientData     ErrorCode = 300
	ErrCodeIndicatorCalculation ErrorCode = 301
	ErrCodeIndicatorRebuild     ErrorCode = 302

	// Selector errors (400-499)
	ErrCodeSelectionFailed  ErrorCode = 400
	ErrCodeBlacklistRefresh ErrorCode = 401

	// Seller errors (500-599)
	ErrCodeSellRuleFailed ErrorCode = 500

	// Trading/Gateway errors (600-699)
	ErrCodeOrderSubmitFailed   ErrorCode = 600
	ErrCodeOrderRejected       ErrorCode = 601
	ErrCodePositionQueryFailed ErrorCode = 602
	ErrCodeCashQueryFailed     ErrorCode = 603

	// Engine/Session errors (700-799)
	ErrCodeEngineInitFailed ErrorCode = 700
	ErrCodeFeedSubscribe    ErrorCode = 701
	ErrCodeCalendarFailed   ErrorCode = 702
)
