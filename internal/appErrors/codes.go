package appErrors

// Error codes grouped by concern.
const (
	// System
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Generic business logic
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInvalidStatus    ErrorCode = "INVALID_STATUS"

	// Authentication / authorization
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeInvalidToken ErrorCode = "INVALID_TOKEN"

	// Membership
	CodePlanNotFound        ErrorCode = "PLAN_NOT_FOUND"
	CodePlanNotActive       ErrorCode = "PLAN_NOT_ACTIVE"
	CodeNoActiveMembership  ErrorCode = "NO_ACTIVE_MEMBERSHIP"
	CodeMembershipExists    ErrorCode = "MEMBERSHIP_EXISTS"
	CodeNotUpgradeable      ErrorCode = "NOT_UPGRADEABLE"
	CodeUpgradeConflict     ErrorCode = "UPGRADE_CONFLICT"
	CodeUpgradeIncomplete   ErrorCode = "UPGRADE_INCOMPLETE"
	CodeUnknownTier         ErrorCode = "UNKNOWN_TIER"
	CodeInvalidBillingCycle ErrorCode = "INVALID_BILLING_CYCLE"

	// Payments
	CodePaymentNotFound      ErrorCode = "PAYMENT_NOT_FOUND"
	CodePaymentVerification  ErrorCode = "PAYMENT_VERIFICATION_FAILED"
	CodePaymentNotCompleted  ErrorCode = "PAYMENT_NOT_COMPLETED"
	CodePaymentAmountMismatch ErrorCode = "PAYMENT_AMOUNT_MISMATCH"
)
