package request_models

type StartTrialRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// VerifyPurchaseRequest carries a purchase claim already validated by the
// platform billing service. The backend trusts product_id/expiry_date as-is;
// transaction_id anchors idempotency across repeated deliveries.
type VerifyPurchaseRequest struct {
	ProductID     string `json:"product_id" binding:"required"`
	TransactionID string `json:"transaction_id" binding:"required"`
	ExpiryDate    int64  `json:"expiry_date" binding:"required"`
	Receipt       string `json:"receipt"`
}
