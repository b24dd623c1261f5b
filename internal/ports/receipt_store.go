package ports

import "github.com/aalvaropc/screepsdeploy/internal/domain"

// ReceiptStore persists deploy receipts.
type ReceiptStore interface {
	SaveReceipt(r domain.DeployReceipt) (id string, err error)
}
