// services/receipts.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"chess-escrow-service/models"
	"chess-escrow-service/utils"
)

// archiveReceipt pushes a settlement receipt to the R2 archive. Runs after
// the settlement transaction has committed; failures are logged and never
// unwind a settlement.
func archiveReceipt(r *models.SettlementReceipt) {
	if !utils.ReceiptArchiveEnabled() {
		return
	}

	body, err := json.Marshal(r)
	if err != nil {
		log.Printf("⚠️  [RECEIPTS] failed to marshal receipt %s: %v", r.ID, err)
		return
	}

	key := fmt.Sprintf("receipts/%s/%s.json", r.SettledAt.UTC().Format("2006/01"), r.ID)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := utils.UploadReceipt(ctx, key, body); err != nil {
		log.Printf("⚠️  [RECEIPTS] failed to archive receipt %s: %v", r.ID, err)
		return
	}
	log.Printf("✅ [RECEIPTS] archived %s", key)
}
