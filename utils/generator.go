package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/anjiri1684/studio_manager/models"
	"gorm.io/gorm"
)

const invoiceNumberDigits = 6

// GenerateUniqueInvoiceNumber produces an INV-prefixed number that is unique
// across all studios, retrying on the rare collision.
func GenerateUniqueInvoiceNumber(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		number := fmt.Sprintf("INV-%d-%0*d", time.Now().Year(), invoiceNumberDigits, seededRand.Intn(1000000))

		var invoice models.Invoice
		err := tx.Where("invoice_number = ?", number).First(&invoice).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return number, nil
			}
			return "", err
		}
	}
}
