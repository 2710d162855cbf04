package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Vendor is a registered street vendor identified by phone number.
type Vendor struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	PhoneNumber string    `json:"phone_number" gorm:"type:varchar(20);uniqueIndex:idx_vendors_phone;not null"`
	City        string    `json:"city"`
	Language    string    `json:"language" gorm:"type:varchar(10)"`
	Password    string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

func (v *Vendor) HashPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	v.Password = string(hashedPassword)
	return nil
}

func (v *Vendor) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(v.Password), []byte(password))
	return err == nil
}

type VendorDashboardResponse struct {
	VendorID              uint     `json:"vendor_id"`
	TotalPurchases        int64    `json:"total_purchases"`
	TotalSpent            float64  `json:"total_spent"`
	MostPurchasedProduct  string   `json:"most_purchased_product"`
	RecentPurchases7Days  int64    `json:"recent_purchases_7_days"`
	AvgPurchasePrice      *float64 `json:"avg_purchase_price"`
	AvgMarketPrice        *float64 `json:"avg_market_price"`
	OverallSavingsPercent *float64 `json:"overall_savings_percent"`
}
