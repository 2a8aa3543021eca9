package inventory

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrMissingFields       = errors.New("all required inventory fields must be provided")
	ErrInsufficientStock   = errors.New("insufficient stock for sale")
	ErrInvalidSaleQuantity = errors.New("sale quantity must be positive")
)

// Item is a stock record tracking purchase economics per product batch.
// CPP and CFP are the per-product cost and freight components used to price
// the batch; ProfitPerProduct is the expected margin at the listed sale rate.
type Item struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Date             time.Time          `json:"date" bson:"date"`
	ProductName      string             `json:"product_name" bson:"product_name"`
	Supplier         string             `json:"supplier,omitempty" bson:"supplier,omitempty"`
	Barcode          string             `json:"barcode,omitempty" bson:"barcode,omitempty"`
	InitialQty       int                `json:"initial_qty" bson:"initial_qty"`
	CurrentQty       int                `json:"current_qty" bson:"current_qty"`
	PurchaseRate     float64            `json:"purchase_rate" bson:"purchase_rate"`
	CPP              float64            `json:"cpp" bson:"cpp"`
	CFP              float64            `json:"cfp" bson:"cfp"`
	SaleRate         float64            `json:"sale_rate" bson:"sale_rate"`
	ProfitPerProduct float64            `json:"profit_per_product" bson:"profit_per_product"`
}

// NewItem creates a stock record. Supplier and barcode are optional; every
// other field is required.
func NewItem(date time.Time, productName, supplier, barcode string, initialQty, currentQty int, purchaseRate, cpp, cfp, saleRate, profitPerProduct float64) (*Item, error) {
	if date.IsZero() || productName == "" || initialQty <= 0 || currentQty < 0 ||
		purchaseRate <= 0 || cpp <= 0 || cfp <= 0 || saleRate <= 0 || profitPerProduct <= 0 {
		return nil, ErrMissingFields
	}

	return &Item{
		ID:               primitive.NewObjectID(),
		Date:             date,
		ProductName:      productName,
		Supplier:         supplier,
		Barcode:          barcode,
		InitialQty:       initialQty,
		CurrentQty:       currentQty,
		PurchaseRate:     purchaseRate,
		CPP:              cpp,
		CFP:              cfp,
		SaleRate:         saleRate,
		ProfitPerProduct: profitPerProduct,
	}, nil
}
