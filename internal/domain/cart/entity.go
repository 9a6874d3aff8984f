// internal/domain/cart/entity.go
package cart

import (
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/catalog"
)

// StoredLine is the persisted cart representation: one product id with
// its quantity. The full cart is a JSON array of these under a single
// key per cart session.
type StoredLine struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// ResolvedLine is a stored line joined against the catalog.
type ResolvedLine struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Totals represents the derived cart summary.
type Totals struct {
	ItemCount     int   `json:"item_count"`     // distinct lines
	TotalQuantity int   `json:"total_quantity"` // sum of quantities
	TotalPrice    int64 `json:"total_price"`    // sum of price * quantity
}

// Cart is the resolved cart returned to callers.
type Cart struct {
	SessionID string         `json:"session_id"`
	Items     []ResolvedLine `json:"items"`
	Totals    Totals         `json:"totals"`
}

// upsertLine increments the quantity of an existing line or appends a
// new one.
func upsertLine(lines []StoredLine, productID uint, quantity int) []StoredLine {
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity += quantity
			return lines
		}
	}
	return append(lines, StoredLine{ProductID: productID, Quantity: quantity})
}

// setQuantity overwrites a line's quantity; zero or negative removes
// the line. A missing line is left untouched.
func setQuantity(lines []StoredLine, productID uint, quantity int) []StoredLine {
	for i := range lines {
		if lines[i].ProductID == productID {
			if quantity <= 0 {
				return append(lines[:i], lines[i+1:]...)
			}
			lines[i].Quantity = quantity
			return lines
		}
	}
	return lines
}

// removeLine drops the line for productID if present.
func removeLine(lines []StoredLine, productID uint) []StoredLine {
	return setQuantity(lines, productID, 0)
}

// calculateTotals reduces resolved lines into the cart summary.
func calculateTotals(items []ResolvedLine) Totals {
	var totals Totals
	totals.ItemCount = len(items)
	for _, item := range items {
		totals.TotalQuantity += item.Quantity
		totals.TotalPrice += item.Product.Price * int64(item.Quantity)
	}
	return totals
}
