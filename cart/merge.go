package cart

import "github.com/MUHULILAMRI/Done-Fast/models"

// SameLine reports whether two items are the same service package.
func SameLine(a, b models.CartItem) bool {
	return a.ServiceSlug == b.ServiceSlug && a.PackageName == b.PackageName
}

// Merge adds item to items. When the same service package is already present
// its quantity grows by item.Quantity; otherwise item is appended. The input
// slice is never modified.
func Merge(items []models.CartItem, item models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items), len(items)+1)
	copy(out, items)
	for i := range out {
		if SameLine(out[i], item) {
			out[i].Quantity += item.Quantity
			if item.CustomerName != "" {
				out[i].CustomerName = item.CustomerName
			}
			if item.CustomerPhone != "" {
				out[i].CustomerPhone = item.CustomerPhone
			}
			return out
		}
	}
	return append(out, item)
}
