package models

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending" // received, waiting for the admin
	OrderStatusProses  OrderStatus = "proses"  // being worked on
	OrderStatusSuccess OrderStatus = "success" // delivered
	OrderStatusFailed  OrderStatus = "failed"
)

// OrderStatuses lists every status in workflow order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProses,
	OrderStatusSuccess,
	OrderStatusFailed,
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Open reports whether the order still needs work.
func (s OrderStatus) Open() bool {
	return s == OrderStatusPending || s == OrderStatusProses
}

var statusLabels = map[OrderStatus]string{
	OrderStatusPending: "Pesanan Diterima",
	OrderStatusProses:  "Dalam Pengerjaan",
	OrderStatusSuccess: "Pesanan Selesai",
	OrderStatusFailed:  "Gagal",
}

// Label is the Indonesian name shown to admins.
func (s OrderStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}
