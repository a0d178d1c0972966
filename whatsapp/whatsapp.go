package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/MUHULILAMRI/Done-Fast/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an amount the way Indonesian price tags do: "Rp 250.000".
func FormatRupiah(amount int64) string {
	return printer.Sprintf("Rp %d", amount)
}

// Link builds a wa.me deep link to number, pre-filled with text when given.
func Link(number, text string) string {
	u := "https://wa.me/" + NormalizeNumber(number)
	if text == "" {
		return u
	}
	// %20 rather than "+": some WhatsApp clients show a literal plus
	return u + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// NormalizeNumber keeps digits only and rewrites local numbers to the 62
// country prefix.
func NormalizeNumber(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	switch {
	case digits == "":
		return ""
	case strings.HasPrefix(digits, "0"):
		return "62" + digits[1:]
	case strings.HasPrefix(digits, "62"):
		return digits
	default:
		return "62" + digits
	}
}

// CartMessage is the order summary sent when the customer checks out.
func CartMessage(items []models.CartItem) string {
	var b strings.Builder
	b.WriteString("Halo, saya ingin memesan layanan ini:\n\n")

	var total int64
	for i, it := range items {
		subtotal := it.Subtotal()
		total += subtotal
		fmt.Fprintf(&b, "%d. *%s - %s*\n", i+1, it.ServiceTitle, it.PackageName)
		fmt.Fprintf(&b, "   - Harga: %s\n", FormatRupiah(it.Price))
		fmt.Fprintf(&b, "   - Jumlah: %d\n", it.Quantity)
		fmt.Fprintf(&b, "   - Subtotal: %s\n\n", FormatRupiah(subtotal))
	}

	fmt.Fprintf(&b, "*Total Pesanan: %s*\n\n", FormatRupiah(total))
	b.WriteString("Mohon tunggu konfirmasi dari admin untuk lebih lanjut mengenai proses pemesanan. Terima kasih!")
	return b.String()
}

// OrderNowMessage asks about one package straight from the service page.
func OrderNowMessage(serviceTitle, packageName string) string {
	return fmt.Sprintf("Halo, saya tertarik dengan paket %s untuk layanan %s", packageName, serviceTitle)
}

// ServiceInterestMessage asks about a service before a package is chosen.
func ServiceInterestMessage(serviceTitle string) string {
	return "Halo, saya tertarik dengan layanan " + serviceTitle
}

const ConsultMessage = "Halo, saya ingin konsultasi tentang layanan yang tersedia"

// AdminTemplate is the order summary an admin copies into a chat.
func AdminTemplate(item models.CartItem) string {
	return fmt.Sprintf(`Halo, CS Done Fast.

Detail Pesanan:
- Layanan: %s
- Paket: %s
- Jumlah: %d
- Total: %s
- Status Saat Ini: %s

Terima kasih.`,
		item.ServiceTitle,
		item.PackageName,
		item.Quantity,
		FormatRupiah(item.Subtotal()),
		item.Status,
	)
}
