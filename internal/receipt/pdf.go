// Package receipt renders order receipts as PDF documents.
//
// Rendering is idempotent per order id: the first render is written to disk
// and every later request reuses the cached artifact.
package receipt

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"github.com/quickcart-grocery/api/pkg/models"
)

// FilePath returns the canonical on-disk location for an order's receipt.
func FilePath(dir, orderID string) string {
	return filepath.Join(dir, fmt.Sprintf("receipt-%s.pdf", orderID))
}

// Generate renders the receipt for an order unless it already exists, and
// returns the path to the artifact. The products map resolves item names;
// prices always come from the order's frozen snapshot.
func Generate(order *models.Order, products map[string]models.Product, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create receipts directory: %w", err)
	}

	path := FilePath(dir, order.ID.Hex())
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", err
	}

	if err := render(order, products, path); err != nil {
		return "", err
	}
	return path, nil
}

func render(order *models.Order, products map[string]models.Product, path string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 12, "QuickCart Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, fmt.Sprintf("Order ID: %s", order.ID.Hex()), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Date: %s", order.CreatedAt.Format("Jan 2, 2006 3:04 PM")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Payment Status: %s", order.PaymentStatus), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Payment Method: %s", order.PaymentMethod), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	addr := order.ShippingAddress
	pdf.CellFormat(0, 7, fmt.Sprintf("Customer: %s", addr.FullName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Email: %s", addr.Email), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Phone: %s", addr.Phone), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Address: %s, %s, %s - %s", addr.Address, addr.City, addr.State, addr.ZipCode), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "BU", 14)
	pdf.CellFormat(0, 8, "Items Ordered", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 12)
	for i, item := range order.Items {
		name := "Item"
		if product, ok := products[item.Product.Hex()]; ok {
			name = product.Name
		}
		line := fmt.Sprintf("%d. %s x %d @ Rs. %.2f = Rs. %.2f",
			i+1, name, item.Quantity, item.Price, float64(item.Quantity)*item.Price)
		pdf.CellFormat(0, 7, line, "", 1, "L", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Total Amount Paid: Rs. %.2f", order.TotalAmount), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Thank you for shopping with QuickCart!", "", 1, "C", false, 0, "")

	return pdf.OutputFileAndClose(path)
}
