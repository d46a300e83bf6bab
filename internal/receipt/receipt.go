// Package receipt renders order receipts as PDF documents. Each receipt
// carries a QR code linking back to the order status page so a printed copy
// still resolves to the live order.
package receipt

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/meridianprints/storefront/internal/catalog"
	"github.com/meridianprints/storefront/storage/db"
)

const (
	pageMarginMM  = 20.0
	qrSizePx      = 256
	qrSizeMM      = 35.0
	tableColQty   = 20.0
	tableColPrice = 35.0
	tableColTotal = 35.0
)

// Generator renders receipts for a shop. ShopName and BaseURL come from
// configuration; BaseURL anchors the QR code target.
type Generator struct {
	shopName string
	baseURL  string
}

func NewGenerator(shopName, baseURL string) *Generator {
	return &Generator{shopName: shopName, baseURL: strings.TrimRight(baseURL, "/")}
}

// Render produces the receipt PDF for an order and its line items.
func (g *Generator) Render(order db.Order, items []db.OrderItem) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(pageMarginMM, pageMarginMM, pageMarginMM)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - 2*pageMarginMM

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(contentWidth, 10, g.shopName, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentWidth, 6, "Receipt", "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentWidth, 5, "Order "+order.ID, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentWidth, 5, order.CreatedAt.Format("January 2, 2006"), "", 1, "L", false, 0, "")
	if order.CustomerEmail != "" {
		pdf.CellFormat(contentWidth, 5, order.CustomerEmail, "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// Line item table.
	descWidth := contentWidth - tableColQty - tableColPrice - tableColTotal
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(descWidth, 7, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(tableColQty, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(tableColPrice, 7, "Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(tableColTotal, 7, "Total", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		title := item.Title
		if item.VariantTitle.Valid && item.VariantTitle.String != "" {
			title = fmt.Sprintf("%s - %s", item.Title, item.VariantTitle.String)
		}
		pdf.CellFormat(descWidth, 7, title, "1", 0, "L", false, 0, "")
		pdf.CellFormat(tableColQty, 7, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(tableColPrice, 7, money(item.UnitPriceCents, order.Currency), "1", 0, "R", false, 0, "")
		pdf.CellFormat(tableColTotal, 7, money(item.TotalCents, order.Currency), "1", 1, "R", false, 0, "")
	}

	// Totals block, right-aligned under the table.
	labelWidth := contentWidth - tableColTotal
	writeTotal := func(label string, cents int64, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(labelWidth, 6, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(tableColTotal, 6, money(cents, order.Currency), "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)
	writeTotal("Subtotal", order.SubtotalCents, false)
	if order.ShippingCents > 0 {
		writeTotal("Shipping", order.ShippingCents, false)
	}
	if order.TaxCents > 0 {
		writeTotal("Tax", order.TaxCents, false)
	}
	writeTotal("Total", order.TotalCents, true)

	if err := g.drawQR(pdf, order.ID); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// drawQR places a QR code linking to the order status page in the bottom
// left corner.
func (g *Generator) drawQR(pdf *gofpdf.Fpdf, orderID string) error {
	statusURL := fmt.Sprintf("%s/orders/%s", g.baseURL, orderID)
	png, err := qrcode.Encode(statusURL, qrcode.Medium, qrSizePx)
	if err != nil {
		return fmt.Errorf("generate qr code: %w", err)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("order-qr", opts, bytes.NewReader(png))

	_, pageHeight := pdf.GetPageSize()
	y := pageHeight - pageMarginMM - qrSizeMM
	pdf.ImageOptions("order-qr", pageMarginMM, y, qrSizeMM, qrSizeMM, false, opts, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(pageMarginMM, y+qrSizeMM+1)
	pdf.CellFormat(qrSizeMM, 4, "Scan for order status", "", 0, "C", false, 0, "")
	return pdf.Error()
}

func money(cents int64, currency string) string {
	symbol := "$"
	if currency != "" && currency != "USD" {
		symbol = currency + " "
	}
	return symbol + catalog.FormatAmount(cents)
}
