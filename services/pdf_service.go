package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	config "github.com/anjiri1684/studio_manager/configs"
	"github.com/anjiri1684/studio_manager/models"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/shopspring/decimal"
)

// RenderInvoicePDF renders the invoice template and prints it to PDF through
// headless Chrome.
func RenderInvoicePDF(studio models.Studio, invoice models.Invoice) ([]byte, error) {
	htmlData, err := generateInvoiceHTML(studio, invoice)
	if err != nil {
		return nil, err
	}
	return generatePDFFromHTML(htmlData)
}

func generateInvoiceHTML(studio models.Studio, invoice models.Invoice) (string, error) {
	tmpl, err := template.ParseFiles("templates/invoice.html")
	if err != nil {
		return "", err
	}

	paid := decimal.Zero
	for _, p := range invoice.Payments {
		paid = paid.Add(p.Amount)
	}

	dueDate := ""
	if invoice.DueDate != nil {
		dueDate = invoice.DueDate.Format("January 2, 2006")
	}

	data := struct {
		StudioName    string
		InvoiceNumber string
		CustomerName  string
		Status        string
		IssuedDate    string
		DueDate       string
		Total         string
		AmountPaid    string
		Balance       string
		Payments      []models.Payment
	}{
		StudioName:    studio.Name,
		InvoiceNumber: invoice.InvoiceNumber,
		CustomerName:  invoice.Customer.Name,
		Status:        invoice.Status,
		IssuedDate:    invoice.CreatedAt.Format("January 2, 2006"),
		DueDate:       dueDate,
		Total:         invoice.Total.StringFixed(2),
		AmountPaid:    paid.StringFixed(2),
		Balance:       invoice.Total.Sub(paid).StringFixed(2),
		Payments:      invoice.Payments,
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

// ArchiveInvoicePDF uploads a rendered invoice to Cloudinary for record keeping.
// Failures are logged, not surfaced; the caller already has the PDF bytes.
func ArchiveInvoicePDF(pdfBytes []byte, invoiceNumber string) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		log.Printf("🔥 Failed to initialize Cloudinary for invoice archive: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("invoices/%s", invoiceNumber),
		Folder:       "studio_manager_invoices",
		ResourceType: "raw",
	}

	if _, err := cld.Upload.Upload(ctx, bytes.NewReader(pdfBytes), uploadParams); err != nil {
		log.Printf("🔥 Failed to archive invoice %s to Cloudinary: %v", invoiceNumber, err)
		return
	}

	log.Printf("✅ Archived invoice %s to Cloudinary", invoiceNumber)
}
