package service

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"lebs-backend/internal/domain"
	"lebs-backend/internal/storage"
)

type slipService struct {
	files   storage.FileStore
	labName string
}

func NewSlipService(files storage.FileStore, labName string) SlipService {
	if labName == "" {
		labName = "Laboratory Equipment Borrowing System"
	}
	return &slipService{files: files, labName: labName}
}

func (s *slipService) GenerateBorrowSlip(receipt *domain.BorrowReceipt) (string, error) {
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.AddPage()

	s.header(pdf, "BORROW SLIP", receipt.ReferenceNo)

	pdf.SetFont("Helvetica", "", 10)
	s.field(pdf, "Borrower", receipt.Borrower.FullName())
	s.field(pdf, "Borrower No", receipt.Borrower.BorrowerNo)
	s.field(pdf, "Instructor", receipt.Instructor.FullName())
	s.field(pdf, "Subject", receipt.Subject)
	s.field(pdf, "Room", receipt.Room)
	s.field(pdf, "Issued", receipt.IssuedOn.Format("Jan 2, 2006 3:04 PM"))
	if receipt.StaffName != "" {
		s.field(pdf, "Issued by", receipt.StaffName)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(70, 7, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 7, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 7, "Condition", "1", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range receipt.Lines {
		pdf.CellFormat(70, 7, line.ItemName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", line.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, line.BeforeCondition, "1", 1, "L", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.MultiCell(0, 4, "Keep this slip. Present it together with your ID when returning the equipment.", "", "L", false)

	key := fmt.Sprintf("slips/borrow_%s_%s.pdf", receipt.ReferenceNo, uuid.New().String())
	return key, s.store(pdf, key)
}

func (s *slipService) GenerateReturnSlip(receipt *domain.ReturnReceipt) (string, error) {
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.AddPage()

	s.header(pdf, "RETURN RECEIPT", receipt.ReferenceNo)

	pdf.SetFont("Helvetica", "", 10)
	s.field(pdf, "Borrower", receipt.Borrower.FullName())
	s.field(pdf, "Borrower No", receipt.Borrower.BorrowerNo)
	s.field(pdf, "Returned", receipt.ReturnedOn.Format("Jan 2, 2006 3:04 PM"))
	if receipt.StaffName != "" {
		s.field(pdf, "Received by", receipt.StaffName)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(60, 7, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(18, 7, "Claimed", "1", 0, "C", false, 0, "")
	pdf.CellFormat(18, 7, "Credited", "1", 0, "C", false, 0, "")
	pdf.CellFormat(29, 7, "Condition", "1", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range receipt.Items {
		pdf.CellFormat(60, 7, item.ItemName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(18, 7, fmt.Sprintf("%d", item.Claimed), "1", 0, "C", false, 0, "")
		pdf.CellFormat(18, 7, fmt.Sprintf("%d", item.Credited), "1", 0, "C", false, 0, "")
		pdf.CellFormat(29, 7, item.Condition, "1", 1, "L", false, 0, "")
	}

	key := fmt.Sprintf("slips/return_%s_%s.pdf", receipt.ReferenceNo, uuid.New().String())
	return key, s.store(pdf, key)
}

func (s *slipService) header(pdf *gofpdf.Fpdf, title, refNo string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, s.labName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Reference No: "+refNo, "", 1, "C", false, 0, "")
	pdf.Ln(4)
}

func (s *slipService) field(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(30, 6, label+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func (s *slipService) store(pdf *gofpdf.Fpdf, key string) error {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("failed to render slip: %w", err)
	}
	return s.files.Save(key, &buf)
}
