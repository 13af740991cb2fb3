package services

import (
	"bytes"
	"fmt"
	"time"

	"invenso/internal/domain"
	"invenso/internal/domain/models"
	"invenso/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// ReportService renders the filtered issue list as a PDF.
type ReportService struct {
	RequestID string
	Now       func() time.Time
}

type reportColumn struct {
	title string
	width float64
	value func(models.IssueRecord) string
}

// landscape A4 minus 10mm margins is 277mm wide
var reportColumns = []reportColumn{
	{"Issue ID.", 18, func(r models.IssueRecord) string { return r.IssueID.String() }},
	{"Username", 32, func(r models.IssueRecord) string { return r.Username.Value }},
	{"EnrollmentNo.", 30, func(r models.IssueRecord) string { return r.EnrollmentNo.Value }},
	{"Equipment Type", 34, func(r models.IssueRecord) string { return r.EquipmentType.Value }},
	{"Issue History", 60, func(r models.IssueRecord) string { return r.IssueHistory.Value }},
	{"Condition", 30, func(r models.IssueRecord) string { return r.Condition.Value }},
	{"Location", 40, func(r models.IssueRecord) string { return r.Location.Value }},
	{"Status", 33, func(r models.IssueRecord) string { return r.Status.Value }},
}

// Export renders every filtered record (all pages, newest first).
func (s ReportService) Export(records []models.IssueRecord, criteria domain.FilterCriteria) ([]byte, string, error) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	filtered := Filter(records, criteria)
	utils.LogEvent(s.RequestID, "report", "export_pdf", fmt.Sprintf("rows=%d", len(filtered)))

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Issue Report", false)
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Issue Report")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Generated : "+utils.FormatDateTime(now))
	pdf.Ln(6)
	for _, f := range FilterFields {
		pdf.Cell(0, 6, tr(fmt.Sprintf("%-14s: %s", f.Label(), utils.Safe(f.Criterion(criteria), f.AllLabel()))))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Records   : %d of %d", len(filtered), len(records)))
	pdf.Ln(9)

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for _, c := range reportColumns {
			pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	if len(filtered) == 0 {
		msg := MsgNoMatches
		if len(records) == 0 {
			msg = MsgNoData
		}
		pdf.CellFormat(277, 7, msg, "1", 1, "C", false, 0, "")
	}
	for _, r := range filtered {
		if pdf.GetY()+6 > pageHeight-bottom {
			pdf.AddPage()
			header()
		}
		for _, c := range reportColumns {
			text := tr(fitText(pdf, utils.NormalizeSpace(c.value(r)), c.width-2))
			pdf.CellFormat(c.width, 6, text, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Msg: "gagal membuat PDF", Err: err}
	}
	return buf.Bytes(), fmt.Sprintf("issues-%s.pdf", utils.FileStamp(now)), nil
}

// fitText cuts s until it fits width at the current font.
func fitText(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
