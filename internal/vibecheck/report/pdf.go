// Package report renders vibe checks as downloadable PDF documents.
package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/vibecheck/domain"
)

const (
	pageMargin = 18.0
	lineHeight = 6.0
)

// Filename is the attachment name used for a check's report.
func Filename(vc *domain.VibeCheck) string {
	return fmt.Sprintf("vibe-check-%s.pdf", vc.ID.String()[:8])
}

type writer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// Render lays the check out top to bottom: title, input, overall score,
// score table, then one section per evaluation field.
func Render(vc *domain.VibeCheck) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle("Vibe Check Report", true)
	pdf.SetCreator("Ctrl Alt Vibe", true)
	pdf.AddPage()

	w := &writer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	ev := vc.Evaluation

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, w.tr("Vibe Check Report"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 5, w.tr(fmt.Sprintf("%s  |  model %s", vc.CreatedAt.UTC().Format("2 Jan 2006 15:04 MST"), vc.Model)), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	if vc.WebsiteURL != nil {
		w.labelled("Website", *vc.WebsiteURL)
	}
	if vc.IdeaDescription != nil {
		w.labelled("Idea", *vc.IdeaDescription)
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 28)
	pdf.CellFormat(0, 14, fmt.Sprintf("%.1f / 10", ev.Scores.Overall), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, "Overall score", "", 1, "L", false, 0, "")
	pdf.Ln(4)

	w.scoreTable(ev.Scores)

	w.paragraph("Summary", ev.Summary)
	w.paragraph("Market fit", ev.MarketFit)
	w.paragraph("Target audience", ev.TargetAudience)
	w.bullets("Competitors", ev.Competitors)
	w.bullets("Strengths", ev.Strengths)
	w.bullets("Weaknesses", ev.Weaknesses)
	w.bullets("Risks", ev.Risks)
	w.bullets("Recommendations", ev.Recommendations)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render vibe check pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *writer) heading(text string) {
	w.pdf.Ln(3)
	w.pdf.SetFont("Helvetica", "B", 13)
	w.pdf.CellFormat(0, 8, w.tr(text), "", 1, "L", false, 0, "")
	w.pdf.SetFont("Helvetica", "", 11)
}

func (w *writer) labelled(label, value string) {
	w.pdf.SetFont("Helvetica", "B", 11)
	w.pdf.CellFormat(0, lineHeight, w.tr(label), "", 1, "L", false, 0, "")
	w.pdf.SetFont("Helvetica", "", 11)
	w.pdf.MultiCell(0, lineHeight, w.tr(value), "", "L", false)
	w.pdf.Ln(1)
}

func (w *writer) paragraph(title, body string) {
	if body == "" {
		return
	}
	w.heading(title)
	w.pdf.MultiCell(0, lineHeight, w.tr(body), "", "L", false)
}

func (w *writer) bullets(title string, items []string) {
	if len(items) == 0 {
		return
	}
	w.heading(title)
	left, _, _, _ := w.pdf.GetMargins()
	for _, item := range items {
		w.pdf.SetX(left)
		w.pdf.CellFormat(6, lineHeight, w.tr("•"), "", 0, "L", false, 0, "")
		w.pdf.MultiCell(0, lineHeight, w.tr(item), "", "L", false)
	}
}

func (w *writer) scoreTable(s domain.Scores) {
	rows := []struct {
		name  string
		value float64
	}{
		{"Market", s.Market},
		{"Execution", s.Execution},
		{"Innovation", s.Innovation},
		{"Monetization", s.Monetization},
		{"Overall", s.Overall},
	}

	w.pdf.SetFont("Helvetica", "B", 11)
	w.pdf.SetFillColor(235, 235, 245)
	w.pdf.CellFormat(60, 8, "Dimension", "1", 0, "L", true, 0, "")
	w.pdf.CellFormat(30, 8, "Score", "1", 1, "C", true, 0, "")
	w.pdf.SetFont("Helvetica", "", 11)
	for _, r := range rows {
		w.pdf.CellFormat(60, 7, r.name, "1", 0, "L", false, 0, "")
		w.pdf.CellFormat(30, 7, fmt.Sprintf("%.1f", r.value), "1", 1, "C", false, 0, "")
	}
}
