package report

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"pmrs/internal/domain/patient"
)

// Options controls page layout and chart size.
type Options struct {
	Title       string
	ChartSizePx int
	MarginMM    float64
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "Patient Management Report"
	}
	if o.ChartSizePx <= 0 {
		o.ChartSizePx = 512
	}
	if o.MarginMM <= 0 {
		o.MarginMM = 15
	}
	return o
}

var tableColumns = []struct {
	header string
	width  float64 // mm on A4 portrait
}{
	{"Full Name", 38},
	{"Birthdate", 20},
	{"Age", 10},
	{"Contact", 24},
	{"Address", 32},
	{"Diagnosis", 28},
	{"Notes", 28},
}

// Generate writes the full PDF report to w: title, total count, age
// distribution chart, master patient list.
func Generate(w io.Writer, patients []*patient.Patient, now time.Time, opts Options) error {
	if len(patients) == 0 {
		return patient.ErrNoPatients
	}
	opts = opts.withDefaults()

	buckets := GroupByAge(patients, now)
	chartPNG, err := renderPieChart(buckets, opts.ChartSizePx)
	if err != nil {
		return err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(opts.MarginMM, opts.MarginMM, opts.MarginMM)
	pdf.SetAutoPageBreak(true, opts.MarginMM)
	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, opts.Title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Total count
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Total Patients: %d", len(patients)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Generated: "+now.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Age distribution chart
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Age Group Distribution", "", 1, "L", false, 0, "")

	imgOpts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("age_pie", imgOpts, bytes.NewReader(chartPNG))
	const chartMM = 100.0
	pageW, _ := pdf.GetPageSize()
	pdf.ImageOptions("age_pie", (pageW-chartMM)/2, pdf.GetY(), chartMM, chartMM, false, imgOpts, 0, "")
	pdf.SetY(pdf.GetY() + chartMM + 6)

	// Master list
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Master Patient List", "", 1, "L", false, 0, "")
	writeTable(pdf, patients, now)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	return nil
}

func writeTable(pdf *fpdf.Fpdf, patients []*patient.Patient, now time.Time) {
	writeTableHeader(pdf)

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(0, 0, 0)
	for i, p := range patients {
		// Repeat the header after a page break.
		if pdf.GetY() > 270 {
			pdf.AddPage()
			writeTableHeader(pdf)
			pdf.SetFont("Helvetica", "", 7)
			pdf.SetTextColor(0, 0, 0)
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(220, 220, 220)
		}

		cells := []string{
			p.FullName(),
			p.BirthDateString(),
			fmt.Sprintf("%d", patient.AgeAt(p.BirthDate, now)),
			p.Contact,
			p.Address,
			p.Diagnosis,
			p.Notes,
		}
		for j, col := range tableColumns {
			pdf.CellFormat(col.width, 6, truncate(cells[j], col.width), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
}

func writeTableHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(44, 62, 80)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range tableColumns {
		pdf.CellFormat(col.width, 7, col.header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

// truncate keeps cell text within the column, roughly 2 chars per mm at 7pt.
// Cuts on rune boundaries so multibyte names survive intact.
func truncate(s string, widthMM float64) string {
	limit := int(widthMM * 2 / 3)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}
