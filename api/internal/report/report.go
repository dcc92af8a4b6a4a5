// Package report renders a detection as a downloadable PDF.
package report

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // DecodeConfig
	_ "image/png"  // DecodeConfig
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"agrisakhi/api/internal/assess"
	apperrors "agrisakhi/api/internal/errors"
	"agrisakhi/api/internal/logger"
	"agrisakhi/api/internal/plant"
	"agrisakhi/api/internal/treatment"
	"agrisakhi/api/internal/util"
)

// Input is everything a report shows. ImageRef is a data URI; JPEG and PNG are
// embedded, anything else is skipped.
type Input struct {
	Result          plant.DetectionResult
	Recommendations []string
	ImageRef        string
	Language        string
	GeneratedAt     time.Time
}

type Renderer struct {
	Theme Theme
	log   *slog.Logger
}

func NewRenderer(theme Theme) *Renderer {
	return &Renderer{Theme: theme, log: logger.Module("report")}
}

// Render writes the PDF to w.
func (r *Renderer) Render(w io.Writer, in Input) error {
	pdf, err := r.build(in)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return reportError(err, in)
	}
	return nil
}

// Filename is AgriSakhi_Report_<Disease_Name>_<unix-ms>.pdf.
func Filename(res plant.DetectionResult, t time.Time) string {
	name := strings.Join(strings.Fields(strings.ReplaceAll(res.Disease, "_", " ")), "_")
	if name == "" {
		name = "Unknown"
	}
	return fmt.Sprintf("AgriSakhi_Report_%s_%d.pdf", name, t.UnixMilli())
}

// ReportID mirrors the RPT-<base36 ms> ids printed in the header.
func ReportID(t time.Time) string {
	return "RPT-" + strings.ToUpper(strconv.FormatInt(t.UnixMilli(), 36))
}

type doc struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	theme Theme
	in    Input
	w, h  float64
	log   *slog.Logger
}

func (r *Renderer) build(in Input) (*fpdf.Fpdf, error) {
	if in.GeneratedAt.IsZero() {
		in.GeneratedAt = time.Now()
	}
	if len(in.Recommendations) == 0 {
		in.Recommendations = treatment.Recommendations(in.Result.Disease, in.Result.Confidence)
	}
	theme := r.Theme
	if theme.Name == "" {
		theme = ThemeGreen
	}
	log := r.log
	if log == nil {
		log = logger.Module("report")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(subtitle, true)
	pdf.SetAuthor(brandName, true)
	pdf.SetCreator(brandName, true)
	pdf.SetCreationDate(in.GeneratedAt)
	pdf.AliasNbPages("")
	pdf.SetAutoPageBreak(false, 0)

	w, h := pdf.GetPageSize()
	d := &doc{
		pdf:   pdf,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		theme: theme,
		in:    in,
		w:     w,
		h:     h,
		log:   log,
	}
	pdf.SetFooterFunc(d.footer)
	pdf.AddPage()

	y := d.header()
	y = d.summary(y)
	y = d.image(y)
	y = d.metrics(y)
	y = d.recommendations(y)
	d.tips(y)

	if err := pdf.Error(); err != nil {
		return nil, reportError(err, in)
	}
	return pdf, nil
}

func (d *doc) fill(c rgb) { d.pdf.SetFillColor(c.r, c.g, c.b) }
func (d *doc) draw(c rgb) { d.pdf.SetDrawColor(c.r, c.g, c.b) }
func (d *doc) ink(c rgb)  { d.pdf.SetTextColor(c.r, c.g, c.b) }
func (d *doc) text(x, y float64, s string) { d.pdf.Text(x, y, d.tr(s)) }

func (d *doc) header() float64 {
	hh := d.theme.HeaderHeight
	d.fill(colorPrimary)
	d.pdf.Rect(0, 0, d.w, hh, "F")
	d.fill(colorSecondary)
	d.pdf.Rect(0, hh*0.7, d.w, hh*0.3, "F")

	d.fill(colorWhite)
	d.pdf.Circle(25, hh/2, hh/6, "F")

	d.ink(colorWhite)
	d.pdf.SetFont("Helvetica", "B", d.theme.TitleSize)
	d.text(40, hh*0.46, brandName)
	d.pdf.SetFont("Helvetica", "", d.theme.TitleSize/2)
	d.text(40, hh*0.62, subtitle)

	d.pdf.SetFont("Helvetica", "", 9)
	d.text(d.w-70, hh*0.46, "Report ID: "+ReportID(d.in.GeneratedAt))
	d.text(d.w-70, hh*0.58, "Generated: "+d.in.GeneratedAt.Format("January 2, 2006 03:04 PM"))
	return hh + 10
}

// diseaseName prefers the localized name when the core font can encode it.
func (d *doc) diseaseName() string {
	lang := MatchLanguage(d.in.Language)
	name := plant.LocalizedName(d.in.Result.Disease, lang)
	if _, err := charmap.Windows1252.NewEncoder().String(name); err != nil {
		return plant.FormatName(d.in.Result.Disease)
	}
	return name
}

func (d *doc) summary(y float64) float64 {
	const boxH = 35
	d.fill(colorSurface)
	d.pdf.RoundedRect(15, y, d.w-30, boxH, 3, "1234", "F")
	d.draw(colorPrimary)
	d.pdf.SetLineWidth(0.5)
	d.pdf.RoundedRect(15, y, d.w-30, boxH, 3, "1234", "D")

	d.ink(colorLight)
	d.pdf.SetFont("Helvetica", "", 10)
	d.text(20, y+8, "DETECTED DISEASE")

	d.ink(colorText)
	d.pdf.SetFont("Helvetica", "B", 16)
	d.text(20, y+15, d.diseaseName())

	res := d.in.Result
	badgeY := y + 23
	d.fill(colorPrimary)
	d.pdf.RoundedRect(20, badgeY-5, 38, 8, 2, "1234", "F")
	d.ink(colorWhite)
	d.pdf.SetFont("Helvetica", "B", 10)
	d.text(22, badgeY, fmt.Sprintf("%d%% Confidence", assess.Percent(res.Confidence)))

	d.fill(severityColor(res.Severity))
	d.pdf.RoundedRect(62, badgeY-5, 32, 8, 2, "1234", "F")
	d.text(64, badgeY, fmt.Sprintf("Severity: %d/10", res.Severity))
	return y + boxH + 10
}

func (d *doc) image(y float64) float64 {
	if !d.theme.ShowImage || d.in.ImageRef == "" {
		return y
	}
	data, mime, err := util.ParseDataURL(d.in.ImageRef)
	if err != nil {
		d.log.Debug("image reference is not a data URI, skipping", "error", err)
		return y
	}
	imgType := fpdfImageType(mime)
	if imgType == "" {
		d.log.Debug("unsupported image type for report, skipping", "mime", mime)
		return y
	}
	// fpdf poisons the whole document on a bad image, so check it first.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		d.log.Warn("image could not be decoded, skipping", "error", err)
		return y
	}

	const maxW, maxH = 80.0, 60.0
	iw, ih := maxW, maxW*float64(cfg.Height)/float64(cfg.Width)
	if ih > maxH {
		ih = maxH
		iw = maxH * float64(cfg.Width) / float64(cfg.Height)
	}
	opts := fpdf.ImageOptions{ImageType: imgType}
	d.pdf.RegisterImageOptionsReader("detection", opts, bytes.NewReader(data))
	d.pdf.ImageOptions("detection", (d.w-iw)/2, y, iw, ih, false, opts, 0, "")
	return y + ih + 8
}

func fpdfImageType(mime string) string {
	switch strings.ToLower(mime) {
	case "image/jpeg", "image/jpg":
		return "JPG"
	case "image/png":
		return "PNG"
	default:
		return ""
	}
}

func (d *doc) metrics(y float64) float64 {
	res := d.in.Result
	pct := assess.Percent(res.Confidence)
	rows := [][3]string{
		{"Confidence Level", fmt.Sprintf("%d%%", pct), assess.ConfidenceStatus(float64(pct))},
		{"Disease Severity", fmt.Sprintf("%d/10", res.Severity), assess.SeverityStatus(res.Severity)},
		{"Affected Area", strconv.FormatFloat(res.AffectedArea, 'f', -1, 64) + "%", assess.AreaStatus(res.AffectedArea)},
		{"Image Quality", fmt.Sprintf("%d%%", res.Metadata.ImageQuality), assess.QualityStatus(res.Metadata.ImageQuality)},
		{"Inference Time", fmt.Sprintf("%dms", res.Metadata.InferenceTime), assess.StatusFast},
	}

	d.ink(colorText)
	d.pdf.SetFont("Helvetica", "B", 13)
	d.text(15, y, "Analysis Metrics")
	y += 3

	colW := (d.w - 30) / 3
	const rowH = 8.0
	d.pdf.SetLineWidth(0.2)
	d.draw(colorRule)

	d.pdf.SetXY(15, y)
	d.fill(colorPrimary)
	d.ink(colorWhite)
	d.pdf.SetFont("Helvetica", "B", d.theme.BodySize)
	for _, h := range []string{"Metric", "Value", "Status"} {
		d.pdf.CellFormat(colW, rowH, h, "1", 0, "C", true, 0, "")
	}
	y += rowH

	for i, row := range rows {
		d.pdf.SetXY(15, y)
		d.fill(colorSurface)
		d.ink(colorText)
		alt := i%2 == 1
		d.pdf.SetFont("Helvetica", "", d.theme.BodySize)
		d.pdf.CellFormat(colW, rowH, d.tr(row[0]), "1", 0, "L", alt, 0, "")
		d.pdf.CellFormat(colW, rowH, d.tr(row[1]), "1", 0, "C", alt, 0, "")
		d.pdf.SetFont("Helvetica", "B", d.theme.BodySize)
		d.pdf.CellFormat(colW, rowH, d.tr(row[2]), "1", 0, "C", alt, 0, "")
		y += rowH
	}
	return y + 10
}

const lineH = 5.0

func (d *doc) recommendations(y float64) float64 {
	d.ink(colorText)
	d.pdf.SetFont("Helvetica", "B", 13)
	d.text(15, y, "Recommended Actions")
	y += 7

	recs := d.in.Recommendations
	if n := d.theme.MaxRecommendations; n > 0 && len(recs) > n {
		recs = recs[:n]
	}
	d.pdf.SetFont("Helvetica", "", d.theme.BodySize)
	for _, rec := range recs {
		lines := d.pdf.SplitLines([]byte(d.tr(rec)), d.w-40)
		if n := d.theme.MaxLinesPerItem; n > 0 && len(lines) > n {
			lines = lines[:n]
		}
		if y+float64(len(lines))*lineH > d.h-30 {
			d.pdf.AddPage()
			y = 20
			d.pdf.SetFont("Helvetica", "", d.theme.BodySize)
		}
		d.fill(colorPrimary)
		d.pdf.Circle(18, y-1.5, 1.5, "F")
		d.ink(colorBody)
		for i, line := range lines {
			d.pdf.Text(24, y+float64(i)*lineH, string(line))
		}
		y += float64(len(lines))*lineH + 3
	}
	return y
}

func (d *doc) tips(y float64) {
	boxH := 17 + float64(len(preventionTips))*4.5
	if y+5+boxH > d.h-25 {
		d.pdf.AddPage()
		y = 20
	}
	y += 5

	d.fill(colorTipFill)
	d.pdf.RoundedRect(15, y, d.w-30, boxH, 3, "1234", "F")
	d.draw(colorWarning)
	d.pdf.SetLineWidth(0.5)
	d.pdf.RoundedRect(15, y, d.w-30, boxH, 3, "1234", "D")

	y += 8
	d.ink(colorTipTitle)
	d.pdf.SetFont("Helvetica", "B", 12)
	d.text(20, y, "Prevention Tips")
	y += 7

	d.ink(colorTipText)
	d.pdf.SetFont("Helvetica", "", 9)
	for _, tip := range preventionTips {
		d.text(20, y, "- "+tip)
		y += 4.5
	}
}

func (d *doc) footer() {
	fy := d.h - 15
	d.fill(colorSurface)
	d.pdf.Rect(0, fy-5, d.w, 20, "F")
	d.draw(colorRule)
	d.pdf.SetLineWidth(0.3)
	d.pdf.Line(15, fy-5, d.w-15, fy-5)

	d.ink(colorLight)
	d.pdf.SetFont("Helvetica", "", 8)
	d.text(15, fy, copyright)
	d.text(15, fy+4, assistLine)
	d.text(d.w-35, fy, fmt.Sprintf("Page %d/{nb}", d.pdf.PageNo()))
	d.text(d.w-65, fy+4, "Generated "+d.in.GeneratedAt.Format("2006-01-02 15:04 MST"))

	d.ink(colorFaint)
	d.pdf.SetFontSize(7)
	d.text(15, fy+8, disclaimer)
}

func reportError(err error, in Input) error {
	return apperrors.New(fmt.Errorf("render report: %w", err)).
		Component("report").
		Category(apperrors.CategoryReport).
		Context("disease", in.Result.Disease).
		Build()
}
