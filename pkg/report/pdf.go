package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	"k8s.io/klog/v2"

	"github.com/hubtav/tavlist/pkg/utils"
)

// A4 portrait, millimetres
const (
	marginLeft   = 20.0
	marginTop    = 20.0
	marginBottom = 20.0
	fontFamily   = "Helvetica"

	imgWidth  = 50.0
	imgHeight = 35.0
	imgGap    = 5.0
	imgPerRow = 3
)

type renderer struct {
	pdf      *fpdf.Fpdf
	tr       func(string) string
	images   map[string]*Image
	y        float64
	pageH    float64
	contentW float64
	imgSeq   int
}

// Render draws doc as a PDF. images maps URLs to already fetched pictures;
// URLs missing from the map are left out of the document.
func Render(doc *Document, images map[string]*Image) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginLeft)
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.AliasNbPages("")
	pageW, pageH := pdf.GetPageSize()

	r := &renderer{
		pdf:      pdf,
		tr:       pdf.UnicodeTranslatorFromDescriptor(""),
		images:   images,
		y:        marginTop,
		pageH:    pageH,
		contentW: pageW - 2*marginLeft,
	}
	generated := utils.FormatDate(doc.GeneratedAt)
	pdf.SetFooterFunc(func() {
		pdf.SetFont(fontFamily, "", 8)
		pdf.SetTextColor(107, 114, 128)
		r.text(marginLeft, pageH-10,
			fmt.Sprintf("Relatório gerado pelo TavList em %s - Página %d de {nb}", generated, pdf.PageNo()))
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()
	r.header(doc)
	r.infoBox(doc)
	r.progress(doc)
	r.stages(doc)
	if doc.Attestation != nil {
		r.attestation(doc.Attestation, "Atestado de Recebimento")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *renderer) checkPageBreak(needed float64) {
	if r.y+needed > r.pageH-marginBottom {
		r.pdf.AddPage()
		r.y = marginTop
	}
}

func (r *renderer) font(style string, size float64) {
	r.pdf.SetFont(fontFamily, style, size)
}

func (r *renderer) text(x, y float64, s string) {
	r.pdf.Text(x, y, r.tr(s))
}

// image embeds img and reports whether it was drawn. Undecodable images are skipped.
func (r *renderer) image(img *Image, x, y, w, h float64) bool {
	if img == nil {
		return false
	}
	r.imgSeq++
	name := "img" + strconv.Itoa(r.imgSeq)
	opts := fpdf.ImageOptions{ImageType: img.Type}
	r.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
	if !r.pdf.Ok() {
		klog.Warningf("skip report image: %v", r.pdf.Error())
		r.pdf.ClearError()
		return false
	}
	r.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	return r.pdf.Ok()
}

func (r *renderer) header(doc *Document) {
	if doc.LogoURL != "" && r.image(r.images[doc.LogoURL], marginLeft, r.y, 40, 15) {
		r.y += 20
	}
	r.font("B", 22)
	r.text(marginLeft, r.y, "Relatório da Obra")
	r.y += 10

	r.font("", 16)
	r.text(marginLeft, r.y, doc.ProjectName)
	r.y += 15
}

func (r *renderer) infoBox(doc *Document) {
	r.pdf.SetFillColor(243, 244, 246)
	r.pdf.Rect(marginLeft, r.y, r.contentW, 40, "F")
	r.y += 8

	rows := []struct {
		label  string
		value  string
		offset float64
	}{
		{"Cliente:", doc.ClientName, 30},
		{"Status:", doc.StatusLabel, 30},
		{"Data de Início:", utils.FormatDate(doc.StartDate), 40},
		{"Data Prevista:", utils.FormatDate(doc.ExpectedDate), 40},
	}
	for i, row := range rows {
		r.font("B", 10)
		r.text(marginLeft+5, r.y, row.label)
		r.font("", 10)
		r.text(marginLeft+row.offset, r.y, row.value)
		if i < len(rows)-1 {
			r.y += 8
		}
	}
	r.y += 15
}

func (r *renderer) progress(doc *Document) {
	r.font("B", 12)
	r.text(marginLeft, r.y, fmt.Sprintf("Progresso: %d%%", doc.Progress))
	r.y += 8

	r.pdf.SetFillColor(229, 231, 235)
	r.pdf.Rect(marginLeft, r.y, r.contentW, 8, "F")
	if doc.Progress > 0 {
		r.pdf.SetFillColor(34, 197, 94)
		r.pdf.Rect(marginLeft, r.y, r.contentW*float64(doc.Progress)/100, 8, "F")
	}
	r.y += 12

	r.font("", 10)
	r.text(marginLeft, r.y, fmt.Sprintf("%d de %d etapas concluídas", doc.Approved, doc.Total))
	r.y += 15
}

func (r *renderer) stages(doc *Document) {
	if len(doc.Stages) == 0 {
		return
	}
	r.font("B", 14)
	r.text(marginLeft, r.y, "Etapas")
	r.y += 10

	for i := range doc.Stages {
		r.stage(&doc.Stages[i])
	}
}

func (r *renderer) stage(block *StageBlock) {
	r.checkPageBreak(40)

	r.pdf.SetFillColor(249, 250, 251)
	r.pdf.Rect(marginLeft, r.y, r.contentW, 12, "F")
	r.font("B", 11)
	r.text(marginLeft+3, r.y+8, fmt.Sprintf("%d. %s", block.Ordinal, block.Title))

	r.font("B", 8)
	badgeW := r.pdf.GetStringWidth(r.tr(block.StatusLabel)) + 6
	badgeX := marginLeft + r.contentW - badgeW - 3
	red, green, blue := hexRGB(block.Color)
	r.pdf.SetFillColor(red, green, blue)
	r.pdf.RoundedRect(badgeX, r.y+2, badgeW, 8, 2, "1234", "F")
	r.pdf.SetTextColor(255, 255, 255)
	r.text(badgeX+3, r.y+7.5, block.StatusLabel)
	r.pdf.SetTextColor(0, 0, 0)
	r.y += 15

	r.font("", 9)
	r.text(marginLeft+5, r.y, "Responsável: "+block.Responsible)
	r.y += 6

	if len(block.ImageURLs) > 0 {
		r.checkPageBreak(50)
		r.font("B", 9)
		r.text(marginLeft+5, r.y, "Fotos:")
		r.y += 5

		x := marginLeft + 5
		inRow := 0
		for _, url := range block.ImageURLs {
			if inRow >= imgPerRow {
				inRow = 0
				x = marginLeft + 5
				r.y += imgHeight + imgGap
				r.checkPageBreak(imgHeight + 10)
			}
			if r.image(r.images[url], x, r.y, imgWidth, imgHeight) {
				x += imgWidth + imgGap
				inRow++
			}
		}
		r.y += imgHeight + 10
	} else {
		r.y += 5
	}

	if block.Attestation != nil {
		r.attestation(block.Attestation, "Recebimento da Etapa")
	}

	r.pdf.SetDrawColor(229, 231, 235)
	r.pdf.SetLineWidth(0.2)
	r.pdf.Line(marginLeft, r.y, marginLeft+r.contentW, r.y)
	r.y += 8
}

func (r *renderer) attestation(a *Attestation, title string) {
	r.checkPageBreak(70)

	r.pdf.SetFillColor(240, 253, 244)
	r.pdf.SetDrawColor(34, 197, 94)
	r.pdf.SetLineWidth(0.5)
	r.pdf.Rect(marginLeft, r.y, r.contentW, 50, "FD")
	r.pdf.SetLineWidth(0.2)
	r.y += 8

	r.font("B", 12)
	r.pdf.SetTextColor(22, 101, 52)
	r.text(marginLeft+5, r.y, title)
	r.y += 10

	r.font("B", 10)
	r.text(marginLeft+5, r.y, "Assinado por:")
	r.font("", 10)
	r.text(marginLeft+35, r.y, a.SignerName)
	r.y += 8

	r.font("B", 10)
	r.text(marginLeft+5, r.y, "Data:")
	r.font("", 10)
	r.text(marginLeft+20, r.y, utils.FormatDate(a.SignedAt)+" às "+utils.FormatClock(a.SignedAt))
	r.y += 8

	if a.IP != "" {
		r.font("B", 10)
		r.text(marginLeft+5, r.y, "IP:")
		r.font("", 10)
		r.text(marginLeft+15, r.y, a.IP)
	}
	r.pdf.SetTextColor(0, 0, 0)
	r.y += 20

	if img := r.images[a.ImageURL]; a.ImageURL != "" && img != nil {
		r.checkPageBreak(40)
		r.font("B", 10)
		r.text(marginLeft, r.y, "Assinatura:")
		r.y += 5
		if r.image(img, marginLeft, r.y, 60, 25) {
			r.y += 35
		}
	}
}

// hexRGB parses #rrggbb, falling back to the pending grey.
func hexRGB(hex string) (int, int, int) {
	hex = strings.TrimPrefix(hex, "#")
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || len(hex) != 6 {
		return 156, 163, 175
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
