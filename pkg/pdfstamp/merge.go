package pdfstamp

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/skip2/go-qrcode"
)

const qrStampDesc = "pos: br, off: -20 20, scale: 1 abs, rotation: 0"

// Cover is the summary page placed in front of a dossier.
type Cover struct {
	Title string
	Lines []string
	// QRContent is encoded as a QR code in the bottom-right corner when set.
	QRContent string
}

type LabeledPDF struct {
	Label string
	PDF   []byte
}

// FolioRange is the folio span a merged document occupies. End < Start for an empty document.
type FolioRange struct {
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

func (fr FolioRange) String() string {
	if fr.Start == fr.End {
		return fmt.Sprintf("%s: Folio %d", fr.Label, fr.Start)
	}
	return fmt.Sprintf("%s: Folio %d-%d", fr.Label, fr.Start, fr.End)
}

func folioRanges(docs []LabeledPDF, counts []int, start int) []FolioRange {
	ranges := make([]FolioRange, len(docs))
	next := start
	for i, d := range docs {
		ranges[i] = FolioRange{Label: d.Label, Start: next, End: next + counts[i] - 1}
		next += counts[i]
	}
	return ranges
}

// coverLines adds the folio index after the cover lines, one paragraph per document so a
// long index flows onto further cover pages.
func coverLines(cover Cover, ranges []FolioRange) []string {
	lines := append([]string{}, cover.Lines...)
	if len(ranges) == 0 {
		return lines
	}

	lines = append(lines, "Folio index")
	for _, r := range ranges {
		if r.End < r.Start {
			continue
		}
		lines = append(lines, r.String())
	}
	return lines
}

// MergeWithCover renders the cover with a folio index and concatenates everything in order.
// The cover is folio 1 however many pages the index takes, and documents are numbered
// from folio 2 without gaps.
func (e *Engine) MergeWithCover(cover Cover, docs []LabeledPDF) ([]byte, []FolioRange, error) {
	counts := make([]int, len(docs))
	for i, d := range docs {
		n, err := e.PageCount(d.PDF)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", d.Label, err)
		}
		counts[i] = n
	}
	ranges := folioRanges(docs, counts, 2)

	coverPDF, err := e.RenderText(cover.Title, coverLines(cover, ranges))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to render cover: %w", err)
	}
	coverPDF, _, err = e.stampFolios(coverPDF, func(int) int { return 1 })
	if err != nil {
		return nil, nil, err
	}
	last := 1

	if cover.QRContent != "" {
		coverPDF, err = addQRCode(coverPDF, cover.QRContent)
		if err != nil {
			return nil, nil, err
		}
	}

	parts := [][]byte{coverPDF}
	for i, d := range docs {
		if counts[i] == 0 {
			continue
		}
		stamped, end, err := e.AddFolioStamp(d.PDF, last+1)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", d.Label, err)
		}
		parts = append(parts, stamped)
		last = end
	}

	merged, err := mergeRaw(parts)
	if err != nil {
		return nil, nil, err
	}
	return merged, ranges, nil
}

// If generate qr code for pdf file, size 96 should be enough
func addQRCode(pdf []byte, content string) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, 96)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	wm, err := api.ImageWatermarkForReader(bytes.NewReader(png), qrStampDesc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("failed to build QR stamp: %w", err)
	}

	var buf bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(pdf), &buf, []string{"1"}, wm, pdfConf()); err != nil {
		return nil, fmt.Errorf("failed to embed QR code in PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func mergeRaw(parts [][]byte) ([]byte, error) {
	if len(parts) == 1 {
		return parts[0], nil
	}

	rsc := make([]io.ReadSeeker, len(parts))
	for i, p := range parts {
		rsc[i] = bytes.NewReader(p)
	}

	var buf bytes.Buffer
	if err := api.MergeRaw(rsc, &buf, false, pdfConf()); err != nil {
		return nil, fmt.Errorf("failed to merge PDFs: %w", err)
	}
	return buf.Bytes(), nil
}
