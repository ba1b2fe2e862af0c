package pdfstamp

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// In pdfcpu, "bl" anchors the stamp at the bottom-left corner and the offset grows up and right.
const signatureStampDesc = "fontname:Helvetica, points:7, position:bl, offset:%.0f %.0f, scalefactor:1 abs, rotation:0, fillcolor:#000000, backgroundcolor:#FFFFFF, border:1, margins:2"

// "tr" anchors at the top-right corner, negative offsets move into the page.
const folioStampDesc = "fontname:Helvetica, points:9, position:tr, offset:-20 -20, scalefactor:1 abs, rotation:0, fillcolor:#000000"

// AddSignatureStamp appends one signature box to the footer of every page and records
// the signer in the document properties. ordinal is the number of signatures already present.
func (e *Engine) AddSignatureStamp(pdf []byte, signer Signer, ordinal int) ([]byte, error) {
	x, y := SignaturePosition(ordinal)
	stamped := e.cfg.Now()
	text := SignatureLabel(signer, stamped.Format(e.cfg.TimestampLayout))
	desc := fmt.Sprintf(signatureStampDesc, x, y)

	wm, err := api.TextWatermark(text, desc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("failed to build signature stamp: %w", err)
	}

	var buf bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(pdf), &buf, nil, wm, pdfConf()); err != nil {
		return nil, fmt.Errorf("failed to add signature stamp: %w", err)
	}

	props := map[string]string{
		fmt.Sprintf("Signer%02d", ordinal+1): fmt.Sprintf("%s, %s (ID: %s) %s", signer.Surname, signer.Name, signer.ID, stamped.UTC().Format("2006-01-02T15:04:05Z")),
	}

	var out bytes.Buffer
	if err := api.AddProperties(bytes.NewReader(buf.Bytes()), &out, props, pdfConf()); err != nil {
		return nil, fmt.Errorf("failed to write signer metadata: %w", err)
	}

	return out.Bytes(), nil
}

// AddFolioStamp labels page i with "Folio startFolio+i" and returns the last folio used.
func (e *Engine) AddFolioStamp(pdf []byte, startFolio int) ([]byte, int, error) {
	out, pages, err := e.stampFolios(pdf, func(i int) int { return startFolio + i })
	if err != nil {
		return nil, 0, err
	}
	return out, startFolio + pages - 1, nil
}

// stampFolios labels page i (0-based) with FolioLabel(folio(i)) and returns the page count.
func (e *Engine) stampFolios(pdf []byte, folio func(i int) int) ([]byte, int, error) {
	pages, err := e.PageCount(pdf)
	if err != nil {
		return nil, 0, err
	}
	if pages == 0 {
		return pdf, 0, nil
	}

	wms := make(map[int]*model.Watermark, pages)
	for i := 0; i < pages; i++ {
		wm, err := api.TextWatermark(FolioLabel(folio(i)), folioStampDesc, true, false, types.POINTS)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to build folio stamp: %w", err)
		}
		wms[i+1] = wm
	}

	var buf bytes.Buffer
	if err := api.AddWatermarksMap(bytes.NewReader(pdf), &buf, wms, pdfConf()); err != nil {
		return nil, 0, fmt.Errorf("failed to add folio stamp: %w", err)
	}
	return buf.Bytes(), pages, nil
}

func (e *Engine) PageCount(pdf []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(pdf), pdfConf())
	if err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return n, nil
}
