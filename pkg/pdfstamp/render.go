package pdfstamp

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"golang.org/x/image/font/sfnt"
)

const (
	a4WidthMM    = 210.0
	a4HeightMM   = 297.0
	pageMarginMM = 20.0
	titleSize    = 14.0
	gapMM        = 4.0
)

func fontFamilyName(path string) (string, error) {
	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading font file: %w", err)
	}

	font, err := sfnt.Parse(fontBytes)
	if err != nil {
		return "", fmt.Errorf("parsing font: %w", err)
	}

	name, err := font.Name(nil, sfnt.NameIDFamily)
	if err != nil {
		return "", fmt.Errorf("retrieving font name: %w", err)
	}
	return name, nil
}

// fontFamily loads the configured font file, or the embedded Latin Modern faces when none is set.
// A configured file serves both the title and the body.
func (e *Engine) fontFamily() (*canvas.FontFamily, canvas.FontStyle, error) {
	if e.cfg.FontPath == "" {
		family := canvas.NewFontFamily("Latin Modern Roman")
		if err := family.LoadFont(lmroman10regular.TTF, 0, canvas.FontRegular); err != nil {
			return nil, 0, fmt.Errorf("failed to load regular face: %w", err)
		}
		if err := family.LoadFont(lmroman10bold.TTF, 0, canvas.FontBold); err != nil {
			return nil, 0, fmt.Errorf("failed to load bold face: %w", err)
		}
		return family, canvas.FontBold, nil
	}

	name, err := fontFamilyName(e.cfg.FontPath)
	if err != nil {
		return nil, 0, err
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFontFile(e.cfg.FontPath, canvas.FontRegular); err != nil {
		return nil, 0, fmt.Errorf("failed to load font file: %w", err)
	}
	return family, canvas.FontRegular, nil
}

// RenderText lays out a title and paragraphs on A4 pages, starting a new page when a
// paragraph no longer fits.
func (e *Engine) RenderText(title string, paragraphs []string) ([]byte, error) {
	family, titleStyle, err := e.fontFamily()
	if err != nil {
		return nil, err
	}

	black := canvas.Hex("#000000")
	bodyFace := family.Face(e.cfg.FontSize, black, canvas.FontRegular, canvas.FontNormal)
	titleFace := family.Face(titleSize, black, titleStyle, canvas.FontNormal)
	width := a4WidthMM - 2*pageMarginMM

	var boxes []*canvas.Text
	if title != "" {
		boxes = append(boxes, canvas.NewTextBox(titleFace, title, width, 0.0, canvas.Left, canvas.Top, 0.0, 0.0))
	}
	for _, p := range paragraphs {
		boxes = append(boxes, canvas.NewTextBox(bodyFace, p, width, 0.0, canvas.Justify, canvas.Top, 0.0, 0.0))
	}

	var pages []*canvas.Canvas
	var ctx *canvas.Context
	y := 0.0
	newPage := func() {
		c := canvas.New(a4WidthMM, a4HeightMM)
		ctx = canvas.NewContext(c)
		// Change coordination from bottom-left to top-left
		ctx.SetCoordSystem(canvas.CartesianIV)
		pages = append(pages, c)
		y = pageMarginMM
	}
	newPage()

	for _, tb := range boxes {
		h := tb.Bounds().H()
		if y+h > a4HeightMM-pageMarginMM && y > pageMarginMM {
			newPage()
		}
		ctx.DrawText(pageMarginMM, y, tb)
		y += h + gapMM
	}

	var buf bytes.Buffer
	r := pdf.New(&buf, a4WidthMM, a4HeightMM, nil)
	for i, c := range pages {
		if i > 0 {
			r.NewPage(a4WidthMM, a4HeightMM)
		}
		c.RenderTo(r)
	}
	if err := r.Close(); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}
