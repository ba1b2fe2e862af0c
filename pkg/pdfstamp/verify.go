package pdfstamp

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

const maxFormDepth = 4

// VerifySigned reports whether every expected signer has a stamp in the document and
// returns the signers that are missing.
func (e *Engine) VerifySigned(pdfBytes []byte, expected []Signer) (bool, []Signer, error) {
	pages, err := PageTexts(pdfBytes)
	if err != nil {
		return false, nil, err
	}
	text := strings.Join(pages, "\n")

	missing := []Signer{}
	for _, s := range expected {
		if !signed(text, s) {
			missing = append(missing, s)
		}
	}
	return len(missing) == 0, missing, nil
}

// PageTexts returns the text of every page including text drawn by stamps.
// Stamps live in form XObjects, which plain text extractors skip, so forms are walked too.
func PageTexts(pdfBytes []byte) (texts []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			texts, err = nil, fmt.Errorf("failed to read PDF text: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(pdfBytes), int64(len(pdfBytes)))
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}

	texts = make([]string, reader.NumPage())
	for i := range texts {
		page := reader.Page(i + 1)
		if page.V.IsNull() {
			continue
		}

		var sb strings.Builder
		contentText(page.V.Key("Contents"), page.Resources(), &sb, 0)
		texts[i] = sb.String()
	}
	return texts, nil
}

// contentText writes the shown strings of a content stream to sb. Strings of one text
// object are concatenated and text objects are separated by newlines.
func contentText(strm, res pdf.Value, sb *strings.Builder, depth int) {
	if strm.IsNull() || depth > maxFormDepth {
		return
	}

	encoders := map[string]pdf.TextEncoding{}
	encoder := func(name string) pdf.TextEncoding {
		if enc, ok := encoders[name]; ok {
			return enc
		}
		enc := pdf.Font{V: res.Key("Font").Key(name)}.Encoder()
		encoders[name] = enc
		return enc
	}

	var enc pdf.TextEncoding
	show := func(v pdf.Value) {
		if v.Kind() != pdf.String {
			return
		}
		if enc == nil {
			sb.WriteString(v.RawString())
			return
		}
		sb.WriteString(enc.Decode(v.RawString()))
	}

	pdf.Interpret(strm, func(stk *pdf.Stack, op string) {
		n := stk.Len()
		args := make([]pdf.Value, n)
		for i := n - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}

		switch op {
		case "Tf":
			if len(args) == 2 {
				enc = encoder(args[0].Name())
			}
		case "Tj", "'", "\"":
			if len(args) > 0 {
				show(args[len(args)-1])
			}
		case "TJ":
			if len(args) == 1 {
				for j := 0; j < args[0].Len(); j++ {
					show(args[0].Index(j))
				}
			}
		case "ET":
			sb.WriteByte('\n')
		case "Do":
			if len(args) != 1 {
				return
			}
			xobj := res.Key("XObject").Key(args[0].Name())
			if xobj.Key("Subtype").Name() != "Form" {
				return
			}
			formRes := xobj.Key("Resources")
			if formRes.IsNull() {
				formRes = res
			}
			sb.WriteByte('\n')
			contentText(xobj, formRes, sb, depth+1)
		}
	})
}

func containsAll(text string, subs ...string) bool {
	for _, s := range subs {
		if !strings.Contains(text, s) {
			return false
		}
	}
	return true
}
