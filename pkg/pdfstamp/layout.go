package pdfstamp

import "fmt"

const (
	signatureMarginX   = 20.0
	signatureMarginY   = 20.0
	signatureRowHeight = 12.0
	signatureColWidth  = 200.0
	signatureRows      = 10
)

// Signer identifies who a signature stamp belongs to. Role is optional.
type Signer struct {
	Surname string `json:"surname"`
	Name    string `json:"name"`
	ID      string `json:"id"`
	Role    string `json:"role"`
}

// SignaturePosition returns the bottom-left offset in points of the stamp with the given ordinal.
// Ten stamps fit in a column, further stamps wrap into columns 200 points apart.
func SignaturePosition(ordinal int) (x, y float64) {
	if ordinal < 0 {
		ordinal = 0
	}
	col := ordinal / signatureRows
	row := ordinal % signatureRows
	return signatureMarginX + signatureColWidth*float64(col), signatureMarginY + signatureRowHeight*float64(row)
}

func SignatureLabel(s Signer, timestamp string) string {
	if s.Role == "" {
		return fmt.Sprintf("Signed by: %s, %s (ID: %s) - %s", s.Surname, s.Name, s.ID, timestamp)
	}
	return fmt.Sprintf("Signed by: %s, %s (Role: %s, ID: %s) - %s", s.Surname, s.Name, s.Role, s.ID, timestamp)
}

func FolioLabel(n int) string {
	return fmt.Sprintf("Folio %d", n)
}

// signed reports whether text carries the two substrings verification relies on.
func signed(text string, s Signer) bool {
	return containsAll(text, "Signed by: "+s.Surname, "ID: "+s.ID)
}
