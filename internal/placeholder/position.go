package placeholder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SeakMengs/AutoActa/internal/apperror"
	"github.com/SeakMengs/AutoActa/internal/constant"
)

var spelledNumbers = map[int]string{
	1: "un", 2: "dos", 3: "tres", 4: "cuatro", 5: "cinco",
	6: "seis", 7: "siete", 8: "ocho", 9: "nueve", 10: "diez",
}

// Position is the vacancy summary of a record.
type Position struct {
	Count        int
	Kind         constant.RecordKind
	CategoryCode string
	CategoryName string
	Dedication   string
}

// dedication returns the lowercase Spanish level and its numeric code, or a zero code
// for a level it does not know. English level names are accepted as input.
func dedication(level string) (string, int) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "simple":
		return "simple", 1
	case "parcial", "partial":
		return "parcial", 2
	case "exclusiva", "exclusive":
		return "exclusiva", 3
	}
	return strings.ToLower(strings.TrimSpace(level)), 0
}

// ValidateDedication fails with INVALID_REQUEST unless level is simple, partial or exclusive.
func ValidateDedication(level string) error {
	if _, code := dedication(level); code == 0 {
		return apperror.InvalidRequest("unknown dedication %q, want simple, parcial or exclusiva", level)
	}
	return nil
}

func countPhrase(n int) string {
	if word, ok := spelledNumbers[n]; ok {
		return fmt.Sprintf("%s (%d)", word, n)
	}
	return strconv.Itoa(n)
}

func (p Position) quantity() string {
	noun, adj := "cargo", "regular"
	if p.Kind == constant.RecordInterim {
		adj = "interino"
	}
	if p.Count != 1 {
		noun += "s"
		if p.Kind == constant.RecordInterim {
			adj += "s"
		} else {
			adj += "es"
		}
	}
	return fmt.Sprintf("%s %s %s", countPhrase(p.Count), noun, adj)
}

func (p Position) category() string {
	level, code := dedication(p.Dedication)
	if code == 0 {
		return fmt.Sprintf("%s con dedicación %s (%s)", p.CategoryName, level, p.CategoryCode)
	}
	return fmt.Sprintf("%s con dedicación %s (%s-%d)", p.CategoryName, level, p.CategoryCode, code)
}

// Description is the cargo summary, e.g. "un (1) cargo regular de Profesor Adjunto con dedicación simple (PAD-1)".
func (p Position) Description() string {
	return p.quantity() + " de " + p.category()
}

// LongDescription uses the same words with the category first.
func (p Position) LongDescription() string {
	return p.category() + ": " + p.quantity()
}
