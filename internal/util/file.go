package util

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"unicode"
)

// SanitizeFileName keeps letters, digits, dot, dash and underscore and turns the rest into underscores.
// Example output for "Acta de Sorteo (v2).pdf": "Acta_de_Sorteo_v2_.pdf"
func SanitizeFileName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))

	var sb strings.Builder
	lastUnderscore := false
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-':
			sb.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				sb.WriteRune('_')
			}
			lastUnderscore = true
		}
	}

	out := strings.Trim(sb.String(), ".")
	if out == "" || out == "_" {
		return "file"
	}
	return out
}

// DetectContentType uses the extension first and falls back to sniffing the content.
func DetectContentType(name string, content []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	n := min(len(content), 512)
	return http.DetectContentType(content[:n])
}
