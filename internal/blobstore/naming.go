package blobstore

import (
	"strings"

	"github.com/SeakMengs/AutoActa/internal/model"
	"github.com/SeakMengs/AutoActa/internal/placeholder"
)

func cleanSegment(s string) string {
	s = strings.NewReplacer("/", "-", "\\", "-", "\n", " ", "\r", " ").Replace(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), " ")
}

func joinSegments(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = cleanSegment(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// RecordFolderName encodes department, category and dedication of a record, e.g.
// "Matematica - PAD Simple - Regular - EXP-123-2024".
func RecordFolderName(r model.Concurso) string {
	kind := "Regular"
	if strings.EqualFold(string(r.Kind), "INTERIM") {
		kind = "Interino"
	}
	name := joinSegments(" - ",
		r.Department.Name,
		joinSegments(" ", r.CategoryCode, r.Dedication),
		kind,
		r.Expediente,
	)
	if name == "" {
		return r.ID
	}
	return name
}

// DocumentFileName applies the template file name pattern. Patterns use the tokens
// <<tipo>>, <<nombre>>, <<expediente>>, <<categoria_codigo>> and <<departamento>>.
func DocumentFileName(cfg model.TemplateConfig, r model.Concurso) string {
	name := cfg.DisplayName
	if name == "" {
		name = cfg.TypeKey
	}

	var out string
	if cfg.FileNamePattern != "" {
		out = placeholder.Substitute(cfg.FileNamePattern, placeholder.Set{
			"tipo":             cfg.TypeKey,
			"nombre":           name,
			"expediente":       r.Expediente,
			"categoria_codigo": r.CategoryCode,
			"departamento":     r.Department.Name,
		})
		out = cleanSegment(out)
	} else {
		out = joinSegments(" - ", name, r.Expediente)
	}

	if !strings.HasSuffix(strings.ToLower(out), ".pdf") {
		out += ".pdf"
	}
	return out
}
