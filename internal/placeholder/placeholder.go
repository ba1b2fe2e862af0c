package placeholder

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SeakMengs/AutoActa/internal/constant"
	"github.com/SeakMengs/AutoActa/internal/model"
)

const DateLayout = "02/01/2006"

// Set maps placeholder names to their values. It is built per request and never cached.
type Set map[string]string

// Merge returns a new set with ext layered over s.
func (s Set) Merge(ext Set) Set {
	out := make(Set, len(s)+len(ext))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range ext {
		out[k] = v
	}
	return out
}

// Graph is the slice of the domain a record's placeholders are computed from.
type Graph struct {
	Record     model.Concurso
	Tribunal   []model.TribunalMember
	Applicants []model.Applicant
	Schedule   *model.Schedule
	Recipient  *model.TribunalMember
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

func formatHour(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("15:04")
}

// RosterLine renders a person as "Surname, Name (ID nnn)".
func RosterLine(surname, name, id string) string {
	if id == "" {
		return fmt.Sprintf("%s, %s", surname, name)
	}
	return fmt.Sprintf("%s, %s (ID %s)", surname, name, id)
}

// FormatTopics turns a pipe-delimited list into a header and one topic per line.
func FormatTopics(raw string) string {
	var topics []string
	for _, t := range strings.Split(raw, "|") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}

	switch len(topics) {
	case 0:
		return "(None)"
	case 1:
		return "Topic\n" + topics[0]
	default:
		return "Topics\n" + strings.Join(topics, "\n")
	}
}

func tribunalKey(role constant.TribunalRole, group constant.TribunalGroup) string {
	if group == "" {
		return "tribunal_" + strings.ToLower(string(role))
	}
	return "tribunal_" + strings.ToLower(string(role)) + "_" + strings.ToLower(string(group))
}

var (
	tribunalRoles  = []constant.TribunalRole{constant.TribunalPresident, constant.TribunalTitular, constant.TribunalAlternate}
	tribunalGroups = []constant.TribunalGroup{constant.GroupAcademic, constant.GroupStudent, constant.GroupGraduate}
)

func tribunalLists(set Set, members []model.TribunalMember) {
	// Every role and group key exists so unused combinations print as empty.
	for _, r := range tribunalRoles {
		set[tribunalKey(r, "")] = ""
		for _, g := range tribunalGroups {
			set[tribunalKey(r, g)] = ""
		}
	}
	set["presidente"] = ""

	lists := map[string][]string{}
	for _, m := range members {
		line := RosterLine(m.Surname, m.Name, m.DNI)
		for _, k := range []string{tribunalKey(m.Role, m.Group), tribunalKey(m.Role, "")} {
			lists[k] = append(lists[k], line)
		}
		if m.Role == constant.TribunalPresident && set["presidente"] == "" {
			set["presidente"] = line
		}
	}
	for k, v := range lists {
		set[k] = strings.Join(v, "\n")
	}
}

func recordKindLabel(kind constant.RecordKind) string {
	if kind == constant.RecordInterim {
		return "interino"
	}
	return "regular"
}

// Build projects the graph into the core placeholder set.
func Build(g *Graph, now time.Time) Set {
	r := g.Record
	pos := Position{
		Count:        r.PositionCount,
		Kind:         r.Kind,
		CategoryCode: r.CategoryCode,
		CategoryName: r.CategoryName,
		Dedication:   r.Dedication,
	}
	level, _ := dedication(r.Dedication)

	set := Set{
		"expediente":        r.Expediente,
		"area":              r.Area,
		"orientacion":       r.Orientation,
		"departamento":      r.Department.Name,
		"categoria":         r.CategoryName,
		"categoria_codigo":  r.CategoryCode,
		"dedicacion":        level,
		"cantidad_cargos":   strconv.Itoa(r.PositionCount),
		"tipo_concurso":     recordKindLabel(r.Kind),
		"cargo":             pos.Description(),
		"cargo_descripcion": pos.LongDescription(),
		"temario":           FormatTopics(r.Topics),
		"fecha_hoy":         now.Format(DateLayout),
	}

	tribunalLists(set, g.Tribunal)

	applicants := make([]string, len(g.Applicants))
	for i, a := range g.Applicants {
		applicants[i] = RosterLine(a.Surname, a.Name, a.DNI)
	}
	set["postulantes"] = strings.Join(applicants, "\n")
	set["cantidad_postulantes"] = strconv.Itoa(len(g.Applicants))

	sch := g.Schedule
	if sch == nil {
		sch = &model.Schedule{}
	}
	set["fecha_inscripcion_apertura"] = formatDate(sch.RegistrationOpens)
	set["fecha_inscripcion_cierre"] = formatDate(sch.RegistrationCloses)
	set["fecha_entrevista"] = formatDate(sch.InterviewDate)
	set["hora_entrevista"] = formatHour(sch.InterviewDate)
	set["fecha_examen"] = formatDate(sch.ExamDate)
	set["hora_examen"] = formatHour(sch.ExamDate)
	set["lugar"] = sch.Place

	if g.Recipient != nil {
		set["destinatario"] = strings.TrimSpace(g.Recipient.Name + " " + g.Recipient.Surname)
		set["destinatario_email"] = g.Recipient.Email
	}

	return set
}

// Extension holds the values only free-text blocks of generated documents use.
func Extension(g *Graph) Set {
	r := g.Record
	return Set{
		"fecha_comision":           formatDate(r.CommitteeDate),
		"fecha_consejo":            formatDate(r.CouncilDate),
		"motivo_vacante":           formatVacancyReason(r.VacancyReason),
		"jefe_departamento":        r.Department.HeadName,
		"jefe_departamento_titulo": r.Department.HeadTitle,
	}
}

// formatVacancyReason normalises a reason into a lowercase clause without a trailing period.
func formatVacancyReason(reason string) string {
	reason = strings.TrimSpace(reason)
	reason = strings.TrimRight(reason, ".")
	if reason == "" {
		return ""
	}
	runes := []rune(reason)
	return strings.ToLower(string(runes[0])) + string(runes[1:])
}

// Substitute replaces every <<name>> token found in set. Unknown tokens are left as they are.
func Substitute(text string, set Set) string {
	var sb strings.Builder
	rest := text
	for {
		start := strings.Index(rest, "<<")
		if start < 0 {
			sb.WriteString(rest)
			break
		}
		end := strings.Index(rest[start+2:], ">>")
		if end < 0 {
			sb.WriteString(rest)
			break
		}

		name := rest[start+2 : start+2+end]
		value, ok := set[name]
		switch {
		case ok:
			sb.WriteString(rest[:start])
			sb.WriteString(value)
			rest = rest[start+2+end+2:]
		default:
			// Keep the opening chevrons and continue scanning after them, the name may hold a token.
			sb.WriteString(rest[:start+2])
			rest = rest[start+2:]
		}
	}
	return sb.String()
}
