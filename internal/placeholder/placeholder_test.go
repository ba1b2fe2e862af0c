package placeholder_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SeakMengs/AutoActa/internal/apperror"
	"github.com/SeakMengs/AutoActa/internal/constant"
	"github.com/SeakMengs/AutoActa/internal/model"
	"github.com/SeakMengs/AutoActa/internal/placeholder"
	"go.uber.org/zap"
)

func TestPositionDescription(t *testing.T) {
	tests := []struct {
		name     string
		pos      placeholder.Position
		want     string
		wantLong string
	}{
		{
			name:     "single regular",
			pos:      placeholder.Position{Count: 1, Kind: constant.RecordRegular, CategoryCode: "PAD", CategoryName: "Profesor Adjunto", Dedication: "Simple"},
			want:     "un (1) cargo regular de Profesor Adjunto con dedicación simple (PAD-1)",
			wantLong: "Profesor Adjunto con dedicación simple (PAD-1): un (1) cargo regular",
		},
		{
			name:     "plural interim partial",
			pos:      placeholder.Position{Count: 3, Kind: constant.RecordInterim, CategoryCode: "AYP", CategoryName: "Ayudante de Primera", Dedication: "Partial"},
			want:     "tres (3) cargos interinos de Ayudante de Primera con dedicación parcial (AYP-2)",
			wantLong: "Ayudante de Primera con dedicación parcial (AYP-2): tres (3) cargos interinos",
		},
		{
			name:     "above ten uses numeral",
			pos:      placeholder.Position{Count: 12, Kind: constant.RecordRegular, CategoryCode: "JTP", CategoryName: "Jefe de Trabajos Prácticos", Dedication: "Exclusiva"},
			want:     "12 cargos regulares de Jefe de Trabajos Prácticos con dedicación exclusiva (JTP-3)",
			wantLong: "Jefe de Trabajos Prácticos con dedicación exclusiva (JTP-3): 12 cargos regulares",
		},
		{
			name:     "unknown dedication has no code",
			pos:      placeholder.Position{Count: 1, Kind: constant.RecordRegular, CategoryCode: "PAD", CategoryName: "Profesor Adjunto", Dedication: "Semi"},
			want:     "un (1) cargo regular de Profesor Adjunto con dedicación semi (PAD)",
			wantLong: "Profesor Adjunto con dedicación semi (PAD): un (1) cargo regular",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.Description(); got != tt.want {
				t.Errorf("Description() = %q, want %q", got, tt.want)
			}
			if got := tt.pos.LongDescription(); got != tt.wantLong {
				t.Errorf("LongDescription() = %q, want %q", got, tt.wantLong)
			}
		})
	}
}

func TestFormatTopics(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", "(None)"},
		{" | ", "(None)"},
		{"Algebra", "Topic\nAlgebra"},
		{"Algebra| Geometria |Calculo", "Topics\nAlgebra\nGeometria\nCalculo"},
	}

	for _, tt := range tests {
		if got := placeholder.FormatTopics(tt.raw); got != tt.want {
			t.Errorf("FormatTopics(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestSubstitute(t *testing.T) {
	set := placeholder.Set{"name": "Ana", "empty": "", "cargo": "un (1) cargo"}

	tests := []struct {
		name string
		text string
		want string
	}{
		{"known tokens", "Hola <<name>>, <<cargo>>.", "Hola Ana, un (1) cargo."},
		{"repeated", "<<name>><<name>>", "AnaAna"},
		{"empty value", "[<<empty>>]", "[]"},
		{"unknown token kept", "<<missing>> y <<name>>", "<<missing>> y Ana"},
		{"case sensitive", "<<Name>>", "<<Name>>"},
		{"unterminated", "<<name", "<<name"},
		{"token after stray chevrons", "<< <<name>>", "<< Ana"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := placeholder.Substitute(tt.text, set)
			if got != tt.want {
				t.Errorf("Substitute() = %q, want %q", got, tt.want)
			}
			if again := placeholder.Substitute(got, set); again != got {
				t.Errorf("Substitute is not idempotent: %q then %q", got, again)
			}
		})
	}
}

func TestMergeExtensionWins(t *testing.T) {
	core := placeholder.Set{"a": "1", "b": "2"}
	merged := core.Merge(placeholder.Set{"b": "ext", "c": "3"})

	if merged["a"] != "1" || merged["b"] != "ext" || merged["c"] != "3" {
		t.Fatalf("Merge = %v", merged)
	}
	if core["b"] != "2" {
		t.Fatalf("Merge mutated the receiver")
	}
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 10, 30, 0, 0, time.UTC)
	return &t
}

type fakeLoader struct {
	graph *placeholder.Graph
}

func (f fakeLoader) LoadGraph(ctx context.Context, recordID string) (*placeholder.Graph, error) {
	if recordID != f.graph.Record.ID {
		return nil, errors.New("not found")
	}
	g := *f.graph
	return &g, nil
}

func (f fakeLoader) FindTribunalMember(ctx context.Context, recordID, userID string) (*model.TribunalMember, error) {
	for _, m := range f.graph.Tribunal {
		if m.UserID == userID {
			m := m
			return &m, nil
		}
	}
	return nil, errors.New("not found")
}

func testGraph() *placeholder.Graph {
	rec := model.Concurso{
		Kind:          constant.RecordRegular,
		PositionCount: 1,
		CategoryCode:  "PAD",
		CategoryName:  "Profesor Adjunto",
		Dedication:    "Simple",
		Expediente:    "EXP-123/2024",
		Area:          "Matematica",
		Topics:        "Algebra|Analisis",
		CommitteeDate: date(2024, 2, 5),
		CouncilDate:   date(2024, 2, 20),
		VacancyReason: "Renuncia del titular.",
		Department:    model.Department{Name: "Matematica", HeadName: "Dra. Lopez", HeadTitle: "Directora"},
	}
	rec.ID = "rec-1"

	return &placeholder.Graph{
		Record: rec,
		Tribunal: []model.TribunalMember{
			{UserID: "u1", Surname: "Gomez", Name: "Ana", DNI: "111", Email: "ana@example.org", Role: constant.TribunalPresident, Group: constant.GroupAcademic},
			{UserID: "u2", Surname: "Perez", Name: "Luis", DNI: "222", Role: constant.TribunalTitular, Group: constant.GroupAcademic},
			{UserID: "u3", Surname: "Ruiz", Name: "Marta", DNI: "333", Role: constant.TribunalTitular, Group: constant.GroupStudent},
			{UserID: "u4", Surname: "Sosa", Name: "Juan", Role: constant.TribunalAlternate, Group: constant.GroupAcademic},
		},
		Applicants: []model.Applicant{
			{Surname: "Diaz", Name: "Eva", DNI: "444"},
		},
		Schedule: &model.Schedule{InterviewDate: date(2024, 3, 10), Place: "Aula 3"},
	}
}

func TestResolve(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC) }
	r := placeholder.NewResolver(fakeLoader{graph: testGraph()}, zap.NewNop().Sugar(), now)

	signer := "u1"
	set, err := r.Resolve(context.Background(), "rec-1", &signer)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	want := map[string]string{
		"cargo":                      "un (1) cargo regular de Profesor Adjunto con dedicación simple (PAD-1)",
		"cargo_descripcion":          "Profesor Adjunto con dedicación simple (PAD-1): un (1) cargo regular",
		"departamento":               "Matematica",
		"temario":                    "Topics\nAlgebra\nAnalisis",
		"presidente":                 "Gomez, Ana (ID 111)",
		"tribunal_titular":           "Perez, Luis (ID 222)\nRuiz, Marta (ID 333)",
		"tribunal_titular_academic":  "Perez, Luis (ID 222)",
		"tribunal_titular_student":   "Ruiz, Marta (ID 333)",
		"tribunal_alternate":         "Sosa, Juan",
		"tribunal_president_student": "",
		"postulantes":                "Diaz, Eva (ID 444)",
		"fecha_entrevista":           "10/03/2024",
		"hora_entrevista":            "10:30",
		"fecha_examen":               "",
		"lugar":                      "Aula 3",
		"fecha_hoy":                  "01/04/2024",
		"destinatario":               "Ana Gomez",
	}
	for k, v := range want {
		got, ok := set[k]
		if !ok {
			t.Errorf("key %q missing", k)
			continue
		}
		if got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}

	if _, ok := set["fecha_consejo"]; ok {
		t.Errorf("core set must not carry extension keys")
	}
}

func TestResolveDocumentExtension(t *testing.T) {
	r := placeholder.NewResolver(fakeLoader{graph: testGraph()}, zap.NewNop().Sugar(), nil)

	set, err := r.ResolveDocument(context.Background(), "rec-1")
	if err != nil {
		t.Fatalf("ResolveDocument: %v", err)
	}

	want := map[string]string{
		"fecha_comision":           "05/02/2024",
		"fecha_consejo":            "20/02/2024",
		"motivo_vacante":           "renuncia del titular",
		"jefe_departamento":        "Dra. Lopez",
		"jefe_departamento_titulo": "Directora",
	}
	for k, v := range want {
		if set[k] != v {
			t.Errorf("%s = %q, want %q", k, set[k], v)
		}
	}
	if _, ok := set["destinatario"]; ok {
		t.Errorf("destinatario must only exist when a signer is given")
	}
}

func TestResolveUnknownRecord(t *testing.T) {
	r := placeholder.NewResolver(fakeLoader{graph: testGraph()}, zap.NewNop().Sugar(), nil)
	if _, err := r.Resolve(context.Background(), "nope", nil); err == nil {
		t.Fatal("expected an error for an unknown record")
	}
}

func TestResolveRejectsUnknownDedication(t *testing.T) {
	for _, level := range []string{"", "Semi", "full-time"} {
		t.Run(level, func(t *testing.T) {
			g := testGraph()
			g.Record.Dedication = level
			r := placeholder.NewResolver(fakeLoader{graph: g}, zap.NewNop().Sugar(), nil)

			if _, err := r.Resolve(context.Background(), "rec-1", nil); !errors.Is(err, apperror.ErrInvalidRequest) {
				t.Errorf("Resolve err = %v, want INVALID_REQUEST", err)
			}
			if _, err := r.ResolveDocument(context.Background(), "rec-1"); !errors.Is(err, apperror.ErrInvalidRequest) {
				t.Errorf("ResolveDocument err = %v, want INVALID_REQUEST", err)
			}
		})
	}

	for _, level := range []string{"Simple", " parcial ", "EXCLUSIVE"} {
		if err := placeholder.ValidateDedication(level); err != nil {
			t.Errorf("ValidateDedication(%q) = %v", level, err)
		}
	}
}
