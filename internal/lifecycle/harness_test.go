package lifecycle_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SeakMengs/AutoActa/internal/blobstore"
	"github.com/SeakMengs/AutoActa/internal/constant"
	"github.com/SeakMengs/AutoActa/internal/lifecycle"
	"github.com/SeakMengs/AutoActa/internal/model"
	"github.com/SeakMengs/AutoActa/internal/placeholder"
	"github.com/SeakMengs/AutoActa/internal/registry"
	"github.com/SeakMengs/AutoActa/internal/repository/memory"
	"github.com/SeakMengs/AutoActa/pkg/pdfstamp"
	"go.uber.org/zap"
)

const (
	typeResolution = "RESOLUCION_TRIBUNAL"
	typeMinutes    = "ACTA_SORTEO"
	typeInterim    = "RESOLUCION_INTERINO"

	resolutionTemplate = "templates/resolucion.txt"
	minutesTemplate    = "templates/acta.txt"
	publicURL          = "https://actas.example.org"
)

type textRenderer struct{}

func (textRenderer) RenderText(title string, paragraphs []string) ([]byte, error) {
	return []byte("%PDF-1.4\n" + title + "\n" + strings.Join(paragraphs, "\n")), nil
}

// fakeStamper appends stamp labels as plain text so tests can read them back.
type fakeStamper struct {
	mu    sync.Mutex
	cover pdfstamp.Cover
	parts []pdfstamp.LabeledPDF
}

func (f *fakeStamper) AddSignatureStamp(pdf []byte, signer pdfstamp.Signer, ordinal int) ([]byte, error) {
	out := append([]byte(nil), pdf...)
	return append(out, fmt.Sprintf("\n[%d] %s", ordinal, pdfstamp.SignatureLabel(signer, "15/03/2024 10:00"))...), nil
}

func (f *fakeStamper) MergeWithCover(cover pdfstamp.Cover, docs []pdfstamp.LabeledPDF) ([]byte, []pdfstamp.FolioRange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cover = cover
	f.parts = docs

	var buf bytes.Buffer
	ranges := make([]pdfstamp.FolioRange, len(docs))
	for i, d := range docs {
		buf.Write(d.PDF)
		ranges[i] = pdfstamp.FolioRange{Label: d.Label, Start: i + 2, End: i + 2}
	}
	return buf.Bytes(), ranges, nil
}

func (f *fakeStamper) VerifySigned(pdf []byte, expected []pdfstamp.Signer) (bool, []pdfstamp.Signer, error) {
	missing := []pdfstamp.Signer{}
	for _, s := range expected {
		if !bytes.Contains(pdf, []byte("Signed by: "+s.Surname)) || !bytes.Contains(pdf, []byte("ID: "+s.ID)) {
			missing = append(missing, s)
		}
	}
	return len(missing) == 0, missing, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	err      error
	requests []lifecycle.SignatureRequest
}

func (f *fakeNotifier) SignatureRequest(ctx context.Context, req lifecycle.SignatureRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.requests = append(f.requests, req)
	return nil
}

type fixture struct {
	ctx      context.Context
	engine   *lifecycle.Engine
	store    *memory.Store
	blobs    *blobstore.MemoryStore
	stamper  *fakeStamper
	notifier *fakeNotifier
	record   model.Concurso

	admin lifecycle.Actor
	// president, titular, student titular, alternate
	a, b, c, d lifecycle.Actor
	outsider   lifecycle.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := zap.NewNop().Sugar()
	store := memory.New()
	blobs := blobstore.NewMemoryStore(textRenderer{}, logger)

	dept := store.AddDepartment(model.Department{Name: "Matematica", HeadName: "Dra. Ruiz", HeadTitle: "Directora"})
	record := store.AddRecord(model.Concurso{
		Kind:          constant.RecordRegular,
		State:         "INSCRIPCION",
		Expediente:    "EXP-1",
		PositionCount: 1,
		CategoryCode:  "PAD",
		CategoryName:  "Profesor Adjunto",
		Dedication:    "Simple",
		Area:          "Algebra",
		DepartmentID:  dept.ID,
	})

	members := []struct {
		user, surname, name string
		role                constant.TribunalRole
		group               constant.TribunalGroup
		upload              bool
	}{
		{"u-a", "Alvarez", "Ana", constant.TribunalPresident, constant.GroupAcademic, false},
		{"u-b", "Benitez", "Bruno", constant.TribunalTitular, constant.GroupAcademic, true},
		{"u-c", "Castro", "Carla", constant.TribunalTitular, constant.GroupStudent, false},
		{"u-d", "Diaz", "Dario", constant.TribunalAlternate, constant.GroupAcademic, false},
	}
	actors := make([]lifecycle.Actor, len(members))
	for i, m := range members {
		store.AddTribunalMember(model.TribunalMember{
			ConcursoID:      record.ID,
			UserID:          m.user,
			Surname:         m.surname,
			Name:            m.name,
			DNI:             fmt.Sprintf("2000000%d", i),
			Email:           m.user + "@example.org",
			Role:            m.role,
			Group:           m.group,
			CanUploadSigned: m.upload,
		})
		actors[i] = lifecycle.Actor{ID: m.user, Email: m.user + "@example.org", Surname: m.surname, Name: m.name, Role: constant.ActorSigner}
	}
	store.AddApplicant(model.Applicant{ConcursoID: record.ID, Surname: "Perez", Name: "Laura", DNI: "30111222"})
	interview := time.Date(2024, 4, 2, 14, 30, 0, 0, time.UTC)
	store.SetSchedule(model.Schedule{ConcursoID: record.ID, InterviewDate: &interview, Place: "Aula Magna"})

	store.AddTemplate(model.TemplateConfig{
		TypeKey:                  typeResolution,
		DisplayName:              "Resolucion de tribunal",
		ConcursoVisibility:       constant.VisibilityBoth,
		UniquePerRecord:          true,
		SignerCanUploadSigned:    true,
		AdminCanSign:             true,
		AdminCanSendForSignature: true,
		VisibilityRules:          `{"SIGNED": {}}`,
		OnDraftCreated:           model.Effect{NewRecordState: "TRIBUNAL_DESIGNADO"},
		OnFullySigned:            model.Effect{NewRecordSubstates: model.NewSubstates("resolucion_tribunal")},
		TemplateFileID:           resolutionTemplate,
		IsActive:                 true,
	})
	store.AddTemplate(model.TemplateConfig{
		TypeKey:            typeMinutes,
		DisplayName:        "Acta de sorteo",
		ConcursoVisibility: constant.VisibilityBoth,
		SignerCanSign:      true,
		VisibilityRules:    `{"PENDING_SIGNATURE": {"roles": ["PRESIDENT", "TITULAR"]}, "SIGNED": {}}`,
		OnFullySigned:      model.Effect{NewRecordState: "SORTEO_REALIZADO", NewRecordSubstates: model.NewSubstates("acta_sorteo")},
		TemplateFileID:     minutesTemplate,
		IsActive:           true,
	})
	store.AddTemplate(model.TemplateConfig{
		TypeKey:            typeInterim,
		DisplayName:        "Resolucion de interinato",
		ConcursoVisibility: constant.VisibilityInterim,
		TemplateFileID:     resolutionTemplate,
		IsActive:           true,
	})

	blobs.Put(resolutionTemplate, []byte("Resolucion <<expediente>>\n\nVisto el llamado a <<cargo>>.\n\n<<considerandos>>"))
	blobs.Put(minutesTemplate, []byte("Acta de sorteo <<expediente>>\n\nSe sortearon los temas."))

	now := func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }
	stamper := &fakeStamper{}
	notifier := &fakeNotifier{}
	engine := lifecycle.NewEngine(lifecycle.Dependencies{
		Store:     store,
		Registry:  registry.New(store, logger),
		Resolver:  placeholder.NewResolver(store, logger, now),
		Blobs:     blobs,
		Stamper:   stamper,
		Notifier:  notifier,
		Logger:    logger,
		PublicURL: publicURL,
		Now:       now,
	})

	return &fixture{
		ctx:      context.Background(),
		engine:   engine,
		store:    store,
		blobs:    blobs,
		stamper:  stamper,
		notifier: notifier,
		record:   record,
		admin:    lifecycle.Actor{ID: "admin-1", Email: "admin@example.org", Surname: "Secretaria", Name: "Academica", Role: constant.ActorAdmin},
		a:        actors[0],
		b:        actors[1],
		c:        actors[2],
		d:        actors[3],
		outsider: lifecycle.Actor{ID: "u-x", Surname: "Ajeno", Name: "Xavier", Role: constant.ActorSigner},
	}
}

func (f *fixture) compose(t *testing.T, typeKey string, considerandos ...string) model.GeneratedDocument {
	t.Helper()
	res, err := f.engine.Compose(f.ctx, lifecycle.ComposeRequest{
		RecordID:      f.record.ID,
		TypeKey:       typeKey,
		Considerandos: considerandos,
		Actor:         f.admin,
	})
	if err != nil {
		t.Fatalf("Compose(%s): %v", typeKey, err)
	}
	return res.Document
}

// openMinutes composes the minutes and opens them for in-app signature.
func (f *fixture) openMinutes(t *testing.T) model.GeneratedDocument {
	t.Helper()
	doc := f.compose(t, typeMinutes)
	opened, err := f.engine.OpenForSignature(f.ctx, doc.ID, f.admin)
	if err != nil {
		t.Fatalf("OpenForSignature: %v", err)
	}
	return opened
}

func (f *fixture) currentRecord(t *testing.T) *model.Concurso {
	t.Helper()
	r, err := f.store.GetRecord(f.ctx, f.record.ID)
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	return r
}

func (f *fixture) document(t *testing.T, id string) *model.GeneratedDocument {
	t.Helper()
	d, err := f.store.GetDocument(f.ctx, id)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	return d
}

func (f *fixture) file(t *testing.T, id *string) string {
	t.Helper()
	if id == nil {
		t.Fatal("file reference is nil")
	}
	b, err := f.blobs.Download(f.ctx, *id)
	if err != nil {
		t.Fatalf("Download(%s): %v", *id, err)
	}
	return string(b)
}

// assertQuorum checks that the counter matches the stored signature rows.
func (f *fixture) assertQuorum(t *testing.T, id string) {
	t.Helper()
	doc := f.document(t, id)
	sigs, err := f.store.ListSignatures(f.ctx, id)
	if err != nil {
		t.Fatalf("ListSignatures: %v", err)
	}
	if doc.SignatureCount != len(sigs) {
		t.Errorf("signatureCount = %d, signature rows = %d", doc.SignatureCount, len(sigs))
	}
}
