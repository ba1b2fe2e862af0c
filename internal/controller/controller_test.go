package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appcontext "github.com/SeakMengs/AutoActa/internal/app_context"
	"github.com/SeakMengs/AutoActa/internal/auth"
	"github.com/SeakMengs/AutoActa/internal/blobstore"
	"github.com/SeakMengs/AutoActa/internal/config"
	"github.com/SeakMengs/AutoActa/internal/constant"
	"github.com/SeakMengs/AutoActa/internal/controller"
	"github.com/SeakMengs/AutoActa/internal/lifecycle"
	"github.com/SeakMengs/AutoActa/internal/middleware"
	"github.com/SeakMengs/AutoActa/internal/model"
	"github.com/SeakMengs/AutoActa/internal/placeholder"
	"github.com/SeakMengs/AutoActa/internal/registry"
	"github.com/SeakMengs/AutoActa/internal/repository/memory"
	"github.com/SeakMengs/AutoActa/internal/route"
	"github.com/SeakMengs/AutoActa/internal/util"
	"github.com/SeakMengs/AutoActa/pkg/pdfstamp"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	typeMinutes    = "ACTA_SORTEO"
	typeResolution = "RESOLUCION_TRIBUNAL"
	jwtSecret      = "controller-test-secret"
)

type textRenderer struct{}

func (textRenderer) RenderText(title string, paragraphs []string) ([]byte, error) {
	return []byte("%PDF-1.4\n" + title + "\n" + strings.Join(paragraphs, "\n")), nil
}

type textStamper struct{}

func (textStamper) AddSignatureStamp(pdf []byte, signer pdfstamp.Signer, ordinal int) ([]byte, error) {
	out := append([]byte(nil), pdf...)
	return append(out, fmt.Sprintf("\n[%d] %s", ordinal, pdfstamp.SignatureLabel(signer, "15/03/2024 10:00"))...), nil
}

func (textStamper) MergeWithCover(cover pdfstamp.Cover, docs []pdfstamp.LabeledPDF) ([]byte, []pdfstamp.FolioRange, error) {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n" + cover.Title)
	ranges := make([]pdfstamp.FolioRange, len(docs))
	for i, d := range docs {
		buf.Write(d.PDF)
		ranges[i] = pdfstamp.FolioRange{Label: d.Label, Start: i + 2, End: i + 2}
	}
	return buf.Bytes(), ranges, nil
}

func (textStamper) VerifySigned(pdf []byte, expected []pdfstamp.Signer) (bool, []pdfstamp.Signer, error) {
	missing := []pdfstamp.Signer{}
	for _, s := range expected {
		if !bytes.Contains(pdf, []byte("ID: "+s.ID)) {
			missing = append(missing, s)
		}
	}
	return len(missing) == 0, missing, nil
}

type nopNotifier struct{}

func (nopNotifier) SignatureRequest(ctx context.Context, req lifecycle.SignatureRequest) error {
	return nil
}

type response struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	router   *gin.Engine
	jwt      *auth.JWT
	store    *memory.Store
	recordID string
}

func init() {
	gin.SetMode(gin.TestMode)
	if err := util.RegisterValidators(); err != nil {
		panic(err)
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := zap.NewNop().Sugar()
	store := memory.New()
	blobs := blobstore.NewMemoryStore(textRenderer{}, logger)

	dept := store.AddDepartment(model.Department{Name: "Fisica"})
	record := store.AddRecord(model.Concurso{
		Kind:          constant.RecordRegular,
		State:         "INSCRIPCION",
		Expediente:    "EXP-9",
		PositionCount: 1,
		CategoryCode:  "PTI",
		CategoryName:  "Profesor Titular",
		Dedication:    "Exclusiva",
		DepartmentID:  dept.ID,
	})
	store.AddTribunalMember(model.TribunalMember{ConcursoID: record.ID, UserID: "u-a", Surname: "Alvarez", Name: "Ana", Role: constant.TribunalPresident, Group: constant.GroupAcademic})
	store.AddTribunalMember(model.TribunalMember{ConcursoID: record.ID, UserID: "u-b", Surname: "Benitez", Name: "Bruno", Role: constant.TribunalTitular, Group: constant.GroupAcademic})

	store.AddTemplate(model.TemplateConfig{
		TypeKey:            typeMinutes,
		DisplayName:        "Acta de sorteo",
		ConcursoVisibility: constant.VisibilityBoth,
		UniquePerRecord:    true,
		SignerCanSign:      true,
		VisibilityRules:    `{"PENDING_SIGNATURE": {"roles": ["PRESIDENT", "TITULAR"]}, "SIGNED": {}}`,
		TemplateFileID:     "templates/acta.txt",
		IsActive:           true,
	})
	store.AddTemplate(model.TemplateConfig{
		TypeKey:            typeResolution,
		DisplayName:        "Resolucion de tribunal",
		ConcursoVisibility: constant.VisibilityInterim,
		TemplateFileID:     "templates/acta.txt",
		IsActive:           true,
	})
	blobs.Put("templates/acta.txt", []byte("Acta de sorteo <<expediente>>\n\nSe sortearon los temas."))

	now := func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }
	reg := registry.New(store, logger)
	engine := lifecycle.NewEngine(lifecycle.Dependencies{
		Store:    store,
		Registry: reg,
		Resolver: placeholder.NewResolver(store, logger, now),
		Blobs:    blobs,
		Stamper:  textStamper{},
		Notifier: nopNotifier{},
		Logger:   logger,
		Now:      now,
	})

	jwtService := auth.NewJwt(config.AuthConfig{JWT_SECRET: jwtSecret}, logger)
	app := &appcontext.Application{
		Config:       &config.Config{},
		Logger:       logger,
		Engine:       engine,
		Registry:     reg,
		Blobs:        blobs,
		DocumentLogs: store,
		JWTService:   jwtService,
	}

	router := route.NewRouter(controller.NewController(app), middleware.NewMiddleware(app, nil))
	return &testServer{router: router, jwt: jwtService, store: store, recordID: record.ID}
}

func (s *testServer) token(t *testing.T, id string, role constant.ActorRole) string {
	t.Helper()
	token, err := s.jwt.GenerateAccessToken(auth.JWTPayload{ID: id, Email: id + "@example.org", Surname: "S-" + id, Name: "N-" + id, Role: role})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, response) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.serve(t, req)
}

func (s *testServer) serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, response) {
	t.Helper()

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp response
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, resp
}

func errorField(t *testing.T, resp response) string {
	t.Helper()
	var errs []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Errors, &errs); err != nil || len(errs) == 0 {
		t.Fatalf("decode errors %s: %v", resp.Errors, err)
	}
	return errs[0].Field
}

func documentOf(t *testing.T, resp response) model.GeneratedDocument {
	t.Helper()
	var data struct {
		Document model.GeneratedDocument `json:"document"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode document %s: %v", resp.Data, err)
	}
	return data.Document
}

func TestRequiresBearerToken(t *testing.T) {
	s := newTestServer(t)

	w, resp := s.do(t, http.MethodGet, "/api/v1/templates", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
	if resp.Success {
		t.Error("failed response must not report success")
	}

	w, _ = s.do(t, http.MethodGet, "/api/v1/templates", "not-a-jwt", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401 for a garbage token, got %d", w.Code)
	}
}

func TestListTemplates(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "admin-1", constant.ActorAdmin)

	tests := []struct {
		name  string
		query string
		code  int
		count int
	}{
		{"all active", "", http.StatusOK, 2},
		{"regular only", "?kind=regular", http.StatusOK, 1},
		{"interim only", "?kind=INTERIM", http.StatusOK, 2},
		{"unknown kind", "?kind=OTHER", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := s.do(t, http.MethodGet, "/api/v1/templates"+tt.query, token, nil)
			if w.Code != tt.code {
				t.Fatalf("want %d, got %d: %s", tt.code, w.Code, w.Body.String())
			}
			if tt.code != http.StatusOK {
				return
			}
			var data struct {
				Templates []model.TemplateConfig `json:"templates"`
			}
			if err := json.Unmarshal(resp.Data, &data); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(data.Templates) != tt.count {
				t.Errorf("want %d templates, got %d", tt.count, len(data.Templates))
			}
		})
	}
}

func TestComposeAndSignFlow(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(t, "admin-1", constant.ActorAdmin)
	ana := s.token(t, "u-a", constant.ActorSigner)
	bruno := s.token(t, "u-b", constant.ActorSigner)
	outsider := s.token(t, "u-x", constant.ActorSigner)

	composePath := "/api/v1/records/" + s.recordID + "/documents"

	w, _ := s.do(t, http.MethodPost, composePath, ana, gin.H{"typeKey": typeMinutes})
	if w.Code != http.StatusForbidden {
		t.Fatalf("signer compose: want 403, got %d", w.Code)
	}

	w, resp := s.do(t, http.MethodPost, composePath, admin, gin.H{"typeKey": typeMinutes})
	if w.Code != http.StatusOK {
		t.Fatalf("compose: want 200, got %d: %s", w.Code, w.Body.String())
	}
	doc := documentOf(t, resp)
	if doc.State != constant.DocumentDraft {
		t.Fatalf("want DRAFT, got %s", doc.State)
	}

	w, resp = s.do(t, http.MethodPost, composePath, admin, gin.H{"typeKey": typeMinutes})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate compose: want 409, got %d", w.Code)
	}
	if field := errorField(t, resp); field != "DUPLICATE_DOCUMENT" {
		t.Errorf("want DUPLICATE_DOCUMENT, got %s", field)
	}

	docPath := "/api/v1/documents/" + doc.ID

	w, _ = s.do(t, http.MethodPost, docPath+"/sign", ana, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("sign draft: want 409, got %d", w.Code)
	}

	w, resp = s.do(t, http.MethodPost, docPath+"/open", admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("open: want 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := documentOf(t, resp).State; got != constant.DocumentPendingSignature {
		t.Fatalf("want PENDING_SIGNATURE, got %s", got)
	}

	w, _ = s.do(t, http.MethodPost, docPath+"/sign", outsider, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("outsider sign: want 403, got %d", w.Code)
	}

	w, resp = s.do(t, http.MethodPost, docPath+"/sign", ana, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("sign: want 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := documentOf(t, resp).SignatureCount; got != 1 {
		t.Fatalf("want 1 signature, got %d", got)
	}

	w, resp = s.do(t, http.MethodPost, docPath+"/sign", ana, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("second sign: want 409, got %d", w.Code)
	}
	if field := errorField(t, resp); field != "ALREADY_SIGNED" {
		t.Errorf("want ALREADY_SIGNED, got %s", field)
	}

	w, resp = s.do(t, http.MethodPost, docPath+"/sign", bruno, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("quorum sign: want 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := documentOf(t, resp).State; got != constant.DocumentSigned {
		t.Fatalf("want SIGNED, got %s", got)
	}

	w, resp = s.do(t, http.MethodGet, docPath+"/verify", admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("verify: want 200, got %d", w.Code)
	}
	var verify lifecycle.VerifyResult
	if err := json.Unmarshal(resp.Data, &verify); err != nil {
		t.Fatalf("decode verify: %v", err)
	}
	if !verify.Valid || verify.Expected != 2 {
		t.Errorf("want valid result with 2 signatures, got %+v", verify)
	}

	w, _ = s.do(t, http.MethodGet, docPath, outsider, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("outsider get: want 403, got %d", w.Code)
	}
	w, _ = s.do(t, http.MethodGet, docPath+"/verify", outsider, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("outsider verify: want 403, got %d", w.Code)
	}

	w, resp = s.do(t, http.MethodGet, docPath, ana, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: want 200, got %d", w.Code)
	}
	var got struct {
		ViewURL string `json:"viewUrl"`
	}
	if err := json.Unmarshal(resp.Data, &got); err != nil {
		t.Fatalf("decode get: %v", err)
	}
	if got.ViewURL == "" {
		t.Error("want a view url for the signed file")
	}

	w, _ = s.do(t, http.MethodGet, "/api/v1/records/"+s.recordID+"/dossier", admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("dossier: want 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("want application/pdf, got %s", ct)
	}
	var folios []pdfstamp.FolioRange
	if err := json.Unmarshal([]byte(w.Header().Get("X-Dossier-Folios")), &folios); err != nil || len(folios) != 1 {
		t.Errorf("want one folio range, got %q (%v)", w.Header().Get("X-Dossier-Folios"), err)
	}
}

func TestComposeValidatesTypeKey(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(t, "admin-1", constant.ActorAdmin)
	composePath := "/api/v1/records/" + s.recordID + "/documents"

	tests := []struct {
		name    string
		typeKey string
		message string
	}{
		{"blank", "   ", "typeKey must not be empty"},
		{"too short", " AB ", "typeKey must be at least 3 non-whitespace characters"},
		{"too long", strings.Repeat("A", 101), "typeKey must be at most 100 non-whitespace characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := s.do(t, http.MethodPost, composePath, admin, gin.H{"typeKey": tt.typeKey})
			if w.Code != http.StatusBadRequest {
				t.Fatalf("want 400, got %d: %s", w.Code, w.Body.String())
			}
			if !strings.HasPrefix(resp.Message, tt.message) {
				t.Errorf("message = %q, want prefix %q", resp.Message, tt.message)
			}
		})
	}
}

func TestUnknownDocumentIsNotFound(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(t, "admin-1", constant.ActorAdmin)

	w, resp := s.do(t, http.MethodPost, "/api/v1/documents/missing/reset", admin, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", w.Code)
	}
	if field := errorField(t, resp); field != "NOT_FOUND" {
		t.Errorf("want NOT_FOUND, got %s", field)
	}
}

func TestDeleteDraft(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(t, "admin-1", constant.ActorAdmin)

	_, resp := s.do(t, http.MethodPost, "/api/v1/records/"+s.recordID+"/documents", admin, gin.H{"typeKey": typeMinutes})
	doc := documentOf(t, resp)

	w, _ := s.do(t, http.MethodDelete, "/api/v1/documents/"+doc.ID, admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: want 200, got %d: %s", w.Code, w.Body.String())
	}

	w, _ = s.do(t, http.MethodGet, "/api/v1/documents/"+doc.ID, admin, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get deleted: want 404, got %d", w.Code)
	}
}

func TestUploadSignedRequiresFile(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(t, "admin-1", constant.ActorAdmin)

	_, resp := s.do(t, http.MethodPost, "/api/v1/records/"+s.recordID+"/documents", admin, gin.H{"typeKey": typeMinutes})
	doc := documentOf(t, resp)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("note", "no file"); err != nil {
		t.Fatalf("WriteField: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/"+doc.ID+"/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+admin)
	w, _ := s.serve(t, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", w.Code)
	}
}

func TestDocumentLogsAdminOnly(t *testing.T) {
	s := newTestServer(t)
	path := "/api/v1/records/" + s.recordID + "/logs?page=1&pageSize=10"
	err := s.store.Transaction(context.Background(), func(tx lifecycle.Tx) error {
		return tx.AppendLog(context.Background(), &model.DocumentLog{ActorID: "admin-1", Action: constant.ActionCompose, ConcursoID: s.recordID})
	})
	if err != nil {
		t.Fatalf("seed log: %v", err)
	}

	w, _ := s.do(t, http.MethodGet, path, s.token(t, "u-a", constant.ActorSigner), nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("signer logs: want 403, got %d", w.Code)
	}

	w, resp := s.do(t, http.MethodGet, path, s.token(t, "admin-1", constant.ActorAdmin), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin logs: want 200, got %d", w.Code)
	}
	var data struct {
		Logs       []model.DocumentLog `json:"logs"`
		Total      int64               `json:"total"`
		TotalPages int                 `json:"totalPages"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Total != 1 || len(data.Logs) != 1 || data.TotalPages != 1 {
		t.Errorf("unexpected log page: %+v", data)
	}
}
