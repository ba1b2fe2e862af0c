// Package memory is an in-process implementation of the engine store, the template
// source and the placeholder graph loader. Transactions are serialized and roll back
// by restoring a snapshot.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SeakMengs/AutoActa/internal/apperror"
	"github.com/SeakMengs/AutoActa/internal/constant"
	"github.com/SeakMengs/AutoActa/internal/lifecycle"
	"github.com/SeakMengs/AutoActa/internal/model"
	"github.com/SeakMengs/AutoActa/internal/placeholder"
	"github.com/SeakMengs/AutoActa/internal/registry"
	"github.com/SeakMengs/AutoActa/internal/util"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type state struct {
	departments map[string]model.Department
	records     map[string]model.Concurso
	tribunal    []model.TribunalMember
	applicants  []model.Applicant
	schedules   map[string]model.Schedule
	documents   map[string]model.GeneratedDocument
	signatures  []model.Signature
	logs        []model.DocumentLog
}

func (s *state) clone() state {
	c := state{
		departments: make(map[string]model.Department, len(s.departments)),
		records:     make(map[string]model.Concurso, len(s.records)),
		tribunal:    append([]model.TribunalMember(nil), s.tribunal...),
		applicants:  append([]model.Applicant(nil), s.applicants...),
		schedules:   make(map[string]model.Schedule, len(s.schedules)),
		documents:   make(map[string]model.GeneratedDocument, len(s.documents)),
		signatures:  append([]model.Signature(nil), s.signatures...),
		logs:        append([]model.DocumentLog(nil), s.logs...),
	}
	for k, v := range s.departments {
		c.departments[k] = v
	}
	for k, v := range s.records {
		v.Substates = v.Substates.Clone()
		c.records[k] = v
	}
	for k, v := range s.schedules {
		c.schedules[k] = v
	}
	for k, v := range s.documents {
		c.documents[k] = cloneDocument(v)
	}
	return c
}

func cloneDocument(d model.GeneratedDocument) model.GeneratedDocument {
	if d.DraftFileRef != nil {
		v := *d.DraftFileRef
		d.DraftFileRef = &v
	}
	if d.FinalFileRef != nil {
		v := *d.FinalFileRef
		d.FinalFileRef = &v
	}
	d.DraftEffect.AddedSubstates = append([]string(nil), d.DraftEffect.AddedSubstates...)
	d.SignedEffect.AddedSubstates = append([]string(nil), d.SignedEffect.AddedSubstates...)
	return d
}

type Store struct {
	mu   sync.RWMutex
	data state
	seq  int

	// templates have their own lock so registry lookups work inside a transaction
	tmplMu    sync.RWMutex
	templates map[string]model.TemplateConfig

	now func() time.Time
}

func New() *Store {
	return &Store{
		data: state{
			departments: map[string]model.Department{},
			records:     map[string]model.Concurso{},
			schedules:   map[string]model.Schedule{},
			documents:   map[string]model.GeneratedDocument{},
		},
		templates: map[string]model.TemplateConfig{},
		now:       time.Now,
	}
}

var (
	_ lifecycle.Store         = (*Store)(nil)
	_ placeholder.GraphLoader = (*Store)(nil)
	_ registry.TemplateSource = (*Store)(nil)
)

// stamp assigns an id and a strictly increasing creation time.
func (s *Store) stamp(bm *model.BaseModel) {
	if bm.ID == "" {
		bm.ID = uuid.NewString()
	}
	s.seq++
	t := s.now().Add(time.Duration(s.seq) * time.Microsecond)
	bm.CreatedAt = &t
	bm.UpdatedAt = &t
}

func (s *Store) AddDepartment(d model.Department) model.Department {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamp(&d.BaseModel)
	s.data.departments[d.ID] = d
	return d
}

func (s *Store) AddRecord(r model.Concurso) model.Concurso {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamp(&r.BaseModel)
	if r.Substates == nil {
		r.Substates = model.Substates{}
	}
	if r.Department.ID != "" && r.DepartmentID == "" {
		r.DepartmentID = r.Department.ID
	}
	r.Department = model.Department{}
	s.data.records[r.ID] = r
	return s.data.withDepartment(r)
}

func (s *Store) AddTribunalMember(m model.TribunalMember) model.TribunalMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamp(&m.BaseModel)
	s.data.tribunal = append(s.data.tribunal, m)
	return m
}

func (s *Store) AddApplicant(a model.Applicant) model.Applicant {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamp(&a.BaseModel)
	s.data.applicants = append(s.data.applicants, a)
	return a
}

func (s *Store) SetSchedule(sc model.Schedule) model.Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamp(&sc.BaseModel)
	s.data.schedules[sc.ConcursoID] = sc
	return sc
}

func (s *Store) AddTemplate(cfg model.TemplateConfig) model.TemplateConfig {
	s.tmplMu.Lock()
	defer s.tmplMu.Unlock()
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	s.templates[cfg.TypeKey] = cfg
	return cfg
}

// Logs returns the audit rows of a document in append order.
func (s *Store) Logs(documentID string) []model.DocumentLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.DocumentLog
	for _, l := range s.data.logs {
		if l.DocumentID == documentID {
			out = append(out, l)
		}
	}
	return out
}

// ListByRecord pages the audit rows of a record, newest first. tx is ignored.
func (s *Store) ListByRecord(ctx context.Context, tx *gorm.DB, recordID string, page, pageSize uint) ([]model.DocumentLog, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rows []model.DocumentLog
	for i := len(s.data.logs) - 1; i >= 0; i-- {
		if s.data.logs[i].ConcursoID == recordID {
			rows = append(rows, s.data.logs[i])
		}
	}
	start, end := util.Paginate(len(rows), page, pageSize)
	return rows[start:end], int64(len(rows)), nil
}

func (s *Store) GetTemplateConfig(ctx context.Context, typeKey string) (*model.TemplateConfig, error) {
	s.tmplMu.RLock()
	defer s.tmplMu.RUnlock()
	cfg, ok := s.templates[typeKey]
	if !ok {
		return nil, apperror.NotFound("template %s not found", typeKey)
	}
	return &cfg, nil
}

func (s *Store) ListTemplateConfigs(ctx context.Context, activeOnly bool) ([]model.TemplateConfig, error) {
	s.tmplMu.RLock()
	defer s.tmplMu.RUnlock()
	out := make([]model.TemplateConfig, 0, len(s.templates))
	for _, cfg := range s.templates {
		if activeOnly && !cfg.IsActive {
			continue
		}
		out = append(out, cfg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TypeKey < out[j].TypeKey })
	return out, nil
}

func (s *Store) GetRecord(ctx context.Context, recordID string) (*model.Concurso, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.getRecord(recordID)
}

func (s *Store) GetDocument(ctx context.Context, documentID string) (*model.GeneratedDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.getDocument(documentID)
}

func (s *Store) ListDocuments(ctx context.Context, recordID string) ([]model.GeneratedDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.listDocuments(recordID), nil
}

func (s *Store) ListSignatures(ctx context.Context, documentID string) ([]model.Signature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.listSignatures(documentID), nil
}

func (s *Store) ListTribunal(ctx context.Context, recordID string) ([]model.TribunalMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.listTribunal(recordID), nil
}

func (s *Store) ListApplicants(ctx context.Context, recordID string) ([]model.Applicant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.listApplicants(recordID), nil
}

func (s *Store) FindTribunalMember(ctx context.Context, recordID, userID string) (*model.TribunalMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.findTribunalMember(recordID, userID)
}

func (s *Store) LoadGraph(ctx context.Context, recordID string) (*placeholder.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, err := s.data.getRecord(recordID)
	if err != nil {
		return nil, err
	}
	g := &placeholder.Graph{
		Record:     *r,
		Tribunal:   s.data.listTribunal(recordID),
		Applicants: s.data.listApplicants(recordID),
	}
	if sc, ok := s.data.schedules[recordID]; ok {
		g.Schedule = &sc
	}
	return g, nil
}

// Transaction holds the write lock for the whole of fn, which also makes every
// Lock* call a real exclusive lock.
func (s *Store) Transaction(ctx context.Context, fn func(tx lifecycle.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(&tx{s: s}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func (st *state) withDepartment(r model.Concurso) model.Concurso {
	r.Substates = r.Substates.Clone()
	r.Department = st.departments[r.DepartmentID]
	return r
}

func (st *state) getRecord(id string) (*model.Concurso, error) {
	r, ok := st.records[id]
	if !ok {
		return nil, apperror.NotFound("record %s not found", id)
	}
	r = st.withDepartment(r)
	return &r, nil
}

func (st *state) getDocument(id string) (*model.GeneratedDocument, error) {
	d, ok := st.documents[id]
	if !ok {
		return nil, apperror.NotFound("document %s not found", id)
	}
	d = cloneDocument(d)
	return &d, nil
}

func (st *state) listDocuments(recordID string) []model.GeneratedDocument {
	out := []model.GeneratedDocument{}
	for _, d := range st.documents {
		if d.ConcursoID == recordID {
			out = append(out, cloneDocument(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(*out[j].CreatedAt) })
	return out
}

func (st *state) listSignatures(documentID string) []model.Signature {
	out := []model.Signature{}
	for _, sig := range st.signatures {
		if sig.DocumentID == documentID {
			out = append(out, sig)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ordinal < out[j].Ordinal })
	return out
}

func (st *state) listTribunal(recordID string) []model.TribunalMember {
	out := []model.TribunalMember{}
	for _, m := range st.tribunal {
		if m.ConcursoID == recordID {
			out = append(out, m)
		}
	}
	return out
}

func (st *state) listApplicants(recordID string) []model.Applicant {
	out := []model.Applicant{}
	for _, a := range st.applicants {
		if a.ConcursoID == recordID {
			out = append(out, a)
		}
	}
	return out
}

func (st *state) findTribunalMember(recordID, userID string) (*model.TribunalMember, error) {
	for _, m := range st.tribunal {
		if m.ConcursoID == recordID && m.UserID == userID {
			return &m, nil
		}
	}
	return nil, apperror.NotFound("tribunal member %s not found", userID)
}

// tx reads and writes the store state directly; the store write lock is held.
type tx struct {
	s *Store
}

func (t *tx) GetRecord(ctx context.Context, recordID string) (*model.Concurso, error) {
	return t.s.data.getRecord(recordID)
}

func (t *tx) GetDocument(ctx context.Context, documentID string) (*model.GeneratedDocument, error) {
	return t.s.data.getDocument(documentID)
}

func (t *tx) ListDocuments(ctx context.Context, recordID string) ([]model.GeneratedDocument, error) {
	return t.s.data.listDocuments(recordID), nil
}

func (t *tx) ListSignatures(ctx context.Context, documentID string) ([]model.Signature, error) {
	return t.s.data.listSignatures(documentID), nil
}

func (t *tx) ListTribunal(ctx context.Context, recordID string) ([]model.TribunalMember, error) {
	return t.s.data.listTribunal(recordID), nil
}

func (t *tx) ListApplicants(ctx context.Context, recordID string) ([]model.Applicant, error) {
	return t.s.data.listApplicants(recordID), nil
}

func (t *tx) FindTribunalMember(ctx context.Context, recordID, userID string) (*model.TribunalMember, error) {
	return t.s.data.findTribunalMember(recordID, userID)
}

func (t *tx) LockRecord(ctx context.Context, recordID string) (*model.Concurso, error) {
	return t.s.data.getRecord(recordID)
}

func (t *tx) SaveRecord(ctx context.Context, record *model.Concurso) error {
	if _, ok := t.s.data.records[record.ID]; !ok {
		return apperror.NotFound("record %s not found", record.ID)
	}
	r := *record
	r.Substates = r.Substates.Clone()
	r.Department = model.Department{}
	t.s.data.records[r.ID] = r
	return nil
}

func (t *tx) LockDocument(ctx context.Context, documentID string) (*model.GeneratedDocument, error) {
	return t.s.data.getDocument(documentID)
}

func (t *tx) ExistsDocumentOfType(ctx context.Context, recordID, typeKey string) (bool, error) {
	for _, d := range t.s.data.documents {
		if d.ConcursoID == recordID && d.TypeKey == typeKey {
			return true, nil
		}
	}
	return false, nil
}

func (t *tx) CreateDocument(ctx context.Context, doc *model.GeneratedDocument) error {
	if _, ok := t.s.data.records[doc.ConcursoID]; !ok {
		return apperror.NotFound("record %s not found", doc.ConcursoID)
	}
	t.s.stamp(&doc.BaseModel)
	t.s.data.documents[doc.ID] = cloneDocument(*doc)
	return nil
}

func (t *tx) SaveDocument(ctx context.Context, doc *model.GeneratedDocument) error {
	if _, ok := t.s.data.documents[doc.ID]; !ok {
		return apperror.NotFound("document %s not found", doc.ID)
	}
	t.s.data.documents[doc.ID] = cloneDocument(*doc)
	return nil
}

func (t *tx) DeleteDocument(ctx context.Context, documentID string) error {
	if _, ok := t.s.data.documents[documentID]; !ok {
		return apperror.NotFound("document %s not found", documentID)
	}
	delete(t.s.data.documents, documentID)
	return nil
}

func (t *tx) HasSignature(ctx context.Context, documentID, signerID string) (bool, error) {
	for _, sig := range t.s.data.signatures {
		if sig.DocumentID == documentID && sig.SignerID == signerID {
			return true, nil
		}
	}
	return false, nil
}

func (t *tx) CreateSignature(ctx context.Context, sig *model.Signature) error {
	if ok, _ := t.HasSignature(ctx, sig.DocumentID, sig.SignerID); ok {
		return apperror.AlreadySigned("signer %s already signed", sig.SignerID)
	}
	t.s.stamp(&sig.BaseModel)
	t.s.data.signatures = append(t.s.data.signatures, *sig)
	return nil
}

func (t *tx) DeleteSignatures(ctx context.Context, documentID string) (int64, error) {
	kept := t.s.data.signatures[:0:0]
	var n int64
	for _, sig := range t.s.data.signatures {
		if sig.DocumentID == documentID {
			n++
			continue
		}
		kept = append(kept, sig)
	}
	t.s.data.signatures = kept
	return n, nil
}

func (t *tx) CountRequiredSigners(ctx context.Context, recordID string) (int, error) {
	n := 0
	for _, m := range t.s.data.tribunal {
		if m.ConcursoID == recordID && m.Role != constant.TribunalAlternate {
			n++
		}
	}
	return n, nil
}

func (t *tx) AppendLog(ctx context.Context, log *model.DocumentLog) error {
	t.s.stamp(&log.BaseModel)
	t.s.data.logs = append(t.s.data.logs, *log)
	return nil
}
