package repository

import (
	"context"

	"github.com/SeakMengs/AutoActa/internal/lifecycle"
	"github.com/SeakMengs/AutoActa/internal/model"
	"github.com/SeakMengs/AutoActa/internal/placeholder"
	"github.com/SeakMengs/AutoActa/internal/registry"
	"gorm.io/gorm"
)

// GormStore adapts the repositories to the engine ports. Reads outside a
// transaction use the pool; inside Transaction every call shares tx.
type GormStore struct {
	repo *Repository
	tx   *gorm.DB
}

var (
	_ lifecycle.Store         = (*GormStore)(nil)
	_ lifecycle.Tx            = (*GormStore)(nil)
	_ placeholder.GraphLoader = (*GormStore)(nil)
	_ registry.TemplateSource = (*TemplateConfigRepository)(nil)
)

func NewGormStore(repo *Repository) *GormStore {
	return &GormStore{repo: repo}
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx lifecycle.Tx) error) error {
	return s.repo.Record.withTx(s.repo.DB.WithContext(ctx), func(tx *gorm.DB) error {
		return fn(&GormStore{repo: s.repo, tx: tx})
	})
}

func (s *GormStore) GetRecord(ctx context.Context, recordID string) (*model.Concurso, error) {
	return s.repo.Record.GetByID(ctx, s.tx, recordID)
}

func (s *GormStore) GetDocument(ctx context.Context, documentID string) (*model.GeneratedDocument, error) {
	return s.repo.Document.GetByID(ctx, s.tx, documentID)
}

func (s *GormStore) ListDocuments(ctx context.Context, recordID string) ([]model.GeneratedDocument, error) {
	return s.repo.Document.ListByRecord(ctx, s.tx, recordID)
}

func (s *GormStore) ListSignatures(ctx context.Context, documentID string) ([]model.Signature, error) {
	return s.repo.Signature.ListByDocument(ctx, s.tx, documentID)
}

func (s *GormStore) ListTribunal(ctx context.Context, recordID string) ([]model.TribunalMember, error) {
	return s.repo.Tribunal.ListByRecord(ctx, s.tx, recordID)
}

func (s *GormStore) ListApplicants(ctx context.Context, recordID string) ([]model.Applicant, error) {
	return s.repo.Applicant.ListByRecord(ctx, s.tx, recordID)
}

func (s *GormStore) FindTribunalMember(ctx context.Context, recordID, userID string) (*model.TribunalMember, error) {
	return s.repo.Tribunal.FindMember(ctx, s.tx, recordID, userID)
}

func (s *GormStore) LoadGraph(ctx context.Context, recordID string) (*placeholder.Graph, error) {
	record, err := s.repo.Record.GetByID(ctx, s.tx, recordID)
	if err != nil {
		return nil, err
	}
	tribunal, err := s.repo.Tribunal.ListByRecord(ctx, s.tx, recordID)
	if err != nil {
		return nil, err
	}
	applicants, err := s.repo.Applicant.ListByRecord(ctx, s.tx, recordID)
	if err != nil {
		return nil, err
	}
	schedule, err := s.repo.Schedule.GetByRecord(ctx, s.tx, recordID)
	if err != nil {
		return nil, err
	}

	return &placeholder.Graph{
		Record:     *record,
		Tribunal:   tribunal,
		Applicants: applicants,
		Schedule:   schedule,
	}, nil
}

func (s *GormStore) LockRecord(ctx context.Context, recordID string) (*model.Concurso, error) {
	return s.repo.Record.LockByID(ctx, s.tx, recordID)
}

func (s *GormStore) SaveRecord(ctx context.Context, record *model.Concurso) error {
	return s.repo.Record.Save(ctx, s.tx, record)
}

func (s *GormStore) LockDocument(ctx context.Context, documentID string) (*model.GeneratedDocument, error) {
	return s.repo.Document.LockByID(ctx, s.tx, documentID)
}

func (s *GormStore) ExistsDocumentOfType(ctx context.Context, recordID, typeKey string) (bool, error) {
	return s.repo.Document.ExistsOfType(ctx, s.tx, recordID, typeKey)
}

func (s *GormStore) CreateDocument(ctx context.Context, doc *model.GeneratedDocument) error {
	_, err := s.repo.Document.Create(ctx, s.tx, doc)
	return err
}

func (s *GormStore) SaveDocument(ctx context.Context, doc *model.GeneratedDocument) error {
	return s.repo.Document.Update(ctx, s.tx, doc)
}

func (s *GormStore) DeleteDocument(ctx context.Context, documentID string) error {
	return s.repo.Document.Delete(ctx, s.tx, documentID)
}

func (s *GormStore) HasSignature(ctx context.Context, documentID, signerID string) (bool, error) {
	return s.repo.Signature.Exists(ctx, s.tx, documentID, signerID)
}

func (s *GormStore) CreateSignature(ctx context.Context, sig *model.Signature) error {
	_, err := s.repo.Signature.Create(ctx, s.tx, sig)
	return err
}

func (s *GormStore) DeleteSignatures(ctx context.Context, documentID string) (int64, error) {
	return s.repo.Signature.DeleteByDocument(ctx, s.tx, documentID)
}

func (s *GormStore) CountRequiredSigners(ctx context.Context, recordID string) (int, error) {
	return s.repo.Tribunal.CountRequired(ctx, s.tx, recordID)
}

func (s *GormStore) AppendLog(ctx context.Context, log *model.DocumentLog) error {
	_, err := s.repo.DocumentLog.Create(ctx, s.tx, log)
	return err
}
