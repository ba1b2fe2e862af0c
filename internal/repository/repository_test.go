package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SeakMengs/AutoActa/internal/apperror"
	"github.com/SeakMengs/AutoActa/internal/lifecycle"
	"github.com/SeakMengs/AutoActa/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}

	return NewRepository(gdb, zap.NewNop().Sugar()), mock
}

func TestRecordLockByIDNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT \* FROM "concursos" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Record.LockByID(context.Background(), nil, "c-1")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("LockByID: want NOT_FOUND, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestRecordLockByIDReturnsRow(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT \* FROM "concursos" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "state"}).AddRow("c-1", "INSCRIPCION"))

	record, err := repo.Record.LockByID(context.Background(), nil, "c-1")
	if err != nil {
		t.Fatalf("LockByID: %v", err)
	}
	if record.ID != "c-1" || record.State != "INSCRIPCION" {
		t.Fatalf("unexpected record: %+v", record)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestDocumentUpdateWithoutRowIsNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`UPDATE "generated_documents" SET .* WHERE id = `).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Document.Update(context.Background(), nil, &model.GeneratedDocument{
		BaseModel: model.BaseModel{ID: "d-1"},
		State:     "DRAFT",
	})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Update: want NOT_FOUND, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestDocumentExistsOfType(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "generated_documents" WHERE concurso_id = $1 AND type_key = $2`)).
		WithArgs("c-1", "ACTA_SORTEO").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.Document.ExistsOfType(context.Background(), nil, "c-1", "ACTA_SORTEO")
	if err != nil {
		t.Fatalf("ExistsOfType: %v", err)
	}
	if !exists {
		t.Fatal("expected document to exist")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestSignatureCreateDuplicateIsAlreadySigned(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`INSERT INTO "signatures"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_signature_document_signer"})

	_, err := repo.Signature.Create(context.Background(), nil, &model.Signature{
		DocumentID: "d-1",
		SignerID:   "u-a",
		Ordinal:    0,
	})
	if !errors.Is(err, apperror.ErrAlreadySigned) {
		t.Fatalf("Create: want ALREADY_SIGNED, got %v", err)
	}
}

func TestSignatureDeleteByDocumentReturnsRows(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "signatures" WHERE document_id = $1`)).
		WithArgs("d-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.Signature.DeleteByDocument(context.Background(), nil, "d-1")
	if err != nil {
		t.Fatalf("DeleteByDocument: %v", err)
	}
	if n != 3 {
		t.Fatalf("want 3 deleted rows, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestTribunalCountRequiredSkipsAlternates(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "tribunal_members" WHERE concurso_id = $1 AND role <> $2`)).
		WithArgs("c-1", "ALTERNATE").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.Tribunal.CountRequired(context.Background(), nil, "c-1")
	if err != nil {
		t.Fatalf("CountRequired: %v", err)
	}
	if n != 3 {
		t.Fatalf("want 3 required signers, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestScheduleMissingIsNil(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT \* FROM "schedules" WHERE concurso_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	schedule, err := repo.Schedule.GetByRecord(context.Background(), nil, "c-1")
	if err != nil {
		t.Fatalf("GetByRecord: %v", err)
	}
	if schedule != nil {
		t.Fatalf("want nil schedule, got %+v", schedule)
	}
}

func TestGormStoreTransactionRollsBackOnError(t *testing.T) {
	repo, mock := newMockRepository(t)
	store := NewGormStore(repo)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "generated_documents" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "state"}).AddRow("d-1", "PENDING"))
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := store.Transaction(context.Background(), func(tx lifecycle.Tx) error {
		doc, err := tx.LockDocument(context.Background(), "d-1")
		if err != nil {
			return err
		}
		if doc.State != "PENDING" {
			t.Errorf("unexpected state %s", doc.State)
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Transaction: want boom, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
