package lifecycle

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/SeakMengs/AutoActa/internal/apperror"
	"github.com/SeakMengs/AutoActa/internal/constant"
	"github.com/SeakMengs/AutoActa/internal/model"
	"github.com/SeakMengs/AutoActa/internal/placeholder"
	"github.com/SeakMengs/AutoActa/internal/util"
	"github.com/SeakMengs/AutoActa/pkg/pdfstamp"
)

type DossierResult struct {
	PDF    []byte                `json:"-"`
	Folios []pdfstamp.FolioRange `json:"folios"`
}

type downloadJob struct {
	index  int
	fileID string
}

type downloadResult struct {
	index   int
	content []byte
	err     error
}

// BuildDossier merges every document of the record, in creation order, behind a summary cover.
func (e *Engine) BuildDossier(ctx context.Context, recordID string, actor Actor) (DossierResult, error) {
	e.logger.Debugf("Build dossier for record: %s \n", recordID)

	if err := e.requirePermission(actor, constant.DocumentDossier); err != nil {
		return DossierResult{}, err
	}

	record, err := e.store.GetRecord(ctx, recordID)
	if err != nil {
		return DossierResult{}, err
	}
	docs, err := e.store.ListDocuments(ctx, recordID)
	if err != nil {
		return DossierResult{}, err
	}
	applicants, err := e.store.ListApplicants(ctx, recordID)
	if err != nil {
		return DossierResult{}, err
	}

	var (
		jobs   []downloadJob
		labels []string
	)
	for _, d := range docs {
		fileID, ok := currentFile(d)
		if !ok {
			continue
		}
		jobs = append(jobs, downloadJob{index: len(jobs), fileID: fileID})
		labels = append(labels, e.documentLabel(ctx, d))
	}
	if len(jobs) == 0 {
		return DossierResult{}, apperror.WrongState("record has no documents to assemble")
	}

	contents, err := e.downloadAll(ctx, jobs)
	if err != nil {
		return DossierResult{}, err
	}

	parts := make([]pdfstamp.LabeledPDF, len(jobs))
	for i := range jobs {
		parts[i] = pdfstamp.LabeledPDF{Label: labels[i], PDF: contents[i]}
	}

	merged, folios, err := e.stamper.MergeWithCover(e.cover(*record, applicants), parts)
	if err != nil {
		return DossierResult{}, fmt.Errorf("failed to assemble dossier: %w", err)
	}

	e.logger.Infow("dossier assembled", "recordId", recordID, "documents", len(parts), "bytes", len(merged))
	return DossierResult{PDF: merged, Folios: folios}, nil
}

// downloadAll fetches the files concurrently and returns them in job order.
func (e *Engine) downloadAll(ctx context.Context, jobs []downloadJob) ([][]byte, error) {
	workers := util.DetermineWorkers(len(jobs))

	jobChan := make(chan downloadJob, len(jobs))
	resultChan := make(chan downloadResult, len(jobs))
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobChan {
				content, err := e.download(ctx, job.fileID)
				resultChan <- downloadResult{index: job.index, content: content, err: err}
			}
		}()
	}

	for _, job := range jobs {
		jobChan <- job
	}
	close(jobChan)

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	contents := make([][]byte, len(jobs))
	var firstErr error
	for result := range resultChan {
		if result.err != nil {
			if firstErr == nil {
				firstErr = result.err
			}
			continue
		}
		contents[result.index] = result.content
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return contents, nil
}

func (e *Engine) documentLabel(ctx context.Context, doc model.GeneratedDocument) string {
	name := doc.TypeKey
	if cfg, err := e.registry.Get(ctx, doc.TypeKey); err == nil && cfg.DisplayName != "" {
		name = cfg.DisplayName
	}
	if doc.State == constant.DocumentSigned {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, doc.State)
}

func (e *Engine) cover(record model.Concurso, applicants []model.Applicant) pdfstamp.Cover {
	position := placeholder.Position{
		Count:        record.PositionCount,
		Kind:         record.Kind,
		CategoryCode: record.CategoryCode,
		CategoryName: record.CategoryName,
		Dedication:   record.Dedication,
	}

	lines := []string{"Cargo: " + position.LongDescription()}
	if record.Department.Name != "" {
		lines = append(lines, "Departamento: "+record.Department.Name)
	}
	if record.Area != "" {
		lines = append(lines, "Área: "+record.Area)
	}
	if record.State != "" {
		lines = append(lines, "Estado: "+record.State)
	}
	lines = append(lines, "Postulantes: "+strconv.Itoa(len(applicants)))
	for _, a := range applicants {
		lines = append(lines, "  "+placeholder.RosterLine(a.Surname, a.Name, a.DNI))
	}

	cover := pdfstamp.Cover{
		Title: "Concurso " + recordLabel(record),
		Lines: lines,
	}
	if e.publicURL != "" {
		cover.QRContent = e.publicURL + "/records/" + record.ID
	}
	return cover
}
