// Package blobstore persists document files in an object store addressed by opaque ids.
package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/SeakMengs/AutoActa/internal/placeholder"
	"github.com/SeakMengs/AutoActa/internal/util"
	"go.uber.org/zap"
)

var ErrObjectNotFound = errors.New("object not found")

type FileRef struct {
	ID      string `json:"id"`
	ViewURL string `json:"viewUrl"`
}

// Store is the file and folder surface the document engine depends on.
type Store interface {
	CreateFromTemplate(ctx context.Context, templateID string, data map[string]string, folderID, fileName string) (FileRef, error)
	Upload(ctx context.Context, folderID, fileName string, content []byte) (FileRef, error)
	Overwrite(ctx context.Context, fileID string, content []byte) (FileRef, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
	Delete(ctx context.Context, fileID string) error
	CreateFolder(ctx context.Context, name string) (string, error)
	RenameFolder(ctx context.Context, folderID, name string) error
	DeleteFolder(ctx context.Context, folderID string) error
	ViewURL(ctx context.Context, fileID string) (string, error)
}

// Renderer turns a title and paragraphs into a PDF.
type Renderer interface {
	RenderText(title string, paragraphs []string) ([]byte, error)
}

// backend is the minimal object API each provider implements.
type backend interface {
	put(ctx context.Context, key string, content []byte, contentType string) error
	get(ctx context.Context, key string) ([]byte, error)
	remove(ctx context.Context, key string) error
	list(ctx context.Context, prefix string) ([]string, error)
	presign(ctx context.Context, key string) (string, error)
}

const (
	folderMarker = ".folder"
	idLength     = 16
)

// ObjectStore implements Store on top of a flat key space: folders are key prefixes
// holding a marker object with their display name.
type ObjectStore struct {
	backend  backend
	renderer Renderer
	prefix   string
	logger   *zap.SugaredLogger
}

func newObjectStore(b backend, renderer Renderer, prefix string, logger *zap.SugaredLogger) *ObjectStore {
	return &ObjectStore{backend: b, renderer: renderer, prefix: strings.Trim(prefix, "/"), logger: logger}
}

func (s *ObjectStore) key(id string) string {
	if s.prefix == "" {
		return id
	}
	return s.prefix + "/" + id
}

func validID(id string) error {
	if id == "" || strings.Contains(id, "..") || strings.HasPrefix(id, "/") {
		return fmt.Errorf("invalid object id %q", id)
	}
	return nil
}

func (s *ObjectStore) CreateFolder(ctx context.Context, name string) (string, error) {
	s.logger.Debugf("Create folder: %s \n", name)

	id, err := util.GenerateObjectID(idLength)
	if err != nil {
		return "", err
	}
	if err := s.backend.put(ctx, s.key(path.Join(id, folderMarker)), []byte(name), "text/plain"); err != nil {
		return "", fmt.Errorf("failed to create folder: %w", err)
	}
	return id, nil
}

func (s *ObjectStore) RenameFolder(ctx context.Context, folderID, name string) error {
	s.logger.Debugf("Rename folder %s to: %s \n", folderID, name)

	if err := validID(folderID); err != nil {
		return err
	}
	if err := s.backend.put(ctx, s.key(path.Join(folderID, folderMarker)), []byte(name), "text/plain"); err != nil {
		return fmt.Errorf("failed to rename folder: %w", err)
	}
	return nil
}

// FolderName reads the display name of a folder.
func (s *ObjectStore) FolderName(ctx context.Context, folderID string) (string, error) {
	if err := validID(folderID); err != nil {
		return "", err
	}
	b, err := s.backend.get(ctx, s.key(path.Join(folderID, folderMarker)))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *ObjectStore) DeleteFolder(ctx context.Context, folderID string) error {
	s.logger.Debugf("Delete folder: %s \n", folderID)

	if err := validID(folderID); err != nil {
		return err
	}
	keys, err := s.backend.list(ctx, s.key(folderID)+"/")
	if err != nil {
		return fmt.Errorf("failed to list folder: %w", err)
	}
	for _, k := range keys {
		if err := s.backend.remove(ctx, k); err != nil {
			return fmt.Errorf("failed to delete %s: %w", k, err)
		}
	}
	return nil
}

func (s *ObjectStore) Upload(ctx context.Context, folderID, fileName string, content []byte) (FileRef, error) {
	s.logger.Debugf("Upload %s to folder: %s \n", fileName, folderID)

	if err := validID(folderID); err != nil {
		return FileRef{}, err
	}
	unique, err := util.GenerateObjectID(idLength)
	if err != nil {
		return FileRef{}, err
	}

	name := util.SanitizeFileName(fileName)
	id := path.Join(folderID, unique+"-"+name)
	if err := s.backend.put(ctx, s.key(id), content, util.DetectContentType(name, content)); err != nil {
		return FileRef{}, fmt.Errorf("failed to upload file: %w", err)
	}
	return s.ref(ctx, id)
}

// Overwrite replaces the content of an existing file. The id does not change.
func (s *ObjectStore) Overwrite(ctx context.Context, fileID string, content []byte) (FileRef, error) {
	s.logger.Debugf("Overwrite file: %s \n", fileID)

	if err := validID(fileID); err != nil {
		return FileRef{}, err
	}
	if err := s.backend.put(ctx, s.key(fileID), content, util.DetectContentType(fileID, content)); err != nil {
		return FileRef{}, fmt.Errorf("failed to overwrite file: %w", err)
	}
	return s.ref(ctx, fileID)
}

func (s *ObjectStore) Download(ctx context.Context, fileID string) ([]byte, error) {
	s.logger.Debugf("Download file: %s \n", fileID)

	if err := validID(fileID); err != nil {
		return nil, err
	}
	b, err := s.backend.get(ctx, s.key(fileID))
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	return b, nil
}

func (s *ObjectStore) Delete(ctx context.Context, fileID string) error {
	s.logger.Debugf("Delete file: %s \n", fileID)

	if err := validID(fileID); err != nil {
		return err
	}
	if err := s.backend.remove(ctx, s.key(fileID)); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", fileID, err)
	}
	return nil
}

func (s *ObjectStore) ViewURL(ctx context.Context, fileID string) (string, error) {
	if err := validID(fileID); err != nil {
		return "", err
	}
	return s.backend.presign(ctx, s.key(fileID))
}

func (s *ObjectStore) ref(ctx context.Context, id string) (FileRef, error) {
	url, err := s.backend.presign(ctx, s.key(id))
	if err != nil {
		return FileRef{}, fmt.Errorf("failed to sign view url: %w", err)
	}
	return FileRef{ID: id, ViewURL: url}, nil
}

// CreateFromTemplate fills a template file with data and stores the result as a PDF.
// Text templates use their first line as title and blank lines between paragraphs.
// PDF templates are copied as they are.
func (s *ObjectStore) CreateFromTemplate(ctx context.Context, templateID string, data map[string]string, folderID, fileName string) (FileRef, error) {
	s.logger.Debugf("Create %s from template: %s \n", fileName, templateID)

	tpl, err := s.Download(ctx, templateID)
	if err != nil {
		return FileRef{}, err
	}

	var pdf []byte
	if bytes.HasPrefix(tpl, []byte("%PDF-")) {
		pdf = tpl
	} else {
		title, paragraphs := SplitTemplate(placeholder.Substitute(string(tpl), placeholder.Set(data)))
		pdf, err = s.renderer.RenderText(title, paragraphs)
		if err != nil {
			return FileRef{}, fmt.Errorf("failed to render %s: %w", fileName, err)
		}
	}

	if !strings.HasSuffix(strings.ToLower(fileName), ".pdf") {
		fileName += ".pdf"
	}
	return s.Upload(ctx, folderID, fileName, pdf)
}

// SplitTemplate returns the first non-blank line as title and the blank-line separated blocks after it.
func SplitTemplate(text string) (string, []string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimLeft(text, "\n ")

	title, body, _ := strings.Cut(text, "\n")
	var paragraphs []string
	for _, block := range strings.Split(body, "\n\n") {
		if block = strings.Trim(block, "\n"); strings.TrimSpace(block) != "" {
			paragraphs = append(paragraphs, block)
		}
	}
	return strings.TrimSpace(title), paragraphs
}
