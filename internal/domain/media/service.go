package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"nerdsociety/internal/pkg/applog"
	"nerdsociety/internal/pkg/utils"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	MaxFileSize   = 10 * 1024 * 1024 // 10 MB
	DefaultFolder = "general"
)

var allowedMimeTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/svg+xml",
	"image/avif",
}

// Service stores images on local disk and keeps their metadata in the
// database.
type Service struct {
	repo    Repository
	baseDir string
	urlBase string
	now     func() time.Time
}

func NewService(repo Repository, baseDir, urlBase string) *Service {
	return &Service{
		repo:    repo,
		baseDir: baseDir,
		urlBase: strings.TrimRight(urlBase, "/"),
		now:     time.Now,
	}
}

// Upload sniffs the content type, writes the file under YYYY/MM/DD and
// records it. The file is removed again when the insert fails.
func (s *Service) Upload(ctx context.Context, uploaderID int64, fileHeader *multipart.FileHeader, folder, altText string) (*Media, error) {
	if fileHeader.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fileHeader.Size > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	mt, err := mimetype.DetectReader(file)
	if err != nil {
		return nil, fmt.Errorf("detect content type: %w", err)
	}
	if !mimetype.EqualsAny(mt.String(), allowedMimeTypes...) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMimeType, mt.String())
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	now := s.now()
	relDir := path.Join(now.Format("2006"), now.Format("01"), now.Format("02"))
	absDir := filepath.Join(s.baseDir, filepath.FromSlash(relDir))
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	id := uuid.New().String()
	relPath := path.Join(relDir, id+mt.Extension())
	absPath := filepath.Join(s.baseDir, filepath.FromSlash(relPath))

	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	written, err := io.Copy(dst, io.LimitReader(file, MaxFileSize+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && written > MaxFileSize {
		err = ErrFileTooLarge
	}
	if err != nil {
		_ = os.Remove(absPath)
		if errors.Is(err, ErrFileTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("write file: %w", err)
	}

	m := &Media{
		ID:           id,
		OriginalName: filepath.Base(fileHeader.Filename),
		FilePath:     relPath,
		URL:          s.urlBase + "/" + relPath,
		MimeType:     mt.String(),
		Size:         written,
		Folder:       normalizeFolder(folder),
		AltText:      strings.TrimSpace(altText),
	}
	if uploaderID > 0 {
		m.UploadedBy = &uploaderID
	}

	if err := s.repo.Create(ctx, m); err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("save media record: %w", err)
	}

	applog.FromContext(ctx).
		WithField("media_id", m.ID).
		WithField("mime_type", m.MimeType).
		WithField("size", m.Size).
		Info("media uploaded")
	return m, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Media, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Media, int64, error) {
	if f.Folder != "" {
		f.Folder = normalizeFolder(f.Folder)
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 30
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Folders(ctx context.Context) ([]string, error) {
	return s.repo.Folders(ctx)
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Media, error) {
	updates := map[string]any{}
	if req.AltText != nil {
		updates["alt_text"] = strings.TrimSpace(*req.AltText)
	}
	if req.Folder != nil {
		updates["folder"] = normalizeFolder(*req.Folder)
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.GetByID(ctx, id)
}

// Delete removes the row and then the file. A file that is already gone
// is not an error.
func (s *Service) Delete(ctx context.Context, id string) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	absPath := filepath.Join(s.baseDir, filepath.FromSlash(m.FilePath))
	if err := os.Remove(absPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		applog.FromContext(ctx).WithError(err).WithField("path", absPath).Warn("media file not removed")
	}
	return nil
}

func normalizeFolder(folder string) string {
	if f := utils.Slugify(folder); f != "" {
		return f
	}
	return DefaultFolder
}
