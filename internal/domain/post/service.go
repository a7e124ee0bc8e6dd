package post

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nerdsociety/internal/pkg/applog"
	"nerdsociety/internal/pkg/utils"

	"gorm.io/datatypes"
)

const maxSlugAttempts = 50

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

/* ---------- PUBLIC ---------- */

func (s *Service) ListPublished(ctx context.Context, postType Type, page, pageSize int) ([]Post, int64, error) {
	if postType != "" && !postType.Valid() {
		return nil, 0, ErrInvalidType
	}
	page, pageSize = normalizePage(page, pageSize)
	return s.repo.List(ctx, ListFilter{Status: StatusPublished, Type: postType, Page: page, PageSize: pageSize})
}

// ViewBySlug returns a published post and counts the view.
func (s *Service) ViewBySlug(ctx context.Context, slug string) (*Post, error) {
	p, err := s.repo.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, err
	}
	if p.Status != StatusPublished {
		return nil, ErrNotFound
	}
	if err := s.repo.IncrementViews(ctx, p.ID); err != nil {
		return nil, err
	}
	p.ViewCount++
	return p, nil
}

/* ---------- ADMIN ---------- */

func (s *Service) List(ctx context.Context, f ListFilter) ([]Post, int64, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, ErrInvalidStatus
	}
	if f.Type != "" && !f.Type.Valid() {
		return nil, 0, ErrInvalidType
	}
	f.Page, f.PageSize = normalizePage(f.Page, f.PageSize)
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id int64) (*Post, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, authorID int64, req CreateRequest) (*Post, error) {
	if req.Status == "" {
		req.Status = StatusDraft
	}
	if req.Type == "" {
		req.Type = TypeNews
	}
	if !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if !req.Type.Valid() {
		return nil, ErrInvalidType
	}
	if err := checkEvent(req.Type, req.EventStart, req.EventEnd); err != nil {
		return nil, err
	}

	base := req.Slug
	if strings.TrimSpace(base) == "" {
		base = req.Title
	}
	slug, err := s.uniqueSlug(ctx, base, 0)
	if err != nil {
		return nil, err
	}

	p := &Post{
		Title:         strings.TrimSpace(req.Title),
		Slug:          slug,
		Excerpt:       strings.TrimSpace(req.Excerpt),
		Content:       req.Content,
		CoverImage:    strings.TrimSpace(req.CoverImage),
		Status:        req.Status,
		Type:          req.Type,
		EventStart:    utcPtr(req.EventStart),
		EventEnd:      utcPtr(req.EventEnd),
		EventLocation: strings.TrimSpace(req.EventLocation),
		EventMeta:     datatypes.JSONMap(req.EventMeta),
	}
	if authorID > 0 {
		p.AuthorID = &authorID
	}
	if p.Status == StatusPublished {
		now := s.now()
		p.PublishedAt = &now
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	applog.FromContext(ctx).WithField("post_id", p.ID).WithField("slug", p.Slug).Info("post created")
	return p, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Slug != nil {
		slug := utils.Slugify(*req.Slug)
		if slug == "" {
			return nil, ErrEmptySlug
		}
		if slug != p.Slug {
			taken, err := s.repo.SlugExists(ctx, slug, id)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrSlugTaken
			}
			updates["slug"] = slug
		}
	}
	if req.Excerpt != nil {
		updates["excerpt"] = strings.TrimSpace(*req.Excerpt)
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.CoverImage != nil {
		updates["cover_image"] = strings.TrimSpace(*req.CoverImage)
	}
	if req.EventLocation != nil {
		updates["event_location"] = strings.TrimSpace(*req.EventLocation)
	}
	if req.EventMeta != nil {
		updates["event_meta"] = datatypes.JSONMap(req.EventMeta)
	}

	postType, start, end := p.Type, p.EventStart, p.EventEnd
	if req.Type != nil {
		if !req.Type.Valid() {
			return nil, ErrInvalidType
		}
		postType = *req.Type
		updates["type"] = postType
	}
	if req.EventStart != nil {
		start = utcPtr(req.EventStart)
		updates["event_start"] = start
	}
	if req.EventEnd != nil {
		end = utcPtr(req.EventEnd)
		updates["event_end"] = end
	}
	if err := checkEvent(postType, start, end); err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.GetByID(ctx, id)
}

// SetStatus moves a post between draft, published and archived. The first
// publish stamps PublishedAt; republishing keeps the original date.
func (s *Service) SetStatus(ctx context.Context, id int64, status Status) (*Post, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{"status": status}
	if status == StatusPublished && p.PublishedAt == nil {
		updates["published_at"] = s.now()
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	applog.FromContext(ctx).WithField("post_id", id).WithField("status", status).Info("post status changed")
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// uniqueSlug appends -2, -3, ... until the slug is free.
func (s *Service) uniqueSlug(ctx context.Context, base string, excludeID int64) (string, error) {
	slug := utils.Slugify(base)
	if slug == "" {
		slug = "post"
	}

	candidate := slug
	for i := 2; i <= maxSlugAttempts+1; i++ {
		taken, err := s.repo.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", slug, i)
	}
	return "", ErrSlugTaken
}

func checkEvent(t Type, start, end *time.Time) error {
	if t != TypeEvent {
		return nil
	}
	if start == nil {
		return ErrEventStartNeeded
	}
	if end != nil && !end.After(*start) {
		return ErrInvalidEventEnd
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}
