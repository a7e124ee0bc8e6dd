package post

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:post_service_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Post{}))

	svc := NewService(NewRepository(db))
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 3, 0, 0, 0, time.UTC) }
	return svc, db
}

func TestCreate_SlugFromVietnameseTitle(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, 1, CreateRequest{Title: "Đêm nhạc Acoustic cuối tuần"})
	require.NoError(t, err)
	assert.Equal(t, "dem-nhac-acoustic-cuoi-tuan", first.Slug)
	assert.Equal(t, StatusDraft, first.Status)
	assert.Equal(t, TypeNews, first.Type)
	assert.Nil(t, first.PublishedAt)
	require.NotNil(t, first.AuthorID)

	second, err := svc.Create(ctx, 1, CreateRequest{Title: "Đêm nhạc acoustic cuối tuần!"})
	require.NoError(t, err)
	assert.Equal(t, "dem-nhac-acoustic-cuoi-tuan-2", second.Slug)

	third, err := svc.Create(ctx, 1, CreateRequest{Title: "Anything", Slug: "Đêm nhạc Acoustic cuối tuần"})
	require.NoError(t, err)
	assert.Equal(t, "dem-nhac-acoustic-cuoi-tuan-3", third.Slug)

	symbols, err := svc.Create(ctx, 1, CreateRequest{Title: "!!!"})
	require.NoError(t, err)
	assert.Equal(t, "post", symbols.Slug)
}

func TestCreate_EventRules(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, CreateRequest{Title: "Board game night", Type: TypeEvent})
	assert.ErrorIs(t, err, ErrEventStartNeeded)

	start := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	before := start.Add(-time.Hour)
	_, err = svc.Create(ctx, 1, CreateRequest{Title: "Board game night", Type: TypeEvent, EventStart: &start, EventEnd: &before})
	assert.ErrorIs(t, err, ErrInvalidEventEnd)

	_, err = svc.Create(ctx, 1, CreateRequest{Title: "Board game night", Type: "PODCAST"})
	assert.ErrorIs(t, err, ErrInvalidType)

	end := start.Add(3 * time.Hour)
	p, err := svc.Create(ctx, 1, CreateRequest{
		Title:      "Board game night",
		Type:       TypeEvent,
		Status:     StatusPublished,
		EventStart: &start,
		EventEnd:   &end,
		EventMeta:  map[string]any{"seats": 20, "host": "Nerd Society"},
	})
	require.NoError(t, err)
	require.NotNil(t, p.PublishedAt)

	stored, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nerd Society", stored.EventMeta["host"])
	assert.True(t, stored.EventStart.Equal(start))
}

func TestSetStatus_KeepsFirstPublishDate(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, 1, CreateRequest{Title: "Khai trương"})
	require.NoError(t, err)

	published, err := svc.SetStatus(ctx, p.ID, StatusPublished)
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	firstPublish := *published.PublishedAt

	_, err = svc.SetStatus(ctx, p.ID, StatusArchived)
	require.NoError(t, err)

	svc.now = func() time.Time { return firstPublish.Add(48 * time.Hour) }
	again, err := svc.SetStatus(ctx, p.ID, StatusPublished)
	require.NoError(t, err)
	assert.True(t, again.PublishedAt.Equal(firstPublish))

	_, err = svc.SetStatus(ctx, p.ID, "HIDDEN")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdate(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, 1, CreateRequest{Title: "Ưu đãi tháng 5"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, 1, CreateRequest{Title: "Tin mới"})
	require.NoError(t, err)

	taken := a.Slug
	_, err = svc.Update(ctx, b.ID, UpdateRequest{Slug: &taken})
	assert.ErrorIs(t, err, ErrSlugTaken)

	blank := "   "
	_, err = svc.Update(ctx, b.ID, UpdateRequest{Slug: &blank})
	assert.ErrorIs(t, err, ErrEmptySlug)

	event := TypeEvent
	_, err = svc.Update(ctx, b.ID, UpdateRequest{Type: &event})
	assert.ErrorIs(t, err, ErrEventStartNeeded)

	title := "Tin mới nhất"
	same := b.Slug
	updated, err := svc.Update(ctx, b.ID, UpdateRequest{Title: &title, Slug: &same})
	require.NoError(t, err)
	assert.Equal(t, "Tin mới nhất", updated.Title)
	assert.Equal(t, "tin-moi", updated.Slug)

	_, err = svc.Update(ctx, 999, UpdateRequest{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPublished(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	start := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	_, err := svc.Create(ctx, 1, CreateRequest{Title: "Draft"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, CreateRequest{Title: "News", Status: StatusPublished})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, CreateRequest{Title: "Event", Status: StatusPublished, Type: TypeEvent, EventStart: &start})
	require.NoError(t, err)

	items, total, err := svc.ListPublished(ctx, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)

	items, total, err = svc.ListPublished(ctx, TypeEvent, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "event", items[0].Slug)

	_, _, err = svc.ListPublished(ctx, "PODCAST", 1, 10)
	assert.ErrorIs(t, err, ErrInvalidType)

	all, total, err := svc.List(ctx, ListFilter{Search: "dra"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, StatusDraft, all[0].Status)
}

func TestViewBySlug_CountsEveryView(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, 1, CreateRequest{Title: "Hội chợ sách", Status: StatusPublished})
	require.NoError(t, err)
	draft, err := svc.Create(ctx, 1, CreateRequest{Title: "Bản nháp"})
	require.NoError(t, err)

	_, err = svc.ViewBySlug(ctx, draft.Slug)
	assert.ErrorIs(t, err, ErrNotFound)

	for i := 0; i < 3; i++ {
		_, err = svc.ViewBySlug(ctx, "HOI-CHO-SACH")
		require.NoError(t, err)
	}

	var stored Post
	require.NoError(t, db.First(&stored, p.ID).Error)
	assert.Equal(t, int64(3), stored.ViewCount)

	var unchanged Post
	require.NoError(t, db.First(&unchanged, draft.ID).Error)
	assert.Equal(t, int64(0), unchanged.ViewCount)
}

func TestHandler_PublicPost(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _ := setupTestService(t)
	_, err := svc.Create(context.Background(), 1, CreateRequest{Title: "Sự kiện", Status: StatusPublished})
	require.NoError(t, err)

	r := gin.New()
	NewHandler(svc).RegisterPublicRoutes(r.Group("/api"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts/su-kien", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Data    Post `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, int64(1), body.Data.ViewCount)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
