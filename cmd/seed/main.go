package main

import (
	"fmt"
	"time"

	"nerdsociety/internal/config"
	"nerdsociety/internal/database"
	"nerdsociety/internal/domain/auth"
	"nerdsociety/internal/domain/catalog"
	"nerdsociety/internal/domain/post"
	"nerdsociety/internal/domain/setting"
	"nerdsociety/internal/pkg/applog"
	"nerdsociety/internal/pkg/utils"
	"nerdsociety/internal/server"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config load failed")
	}
	applog.Init(cfg.LogLevel, cfg.LogFormat)
	if cfg.IsProdLike() {
		logrus.Fatal("seed refuses to run against a production environment")
	}

	db, err := database.Connect(cfg.DatabaseURL, cfg.DBDebug)
	if err != nil {
		logrus.WithError(err).Fatal("db connect failed")
	}

	logrus.Info("running migrations")
	if err := database.Migrate(db, server.Models()...); err != nil {
		logrus.WithError(err).Fatal("db migrate failed")
	}

	// Cleanup old data (children first)
	logrus.Info("cleaning old data")
	for _, table := range []string{"nerd_coin_transactions", "payments", "bookings", "combos", "rooms", "locations", "posts", "media", "password_reset_tokens", "users", "settings"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			logrus.WithError(err).WithField("table", table).Fatal("cleanup failed")
		}
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		users, err := seedUsers(tx)
		if err != nil {
			return err
		}
		if err := seedCatalog(tx); err != nil {
			return err
		}
		if err := seedPosts(tx, users[0].ID); err != nil {
			return err
		}
		return seedSettings(tx)
	})
	if err != nil {
		logrus.WithError(err).Fatal("seed failed")
	}
	logrus.Info("seed completed")
}

// ================== USERS ==================

func seedUsers(tx *gorm.DB) ([]auth.User, error) {
	accounts := []struct {
		email, password, name, phone string
		role                         auth.Role
	}{
		{"admin@nerdsociety.vn", "admin1234", "Quản trị viên", "0901000001", auth.RoleAdmin},
		{"manager@nerdsociety.vn", "manager1234", "Quản lý Tây Sơn", "0901000002", auth.RoleManager},
		{"staff@nerdsociety.vn", "staff1234", "Lễ tân Tây Sơn", "0901000003", auth.RoleStaff},
		{"linh@gmail.com", "customer1234", "Nguyễn Linh", "0912000001", auth.RoleCustomer},
		{"huy@gmail.com", "customer1234", "Phạm Huy", "0912000002", auth.RoleCustomer},
	}

	users := make([]auth.User, 0, len(accounts))
	for _, a := range accounts {
		hash, err := auth.HashPassword(a.password)
		if err != nil {
			return nil, err
		}
		u := auth.User{
			Email:        a.email,
			PasswordHash: hash,
			Name:         a.name,
			Phone:        a.phone,
			Role:         a.role,
			IsActive:     true,
		}
		if err := tx.Create(&u).Error; err != nil {
			return nil, fmt.Errorf("create user %s: %w", a.email, err)
		}
		users = append(users, u)
		logrus.Infof("user created: %s / %s (%s)", a.email, a.password, a.role)
	}
	return users, nil
}

// ================== LOCATIONS / ROOMS / COMBOS ==================

func seedCatalog(tx *gorm.DB) error {
	locations := []catalog.Location{
		{Name: "Nerd Society Tây Sơn", Address: "Tây Sơn, Đống Đa, Hà Nội", Phone: "0243 000 0001", OpenTime: "08:00", CloseTime: "22:00", IsActive: true},
		{Name: "Nerd Society Hồ Tùng Mậu", Address: "Hồ Tùng Mậu, Cầu Giấy, Hà Nội", Phone: "0243 000 0002", OpenTime: "07:30", CloseTime: "23:00", IsActive: true},
	}
	for i := range locations {
		if err := tx.Create(&locations[i]).Error; err != nil {
			return fmt.Errorf("create location: %w", err)
		}

		rooms := []catalog.Room{
			{Name: "Meeting Long", Type: catalog.RoomMeetingLong, Capacity: 10, Amenities: datatypes.NewJSONSlice([]string{"TV", "Whiteboard", "Wifi"})},
			{Name: "Meeting Round", Type: catalog.RoomMeetingRound, Capacity: 6, Amenities: datatypes.NewJSONSlice([]string{"Whiteboard", "Wifi"})},
			{Name: "Pod Mono 1", Type: catalog.RoomPodMono, Capacity: 1, Amenities: datatypes.NewJSONSlice([]string{"Đèn bàn", "Ổ cắm"})},
			{Name: "Pod Mono 2", Type: catalog.RoomPodMono, Capacity: 1, Amenities: datatypes.NewJSONSlice([]string{"Đèn bàn", "Ổ cắm"})},
			{Name: "Pod Multi", Type: catalog.RoomPodMulti, Capacity: 3, Amenities: datatypes.NewJSONSlice([]string{"Ổ cắm", "Wifi"})},
		}
		for j := range rooms {
			rooms[j].LocationID = locations[i].ID
			rooms[j].Description = "Không gian yên tĩnh cho học tập và làm việc nhóm"
			rooms[j].IsActive = true
		}
		if err := tx.Create(&rooms).Error; err != nil {
			return fmt.Errorf("create rooms: %w", err)
		}
	}

	combos := []catalog.Combo{
		{Name: "Meeting theo giờ", RoomType: catalog.RoomMeetingLong, PriceType: catalog.PriceHourly, PricePerHour: 120000, SortOrder: 1},
		{Name: "Meeting nửa ngày", RoomType: catalog.RoomMeetingLong, PriceType: catalog.PriceFlat, Price: 400000, DurationMinutes: 240, SortOrder: 2},
		{Name: "Bàn tròn theo giờ", RoomType: catalog.RoomMeetingRound, PriceType: catalog.PriceHourly, PricePerHour: 90000, SortOrder: 1},
		{Name: "Pod giờ đầu", RoomType: catalog.RoomPodMono, PriceType: catalog.PriceFirstHour, Price: 30000, PricePerHour: 20000, SortOrder: 1},
		{Name: "Pod cả ngày", RoomType: catalog.RoomPodMono, PriceType: catalog.PriceFlat, Price: 150000, DurationMinutes: 600, SortOrder: 2},
		{Name: "Pod nhóm theo giờ", RoomType: catalog.RoomPodMulti, PriceType: catalog.PriceHourly, PricePerHour: 50000, SortOrder: 1},
	}
	for i := range combos {
		combos[i].IsActive = true
	}
	if err := tx.Create(&combos).Error; err != nil {
		return fmt.Errorf("create combos: %w", err)
	}

	logrus.Infof("catalog created: %d locations, %d combos", len(locations), len(combos))
	return nil
}

// ================== POSTS ==================

func seedPosts(tx *gorm.DB, authorID int64) error {
	now := time.Now().UTC()
	eventStart := now.AddDate(0, 0, 10).Truncate(time.Hour)
	eventEnd := eventStart.Add(3 * time.Hour)

	posts := []post.Post{
		{
			Title:       "Nerd Society mở cơ sở Hồ Tùng Mậu",
			Excerpt:     "Thêm 5 phòng học nhóm và pod yên tĩnh tại Cầu Giấy.",
			Content:     "<p>Cơ sở mới mở cửa từ 7:30 đến 23:00 mỗi ngày.</p>",
			Status:      post.StatusPublished,
			Type:        post.TypeNews,
			PublishedAt: &now,
		},
		{
			Title:         "Workshop: Kỹ năng ôn thi hiệu quả",
			Excerpt:       "Buổi chia sẻ phương pháp học tập cùng cộng đồng Nerd.",
			Content:       "<p>Đăng ký miễn phí cho thành viên.</p>",
			Status:        post.StatusPublished,
			Type:          post.TypeEvent,
			EventStart:    &eventStart,
			EventEnd:      &eventEnd,
			EventLocation: "Nerd Society Tây Sơn",
			EventMeta:     datatypes.JSONMap{"seats": 30, "speaker": "Nerd Team"},
			PublishedAt:   &now,
		},
		{
			Title:  "Bảng giá mùa thi",
			Status: post.StatusDraft,
			Type:   post.TypeNews,
		},
	}
	for i := range posts {
		posts[i].Slug = utils.Slugify(posts[i].Title)
		posts[i].AuthorID = &authorID
	}
	if err := tx.Create(&posts).Error; err != nil {
		return fmt.Errorf("create posts: %w", err)
	}
	logrus.Infof("posts created: %d", len(posts))
	return nil
}

// ================== SETTINGS ==================

func seedSettings(tx *gorm.DB) error {
	settings := []setting.Setting{
		{Key: setting.KeyCancelLeadMinutes, Value: "360"},
		{Key: setting.KeyOvertimeRatePerMinute, Value: "1000"},
	}
	if err := tx.Create(&settings).Error; err != nil {
		return fmt.Errorf("create settings: %w", err)
	}
	return nil
}
