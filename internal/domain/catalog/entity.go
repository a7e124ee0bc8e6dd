package catalog

import (
	"fmt"
	"strconv"
	"time"

	"gorm.io/datatypes"
)

const (
	DefaultOpenTime  = "08:00"
	DefaultCloseTime = "22:00"
)

type Location struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:150;not null"`
	Address   string    `json:"address" gorm:"size:255;not null"`
	Phone     string    `json:"phone,omitempty" gorm:"size:30"`
	MapURL    string    `json:"map_url,omitempty" gorm:"size:500"`
	ImageURL  string    `json:"image_url,omitempty" gorm:"size:500"`
	OpenTime  string    `json:"open_time" gorm:"size:5;not null"`
	CloseTime string    `json:"close_time" gorm:"size:5;not null"`
	IsActive  bool      `json:"is_active" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Rooms []Room `json:"rooms,omitempty" gorm:"foreignKey:LocationID"`
}

func (Location) TableName() string { return "locations" }

// Hours returns opening and closing time as minutes since midnight.
func (l *Location) Hours() (opens, closes int, err error) {
	if opens, err = ParseClock(l.OpenTime); err != nil {
		return 0, 0, err
	}
	if closes, err = ParseClock(l.CloseTime); err != nil {
		return 0, 0, err
	}
	return opens, closes, nil
}

// IsOpenBetween reports whether [start, end) falls inside one business day
// in loc.
func (l *Location) IsOpenBetween(start, end time.Time, loc *time.Location) bool {
	opens, closes, err := l.Hours()
	if err != nil {
		return false
	}
	s := start.In(loc)
	e := end.In(loc)

	day := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, loc)
	return !s.Before(day.Add(time.Duration(opens)*time.Minute)) &&
		!e.After(day.Add(time.Duration(closes)*time.Minute))
}

type RoomType string

const (
	RoomMeetingLong  RoomType = "MEETING_LONG"
	RoomMeetingRound RoomType = "MEETING_ROUND"
	RoomPodMono      RoomType = "POD_MONO"
	RoomPodMulti     RoomType = "POD_MULTI"
)

func (t RoomType) Valid() bool {
	switch t {
	case RoomMeetingLong, RoomMeetingRound, RoomPodMono, RoomPodMulti:
		return true
	}
	return false
}

func (t RoomType) IsPod() bool {
	return t == RoomPodMono || t == RoomPodMulti
}

type Room struct {
	ID          int64                       `json:"id" gorm:"primaryKey"`
	LocationID  int64                       `json:"location_id" gorm:"not null;index"`
	Name        string                      `json:"name" gorm:"size:150;not null"`
	Description string                      `json:"description,omitempty" gorm:"type:text"`
	Type        RoomType                    `json:"type" gorm:"size:20;not null;index"`
	Capacity    int                         `json:"capacity" gorm:"not null"`
	Amenities   datatypes.JSONSlice[string] `json:"amenities"`
	ImageURL    string                      `json:"image_url,omitempty" gorm:"size:500"`
	IsActive    bool                        `json:"is_active" gorm:"not null;index"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`

	Location *Location `json:"location,omitempty" gorm:"foreignKey:LocationID"`
}

func (Room) TableName() string { return "rooms" }

func (r *Room) IsPod() bool { return r.Type.IsPod() }

type PriceType string

const (
	PriceFlat      PriceType = "FLAT"
	PriceHourly    PriceType = "HOURLY"
	PriceFirstHour PriceType = "FIRST_HOUR"
)

func (p PriceType) Valid() bool {
	switch p {
	case PriceFlat, PriceHourly, PriceFirstHour:
		return true
	}
	return false
}

// Combo is a bookable service package for one room type. Price is the flat
// price, or the first hour for FIRST_HOUR combos. DurationMinutes caps a FLAT
// combo; zero means any length.
type Combo struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	Name            string    `json:"name" gorm:"size:150;not null"`
	Description     string    `json:"description,omitempty" gorm:"type:text"`
	RoomType        RoomType  `json:"room_type" gorm:"size:20;not null;index"`
	PriceType       PriceType `json:"price_type" gorm:"size:20;not null"`
	Price           int64     `json:"price" gorm:"not null"`
	PricePerHour    int64     `json:"price_per_hour" gorm:"not null"`
	DurationMinutes int       `json:"duration_minutes" gorm:"not null"`
	SortOrder       int       `json:"sort_order" gorm:"not null"`
	IsActive        bool      `json:"is_active" gorm:"not null;index"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Combo) TableName() string { return "combos" }

// ParseClock parses "HH:MM" into minutes since midnight. "24:00" is allowed
// as a closing time.
func ParseClock(v string) (int, error) {
	if len(v) != 5 || v[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, v)
	}
	h, errH := strconv.Atoi(v[:2])
	m, errM := strconv.Atoi(v[3:])
	if errH != nil || errM != nil || h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, v)
	}
	return h*60 + m, nil
}
