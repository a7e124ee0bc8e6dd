package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeUsage map[string]int64

func (f fakeUsage) CountBookings(_ context.Context, column string, id int64) (int64, error) {
	return f[fmt.Sprintf("%s:%d", column, id)], nil
}

func setupTestService(t *testing.T, usage fakeUsage) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:catalog_service_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Location{}, &Room{}, &Combo{}))

	return NewService(NewRepository(db), usage), db
}

func seedCatalog(t *testing.T, svc *Service) (*Location, *Room, *Combo) {
	t.Helper()
	ctx := context.Background()

	l, err := svc.CreateLocation(ctx, CreateLocationRequest{Name: "Hồ Tùng Mậu", Address: "Cầu Giấy, Hà Nội"})
	require.NoError(t, err)

	room, err := svc.CreateRoom(ctx, CreateRoomRequest{
		LocationID: l.ID,
		Name:       "Pod 1",
		Type:       RoomPodMono,
		Capacity:   1,
		Amenities:  []string{" wifi ", "", "lamp"},
	})
	require.NoError(t, err)

	combo, err := svc.CreateCombo(ctx, CreateComboRequest{
		Name:         "Pod theo giờ",
		RoomType:     RoomPodMono,
		PriceType:    PriceHourly,
		PricePerHour: 20000,
	})
	require.NoError(t, err)

	return l, room, combo
}

func TestCreateLocation_DefaultsAndValidation(t *testing.T) {
	svc, _ := setupTestService(t, nil)
	ctx := context.Background()

	l, err := svc.CreateLocation(ctx, CreateLocationRequest{Name: "A", Address: "B"})
	require.NoError(t, err)
	assert.Equal(t, DefaultOpenTime, l.OpenTime)
	assert.Equal(t, DefaultCloseTime, l.CloseTime)
	assert.True(t, l.IsActive)

	_, err = svc.CreateLocation(ctx, CreateLocationRequest{Name: "A", Address: "B", OpenTime: "22:00", CloseTime: "08:00"})
	assert.ErrorIs(t, err, ErrInvalidHours)

	_, err = svc.CreateLocation(ctx, CreateLocationRequest{Name: "A", Address: "B", OpenTime: "8h"})
	assert.ErrorIs(t, err, ErrInvalidClock)
}

func TestRoomAmenitiesRoundTrip(t *testing.T) {
	svc, _ := setupTestService(t, nil)
	ctx := context.Background()
	_, room, _ := seedCatalog(t, svc)

	assert.Equal(t, []string{"wifi", "lamp"}, []string(room.Amenities))
	require.NotNil(t, room.Location)

	amenities := []string{"whiteboard"}
	updated, err := svc.UpdateRoom(ctx, room.ID, UpdateRoomRequest{Amenities: &amenities})
	require.NoError(t, err)
	assert.Equal(t, []string{"whiteboard"}, []string(updated.Amenities))
}

func TestSelect(t *testing.T) {
	svc, _ := setupTestService(t, nil)
	ctx := context.Background()
	l, room, combo := seedCatalog(t, svc)

	sel, err := svc.Select(ctx, l.ID, room.ID, combo.ID)
	require.NoError(t, err)
	assert.Equal(t, room.ID, sel.Room.ID)

	meeting, err := svc.CreateCombo(ctx, CreateComboRequest{
		Name: "Meeting 2h", RoomType: RoomMeetingLong, PriceType: PriceFlat, Price: 200000, DurationMinutes: 120,
	})
	require.NoError(t, err)
	_, err = svc.Select(ctx, l.ID, room.ID, meeting.ID)
	assert.ErrorIs(t, err, ErrComboRoomMismatch)

	other, err := svc.CreateLocation(ctx, CreateLocationRequest{Name: "Other", Address: "X"})
	require.NoError(t, err)
	_, err = svc.Select(ctx, other.ID, room.ID, combo.ID)
	assert.ErrorIs(t, err, ErrRoomNotInLocation)

	inactive := false
	_, err = svc.UpdateRoom(ctx, room.ID, UpdateRoomRequest{IsActive: &inactive})
	require.NoError(t, err)
	_, err = svc.Select(ctx, l.ID, room.ID, combo.ID)
	assert.ErrorIs(t, err, ErrInactive)

	_, err = svc.Select(ctx, l.ID, room.ID, 999)
	assert.ErrorIs(t, err, ErrComboNotFound)
}

func TestPublicReadsHideInactive(t *testing.T) {
	svc, _ := setupTestService(t, nil)
	ctx := context.Background()
	l, room, _ := seedCatalog(t, svc)

	inactive := false
	_, err := svc.UpdateLocation(ctx, l.ID, UpdateLocationRequest{IsActive: &inactive})
	require.NoError(t, err)

	_, err = svc.GetLocation(ctx, l.ID, true)
	assert.ErrorIs(t, err, ErrLocationNotFound)
	_, err = svc.GetRoom(ctx, room.ID, true)
	assert.ErrorIs(t, err, ErrRoomNotFound)

	got, err := svc.GetLocation(ctx, l.ID, false)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Len(t, got.Rooms, 1)

	public, err := svc.ListLocations(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, public)
}

func TestUpdateComboRevalidates(t *testing.T) {
	svc, _ := setupTestService(t, nil)
	ctx := context.Background()
	_, _, combo := seedCatalog(t, svc)

	flat := PriceFlat
	_, err := svc.UpdateCombo(ctx, combo.ID, UpdateComboRequest{PriceType: &flat})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	price := int64(150000)
	updated, err := svc.UpdateCombo(ctx, combo.ID, UpdateComboRequest{PriceType: &flat, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, PriceFlat, updated.PriceType)
	assert.Equal(t, int64(150000), updated.Price)
}

func TestDeleteDeactivatesWhenReferenced(t *testing.T) {
	usage := fakeUsage{}
	svc, _ := setupTestService(t, usage)
	ctx := context.Background()
	l, room, combo := seedCatalog(t, svc)

	usage[fmt.Sprintf("room_id:%d", room.ID)] = 2

	res, err := svc.DeleteRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.True(t, res.Deactivated)
	got, err := svc.GetRoom(ctx, room.ID, false)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	res, err = svc.DeleteCombo(ctx, combo.ID)
	require.NoError(t, err)
	assert.True(t, res.Deleted)
	_, err = svc.GetCombo(ctx, combo.ID)
	assert.ErrorIs(t, err, ErrComboNotFound)

	res, err = svc.DeleteLocation(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, res.Deleted)
	_, err = svc.GetRoom(ctx, room.ID, false)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}
