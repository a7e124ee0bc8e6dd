package booking

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Availability lists busy and free slots of a room for one local day,
// bounded by the location's opening hours.
func (s *Service) Availability(ctx context.Context, roomID int64, date string) (*Availability, error) {
	day, err := time.ParseInLocation("2006-01-02", date, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidSlot)
	}

	room, err := s.catalog.GetRoom(ctx, roomID, true)
	if err != nil {
		return nil, err
	}
	opensMin, closesMin, err := room.Location.Hours()
	if err != nil {
		return nil, err
	}

	opens := atMinute(day, opensMin, s.loc)
	closes := atMinute(day, closesMin, s.loc)

	busy, err := s.repo.BusySlots(ctx, roomID, opens, closes)
	if err != nil {
		return nil, err
	}

	free := subtractBusy(opens, closes, busy)
	if now := s.now(); now.After(opens) {
		free = subtractBusy(opens, closes, append(busy, TimeSlot{Start: opens, End: now}))
	}

	return &Availability{
		RoomID: roomID,
		Date:   day.Format("2006-01-02"),
		Opens:  opens,
		Closes: closes,
		Busy:   busy,
		Free:   free,
	}, nil
}

func atMinute(day time.Time, minute int, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, minute, 0, 0, loc).UTC()
}

// subtractBusy returns the gaps of [open, close) not covered by busy.
func subtractBusy(open, closes time.Time, busy []TimeSlot) []TimeSlot {
	if len(busy) == 0 {
		return []TimeSlot{{Start: open, End: closes}}
	}

	sorted := make([]TimeSlot, len(busy))
	copy(sorted, busy)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	merged := make([]TimeSlot, 0, len(sorted))
	for _, s := range sorted {
		if !s.End.After(open) || !s.Start.Before(closes) {
			continue
		}
		if s.Start.Before(open) {
			s.Start = open
		}
		if s.End.After(closes) {
			s.End = closes
		}

		if len(merged) == 0 {
			merged = append(merged, s)
			continue
		}
		last := &merged[len(merged)-1]
		if !s.Start.After(last.End) {
			if s.End.After(last.End) {
				last.End = s.End
			}
		} else {
			merged = append(merged, s)
		}
	}

	cur := open
	out := make([]TimeSlot, 0)
	for _, b := range merged {
		if b.Start.After(cur) {
			out = append(out, TimeSlot{Start: cur, End: b.Start})
		}
		if b.End.After(cur) {
			cur = b.End
		}
		if !cur.Before(closes) {
			break
		}
	}
	if cur.Before(closes) {
		out = append(out, TimeSlot{Start: cur, End: closes})
	}
	return out
}
