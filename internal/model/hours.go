package model

import (
	"fmt"
	"strings"
	"time"
)

const (
	HoursType = "hours"

	DefaultOpen  = "18:30"
	DefaultClose = "23:00"
)

// Weekdays are the schedule keys, Sunday first as time.Weekday orders them.
var Weekdays = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

type DaySchedule struct {
	Open  bool   `json:"open" bson:"open"`
	Start string `json:"start" bson:"start"`
	End   string `json:"end" bson:"end"`
}

// Hours is the opening hours singleton.
type Hours struct {
	Type               string                 `json:"-" bson:"type"`
	Schedule           map[string]DaySchedule `json:"schedule" bson:"schedule"`
	ManualOverrideOpen *bool                  `json:"manualOverrideOpen" bson:"manualOverrideOpen"`
	Timezone           string                 `json:"timezone" bson:"timezone"`
	OverrideChangedAt  *time.Time             `json:"overrideChangedAt,omitempty" bson:"overrideChangedAt,omitempty"`
	UpdatedAt          *time.Time             `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// DefaultHours opens every day 18:30-23:00.
func DefaultHours(timezone string) Hours {
	schedule := make(map[string]DaySchedule, len(Weekdays))
	for _, d := range Weekdays {
		schedule[d] = DaySchedule{Open: true, Start: DefaultOpen, End: DefaultClose}
	}
	return Hours{Type: HoursType, Schedule: schedule, Timezone: timezone}
}

func (h Hours) Location(fallback *time.Location) *time.Location {
	if h.Timezone != "" {
		if loc, err := time.LoadLocation(h.Timezone); err == nil {
			return loc
		}
	}
	return fallback
}

// Status is the computed open/closed state at an instant.
type Status struct {
	Open           bool   `json:"open"`
	ManualOverride *bool  `json:"manualOverride"`
	Reason         string `json:"reason"`
	Now            string `json:"now"`
	Today          string `json:"today"`
}

// StatusAt evaluates the schedule at now, in the schedule's timezone.
// A manual override wins over the schedule. Windows whose end is not after
// their start run past midnight into the next day.
func (h Hours) StatusAt(now time.Time, fallback *time.Location) Status {
	local := now.In(h.Location(fallback))
	today := Weekdays[local.Weekday()]
	st := Status{
		ManualOverride: h.ManualOverrideOpen,
		Now:            local.Format("15:04"),
		Today:          today,
	}

	if h.ManualOverrideOpen != nil {
		st.Open = *h.ManualOverrideOpen
		st.Reason = "manual_override"
		return st
	}

	minute := local.Hour()*60 + local.Minute()

	if day, ok := h.Schedule[today]; ok && day.Open {
		start, errS := parseClock(day.Start)
		end, errE := parseClock(day.End)
		if errS == nil && errE == nil {
			if end > start && minute >= start && minute < end {
				st.Open, st.Reason = true, "schedule"
				return st
			}
			if end <= start && minute >= start {
				st.Open, st.Reason = true, "schedule"
				return st
			}
		}
	}

	yesterday := Weekdays[(int(local.Weekday())+6)%7]
	if day, ok := h.Schedule[yesterday]; ok && day.Open {
		start, errS := parseClock(day.Start)
		end, errE := parseClock(day.End)
		if errS == nil && errE == nil && end <= start && minute < end {
			st.Open, st.Reason = true, "schedule_overnight"
			return st
		}
	}

	st.Reason = "closed"
	return st
}

func parseClock(s string) (int, error) {
	var hh, mm int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d:%d", &hh, &mm); err != nil {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	if hh < 0 || hh > 24 || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return hh*60 + mm, nil
}
