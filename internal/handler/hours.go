package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cardapio-backend/internal/api"
	"cardapio-backend/internal/errs"
	"cardapio-backend/internal/model"
	"cardapio-backend/internal/store"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
)

// Hours reads (GET), replaces (POST) or applies a manual open/close
// override (PUT) to the opening hours singleton.
func (h *Handler) Hours(ctx context.Context, req *api.Request) (*api.Response, error) {
	switch req.Method {
	case http.MethodGet:
		hours, _, err := h.loadHours(ctx)
		if err != nil {
			return nil, err
		}
		return api.OK(hours), nil
	case http.MethodPost:
		return h.saveHours(ctx, req)
	case http.MethodPut:
		return h.overrideHours(ctx, req)
	}
	return nil, errs.NewMethodNotAllowedError(req.Method, []string{http.MethodGet, http.MethodPost, http.MethodPut})
}

// Status reports whether the store is open right now.
func (h *Handler) Status(ctx context.Context, _ *api.Request) (*api.Response, error) {
	hours, _, err := h.loadHours(ctx)
	if err != nil {
		return nil, err
	}
	return api.OK(hours.StatusAt(h.now(), h.loc)), nil
}

// loadHours returns the stored singleton, or the default week when none
// exists. found reports which.
func (h *Handler) loadHours(ctx context.Context) (hours model.Hours, found bool, err error) {
	coll, err := h.collection(ctx, store.Hours)
	if err != nil {
		return model.Hours{}, false, err
	}
	doc, err := coll.FindOne(ctx, bson.M{"type": model.HoursType})
	if errors.Is(err, store.ErrNoDocument) {
		return model.DefaultHours(h.business.Timezone), false, nil
	}
	if err != nil {
		return model.Hours{}, false, fmt.Errorf("load hours: %w", err)
	}
	if err := model.Decode(doc, &hours); err != nil {
		return model.Hours{}, false, fmt.Errorf("decode hours: %w", err)
	}
	if hours.Schedule == nil {
		hours.Schedule = model.DefaultHours(h.business.Timezone).Schedule
	}
	return hours, true, nil
}

func (h *Handler) persistHours(ctx context.Context, hours model.Hours) error {
	hours.Type = model.HoursType
	doc, err := model.ToDocument(hours)
	if err != nil {
		return err
	}
	coll, err := h.collection(ctx, store.Hours)
	if err != nil {
		return err
	}
	if _, err := coll.UpsertOne(ctx, bson.M{"type": model.HoursType}, doc, nil); err != nil {
		return fmt.Errorf("save hours: %w", err)
	}
	return nil
}

func (h *Handler) saveHours(ctx context.Context, req *api.Request) (*api.Response, error) {
	var hours model.Hours
	if err := req.Bind(&hours); err != nil {
		return nil, err
	}
	if len(hours.Schedule) == 0 {
		return nil, errs.NewValidationError("schedule is required", []errs.FieldError{{Field: "schedule", Error: "is required"}})
	}

	schedule := make(map[string]model.DaySchedule, len(hours.Schedule))
	var fields []errs.FieldError
	for day, s := range hours.Schedule {
		key := strings.ToLower(strings.TrimSpace(day))
		if !isWeekday(key) {
			fields = append(fields, errs.FieldError{Field: "schedule." + day, Error: "unknown weekday"})
			continue
		}
		schedule[key] = s
	}
	if len(fields) > 0 {
		return nil, errs.NewValidationError("invalid schedule", fields)
	}
	hours.Schedule = schedule
	if hours.Timezone == "" {
		hours.Timezone = h.business.Timezone
	}
	stored, _, err := h.loadHours(ctx)
	if err != nil {
		return nil, err
	}
	now := h.now().UTC()
	hours.UpdatedAt = &now
	// overrideChangedAt is server owned: kept unless the override changes
	hours.OverrideChangedAt = stored.OverrideChangedAt
	if !sameOverride(stored.ManualOverrideOpen, hours.ManualOverrideOpen) {
		hours.OverrideChangedAt = &now
	}

	if err := h.persistHours(ctx, hours); err != nil {
		return nil, err
	}
	return api.OK(api.H{"success": true, "hours": hours}), nil
}

func sameOverride(a, b *bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// overrideHours sets or clears the manual override. The body must carry
// manualOverrideOpen (or open); null clears it.
func (h *Handler) overrideHours(ctx context.Context, req *api.Request) (*api.Response, error) {
	if !req.HasBody() {
		return nil, errs.NewValidationError("request body is required", nil)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(req.Body, &raw); err != nil {
		return nil, errs.NewValidationError("invalid JSON body: "+err.Error(), nil)
	}
	value, ok := raw["manualOverrideOpen"]
	if !ok {
		value, ok = raw["open"]
	}
	if !ok {
		return nil, errs.NewValidationError("manualOverrideOpen is required", []errs.FieldError{
			{Field: "manualOverrideOpen", Error: "is required"},
		})
	}
	var override *bool
	if err := json.Unmarshal(value, &override); err != nil {
		return nil, errs.NewValidationError("manualOverrideOpen must be a boolean or null", nil)
	}

	hours, found, err := h.loadHours(ctx)
	if err != nil {
		return nil, err
	}
	now := h.now().UTC()
	hours.ManualOverrideOpen = override
	hours.OverrideChangedAt = &now
	hours.UpdatedAt = &now

	if err := h.persistHours(ctx, hours); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Interface("manualOverrideOpen", override).
		Bool("created", !found).
		Msg("opening override changed")

	return api.OK(api.H{
		"success": true,
		"hours":   hours,
		"status":  hours.StatusAt(h.now(), h.loc),
	}), nil
}

func isWeekday(s string) bool {
	for _, d := range model.Weekdays {
		if d == s {
			return true
		}
	}
	return false
}
