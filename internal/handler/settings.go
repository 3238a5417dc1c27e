package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cardapio-backend/internal/api"
	"cardapio-backend/internal/errs"
	"cardapio-backend/internal/model"
	"cardapio-backend/internal/store"

	"go.mongodb.org/mongo-driver/bson"
)

type settingsRequest struct {
	PixKey       string `json:"pixKey"`
	BusinessName string `json:"businessName"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	// nil keeps the saved fee; an explicit 0 clears it
	DeliveryFee     *float64 `json:"deliveryFee" validate:"omitempty,gte=0"`
	PrepTimeMinutes int      `json:"prepTimeMinutes" validate:"gte=0"`
}

func (h *Handler) Settings(ctx context.Context, req *api.Request) (*api.Response, error) {
	switch req.Method {
	case http.MethodGet:
		s, err := h.loadSettings(ctx)
		if err != nil {
			return nil, err
		}
		return api.OK(s), nil
	case http.MethodPost:
		return h.saveSettings(ctx, req)
	}
	return nil, errs.NewMethodNotAllowedError(req.Method, []string{http.MethodGet, http.MethodPost})
}

func (h *Handler) defaultSettings() model.Settings {
	return model.Settings{
		Type:            model.SettingsType,
		BusinessName:    h.business.Name,
		DeliveryFee:     h.business.DeliveryFee,
		PrepTimeMinutes: h.business.PrepTimeMinutes,
	}
}

// loadSettings returns the stored singleton over the defaults.
func (h *Handler) loadSettings(ctx context.Context) (model.Settings, error) {
	defaults := h.defaultSettings()

	coll, err := h.collection(ctx, store.Settings)
	if err != nil {
		return model.Settings{}, err
	}
	doc, err := coll.FindOne(ctx, bson.M{"type": model.SettingsType})
	if errors.Is(err, store.ErrNoDocument) {
		return defaults, nil
	}
	if err != nil {
		return model.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	var stored model.Settings
	if err := model.Decode(doc, &stored); err != nil {
		return model.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	merged := defaults.Merge(stored)
	if _, ok := doc["deliveryFee"]; ok {
		merged.DeliveryFee = stored.DeliveryFee
	}
	return merged, nil
}

func (h *Handler) saveSettings(ctx context.Context, req *api.Request) (*api.Response, error) {
	var body settingsRequest
	if err := req.Bind(&body); err != nil {
		return nil, err
	}

	current, err := h.loadSettings(ctx)
	if err != nil {
		return nil, err
	}
	now := h.now().UTC()
	next := current.Merge(model.Settings{
		PixKey:          body.PixKey,
		BusinessName:    body.BusinessName,
		Phone:           body.Phone,
		Address:         body.Address,
		PrepTimeMinutes: body.PrepTimeMinutes,
	})
	if body.DeliveryFee != nil {
		next.DeliveryFee = *body.DeliveryFee
	}
	next.UpdatedAt = &now

	doc, err := model.ToDocument(next)
	if err != nil {
		return nil, err
	}
	coll, err := h.collection(ctx, store.Settings)
	if err != nil {
		return nil, err
	}
	if _, err := coll.UpsertOne(ctx, bson.M{"type": model.SettingsType}, doc, nil); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}

	return api.OK(api.H{"success": true, "config": next}), nil
}
