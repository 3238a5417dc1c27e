package model

import "time"

// SettingsType discriminates the configuration singleton.
const SettingsType = "config"

// Settings is the store configuration singleton. Every field is safe to
// publish in the public snapshot.
type Settings struct {
	Type            string     `json:"-" bson:"type"`
	PixKey          string     `json:"pixKey" bson:"pixKey"`
	BusinessName    string     `json:"businessName" bson:"businessName"`
	Phone           string     `json:"phone" bson:"phone"`
	Address         string     `json:"address" bson:"address"`
	DeliveryFee     float64    `json:"deliveryFee" bson:"deliveryFee"`
	PrepTimeMinutes int        `json:"prepTimeMinutes" bson:"prepTimeMinutes"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// Merge overlays non-zero fields of patch onto s.
func (s Settings) Merge(patch Settings) Settings {
	if patch.PixKey != "" {
		s.PixKey = patch.PixKey
	}
	if patch.BusinessName != "" {
		s.BusinessName = patch.BusinessName
	}
	if patch.Phone != "" {
		s.Phone = patch.Phone
	}
	if patch.Address != "" {
		s.Address = patch.Address
	}
	if patch.DeliveryFee != 0 {
		s.DeliveryFee = patch.DeliveryFee
	}
	if patch.PrepTimeMinutes != 0 {
		s.PrepTimeMinutes = patch.PrepTimeMinutes
	}
	return s
}
