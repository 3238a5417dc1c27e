package handler

import (
	"context"
	"errors"
	"fmt"

	"cardapio-backend/internal/api"
	"cardapio-backend/internal/asset"
	"cardapio-backend/internal/errs"
	"cardapio-backend/internal/model"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
)

type uploadRequest struct {
	Base64Image string `json:"base64Image" validate:"required"`
	ProductID   any    `json:"productId"`
	ProductName string `json:"productName"`
}

// UploadImage names the image after its product and hands it to the asset
// storage. The returned path is where the image is expected to be served.
func (h *Handler) UploadImage(ctx context.Context, req *api.Request) (*api.Response, error) {
	var body uploadRequest
	if err := req.Bind(&body); err != nil {
		return nil, err
	}

	productID := model.String(bson.M{"id": body.ProductID}, "id")
	img, err := asset.Decode(body.Base64Image, productID, body.ProductName)
	if errors.Is(err, asset.ErrInvalidImage) {
		return nil, errs.NewValidationError(err.Error(), []errs.FieldError{{Field: "base64Image", Error: "must be base64"}})
	}
	if err != nil {
		return nil, err
	}

	if err := h.assets.Put(ctx, img.Name, img.Data); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	path := asset.PublicPath(h.assetPrefix, img.Name)
	zerolog.Ctx(ctx).Info().Str("path", path).Int("bytes", len(img.Data)).Msg("image uploaded")

	return api.OK(api.H{
		"success":  true,
		"path":     path,
		"imageUrl": path,
		"fileName": img.Name,
	}), nil
}
