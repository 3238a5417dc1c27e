package handler

import (
	"context"
	"fmt"

	"cardapio-backend/internal/api"
	"cardapio-backend/internal/coupon"
	"cardapio-backend/internal/model"
	"cardapio-backend/internal/store"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
)

type validateCouponRequest struct {
	Code       string  `json:"code" validate:"required"`
	OrderTotal float64 `json:"orderTotal" validate:"gte=0"`
}

// ValidateCoupon answers whether a code applies to an order total. An
// unknown, expired or exhausted coupon is a 200 with valid=false.
func (h *Handler) ValidateCoupon(ctx context.Context, req *api.Request) (*api.Response, error) {
	var body validateCouponRequest
	if err := req.Bind(&body); err != nil {
		return nil, err
	}

	coll, err := h.collection(ctx, store.Coupons)
	if err != nil {
		return nil, err
	}
	// codes saved by older versions may not be normalized, so match in memory
	docs, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}

	doc, found := coupon.Lookup(docs, body.Code)
	var c *coupon.Coupon
	if found {
		parsed := coupon.FromDocument(doc, h.loc)
		c = &parsed
	}

	res := coupon.Validate(c, coupon.Order{Total: body.OrderTotal, Now: h.localNow()})
	if !res.Valid {
		zerolog.Ctx(ctx).Debug().
			Str("code", coupon.NormalizeCode(body.Code)).
			Str("reason", res.Reason).
			Msg("coupon rejected")
		return api.OK(api.H{
			"valid":   false,
			"reason":  res.Reason,
			"message": res.Message,
		}), nil
	}

	out := api.H{
		"valid":        true,
		"discount":     res.Discount,
		"freeShipping": res.FreeShipping,
		"coupon":       model.Public(doc),
	}
	if res.MaxFreeShippingDistance != nil {
		out["maxFreeShippingDistance"] = *res.MaxFreeShippingDistance
	}
	return api.OK(out), nil
}
