// Package coupon evaluates coupons against an order.
package coupon

import (
	"math"
	"strings"
	"time"

	"cardapio-backend/internal/model"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Reasons returned when a coupon does not apply.
const (
	ReasonNotFound      = "coupon_not_found"
	ReasonInactive      = "coupon_inactive"
	ReasonExpired       = "coupon_expired"
	ReasonMinimumOrder  = "min_order_value_not_met"
	ReasonUsageExceeded = "usage_limit_reached"
)

// Coupon is the typed view of a stored coupon document.
type Coupon struct {
	Code                    string
	Active                  bool
	ValidUntil              *Date
	MinimumOrderValue       *float64
	UsageLimit              *float64
	UsageCount              float64
	FreeShipping            bool
	MaxFreeShippingDistance *float64
	DiscountType            string
	DiscountValue           float64
}

// Date is a calendar day with no time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{y, m, d}
}

func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

func (d Date) String() string {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

// NormalizeCode is the canonical form codes are stored and compared in.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// FromDocument reads a coupon document. Dates carrying a time are moved to
// loc before their calendar day is taken; bare dates are used as is.
func FromDocument(doc bson.M, loc *time.Location) Coupon {
	c := Coupon{
		Code:         NormalizeCode(model.String(doc, "code")),
		Active:       true,
		DiscountType: strings.ToLower(model.String(doc, "discountType")),
	}
	if active, ok := model.Bool(doc, "active"); ok {
		c.Active = active
	}
	if v, ok := doc["validUntil"]; ok && v != nil {
		if t, ok := model.ToTime(v, loc); ok {
			d := DateOf(t.In(loc))
			c.ValidUntil = &d
		}
	}
	c.MinimumOrderValue = optionalFloat(doc, "minimumOrderValue")
	c.UsageLimit = optionalFloat(doc, "usageLimit")
	if c.UsageLimit == nil {
		c.UsageLimit = optionalFloat(doc, "usosMaximos")
	}
	if n, ok := model.Float(doc, "usageCount"); ok {
		c.UsageCount = n
	}
	c.FreeShipping, _ = model.Bool(doc, "freeShipping")
	c.MaxFreeShippingDistance = optionalFloat(doc, "maxFreeShippingDistance")
	if v, ok := model.Float(doc, "discountValue"); ok {
		c.DiscountValue = v
	}
	return c
}

func optionalFloat(doc bson.M, key string) *float64 {
	v, ok := model.Float(doc, key)
	if !ok {
		return nil
	}
	return &v
}

// Order is what a coupon is checked against.
type Order struct {
	Total float64
	Now   time.Time
}

// Result of a validation. Reason and Message are set only when Valid is false.
type Result struct {
	Valid                   bool     `json:"valid"`
	Reason                  string   `json:"reason,omitempty"`
	Message                 string   `json:"message,omitempty"`
	Discount                float64  `json:"discount"`
	FreeShipping            bool     `json:"freeShipping"`
	MaxFreeShippingDistance *float64 `json:"maxFreeShippingDistance,omitempty"`
}

// Validate runs the checks in order; the first failing one decides.
// c == nil means the code did not resolve to a coupon. order.Now must
// already be in the evaluator's timezone.
func Validate(c *Coupon, order Order) Result {
	if c == nil {
		return invalid(ReasonNotFound, "coupon not found")
	}
	if !c.Active {
		return invalid(ReasonInactive, "coupon is not active")
	}
	if c.ValidUntil != nil && c.ValidUntil.Before(DateOf(order.Now)) {
		return invalid(ReasonExpired, "coupon expired on "+c.ValidUntil.String())
	}
	if c.MinimumOrderValue != nil && order.Total < *c.MinimumOrderValue {
		return invalid(ReasonMinimumOrder, "minimum order value is "+FormatMoney(*c.MinimumOrderValue))
	}
	if c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit {
		return invalid(ReasonUsageExceeded, "coupon usage limit reached")
	}

	return Result{
		Valid:                   true,
		Discount:                c.Discount(order.Total),
		FreeShipping:            c.FreeShipping,
		MaxFreeShippingDistance: c.MaxFreeShippingDistance,
	}
}

// Discount is the amount taken off total, never more than total.
func (c *Coupon) Discount(total float64) float64 {
	var d float64
	switch c.DiscountType {
	case DiscountPercentage:
		d = total * c.DiscountValue / 100
	case DiscountFixed:
		d = c.DiscountValue
	default:
		return 0
	}
	d = math.Max(0, math.Min(d, total))
	return math.Round(d*100) / 100
}

func invalid(reason, message string) Result {
	return Result{Reason: reason, Message: message}
}

// Lookup returns the document whose code matches code, ignoring case and
// surrounding whitespace on both sides.
func Lookup(docs []bson.M, code string) (bson.M, bool) {
	want := NormalizeCode(code)
	if want == "" {
		return nil, false
	}
	for _, d := range docs {
		if NormalizeCode(model.String(d, "code")) == want {
			return d, true
		}
	}
	return nil, false
}
