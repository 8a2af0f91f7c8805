package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationErr(t *testing.T, err error) *ValidationError {
	t.Helper()
	require.Error(t, err)
	verr, ok := err.(*ValidationError)
	require.True(t, ok, "expected *ValidationError, got %T", err)
	return verr
}

func fieldNames(verr *ValidationError) []string {
	names := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		names = append(names, f.Field)
	}
	return names
}

func TestValidateProductAppliesDefaults(t *testing.T) {
	doc, err := Validate(KindProduct, map[string]any{
		"title":    "Oversized Tee",
		"price":    float64(29),
		"category": "unisex",
	})
	require.NoError(t, err)

	p := doc.(*Product)
	assert.Equal(t, "Oversized Tee", p.Title)
	assert.Equal(t, 29.0, *p.Price)
	assert.Equal(t, CategoryUnisex, p.Category)
	assert.Equal(t, []string{}, p.Tags)
	assert.Equal(t, []string{}, p.Images)
	assert.True(t, p.InStock)
	assert.Equal(t, DefaultProductRating, p.Rating)
	assert.Nil(t, p.Description)
}

func TestValidateProductNegativePrice(t *testing.T) {
	_, err := Validate(KindProduct, map[string]any{
		"title":    "Cap",
		"price":    -1.0,
		"category": "accessories",
	})
	verr := validationErr(t, err)
	assert.Equal(t, []string{"price"}, fieldNames(verr))
}

func TestValidateProductUnknownCategory(t *testing.T) {
	_, err := Validate(KindProduct, map[string]any{
		"title":    "Cap",
		"price":    10.0,
		"category": "kids",
	})
	verr := validationErr(t, err)
	assert.Equal(t, []string{"category"}, fieldNames(verr))
	assert.Contains(t, verr.Fields[0].Reason, "men, women, unisex, accessories")
}

func TestValidateReportsEveryViolation(t *testing.T) {
	_, err := Validate(KindProduct, map[string]any{
		"price":    "free",
		"category": "kids",
		"rating":   7.0,
	})
	verr := validationErr(t, err)
	assert.ElementsMatch(t, []string{"category", "price", "rating", "title"}, fieldNames(verr))
}

func TestValidateTypeErrorNotDuplicated(t *testing.T) {
	_, err := Validate(KindProduct, map[string]any{
		"title":    "Tee",
		"price":    "ten",
		"category": "men",
	})
	verr := validationErr(t, err)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "price", verr.Fields[0].Field)
	assert.Equal(t, "must be a number", verr.Fields[0].Reason)
}

func TestValidateNullKeepsDefault(t *testing.T) {
	doc, err := Validate(KindProduct, map[string]any{
		"title":    "Tee",
		"price":    0.0,
		"category": "women",
		"tags":     nil,
		"in_stock": nil,
	})
	require.NoError(t, err)
	p := doc.(*Product)
	assert.Equal(t, []string{}, p.Tags)
	assert.True(t, p.InStock)
}

func TestValidateOrderEmptyItems(t *testing.T) {
	_, err := Validate(KindOrder, map[string]any{
		"email":    "a@b.co",
		"items":    []any{},
		"subtotal": 10.0,
		"total":    10.0,
	})
	verr := validationErr(t, err)
	assert.Equal(t, []string{"items"}, fieldNames(verr))
}

func TestValidateOrderItemPaths(t *testing.T) {
	_, err := Validate(KindOrder, map[string]any{
		"email": "a@b.co",
		"items": []any{
			map[string]any{"product_id": "p1", "qty": 1.0},
			map[string]any{"product_id": "p2", "qty": 0.0},
		},
		"subtotal": 10.0,
		"total":    10.0,
	})
	verr := validationErr(t, err)
	assert.Equal(t, []string{"items[1].qty"}, fieldNames(verr))
}

func TestValidateOrderDefaultsAndUncheckedTotal(t *testing.T) {
	doc, err := Validate(KindOrder, map[string]any{
		"email":    "shopper@kinfash.com",
		"items":    []any{map[string]any{"product_id": "p1", "qty": 2.0, "size": "M"}},
		"subtotal": 40.0,
		"total":    1.0,
	})
	require.NoError(t, err)
	o := doc.(*Order)
	assert.Equal(t, OrderStatusCreated, o.Status)
	assert.Equal(t, 0.0, o.Shipping)
	assert.Equal(t, 2, *o.Items[0].Qty)
}

func TestValidateOrderFractionalQty(t *testing.T) {
	_, err := Validate(KindOrder, map[string]any{
		"email":    "a@b.co",
		"items":    []any{map[string]any{"product_id": "p1", "qty": 1.5}},
		"subtotal": 1.0,
		"total":    1.0,
	})
	verr := validationErr(t, err)
	assert.True(t, verr.Has("items.qty"))
}

func TestValidateMeasurementRanges(t *testing.T) {
	_, err := Validate(KindMeasurement, map[string]any{
		"email":     "fit@kinfash.com",
		"height_cm": 500.0,
	})
	verr := validationErr(t, err)
	assert.Equal(t, []string{"height_cm"}, fieldNames(verr))

	doc, err := Validate(KindMeasurement, map[string]any{"email": "fit@kinfash.com"})
	require.NoError(t, err)
	assert.Nil(t, doc.(*Measurement).HeightCm)

	_, err = Validate(KindMeasurement, map[string]any{
		"email":     "fit@kinfash.com",
		"height_cm": 250.0,
		"weight_kg": 20.0,
	})
	assert.NoError(t, err)
}

func TestValidateEmailSyntax(t *testing.T) {
	for _, email := range []string{"nope", "a@b", "@b.com", "a@b.", "a b@c.com"} {
		_, err := Validate(KindUserProfile, map[string]any{"email": email})
		verr := validationErr(t, err)
		assert.Equal(t, []string{"email"}, fieldNames(verr), email)
	}

	assert.True(t, IsEmailAddress("first.last@mail.kinfash.com"))
}

func TestValidateQuizResult(t *testing.T) {
	doc, err := Validate(KindQuizResult, map[string]any{
		"style_vibe": "y2k",
		"color_pref": "neon",
		"budget":     "$$",
	})
	require.NoError(t, err)
	q := doc.(*QuizResult)
	assert.Nil(t, q.Email)
	assert.Equal(t, []string{}, q.Answers)

	_, err = Validate(KindQuizResult, map[string]any{
		"email":      "bad",
		"style_vibe": "boho",
		"color_pref": "neon",
		"budget":     "$$$$",
	})
	verr := validationErr(t, err)
	assert.Equal(t, []string{"budget", "email", "style_vibe"}, fieldNames(verr))
}

func TestValidateDropWeekOf(t *testing.T) {
	before := time.Now().UTC().Add(-time.Second)
	doc, err := Validate(KindDrop, map[string]any{"title": "Week 12"})
	require.NoError(t, err)
	d := doc.(*Drop)
	assert.True(t, d.WeekOf.After(before))
	assert.True(t, d.Limited)

	doc, err = Validate(KindDrop, map[string]any{"title": "Week 13", "week_of": "2024-03-25T00:00:00Z"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC), doc.(*Drop).WeekOf.UTC())

	_, err = Validate(KindDrop, map[string]any{"title": "Week 14", "week_of": "next monday"})
	verr := validationErr(t, err)
	assert.Equal(t, []string{"week_of"}, fieldNames(verr))
}

func TestKindCollection(t *testing.T) {
	assert.Equal(t, "quizresult", KindQuizResult.Collection())
	assert.Equal(t, "userprofile", KindUserProfile.Collection())
	assert.True(t, KindOrder.IsValid())
	assert.False(t, Kind("Cart").IsValid())

	_, err := Validate(Kind("Cart"), map[string]any{})
	assert.Error(t, err)
}

func TestFieldsRoundTrip(t *testing.T) {
	raw := map[string]any{
		"title":       "Cargo Pants",
		"description": "Relaxed fit",
		"price":       59.5,
		"category":    "men",
		"tags":        []any{"bestseller", "new"},
		"images":      []any{"https://cdn.kinfash.com/cargo.png"},
		"in_stock":    false,
		"rating":      4.0,
	}
	doc, err := Validate(KindProduct, raw)
	require.NoError(t, err)

	again, err := Validate(KindProduct, doc.Fields())
	require.NoError(t, err)
	assert.Equal(t, doc, again)
}

func TestValidateKeysMatchExactly(t *testing.T) {
	_, err := Validate(KindProduct, map[string]any{"title": "Tee", "Price": 5.0, "category": "men"})
	verr := validationErr(t, err)
	assert.Equal(t, []FieldError{{Field: "price", Reason: "field required"}}, verr.Fields)

	_, err = Validate(KindProduct, map[string]any{"TITLE": "Tee", "price": 5.0, "CATEGORY": "men"})
	verr = validationErr(t, err)
	assert.Equal(t, []string{"category", "title"}, fieldNames(verr))
}

func TestValidateNestedKeysMatchExactly(t *testing.T) {
	_, err := Validate(KindOrder, map[string]any{
		"email":    "buyer@kinfash.com",
		"items":    []any{map[string]any{"product_id": "p1", "QTY": 2.0}},
		"subtotal": 10.0,
		"total":    10.0,
	})
	verr := validationErr(t, err)
	assert.Equal(t, []string{"items[0].qty"}, fieldNames(verr))
}

func TestValidateDropWeekOfLayouts(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-01-01T09:30:00", time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)},
		{"2024-01-01T09:30:00+02:00", time.Date(2024, 1, 1, 7, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		doc, err := Validate(KindDrop, map[string]any{"title": "Week 1", "week_of": tt.in})
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(doc.(*Drop).WeekOf), tt.in)
	}

	_, err := Validate(KindDrop, map[string]any{"title": "Week 1", "week_of": "2024-13-40"})
	verr := validationErr(t, err)
	assert.Equal(t, []FieldError{{Field: "week_of", Reason: "must be an RFC 3339 timestamp"}}, verr.Fields)
}
