package models

// Measurement holds body measurements submitted for a shopper.
type Measurement struct {
	Email    string   `json:"email" validate:"required,email_address"`
	HeightCm *float64 `json:"height_cm" validate:"omitempty,gte=50,lte=250"`
	WeightKg *float64 `json:"weight_kg" validate:"omitempty,gte=20,lte=300"`
	ChestCm  *float64 `json:"chest_cm" validate:"omitempty,gte=40,lte=200"`
	WaistCm  *float64 `json:"waist_cm" validate:"omitempty,gte=40,lte=200"`
	HipsCm   *float64 `json:"hips_cm" validate:"omitempty,gte=40,lte=200"`
	Notes    *string  `json:"notes"`
}

func (m *Measurement) Kind() Kind { return KindMeasurement }

func (m *Measurement) Fields() map[string]any {
	return map[string]any{
		"email":     m.Email,
		"height_cm": optional(m.HeightCm),
		"weight_kg": optional(m.WeightKg),
		"chest_cm":  optional(m.ChestCm),
		"waist_cm":  optional(m.WaistCm),
		"hips_cm":   optional(m.HipsCm),
		"notes":     optional(m.Notes),
	}
}
