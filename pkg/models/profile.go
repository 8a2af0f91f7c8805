package models

// UserProfile stores personalization preferences keyed by email.
type UserProfile struct {
	Email              string   `json:"email" validate:"required,email_address"`
	DisplayName        *string  `json:"display_name"`
	FavoriteCategories []string `json:"favorite_categories"`
	SavedItems         []string `json:"saved_items"`
	SustainabilityPref bool     `json:"sustainability_pref"`
}

func NewUserProfile() *UserProfile {
	return &UserProfile{
		FavoriteCategories: []string{},
		SavedItems:         []string{},
	}
}

func (u *UserProfile) Kind() Kind { return KindUserProfile }

func (u *UserProfile) Fields() map[string]any {
	return map[string]any{
		"email":               u.Email,
		"display_name":        optional(u.DisplayName),
		"favorite_categories": list(u.FavoriteCategories),
		"saved_items":         list(u.SavedItems),
		"sustainability_pref": u.SustainabilityPref,
	}
}
