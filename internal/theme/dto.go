// AngelaMos | 2026
// dto.go

package theme

import (
	"strings"
	"time"
)

type CreateThemeRequest struct {
	Name           string `json:"name"            validate:"required,max=100"`
	PrimaryColor   string `json:"primary_color"   validate:"required,hexcolor,max=7"`
	SecondaryColor string `json:"secondary_color" validate:"required,hexcolor,max=7"`
	AccentColor    string `json:"accent_color"    validate:"required,hexcolor,max=7"`
	IsDefault      bool   `json:"is_default"`
}

// normalize lowercases colors so equal colors compare equal.
func (r *CreateThemeRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.PrimaryColor = strings.ToLower(strings.TrimSpace(r.PrimaryColor))
	r.SecondaryColor = strings.ToLower(strings.TrimSpace(r.SecondaryColor))
	r.AccentColor = strings.ToLower(strings.TrimSpace(r.AccentColor))
}

type ThemeResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	UserID         *string   `json:"user_id"`
	PrimaryColor   string    `json:"primary_color"`
	SecondaryColor string    `json:"secondary_color"`
	AccentColor    string    `json:"accent_color"`
	IsDefault      bool      `json:"is_default"`
	CreatedAt      time.Time `json:"created_at"`
}

func ToThemeResponse(t *Theme) ThemeResponse {
	return ThemeResponse{
		ID:             t.ID,
		Name:           t.Name,
		UserID:         t.UserID,
		PrimaryColor:   t.PrimaryColor,
		SecondaryColor: t.SecondaryColor,
		AccentColor:    t.AccentColor,
		IsDefault:      t.IsDefault,
		CreatedAt:      t.CreatedAt,
	}
}

func ToThemeResponseList(themes []Theme) []ThemeResponse {
	out := make([]ThemeResponse, 0, len(themes))
	for i := range themes {
		out = append(out, ToThemeResponse(&themes[i]))
	}
	return out
}
