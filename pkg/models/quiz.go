package models

type StyleVibe string

const (
	StyleMinimal    StyleVibe = "minimal"
	StyleStreetwear StyleVibe = "streetwear"
	StyleAthleisure StyleVibe = "athleisure"
	StyleRetro      StyleVibe = "retro"
	StyleY2K        StyleVibe = "y2k"
	StylePreppy     StyleVibe = "preppy"
	StyleGrunge     StyleVibe = "grunge"
)

type ColorPref string

const (
	ColorNeon       ColorPref = "neon"
	ColorPastel     ColorPref = "pastel"
	ColorMonochrome ColorPref = "monochrome"
	ColorEarthy     ColorPref = "earthy"
	ColorMixed      ColorPref = "mixed"
)

type Budget string

const (
	BudgetLow  Budget = "$"
	BudgetMid  Budget = "$$"
	BudgetHigh Budget = "$$$"
)

// QuizResult is one completed style quiz.
type QuizResult struct {
	Email     *string   `json:"email" validate:"omitempty,email_address"`
	StyleVibe StyleVibe `json:"style_vibe" validate:"required,oneof=minimal streetwear athleisure retro y2k preppy grunge"`
	ColorPref ColorPref `json:"color_pref" validate:"required,oneof=neon pastel monochrome earthy mixed"`
	Budget    Budget    `json:"budget" validate:"required,oneof=$ $$ $$$"`
	Answers   []string  `json:"answers"`
}

func NewQuizResult() *QuizResult {
	return &QuizResult{Answers: []string{}}
}

func (q *QuizResult) Kind() Kind { return KindQuizResult }

func (q *QuizResult) Fields() map[string]any {
	return map[string]any{
		"email":      optional(q.Email),
		"style_vibe": string(q.StyleVibe),
		"color_pref": string(q.ColorPref),
		"budget":     string(q.Budget),
		"answers":    list(q.Answers),
	}
}
