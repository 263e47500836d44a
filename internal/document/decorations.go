package document

// Decoration is a glyph that can be dropped on the canvas as a text object.
type Decoration struct {
	Name  string `json:"name"`
	Glyph string `json:"glyph"`
}

// DecorationCategory groups decorations in the picker.
type DecorationCategory struct {
	Name  string       `json:"name"`
	Items []Decoration `json:"items"`
}

// Decorations returns the built-in decoration catalogue.
func Decorations() []DecorationCategory {
	return []DecorationCategory{
		{Name: "Mariage", Items: []Decoration{
			{"Alliance", "💍"}, {"Gâteau", "🎂"}, {"Champagne", "🍾"}, {"Fleurs", "💐"}, {"Coeur", "❤️"},
		}},
		{Name: "Anniversaire", Items: []Decoration{
			{"Ballon", "🎈"}, {"Cadeau", "🎁"}, {"Gâteau", "🎂"}, {"Confetti", "🎉"}, {"Chapeau", "🎊"},
		}},
		{Name: "Formes", Items: []Decoration{
			{"Étoile", "⭐"}, {"Coeur", "❤️"}, {"Cercle", "⚪"}, {"Carré", "⬛"}, {"Triangle", "🔺"},
		}},
		{Name: "Nature", Items: []Decoration{
			{"Fleur", "🌸"}, {"Arbre", "🌳"}, {"Soleil", "☀️"}, {"Nuage", "☁️"}, {"Feuille", "🍃"},
		}},
	}
}
