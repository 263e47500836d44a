package document

import (
	"sort"
	"strings"

	"github.com/invitely/invitely/editor-go/internal/scene"
)

// Category groups templates in the library.
type Category string

const (
	CategoryWedding  Category = "mariage"
	CategoryBirthday Category = "anniversaire"
	CategoryBusiness Category = "professionnel"
	CategoryParty    Category = "fete"
)

// Template is a pre-built object list. Applying one replaces the scene.
type Template struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Category        Category       `json:"category"`
	BackgroundColor string         `json:"backgroundColor,omitempty"`
	Objects         []scene.Object `json:"objects"`
}

// centredText builds a centre-aligned text block whose middle sits on cx.
func centredText(id string, cx, y float64, text string, size float64, font, fill string, width float64) scene.Object {
	o := scene.New(id, cx-width/2, y, scene.Text{
		Text:       text,
		FontSize:   size,
		FontFamily: font,
		Align:      "center",
		Width:      width,
	})
	o.Fill = scene.Solid(fill)
	return o
}

func bar(id string, x, y, w, h float64, fill string) scene.Object {
	o := scene.New(id, x, y, scene.Rectangle{Width: w, Height: h})
	o.Fill = scene.Solid(fill)
	return o
}

var templates = map[string]Template{
	"wedding-elegant": {
		ID:              "wedding-elegant",
		Name:            "Mariage Élégant",
		Category:        CategoryWedding,
		BackgroundColor: "#fef7f0",
		Objects: []scene.Object{
			centredText("title-1", 540, 300, "Sarah & Thomas", 48, "Playfair Display", "#8b5a3c", 400),
			centredText("subtitle-1", 540, 380, "Ont le plaisir de vous inviter à leur mariage", 18, "Montserrat", "#6b7280", 500),
			centredText("date-1", 540, 1200, "Le 15 Juin 2024\nÀ 16h00", 24, "Montserrat", "#8b5a3c", 300),
			bar("decoration-1", 440, 420, 200, 2, "#d4a574"),
		},
	},
	"birthday-fun": {
		ID:              "birthday-fun",
		Name:            "Anniversaire Festif",
		Category:        CategoryBirthday,
		BackgroundColor: "#fef3c7",
		Objects: []scene.Object{
			centredText("title-2", 540, 400, "Joyeux Anniversaire!", 40, "Dancing Script", "#f59e0b", 600),
			centredText("age-2", 540, 500, "30 ans", 72, "Montserrat", "#dc2626", 200),
			centredText("party-2", 540, 1100, "Venez faire la fête avec nous!\n🎉 🎂 🎈", 20, "Arial", "#1f2937", 400),
		},
	},
	"business-meeting": {
		ID:              "business-meeting",
		Name:            "Réunion Professionnelle",
		Category:        CategoryBusiness,
		BackgroundColor: "#f8fafc",
		Objects: []scene.Object{
			centredText("title-3", 540, 300, "RÉUNION ANNUELLE", 36, "Helvetica", "#1e293b", 600),
			centredText("company-3", 540, 380, "ENTREPRISE XYZ", 20, "Helvetica", "#475569", 400),
			centredText("details-3", 540, 1000, "Mercredi 20 Mars 2024\n14h00 - Salle de conférence\nPrésence requise", 18, "Arial", "#334155", 500),
			bar("accent-3", 100, 0, 10, 1800, "#3b82f6"),
		},
	},
	"party-night": {
		ID:              "party-night",
		Name:            "Soirée Festive",
		Category:        CategoryParty,
		BackgroundColor: "#1a1a2e",
		Objects: []scene.Object{
			centredText("title-4", 540, 400, "PARTY NIGHT", 48, "Arial Black", "#ff6b6b", 500),
			centredText("subtitle-4", 540, 500, "Une soirée inoubliable vous attend", 20, "Arial", "#ffffff", 600),
			centredText("time-4", 540, 1200, "Samedi 25 Mai\nÀ partir de 20h00", 24, "Arial", "#4ecdc4", 400),
		},
	},
}

// LookupTemplate returns a deep copy of the template with the given id.
func LookupTemplate(id string) (Template, bool) {
	t, ok := templates[id]
	if !ok {
		return Template{}, false
	}
	t.Objects = scene.FromObjects(t.Objects).Objects()
	return t, true
}

// Templates lists templates whose name contains query (case-insensitive),
// optionally restricted to one category. An empty category matches all.
func Templates(query string, category Category) []Template {
	query = strings.ToLower(strings.TrimSpace(query))
	var out []Template
	for id := range templates {
		t, _ := LookupTemplate(id)
		if category != "" && t.Category != category {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(t.Name), query) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
