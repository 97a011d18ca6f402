package detail

import (
	"fmt"

	"github.com/agenthands/kinship/internal/core/model"
)

// Labels are the display strings of the detail card. The defaults are the
// Hebrew labels of the family site.
type Labels struct {
	Male             string `toml:"male" json:"male"`
	Female           string `toml:"female" json:"female"`
	Children         string `toml:"children" json:"children"`
	Spouse           string `toml:"spouse" json:"spouse"`
	PlaceholderPhoto string `toml:"placeholder_photo" json:"placeholder_photo"`
}

func DefaultLabels() Labels {
	return Labels{
		Male:             "זכר",
		Female:           "נקבה",
		Children:         "ילדים",
		Spouse:           "בן/בת זוג",
		PlaceholderPhoto: "https://via.placeholder.com/300x300?text=Photo",
	}
}

func (l Labels) Gender(g model.Gender) string {
	if g == model.GenderMale {
		return l.Male
	}
	return l.Female
}

type Chip struct {
	Text   string       `json:"text"`
	Gender model.Gender `json:"gender,omitempty"`
}

// Card is what the person dialog shows.
type Card struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
	Meta  string `json:"meta"`
	Bio   string `json:"bio"`
	Chips []Chip `json:"chips"`
}

// NewCard renders the detail card of p. byID resolves the spouse name; an
// unknown spouse gets no chip.
func NewCard(p model.Person, byID map[string]model.Person, labels Labels) Card {
	gender := p.GenderClass()
	genderLabel := labels.Gender(gender)

	photo := p.Photo
	if photo == "" {
		photo = labels.PlaceholderPhoto
	}

	meta := fmt.Sprintf("%s · %s", genderLabel, p.Birth)
	if p.Death != "" {
		meta += " – " + p.Death
	}

	chips := []Chip{
		{Text: genderLabel, Gender: gender},
		{Text: fmt.Sprintf("%s: %d", labels.Children, len(p.Children))},
	}
	if p.Spouse != "" {
		if sp, ok := byID[p.Spouse]; ok {
			chips = append(chips, Chip{Text: fmt.Sprintf("%s: %s", labels.Spouse, sp.Name)})
		}
	}

	return Card{
		ID:    p.ID,
		Name:  p.Name,
		Photo: photo,
		Meta:  meta,
		Bio:   p.Bio,
		Chips: chips,
	}
}
