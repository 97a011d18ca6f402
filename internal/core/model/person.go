package model

import "strings"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender maps the dataset spellings (M, male, F, female) onto a Gender.
// Anything that is not male is treated as female.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "male":
		return GenderMale
	default:
		return GenderFemale
	}
}

// Person is a single record of the family dataset.
type Person struct {
	ID       string    `json:"id" toml:"id" yaml:"id"`
	Name     string    `json:"name" toml:"name" yaml:"name"`
	Gender   string    `json:"gender" toml:"gender" yaml:"gender"`
	Photo    string    `json:"photo,omitempty" toml:"photo" yaml:"photo,omitempty"`
	Birth    string    `json:"birth,omitempty" toml:"birth" yaml:"birth,omitempty"`
	Death    string    `json:"death,omitempty" toml:"death" yaml:"death,omitempty"`
	Bio      string    `json:"bio,omitempty" toml:"bio" yaml:"bio,omitempty"`
	Spouse   string    `json:"spouse,omitempty" toml:"spouse" yaml:"spouse,omitempty"`
	Parents  []*string `json:"parents,omitempty" toml:"parents" yaml:"parents,omitempty"`
	Children []string  `json:"children,omitempty" toml:"children" yaml:"children,omitempty"`
}

func (p Person) GenderClass() Gender {
	return ParseGender(p.Gender)
}

// ParentPair returns the two parent slots. A missing or null slot is "".
func (p Person) ParentPair() (string, string) {
	var a, b string
	if len(p.Parents) > 0 && p.Parents[0] != nil {
		a = *p.Parents[0]
	}
	if len(p.Parents) > 1 && p.Parents[1] != nil {
		b = *p.Parents[1]
	}
	return a, b
}
