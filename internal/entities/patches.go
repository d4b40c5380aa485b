package entities

// Patches carry partial updates. A nil field is left untouched. Columns maps
// only the fields that are set onto fixed column names, so nothing outside
// these names ever reaches an UPDATE statement.

type AuthorPatch struct {
	Name      *string `json:"name" validate:"omitempty,person_name"`
	BirthYear *int    `json:"birth_year" validate:"omitempty,min=0,max=2025"`
}

func (p AuthorPatch) Columns() map[string]any {
	cols := make(map[string]any, 2)
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.BirthYear != nil {
		cols["birth_year"] = *p.BirthYear
	}
	return cols
}

type BookPatch struct {
	Title           *string `json:"title"`
	PublicationYear *int    `json:"publication_year" validate:"omitempty,min=1400,max=2025"`
}

func (p BookPatch) Columns() map[string]any {
	cols := make(map[string]any, 2)
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.PublicationYear != nil {
		cols["publication_year"] = *p.PublicationYear
	}
	return cols
}

type StudentPatch struct {
	Name   *string `json:"name" validate:"omitempty,person_name"`
	Email  *string `json:"email" validate:"omitempty,library_email"`
	Age    *int    `json:"age" validate:"omitempty,min=14"`
	Active *bool   `json:"active"`
}

func (p StudentPatch) Columns() map[string]any {
	cols := make(map[string]any, 4)
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Email != nil {
		cols["email"] = *p.Email
	}
	if p.Age != nil {
		cols["age"] = *p.Age
	}
	if p.Active != nil {
		cols["active"] = *p.Active
	}
	return cols
}

// Deactivates reports whether applying the patch would mark a student inactive.
func (p StudentPatch) Deactivates() bool {
	return p.Active != nil && !*p.Active
}
