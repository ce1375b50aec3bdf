package models

import "github.com/uptrace/bun"

type Category struct {
	bun.BaseModel `bun:"table:categories"`
	Base

	Name        string  `bun:"name,unique,notnull" json:"name"`
	Description *string `bun:"description" json:"description"`
}

type CategoryCreate struct {
	Name        *string `json:"name" validate:"required,min=1,max=50"`
	Description *string `json:"description" validate:"omitempty,max=200"`
}

func (c CategoryCreate) ToModel() *Category {
	return &Category{
		Name:        valueOr(c.Name, ""),
		Description: copyPtr(c.Description),
	}
}

type CategoryUpdate struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=50"`
	Description *string `json:"description" validate:"omitempty,max=200"`
}

func (u CategoryUpdate) Apply(row *Category) []string {
	var cols []string
	cols = assign(cols, "name", u.Name, &row.Name)
	cols = assignNullable(cols, "description", u.Description, &row.Description)
	return cols
}
