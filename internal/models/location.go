package models

import "github.com/uptrace/bun"

type Location struct {
	bun.BaseModel `bun:"table:locations"`
	Base

	Name     string `bun:"name,notnull" json:"name"`
	Address  string `bun:"address,notnull" json:"address"`
	Capacity int    `bun:"capacity,notnull" json:"capacity"`
}

type LocationCreate struct {
	Name     *string `json:"name" validate:"required,min=1,max=100"`
	Address  *string `json:"address" validate:"required,min=1,max=200"`
	Capacity *int    `json:"capacity" validate:"required,gt=0"`
}

func (c LocationCreate) ToModel() *Location {
	return &Location{
		Name:     valueOr(c.Name, ""),
		Address:  valueOr(c.Address, ""),
		Capacity: valueOr(c.Capacity, 0),
	}
}

type LocationUpdate struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Address  *string `json:"address" validate:"omitempty,min=1,max=200"`
	Capacity *int    `json:"capacity" validate:"omitempty,gt=0"`
}

func (u LocationUpdate) Apply(row *Location) []string {
	var cols []string
	cols = assign(cols, "name", u.Name, &row.Name)
	cols = assign(cols, "address", u.Address, &row.Address)
	cols = assign(cols, "capacity", u.Capacity, &row.Capacity)
	return cols
}
