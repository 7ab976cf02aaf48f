package model

// CountryRef is a drafted country as written in the roster.
type CountryRef struct {
	Code string
	Name string // roster display name, informational only
}

// Friend is one roster entry with its one or two drafted countries.
type Friend struct {
	Name      string
	Countries []CountryRef
}
