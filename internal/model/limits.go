package model

// Field limits shared by the models, the registration form and the catalog importer.
const (
	TitleMaxLength       = 256
	CountryMaxLength     = 3
	CityMaxLength        = 128
	DescriptionMaxLength = 2000
	MaxGuestsValue       = 10
	NameMaxLength        = 150
	EmailMaxLength       = 254
)
