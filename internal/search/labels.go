package search

import "fmt"

// Labels are the field captions printed in front of each report line.
type Labels struct {
	ID    string
	Title string
	Text  string
	Date  string
}

// RussianLabels is the default caption set.
var RussianLabels = Labels{
	ID:    "ID",
	Title: "Название",
	Text:  "Текст",
	Date:  "Дата",
}

// EnglishLabels is the English caption set.
var EnglishLabels = Labels{
	ID:    "ID",
	Title: "Title",
	Text:  "Text",
	Date:  "Date",
}

// Locales lists the supported locale names.
var Locales = []string{"ru", "en"}

// ForLocale returns the caption set for a locale name.
func ForLocale(name string) (Labels, error) {
	switch name {
	case "", "ru":
		return RussianLabels, nil
	case "en":
		return EnglishLabels, nil
	default:
		return Labels{}, fmt.Errorf("search: unknown locale %q", name)
	}
}

func (l Labels) orDefault() Labels {
	if l == (Labels{}) {
		return RussianLabels
	}
	return l
}
