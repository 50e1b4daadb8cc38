package main

import "github.com/starford/zametki/internal/noteservice"

type messages struct {
	created string
	noNotes string
	noID    string
	search  map[string]string
}

var localeMessages = map[string]messages{
	"ru": {
		created: "Заметка %d сохранена",
		noNotes: "Заметок нет",
		noID:    "Заметки с таким номером не найдено",
		search: map[string]string{
			noteservice.ModeTitle:   "Заметок с таким названием не найдено",
			noteservice.ModeDate:    "Заметок с такой датой не найдено",
			noteservice.ModeKeyword: "Заметок с таким заданным словом не найдено",
		},
	},
	"en": {
		created: "Note %d saved",
		noNotes: "No notes",
		noID:    "No note with this id",
		search: map[string]string{
			noteservice.ModeTitle:   "No notes with this title",
			noteservice.ModeDate:    "No notes with this date",
			noteservice.ModeKeyword: "No notes contain this word",
		},
	},
}

func messagesFor(locale string) messages {
	if m, ok := localeMessages[locale]; ok {
		return m
	}
	return localeMessages["ru"]
}
