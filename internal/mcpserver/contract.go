package mcpserver

// NoteFormatContract describes the note store file format and the search
// semantics for LLM consumers.
const NoteFormatContract = `# Zametki Note Format Contract

Notes live in one UTF-8 JSON file (default ` + "`data/notes.json`" + `): an array
of objects, written with 4-space indentation and non-ASCII text kept literal.

## Record

` + "```" + `json
{
    "id": 3,
    "title": "Список покупок",
    "text": "молоко хлеб",
    "date": "17.10.2026 09:30"
}
` + "```" + `

## Rules

1. **All four keys are required.** A record missing any of them makes the
   whole store unreadable until it is fixed.
2. **id** is a positive integer assigned as max(existing ids) + 1. Ids are never
   reused and notes are never edited in place.
3. **title** and **text** must be non-empty after trimming whitespace.
4. **date** uses the ` + "`DD.MM.YYYY HH:MM`" + ` layout and defaults to the creation time.

## Search semantics

- ` + "`title`" + ` and ` + "`date`" + ` match the whole stored value exactly (case-sensitive).
- ` + "`keyword`" + ` matches a whitespace-delimited word of the text. A note is
  reported once per occurrence of the word.
- An empty result means nothing matched.
`
