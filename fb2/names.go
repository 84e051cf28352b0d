package fb2

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"

	"inkwell/config"
	"inkwell/model"
)

// SectionID returns stable XML id of chapter section.
func SectionID(ch *model.Chapter, index int) string {
	if s := slug.Make(ch.Title); s != "" {
		return "ch-" + strconv.Itoa(index+1) + "-" + s
	}
	return "ch-" + strconv.Itoa(index+1)
}

// Transliterate converts non-ASCII characters to their ASCII equivalents
// keeping spaces and capitalization of every word: "Война и мир" -> "Voina i mir".
func Transliterate(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = transliterateWord(word)
	}
	return strings.Join(words, " ")
}

func transliterateWord(word string) string {
	if word == "" {
		return ""
	}
	runes := []rune(word)

	slug.Lowercase = false
	trans := []rune(slug.Make(word))
	slug.Lowercase = true
	if len(trans) == 0 {
		return word
	}

	switch {
	case isAllUpper(runes):
		for i := range trans {
			trans[i] = unicode.ToUpper(trans[i])
		}
	case unicode.IsUpper(runes[0]):
		trans[0] = unicode.ToUpper(trans[0])
	}
	return string(trans)
}

func isAllUpper(runes []rune) bool {
	var letters bool
	for _, r := range runes {
		if unicode.IsLetter(r) {
			letters = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return letters
}

// nameValues are available to output name template.
type nameValues struct {
	Title   string
	Author  string
	Lang    string
	Project string
	Date    string
}

// OutputName expands output file name template. Besides slim-sprig functions
// template may use "slug" and "transliterate".
func OutputName(field string, meta *Meta) (string, error) {
	funcMap := sprig.FuncMap()
	funcMap["slug"] = slug.Make
	funcMap["transliterate"] = Transliterate

	tmpl, err := template.New(string(config.OutputNameTemplateFieldName)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", config.OutputNameTemplateFieldName, err)
	}
	values := &nameValues{
		Title:   meta.Title,
		Author:  meta.Author,
		Lang:    meta.Lang,
		Project: meta.Project,
	}
	if !meta.Date.IsZero() {
		values.Date = meta.Date.Format(dateLayout)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return config.CleanFileName(strings.TrimSpace(buf.String())), nil
}
