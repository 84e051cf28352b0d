// Package fb2 exports manuscript to FictionBook 2 document: chapters become
// sections with plain paragraphs, annotation markup is dropped.
package fb2

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/maruel/natural"
	"go.uber.org/zap"

	"inkwell/markup"
	"inkwell/misc"
	"inkwell/model"
)

const (
	namespaceFB2   = "http://www.gribuser.ru/xml/fictionbook/2.0"
	namespaceXLink = "http://www.w3.org/1999/xlink"
	dateLayout     = "2006-01-02"
)

// Meta is book level information which is not part of the document
// snapshot.
type Meta struct {
	Title   string
	Author  string
	Lang    string
	Project string
	Date    time.Time
}

// Exporter builds FB2 documents.
type Exporter struct {
	codec *markup.Codec
	log   *zap.Logger
}

func NewExporter(log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("fb2")
	return &Exporter{codec: markup.NewCodec(nil, log), log: log}
}

// Export returns complete FB2 document for snapshot.
func (x *Exporter) Export(snap *model.Snapshot, meta Meta) (*etree.Document, error) {
	if meta.Date.IsZero() {
		meta.Date = time.Now()
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.WriteSettings = etree.WriteSettings{
		CanonicalText:    true,
		CanonicalAttrVal: true,
	}

	book := doc.CreateElement("FictionBook")
	book.CreateAttr("xmlns", namespaceFB2)
	book.CreateAttr("xmlns:l", namespaceXLink)

	x.description(book.CreateElement("description"), snap, &meta)

	body := book.CreateElement("body")
	paragraphs(body.CreateElement("title"), []string{meta.Title})
	for i := range snap.Chapters {
		if err := x.section(body, &snap.Chapters[i], i); err != nil {
			return nil, err
		}
	}
	x.log.Debug("Document exported", zap.String("title", meta.Title), zap.Int("chapters", len(snap.Chapters)))
	return doc, nil
}

func (x *Exporter) description(desc *etree.Element, snap *model.Snapshot, meta *Meta) {
	ti := desc.CreateElement("title-info")
	ti.CreateElement("genre").SetText("prose_contemporary")
	author(ti, meta.Author)
	ti.CreateElement("book-title").SetText(meta.Title)
	ti.CreateElement("lang").SetText(meta.Lang)

	di := desc.CreateElement("document-info")
	author(di, meta.Author)
	di.CreateElement("program-used").SetText(misc.GetAppName() + " " + misc.GetVersion())
	date := di.CreateElement("date")
	date.CreateAttr("value", meta.Date.Format(dateLayout))
	date.SetText(meta.Date.Format(dateLayout))
	// the same project always gets the same book id
	di.CreateElement("id").SetText(uuid.NewSHA1(uuid.NameSpaceURL, []byte(misc.GetAppName()+":"+meta.Project)).String())
	di.CreateElement("version").SetText("1.0")

	chars := slices.Clone(snap.Characters)
	slices.SortStableFunc(chars, func(a, b model.Character) int {
		switch {
		case natural.Less(a.Name, b.Name):
			return -1
		case natural.Less(b.Name, a.Name):
			return 1
		}
		return 0
	})
	for _, c := range chars {
		info := c.Name
		if len(c.Nicknames) > 0 {
			info += " (" + strings.Join(c.Nicknames, ", ") + ")"
		}
		ci := desc.CreateElement("custom-info")
		ci.CreateAttr("info-type", "character")
		ci.SetText(info)
	}
}

// author splits free form name, single word becomes nickname.
func author(parent *etree.Element, name string) {
	a := parent.CreateElement("author")
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		a.CreateElement("nickname").SetText(misc.GetAppName())
	case 1:
		a.CreateElement("nickname").SetText(fields[0])
	default:
		a.CreateElement("first-name").SetText(fields[0])
		if len(fields) > 2 {
			a.CreateElement("middle-name").SetText(strings.Join(fields[1:len(fields)-1], " "))
		}
		a.CreateElement("last-name").SetText(fields[len(fields)-1])
	}
}

func (x *Exporter) section(body *etree.Element, ch *model.Chapter, index int) error {
	paras, err := x.codec.Paragraphs(ch.Content)
	if err != nil {
		return fmt.Errorf("unable to export chapter %q: %w", ch.ID, err)
	}

	sec := body.CreateElement("section")
	sec.CreateAttr("id", SectionID(ch, index))
	if ch.Title != "" {
		paragraphs(sec.CreateElement("title"), []string{ch.Title})
	}
	if len(paras) == 0 {
		sec.CreateElement("empty-line")
		return nil
	}
	for _, p := range paras {
		paragraphs(sec, strings.Split(p, "\n"))
	}
	return nil
}

func paragraphs(parent *etree.Element, lines []string) {
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			parent.CreateElement("p").SetText(line)
		}
	}
}
