// Package deckstore persists decks as XML documents in a flat archive
// directory. Saving is a destructive overwrite; there is no versioning.
package deckstore

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/inanna-press/inanna"
)

// Sentinel errors for deck persistence.
var (
	ErrInvalidFilename = errors.New("invalid deck filename")
	ErrDeckNotFound    = errors.New("deck not found")
)

// filenameRe is the only accepted deck identity shape.
var filenameRe = regexp.MustCompile(`^[A-Za-z0-9_-]+\.xml$`)

// ValidFilename reports whether name is an acceptable deck filename.
func ValidFilename(name string) bool {
	return filenameRe.MatchString(name)
}

// Store reads and writes decks under a single archive directory.
type Store struct {
	dir string
}

// New creates a Store rooted at dir. The directory is created on first save.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// xmlPresentation mirrors the on-disk shape:
// <presentation><styles>…</styles><slides><slide>…</slide></slides></presentation>
type xmlPresentation struct {
	XMLName xml.Name   `xml:"presentation"`
	Styles  xmlStyles  `xml:"styles"`
	Slides  []xmlSlide `xml:"slides>slide"`
}

type xmlStyles struct {
	FontTitle      string `xml:"font_title"`
	FontText       string `xml:"font_text"`
	ColorH1        string `xml:"color_h1"`
	ColorH2        string `xml:"color_h2"`
	ColorH3        string `xml:"color_h3"`
	ColorHighlight string `xml:"color_highlight"`
	ColorText      string `xml:"color_text"`
	ColorBg        string `xml:"color_bg"`
	ColorBox       string `xml:"color_box"`
	ColorTitle     string `xml:"color_title,omitempty"`
}

type xmlSlide struct {
	Template string      `xml:"template"`
	Image    string      `xml:"image"`
	Markdown xmlMarkdown `xml:"markdown"`
}

// xmlMarkdown stores slide markdown as CDATA so arbitrary characters
// survive serialization without entity soup.
type xmlMarkdown struct {
	Value string `xml:",cdata"`
}

// Save writes the deck to name, overwriting any existing file.
func (s *Store) Save(name string, deck inanna.Deck) error {
	if !ValidFilename(name) {
		return fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating archive dir: %w", err)
	}

	doc := xmlPresentation{
		Styles: toXMLStyles(deck.Styles),
		Slides: make([]xmlSlide, len(deck.Slides)),
	}
	for i, slide := range deck.Slides {
		template := slide.Template
		if template == "" {
			template = inanna.TemplateA
		}
		doc.Slides[i] = xmlSlide{
			Template: string(template),
			Image:    slide.Image,
			Markdown: xmlMarkdown{Value: slide.Markdown},
		}
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding deck: %w", err)
	}
	data = append([]byte(xml.Header), data...)

	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("writing deck: %w", err)
	}
	return nil
}

// Load reads a deck by filename. It returns ErrDeckNotFound for a missing
// file and a wrapped parse error for a corrupt one; use LoadOrEmpty when
// those should degrade to an empty deck instead.
func (s *Store) Load(name string) (inanna.Deck, error) {
	if !ValidFilename(name) {
		return inanna.Deck{}, fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name)) // #nosec G304 -- name validated above
	if err != nil {
		if os.IsNotExist(err) {
			return inanna.Deck{}, fmt.Errorf("%w: %s", ErrDeckNotFound, name)
		}
		return inanna.Deck{}, fmt.Errorf("reading deck: %w", err)
	}

	var doc xmlPresentation
	if err := xml.Unmarshal(data, &doc); err != nil {
		return inanna.Deck{}, fmt.Errorf("parsing deck %s: %w", name, err)
	}

	deck := inanna.Deck{
		Styles: fromXMLStyles(doc.Styles),
		Slides: make([]inanna.Slide, len(doc.Slides)),
	}
	for i, slide := range doc.Slides {
		deck.Slides[i] = inanna.Slide{
			Template: inanna.Template(slide.Template).Normalize(),
			Image:    slide.Image,
			Markdown: slide.Markdown.Value,
		}
	}
	return deck, nil
}

// LoadOrEmpty loads a deck, mapping any failure to an empty deck with
// default styles. Callers treat "no slides" as a valid renderable state.
func (s *Store) LoadOrEmpty(name string) inanna.Deck {
	deck, err := s.Load(name)
	if err != nil {
		return inanna.Deck{Styles: inanna.DefaultStyle()}
	}
	return deck
}

// List returns the saved deck filenames, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing archive: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && ValidFilename(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a saved deck.
func (s *Store) Delete(name string) error {
	if !ValidFilename(name) {
		return fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrDeckNotFound, name)
		}
		return fmt.Errorf("deleting deck: %w", err)
	}
	return nil
}

func toXMLStyles(s inanna.Style) xmlStyles {
	return xmlStyles{
		FontTitle:      s.FontTitle,
		FontText:       s.FontText,
		ColorH1:        s.ColorH1,
		ColorH2:        s.ColorH2,
		ColorH3:        s.ColorH3,
		ColorHighlight: s.ColorHighlight,
		ColorText:      s.ColorText,
		ColorBg:        s.ColorBg,
		ColorBox:       s.ColorBox,
		ColorTitle:     s.ColorTitle,
	}
}

func fromXMLStyles(s xmlStyles) inanna.Style {
	return inanna.Style{
		FontTitle:      s.FontTitle,
		FontText:       s.FontText,
		ColorH1:        s.ColorH1,
		ColorH2:        s.ColorH2,
		ColorH3:        s.ColorH3,
		ColorHighlight: s.ColorHighlight,
		ColorText:      s.ColorText,
		ColorBg:        s.ColorBg,
		ColorBox:       s.ColorBox,
		ColorTitle:     s.ColorTitle,
	}
}
