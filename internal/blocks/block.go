package blocks

import (
	"encoding/json"
	"fmt"
)

// Kind is the discriminant tag carried in the serialized form of a block.
type Kind string

const (
	KindParagraph Kind = "Paragraph"
	KindImage     Kind = "Image"
	KindQuote     Kind = "Quote"
	KindHeading   Kind = "Heading"
	KindRawHTML   Kind = "RawHtml"
	KindYouTube   Kind = "YouTube"
	KindTextBox   Kind = "TextBox"
)

// TextBoxColor is the closed set of background plates a text box may use.
// The names reflect the site's graphical profile.
type TextBoxColor string

const (
	ColorGrey   TextBoxColor = "Grey"
	ColorBlue   TextBoxColor = "Blue"
	ColorGreen  TextBoxColor = "Green"
	ColorRed    TextBoxColor = "Red"
	ColorYellow TextBoxColor = "Yellow"
)

// CSSClass returns the stylesheet class for the color.
func (c TextBoxColor) CSSClass() string {
	switch c {
	case ColorGrey:
		return "grey"
	case ColorBlue:
		return "blue"
	case ColorGreen:
		return "green"
	case ColorRed:
		return "red"
	case ColorYellow:
		return "yellow"
	}
	return ""
}

func (c *TextBoxColor) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch TextBoxColor(s) {
	case ColorGrey, ColorBlue, ColorGreen, ColorRed, ColorYellow:
		*c = TextBoxColor(s)
		return nil
	}
	return fmt.Errorf("unknown text box color %q", s)
}

// Block is one renderable unit of content within a Text or Page. The set
// of implementations is closed; serialization rejects unknown kinds.
type Block interface {
	Kind() Kind
}

// Paragraph holds markdown, so inline formatting is possible.
type Paragraph struct {
	BodyText string `json:"body_text"`
}

func (Paragraph) Kind() Kind { return KindParagraph }

// Image references an uploaded image by id; the metadata is resolved at
// render time, never stored inside the block.
type Image struct {
	ID      string `json:"id"`
	Caption string `json:"caption"`
}

func (Image) Kind() Kind { return KindImage }

type Quote struct {
	Quote    string `json:"quote"`
	Citation string `json:"citation"`
}

func (Quote) Kind() Kind { return KindQuote }

// Heading is a plain H2; the text is not markdown-processed.
type Heading struct {
	Heading string `json:"heading"`
}

func (Heading) Kind() Kind { return KindHeading }

// RawHTML passes through unescaped. Content authors are privileged
// Creators, not anonymous users.
type RawHTML struct {
	HTML string `json:"html"`
}

func (RawHTML) Kind() Kind { return KindRawHTML }

type YouTube struct {
	VideoLink string  `json:"video_link"`
	Caption   *string `json:"caption"`
}

func (YouTube) Kind() Kind { return KindYouTube }

// TextBox is a paragraph on a colored background plate.
type TextBox struct {
	Text  string        `json:"text"`
	Color *TextBoxColor `json:"color"`
}

func (TextBox) Kind() Kind { return KindTextBox }

// Encode serializes a block sequence as a JSON array of tagged objects.
// The tag field is "type" and field order per variant is fixed, so
// Decode(Encode(bs)) round-trips structurally equal.
func Encode(bs []Block) ([]byte, error) {
	raw := make([]json.RawMessage, 0, len(bs))
	for i, b := range bs {
		data, err := marshalBlock(b)
		if err != nil {
			return nil, fmt.Errorf("encode block %d: %w", i, err)
		}
		raw = append(raw, data)
	}
	return json.Marshal(raw)
}

// Decode parses a JSON array of tagged objects. Unknown tags fail.
func Decode(data []byte) ([]Block, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode block array: %w", err)
	}

	bs := make([]Block, 0, len(raw))
	for i, msg := range raw {
		b, err := unmarshalBlock(msg)
		if err != nil {
			return nil, fmt.Errorf("decode block %d: %w", i, err)
		}
		bs = append(bs, b)
	}
	return bs, nil
}

func marshalBlock(b Block) ([]byte, error) {
	switch v := b.(type) {
	case Paragraph:
		return json.Marshal(struct {
			Type Kind `json:"type"`
			Paragraph
		}{KindParagraph, v})
	case Image:
		return json.Marshal(struct {
			Type Kind `json:"type"`
			Image
		}{KindImage, v})
	case Quote:
		return json.Marshal(struct {
			Type Kind `json:"type"`
			Quote
		}{KindQuote, v})
	case Heading:
		return json.Marshal(struct {
			Type Kind `json:"type"`
			Heading
		}{KindHeading, v})
	case RawHTML:
		return json.Marshal(struct {
			Type Kind `json:"type"`
			RawHTML
		}{KindRawHTML, v})
	case YouTube:
		return json.Marshal(struct {
			Type Kind `json:"type"`
			YouTube
		}{KindYouTube, v})
	case TextBox:
		return json.Marshal(struct {
			Type Kind `json:"type"`
			TextBox
		}{KindTextBox, v})
	}
	return nil, fmt.Errorf("unknown block type %T", b)
}

func unmarshalBlock(data []byte) (Block, error) {
	var tag struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, err
	}

	var target Block
	switch tag.Type {
	case KindParagraph:
		target = &Paragraph{}
	case KindImage:
		target = &Image{}
	case KindQuote:
		target = &Quote{}
	case KindHeading:
		target = &Heading{}
	case KindRawHTML:
		target = &RawHTML{}
	case KindYouTube:
		target = &YouTube{}
	case KindTextBox:
		target = &TextBox{}
	default:
		return nil, fmt.Errorf("unknown block tag %q", tag.Type)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return nil, err
	}
	return deref(target), nil
}

// deref returns the value form so decoded blocks compare equal to the
// literals they were encoded from.
func deref(b Block) Block {
	switch v := b.(type) {
	case *Paragraph:
		return *v
	case *Image:
		return *v
	case *Quote:
		return *v
	case *Heading:
		return *v
	case *RawHTML:
		return *v
	case *YouTube:
		return *v
	case *TextBox:
		return *v
	}
	return b
}
