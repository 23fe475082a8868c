package blocks

import (
	"context"
	"fmt"
	"regexp"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/google/uuid"
)

// InvalidBlockPlaceholder replaces a block that failed to render. Page
// rendering is total: a dangling reference degrades to this, it never
// aborts the page.
const InvalidBlockPlaceholder = `<div class="invalid-block">Invalid block!</div>`

// ImageMeta is what the renderer needs to know about a referenced image.
type ImageMeta struct {
	ID          uuid.UUID
	Author      string
	Description string
}

// ImageResolver resolves an image reference at render time.
type ImageResolver interface {
	ResolveImage(ctx context.Context, id uuid.UUID) (ImageMeta, error)
}

var youtubePrefix = regexp.MustCompile(
	`(https://)?(youtu\.be|youtube\.com|www\.youtube\.com)/(watch\?v=|shorts|live)?/?`,
)

func renderMarkdown(src string) string {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(src))

	opts := html.RendererOptions{Flags: html.CommonFlags}
	renderer := html.NewRenderer(opts)

	return string(markdown.Render(doc, renderer))
}

// Render produces the HTML for a single block.
func Render(ctx context.Context, b Block, images ImageResolver) (string, error) {
	switch v := b.(type) {
	case Heading:
		return fmt.Sprintf("<h2>%s</h2>", v.Heading), nil
	case Paragraph:
		return renderMarkdown(v.BodyText), nil
	case Quote:
		return fmt.Sprintf(`<blockquote cite="%s">%s</blockquote>`, v.Citation, v.Quote), nil
	case Image:
		imageID, err := uuid.Parse(v.ID)
		if err != nil {
			return "", fmt.Errorf("parse image id %q: %w", v.ID, err)
		}
		meta, err := images.ResolveImage(ctx, imageID)
		if err != nil {
			return "", fmt.Errorf("resolve image %s: %w", imageID, err)
		}
		return fmt.Sprintf(
			`<img src="/dynamic-data/images/m/%s.webp" alt="%s" /><p class="caption">%s <span>Photo: %s.</span></p>`,
			meta.ID, meta.Description, v.Caption, meta.Author,
		), nil
	case RawHTML:
		return v.HTML, nil
	case YouTube:
		// Unparseable links degrade to an embed with an empty video id.
		videoID := youtubePrefix.ReplaceAllString(v.VideoLink, "")
		caption := ""
		if v.Caption != nil {
			caption = *v.Caption
		}
		return fmt.Sprintf(
			`<iframe class="youtube-video" src="https://www.youtube.com/embed/%s" title="YouTube video player" frameborder="0" allowfullscreen></iframe><p class="caption">%s</p>`,
			videoID, caption,
		), nil
	case TextBox:
		class := ""
		if v.Color != nil {
			class = v.Color.CSSClass()
		}
		return fmt.Sprintf(`<div class="textbox %s">%s</div>`, class, renderMarkdown(v.Text)), nil
	}
	return "", fmt.Errorf("unknown block type %T", b)
}

// RenderAll concatenates the rendered blocks in stored order, substituting
// the placeholder for any block that fails.
func RenderAll(ctx context.Context, bs []Block, images ImageResolver) string {
	var out string
	for _, b := range bs {
		rendered, err := Render(ctx, b, images)
		if err != nil {
			out += InvalidBlockPlaceholder
			continue
		}
		out += rendered
	}
	return out
}
