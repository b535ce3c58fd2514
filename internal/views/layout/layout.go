package layout

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Layout wraps header and content in the document shell.
func Layout(title string, header, content templ.Component, theme ThemeDefinition) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>`+templ.EscapeString(title)+`</title>`+
			`<script src="https://unpkg.com/htmx.org@2.0.4"></script>`+
			`</head><body class="`+templ.EscapeString(theme.BodyClass)+`" data-theme="`+templ.EscapeString(theme.ID)+`">`); err != nil {
			return err
		}
		if header != nil {
			if err := header.Render(ctx, w); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<main class="`+mainClass(header != nil)+`">`); err != nil {
			return err
		}
		if content != nil {
			if err := content.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

func mainClass(withHeader bool) string {
	if withHeader {
		return "mx-auto max-w-6xl px-4 pt-6 pb-16"
	}
	return "mx-auto max-w-md px-4 py-24"
}
