package ingest

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// blockElements start a new paragraph in the extracted text
var blockElements = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "blockquote": true, "div": true, "article": true, "section": true,
	"br": true, "tr": true, "figcaption": true, "pre": true,
}

// skipElements never contribute text
var skipElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "iframe": true, "svg": true,
	"nav": true, "header": true, "footer": true, "aside": true, "form": true,
	"button": true, "template": true, "head": true,
}

// ExtractText returns the readable text of an HTML document, one paragraph
// per line. Navigation, scripts and styles are dropped.
func ExtractText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	root := doc
	if article := findElement(doc, "article"); article != nil {
		root = article
	} else if main := findElement(doc, "main"); main != nil {
		root = main
	}

	var paragraphs []string
	var current strings.Builder

	flush := func() {
		text := strings.Join(strings.Fields(current.String()), " ")
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
		current.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipElements[n.Data] {
			return
		}

		block := n.Type == html.ElementNode && blockElements[n.Data]
		if block {
			flush()
		}

		if n.Type == html.TextNode {
			current.WriteString(n.Data)
			current.WriteString(" ")
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if block {
			flush()
		}
	}
	walk(root)
	flush()

	return strings.Join(paragraphs, "\n"), nil
}

// findElement returns the first element with the given tag, depth first
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
