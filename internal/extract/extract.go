// Package extract pulls plain-text transcriptions out of the archive's XML
// files. One XML file describes one copy of a work; each object (plate,
// page) inside it yields one text file named after its desc_id, suitable as
// input to the similarity service.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/antchfx/xmlquery"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Archive is the parsed XML for one copy in the archive.
type Archive struct {
	Path string
	doc  *xmlquery.Node
}

// Open parses an archive XML file.
func Open(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive xml: %w", err)
	}
	defer f.Close()

	doc, err := xmlquery.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &Archive{Path: path, doc: doc}, nil
}

// Objects returns every object description in the archive file.
func (a *Archive) Objects() []*Object {
	nodes := xmlquery.Find(a.doc, "//objdesc/desc")
	objects := make([]*Object, 0, len(nodes))
	for _, node := range nodes {
		objects = append(objects, &Object{
			DescID: node.SelectAttr("id"),
			node:   node,
		})
	}
	return objects
}

// Object is one object (plate/page) description inside an archive file.
type Object struct {
	DescID string
	node   *xmlquery.Node
}

// Text returns the object's transcription with the normalizations the
// similarity service expects: note content dropped, <space/> elements
// rendered as a single space, whitespace runs collapsed, one physical line
// per output line.
func (o *Object) Text() string {
	var out strings.Builder
	for _, line := range xmlquery.Find(o.node, "phystext//l") {
		var raw strings.Builder
		collectText(line, &raw)

		text := strings.TrimSpace(whitespaceRun.ReplaceAllString(raw.String(), " "))
		if text == "" {
			continue
		}
		out.WriteString(text)
		out.WriteByte('\n')
	}
	return strings.TrimRight(out.String(), "\n")
}

// collectText gathers the nested text of a line node. Line text lives in
// text nodes at any depth, but <note> subtrees carry editorial content that
// is not part of the transcription, and <space/> stands in for whitespace
// the encoder could not represent literally.
func collectText(n *xmlquery.Node, out *strings.Builder) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case xmlquery.TextNode, xmlquery.CharDataNode:
			out.WriteString(child.Data)
		case xmlquery.ElementNode:
			switch child.Data {
			case "note":
				// skip editorial notes entirely
			case "space":
				out.WriteByte(' ')
			default:
				collectText(child, out)
			}
		}
	}
}

// WriteText writes the object's transcription to {desc_id}.txt inside dir.
func (o *Object) WriteText(dir string) error {
	path := filepath.Join(dir, o.DescID+".txt")
	if err := os.WriteFile(path, []byte(o.Text()), 0o644); err != nil {
		return fmt.Errorf("write transcription: %w", err)
	}
	return nil
}

// ExtractDir extracts transcriptions from every *.xml file in xmlDir into
// textDir, creating textDir if needed. It returns the number of
// transcriptions written.
func ExtractDir(xmlDir, textDir string) (int, error) {
	paths, err := filepath.Glob(filepath.Join(xmlDir, "*.xml"))
	if err != nil {
		return 0, fmt.Errorf("glob %s: %w", xmlDir, err)
	}
	if err := os.MkdirAll(textDir, 0o755); err != nil {
		return 0, fmt.Errorf("create text dir: %w", err)
	}

	written := 0
	for _, path := range paths {
		archive, err := Open(path)
		if err != nil {
			return written, err
		}
		for _, object := range archive.Objects() {
			if err := object.WriteText(textDir); err != nil {
				return written, err
			}
			written++
		}
	}
	return written, nil
}
