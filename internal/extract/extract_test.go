package extract

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleXML = `<?xml version="1.0" encoding="utf-8"?>
<bad>
  <objdesc>
    <desc id="vda.h.illbk.07">
      <phystext>
        <l>Wave shadows of <note>editorial remark</note>discontent</l>
        <l>Jehovah<space extent="1"/>What Vengeance dost thou require</l>
        <l>   </l>
        <l>split
          across source lines</l>
        <l><hi rend="i">nested <subst>text</subst></hi> kept</l>
      </phystext>
    </desc>
    <desc id="vda.h.illbk.08">
      <phystext>
        <l>Second object</l>
      </phystext>
    </desc>
  </objdesc>
</bad>
`

func writeXML(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write xml: %v", err)
	}
	return path
}

func TestArchive_Objects(t *testing.T) {
	path := writeXML(t, t.TempDir(), "vda.h.xml", sampleXML)

	archive, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	objects := archive.Objects()
	if len(objects) != 2 {
		t.Fatalf("got %d objects, want 2", len(objects))
	}
	if objects[0].DescID != "vda.h.illbk.07" {
		t.Errorf("DescID = %q, want %q", objects[0].DescID, "vda.h.illbk.07")
	}
	if objects[1].DescID != "vda.h.illbk.08" {
		t.Errorf("DescID = %q, want %q", objects[1].DescID, "vda.h.illbk.08")
	}
}

func TestObject_Text(t *testing.T) {
	path := writeXML(t, t.TempDir(), "vda.h.xml", sampleXML)

	archive, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	got := archive.Objects()[0].Text()
	want := "Wave shadows of discontent\n" +
		"Jehovah What Vengeance dost thou require\n" +
		"split across source lines\n" +
		"nested text kept"
	if got != want {
		t.Errorf("Text() =\n%q\nwant\n%q", got, want)
	}
}

func TestObject_Text_Transformations(t *testing.T) {
	tests := []struct {
		name string
		body string // content of a single <l> element
		want string
	}{
		{"note content dropped", "before <note>hidden</note>after", "before after"},
		{"space element becomes one space", `a<space extent="3"/>b`, "a b"},
		{"whitespace runs collapsed", "a   b\t\tc", "a b c"},
		{"internal newline collapsed", "a\nb", "a b"},
		{"nested elements flattened", "<hi>deep <i>er</i></hi> text", "deep er text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xml := `<bad><objdesc><desc id="t.1"><phystext><l>` + tt.body + `</l></phystext></desc></objdesc></bad>`
			path := writeXML(t, t.TempDir(), "t.xml", xml)

			archive, err := Open(path)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if got := archive.Objects()[0].Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestObject_Text_EmptyLinesSkipped(t *testing.T) {
	xml := `<bad><objdesc><desc id="t.1"><phystext><l>  </l><l>only line</l><l><note>all note</note></l></phystext></desc></objdesc></bad>`
	path := writeXML(t, t.TempDir(), "t.xml", xml)

	archive, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got := archive.Objects()[0].Text(); got != "only line" {
		t.Errorf("Text() = %q, want %q", got, "only line")
	}
}

func TestObject_WriteText(t *testing.T) {
	xmlDir := t.TempDir()
	outDir := t.TempDir()
	writeXML(t, xmlDir, "vda.h.xml", sampleXML)

	archive, err := Open(filepath.Join(xmlDir, "vda.h.xml"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	object := archive.Objects()[1]
	if err := object.WriteText(outDir); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "vda.h.illbk.08.txt"))
	if err != nil {
		t.Fatalf("failed to read transcription: %v", err)
	}
	if string(data) != "Second object" {
		t.Errorf("transcription = %q, want %q", data, "Second object")
	}
}

func TestExtractDir(t *testing.T) {
	xmlDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "text")
	writeXML(t, xmlDir, "vda.h.xml", sampleXML)
	writeXML(t, xmlDir, "other.xml",
		`<bad><objdesc><desc id="mhh.a.illbk.01"><phystext><l>one</l></phystext></desc></objdesc></bad>`)
	// non-xml files are ignored
	writeXML(t, xmlDir, "notes.txt", "not xml")

	written, err := ExtractDir(xmlDir, outDir)
	if err != nil {
		t.Fatalf("ExtractDir() error = %v", err)
	}
	if written != 3 {
		t.Errorf("written = %d, want 3", written)
	}

	for _, name := range []string{"vda.h.illbk.07.txt", "vda.h.illbk.08.txt", "mhh.a.illbk.01.txt"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("expected transcription %s: %v", name, err)
		}
	}
}

func TestOpen_MissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "absent.xml")); err == nil {
		t.Error("Open() of a missing file should fail")
	}
}
