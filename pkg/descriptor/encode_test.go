// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncode_SelfClosingAndEscaping(t *testing.T) {
	t.Parallel()

	n := NewNode("package",
		Attr{Name: "id", Value: "coc"},
		Attr{Name: "name", Value: `Fish & "Chips" <x>`},
		Attr{Name: "description", Value: "line one\nline two"},
	)

	want := `<package id="coc" name="Fish &amp; &quot;Chips&quot; &lt;x&gt;" description="line one&#10;line two" />`
	if got := n.String(); got != want {
		t.Errorf("String() = %s\nwant       %s", got, want)
	}
}

func TestEncode_TextAndTail(t *testing.T) {
	t.Parallel()

	root := NewNode("a")
	child := NewNode("b")
	child.Text = `1 < 2 & "ok"`
	child.Tail = "after"
	root.Append(child)

	var buf bytes.Buffer
	if err := Encode(&buf, root); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := `<a><b>1 &lt; 2 &amp; "ok"</b>after</a>`
	if buf.String() != want {
		t.Errorf("Encode() = %s, want %s", buf.String(), want)
	}
}

func TestIndent(t *testing.T) {
	t.Parallel()

	root := NewNode("collection", Attr{Name: "id", Value: "all"}, Attr{Name: "name", Value: "All packages"})
	for _, ref := range []string{"coc", "dnd"} {
		root.Append(NewNode("item", Attr{Name: "ref", Value: ref}))
	}
	Indent(root)

	want := strings.Join([]string{
		`<collection id="all" name="All packages">`,
		`  <item ref="coc" />`,
		`  <item ref="dnd" />`,
		`</collection>`,
	}, "\n")
	if got := root.String(); got != want {
		t.Errorf("indented =\n%s\nwant\n%s", got, want)
	}
}

func TestIndent_NestedAndReindent(t *testing.T) {
	t.Parallel()

	doc := "<ipm_package_data><packages>\n\n     <package id=\"coc\">  <license>CC0</license>   </package></packages><collections /></ipm_package_data>"
	root, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	Indent(root)

	want := strings.Join([]string{
		`<ipm_package_data>`,
		`  <packages>`,
		`    <package id="coc">`,
		`      <license>CC0</license>`,
		`    </package>`,
		`  </packages>`,
		`  <collections />`,
		`</ipm_package_data>`,
	}, "\n")
	if got := root.String(); got != want {
		t.Errorf("indented =\n%s\nwant\n%s", got, want)
	}

	// Indenting is stable.
	Indent(root)
	if got := root.String(); got != want {
		t.Errorf("second Indent changed output:\n%s", got)
	}
}

func TestIndent_Leaf(t *testing.T) {
	t.Parallel()

	n := NewNode("collection", Attr{Name: "id", Value: "all-collections"})
	Indent(n)
	if got, want := n.String(), `<collection id="all-collections" />`; got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}
