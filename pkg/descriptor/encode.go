// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"bufio"
	"io"
	"strings"
)

const indentUnit = "  "

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"\r", "&#13;",
		"\n", "&#10;",
		"\t", "&#09;",
	)
)

// Indent rewrites the whitespace of n and its descendants so that every
// nested element starts on its own line, indented two spaces deeper than its
// parent. Leaf text is left untouched; surrounding whitespace of mixed
// content is trimmed.
func Indent(n *Node) {
	indent(n, "")
}

func indent(n *Node, prefix string) {
	if len(n.Children) == 0 {
		return
	}
	n.Text = strings.TrimSpace(n.Text) + "\n" + prefix + indentUnit
	for _, child := range n.Children {
		indent(child, prefix+indentUnit)
	}
	for _, child := range n.Children[:len(n.Children)-1] {
		child.Tail = strings.TrimSpace(child.Tail) + "\n" + prefix + indentUnit
	}
	last := n.Children[len(n.Children)-1]
	last.Tail = strings.TrimSpace(last.Tail) + "\n" + prefix
}

// Encode writes n, its descendants and its tail to w. No XML declaration is
// written.
func Encode(w io.Writer, n *Node) error {
	bw := bufio.NewWriter(w)
	encode(bw, n)
	return bw.Flush()
}

// String returns the encoded form of n.
func (n *Node) String() string {
	var sb strings.Builder
	encode(&sb, n)
	return sb.String()
}

// stringWriter is satisfied by both *bufio.Writer and *strings.Builder.
// Write errors are sticky on bufio.Writer and reported by Flush.
type stringWriter interface {
	WriteString(s string) (int, error)
}

func encode(w stringWriter, n *Node) {
	_, _ = w.WriteString("<" + n.Name)
	for _, a := range n.Attrs {
		_, _ = w.WriteString(" " + a.Name + `="` + attrEscaper.Replace(a.Value) + `"`)
	}

	if n.Text == "" && len(n.Children) == 0 {
		_, _ = w.WriteString(" />")
	} else {
		_, _ = w.WriteString(">")
		_, _ = w.WriteString(textEscaper.Replace(n.Text))
		for _, child := range n.Children {
			encode(w, child)
		}
		_, _ = w.WriteString("</" + n.Name + ">")
	}

	if n.Tail != "" {
		_, _ = w.WriteString(textEscaper.Replace(n.Tail))
	}
}
