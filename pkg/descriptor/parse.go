// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrParse is the sentinel error wrapped by ParseError.
	ErrParse = errors.New("malformed descriptor")

	errEmptyDocument = errors.New("document has no root element")
	errMultipleRoots = errors.New("document has more than one root element")
	errStrayText     = errors.New("character data outside the root element")
)

// ParseError is returned when a descriptor cannot be read or is not a
// well-formed document. Path is empty when parsing from a reader.
type ParseError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed descriptor: %v", e.Cause)
	}
	return fmt.Sprintf("%s: malformed descriptor: %v", e.Path, e.Cause)
}

// Unwrap returns ErrParse and the underlying cause.
func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Cause} }

// Load reads and parses the descriptor at path.
func Load(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Cause: err}
	}
	defer func() { _ = f.Close() }() // read-only handle

	node, err := Parse(f)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			parseErr.Path = path
		}
		return nil, err
	}
	return node, nil
}

// Parse reads a single descriptor document from r.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)

	var (
		root  *Node
		stack []*Node
	)
	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Cause: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{Name: qualifiedName(t.Name)}
			for _, a := range t.Attr {
				node.Attrs = append(node.Attrs, Attr{Name: qualifiedName(a.Name), Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, &ParseError{Cause: errMultipleRoots}
				}
				root = node
			} else {
				stack[len(stack)-1].Append(node)
			}
			stack = append(stack, node)

		case xml.EndElement:
			name := qualifiedName(t.Name)
			if len(stack) == 0 || stack[len(stack)-1].Name != name {
				line, _ := dec.InputPos()
				return nil, &ParseError{Cause: fmt.Errorf("line %d: unexpected end element </%s>", line, name)}
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				if strings.TrimSpace(string(t)) != "" {
					return nil, &ParseError{Cause: errStrayText}
				}
				continue
			}
			parent := stack[len(stack)-1]
			if len(parent.Children) == 0 {
				parent.Text += string(t)
			} else {
				last := parent.Children[len(parent.Children)-1]
				last.Tail += string(t)
			}
		}
		// Comments, processing instructions and directives are dropped.
	}

	if len(stack) > 0 {
		return nil, &ParseError{Cause: fmt.Errorf("unexpected end of document inside <%s>", stack[len(stack)-1].Name)}
	}
	if root == nil {
		return nil, &ParseError{Cause: errEmptyDocument}
	}
	return root, nil
}

func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
