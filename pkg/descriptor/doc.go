// SPDX-License-Identifier: MPL-2.0

// Package descriptor loads and writes ipm descriptor documents.
//
// A descriptor is a small XML document describing one package or collection.
// The package keeps descriptors as a generic, order-preserving element tree
// (Node) instead of a schema-specific struct, so attributes and children the
// catalog builder does not understand are carried into the catalog verbatim.
//
// Serialization follows the conventions of the catalogs already published by
// ipm repositories: attributes keep their document order, elements without
// text or children are written in self-closing form with a space before the
// slash (<item ref="coc" />), and Indent re-indents a tree with two spaces per
// nesting level. Comments and processing instructions are not preserved.
package descriptor
