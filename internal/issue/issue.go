// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

const (
	FileNotFoundId Id = iota + 1
	PermissionDeniedId
	ConfigLoadFailedId
	DescriptorParseErrorId
	MissingArchiveId
	IdentifierMismatchId
	ArchiveCorruptId
	ArchiveLayoutId
	DuplicateIdentifierId
	MetaCollectionFailedId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the issue as styled terminal output using the named glamour
// style ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	layoutDocs HttpLink = "https://github.com/HydroRoll-Team/ipm-server#repository-layout"

	fileNotFoundIssue = &Issue{
		id: FileNotFoundId,
		mdMsg: `
# File not found!

A path given on the command line or referenced by the repository does not exist.

## Things you can try:
- Check the repository root argument points at the directory holding ` + "`packages/`" + `
- Check the output file's parent directory exists`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

A file or directory of the repository could not be read, or the output could not be written.

## Things you can try:
- Check the permissions of the repository tree
- Write the catalog to a directory you own`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or does not match the schema.

## Things you can try:
- Print the effective configuration:
~~~
$ ipmindex config show
~~~
- Start from a fresh file:
~~~
$ ipmindex config dump > ipmindex.cue
~~~`,
	}

	descriptorParseErrorIssue = &Issue{
		id: DescriptorParseErrorId,
		mdMsg: `
# Malformed descriptor!

A package or collection descriptor is not a well-formed XML document.

## Things you can try:
- Make sure the file has exactly one root element
- Escape ` + "`&`" + ` and ` + "`<`" + ` inside attribute values`,
		docLinks: []HttpLink{layoutDocs},
	}

	missingArchiveIssue = &Issue{
		id: MissingArchiveId,
		mdMsg: `
# Descriptor without archive!

Every package descriptor ` + "`<id>.xml`" + ` needs an archive with the same base name next to it.

## Things you can try:
- Pack the package directory:
~~~
$ ipmindex pack path/to/<id>
~~~
- Remove the descriptor if the package was retired`,
		docLinks: []HttpLink{layoutDocs},
	}

	identifierMismatchIssue = &Issue{
		id: IdentifierMismatchId,
		mdMsg: `
# Identifier mismatch!

The ` + "`id`" + ` attribute of a package descriptor must equal its file name without extension.

## Things you can try:
- Rename the descriptor and its archive to the declared id
- Or change the declared id to the file name`,
		docLinks: []HttpLink{layoutDocs},
	}

	archiveCorruptIssue = &Issue{
		id: ArchiveCorruptId,
		mdMsg: `
# Unreadable archive!

A package archive could not be opened as an archive of the configured format.

## Things you can try:
- Re-create the archive with ` + "`ipmindex pack`" + `
- Check ` + "`archive.format`" + ` in your configuration matches the files`,
	}

	archiveLayoutIssue = &Issue{
		id: ArchiveLayoutId,
		mdMsg: `
# Archive layout violation!

A package archive must expand to a single directory named after the package id.
Entries outside that directory could overwrite unrelated files when installed.

## Things you can try:
- Re-create the archive from the package directory:
~~~
$ ipmindex pack path/to/<id>
~~~`,
		docLinks: []HttpLink{layoutDocs},
	}

	duplicateIdentifierIssue = &Issue{
		id: DuplicateIdentifierId,
		mdMsg: `
# Duplicate identifier!

Package and collection ids share one namespace; every id may be used once.

## Things you can try:
- Rename one of the two packages or collections named in the error
- Remove a stale copy left in another subdirectory`,
	}

	metaCollectionFailedIssue = &Issue{
		id: MetaCollectionFailedId,
		mdMsg: `
# Failed to generate meta-collections!

## Things you can try:
- Check each ` + "`meta_collections`" + ` entry in your configuration has a valid id and glob
- Check the ` + "`collections/`" + ` directory is writable`,
	}

	issues = map[Id]*Issue{
		fileNotFoundIssue.Id():         fileNotFoundIssue,
		permissionDeniedIssue.Id():     permissionDeniedIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		descriptorParseErrorIssue.Id(): descriptorParseErrorIssue,
		missingArchiveIssue.Id():       missingArchiveIssue,
		identifierMismatchIssue.Id():   identifierMismatchIssue,
		archiveCorruptIssue.Id():       archiveCorruptIssue,
		archiveLayoutIssue.Id():        archiveLayoutIssue,
		duplicateIdentifierIssue.Id():  duplicateIdentifierIssue,
		metaCollectionFailedIssue.Id(): metaCollectionFailedIssue,
	}
)

// Values returns every catalog entry ordered by id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		values = append(values, i)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
