// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/HydroRoll-Team/ipm-server/internal/catalog"
	"github.com/HydroRoll-Team/ipm-server/internal/config"
	"github.com/HydroRoll-Team/ipm-server/internal/discovery"
	"github.com/HydroRoll-Team/ipm-server/internal/issue"
	"github.com/HydroRoll-Team/ipm-server/internal/metacollection"
	"github.com/HydroRoll-Team/ipm-server/pkg/archive"
	"github.com/HydroRoll-Team/ipm-server/pkg/descriptor"
)

// ServiceError pairs a command failure with the styled line printed for it
// and the issue catalog entry rendered underneath. Construct it with
// newServiceError; Err is never nil.
type ServiceError struct {
	Err error
	// IssueID is zero when no catalog entry applies.
	IssueID       issue.Id
	StyledMessage string
}

func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

func (e *ServiceError) Error() string { return e.Err.Error() }

func (e *ServiceError) Unwrap() error { return e.Err }

// classifyError picks the catalog entry for err. The first matching sentinel
// wins, so structural failures are checked before generic filesystem ones.
func classifyError(err error, verbose bool) *ServiceError {
	var issueID issue.Id

	switch {
	case errors.Is(err, catalog.ErrDuplicateIdentifier):
		issueID = issue.DuplicateIdentifierId
	case errors.Is(err, discovery.ErrIdentifierMismatch):
		issueID = issue.IdentifierMismatchId
	case errors.Is(err, discovery.ErrMissingArchive):
		issueID = issue.MissingArchiveId
	case errors.Is(err, archive.ErrArchiveLayout):
		issueID = issue.ArchiveLayoutId
	case errors.Is(err, archive.ErrCorruptArchive):
		issueID = issue.ArchiveCorruptId
	case errors.Is(err, descriptor.ErrParse):
		issueID = issue.DescriptorParseErrorId
	case errors.Is(err, metacollection.ErrInvalidDefinition):
		issueID = issue.MetaCollectionFailedId
	case errors.Is(err, config.ErrInvalidConfig):
		issueID = issue.ConfigLoadFailedId
	case errors.Is(err, os.ErrPermission):
		issueID = issue.PermissionDeniedId
	case errors.Is(err, os.ErrNotExist):
		issueID = issue.FileNotFoundId
	}

	return newServiceError(err, issueID, fmt.Sprintf("%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose)))
}

// formatErrorForDisplay expands ActionableError hints; other errors print as is.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// renderServiceError writes the styled line, then the glamour-rendered
// catalog entry when one is attached.
func renderServiceError(stderr io.Writer, svcErr *ServiceError, glamourStyle string) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}

	if svcErr.IssueID == 0 {
		return
	}

	if entry := issue.Get(svcErr.IssueID); entry != nil {
		rendered, renderErr := entry.Render(glamourStyle)
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
			return
		}
		fmt.Fprint(stderr, rendered)
	}
}
