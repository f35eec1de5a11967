package platform

import (
	"context"
	"strings"

	"github.com/aretw0/pinboard/pkg/core"
)

// CommitType constants for semantic change reasons.
const (
	CommitTypeFeat     = "feat"
	CommitTypeFix      = "fix"
	CommitTypeDocs     = "docs"
	CommitTypeStyle    = "style"
	CommitTypeRefactor = "refactor"
	CommitTypePerf     = "perf"
	CommitTypeTest     = "test"
	CommitTypeChore    = "chore"
)

const footer = "Powered-by: Pinboard"

// FormatChangeReason builds a Conventional Commit message.
//
//	<type>(<scope>): <subject>
//
//	<body>
//
//	Powered-by: Pinboard
func FormatChangeReason(ctype, scope, subject, body string) string {
	var sb strings.Builder

	if ctype == "" {
		ctype = CommitTypeChore
	}
	sb.WriteString(ctype)

	if scope != "" {
		sb.WriteString("(")
		sb.WriteString(scope)
		sb.WriteString(")")
	}

	sb.WriteString(": ")
	sb.WriteString(subject)

	if body != "" {
		sb.WriteString("\n\n")
		sb.WriteString(strings.TrimSpace(body))
	}

	sb.WriteString("\n\n")
	sb.WriteString(footer)

	return sb.String()
}

// AppendFooter appends the footer to a free-form message if not present.
func AppendFooter(msg string) string {
	if strings.Contains(msg, footer) {
		return msg
	}
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	if !strings.HasSuffix(msg, "\n\n") {
		msg += "\n"
	}
	return msg + footer
}

// WithChangeReason attaches a commit message for versioned backends to ctx.
func WithChangeReason(ctx context.Context, msg string) context.Context {
	return context.WithValue(ctx, core.ChangeReasonKey, msg)
}
