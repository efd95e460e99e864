package cli

import (
	"errors"
	"fmt"

	"focus-tools/internal/focus"
	"focus-tools/internal/mutate"

	"github.com/spf13/cobra"
)

func errNotFound(kind, id string) error {
	return mutate.NotFoundError{Kind: kind, ID: id}
}

type invalidFlagError struct {
	flag  string
	value string
	want  string
}

func (e invalidFlagError) Error() string {
	return fmt.Sprintf("invalid --%s %q (want %s)", e.flag, e.value, e.want)
}

func errInvalidFlag(flag, value, want string) error {
	return invalidFlagError{flag: flag, value: value, want: want}
}

// hintsFor suggests a next command for errors a user can act on.
func hintsFor(err error) []string {
	switch {
	case errors.Is(err, focus.ErrSessionActive):
		return []string{"focus focus status", "focus focus exit"}
	case errors.Is(err, focus.ErrNotActive):
		return []string{"focus focus start <queue-item-or-task-id>"}
	case errors.Is(err, focus.ErrRecurringTask):
		return []string{"focus focus recurring <task-id>"}
	case errors.Is(err, mutate.ErrTemplateStep):
		return []string{"focus recurring toggle-step <task-id> <step-id> --date <YYYY-MM-DD>"}
	}
	var nf mutate.NotFoundError
	if errors.As(err, &nf) && nf.Kind == "queue item" {
		return []string{"focus queue add <task-id>", "focus queue list"}
	}
	return nil
}

// writeErrHints is writeErr followed by any hints, all on stderr.
func writeErrHints(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	for _, h := range hintsFor(err) {
		fmt.Fprintln(cmd.ErrOrStderr(), "hint: "+h)
	}
	return err
}
