package cli

import (
	"fmt"
	"strings"

	"github.com/chzyer/readline"

	"purgeall/internal/model"
)

// promptConfirmer asks the operator to type "yes" on the terminal.
// Anything else, including EOF or an interrupt, declines.
type promptConfirmer struct{}

func (promptConfirmer) Confirm(id model.Identifier, count int64) (bool, error) {
	rl, err := readline.New(fmt.Sprintf(
		"Are you sure you want to delete ALL %d %s records? This cannot be undone! (yes/no): ",
		count, id))
	if err != nil {
		return false, err
	}
	defer rl.Close()

	line, err := rl.Readline()
	if err != nil {
		// Ctrl-C or closed stdin means no.
		return false, nil
	}
	return strings.EqualFold(strings.TrimSpace(line), "yes"), nil
}
