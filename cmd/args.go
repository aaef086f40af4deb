package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spagettikod/vsixinstaller/vscode"
)

const usageLine = "usage: installer [-i] <publisher.extension>"

var ErrUsage = errors.New("invalid usage")

// parseArgs finds the extension identifier among the positional arguments.
// Tokens without a dot are ignored, exactly one dotted token is required.
func parseArgs(args []string) (vscode.UniqueID, error) {
	var ids []string
	for _, arg := range args {
		if !strings.Contains(arg, ".") {
			log.Debug().Str("argument", arg).Msg("ignoring argument without a dot")
			continue
		}
		ids = append(ids, arg)
	}
	switch len(ids) {
	case 0:
		return vscode.UniqueID{}, fmt.Errorf("%w: missing extension identifier", ErrUsage)
	case 1:
	default:
		return vscode.UniqueID{}, fmt.Errorf("%w: expected one extension identifier, got %s", ErrUsage, strings.Join(ids, ", "))
	}
	uid, ok := vscode.Parse(ids[0])
	if !ok {
		return vscode.UniqueID{}, fmt.Errorf("%w: invalid extension identifier %s", ErrUsage, ids[0])
	}
	return uid, nil
}
