package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/livefir/tagcompiler"
)

// Scope prints a stylesheet with every selector scoped to a tag. The
// stylesheet is read from a file, or from stdin when none is given.
func Scope(args []string) error {
	return scope(args, os.Stdin, os.Stdout)
}

func scope(args []string, stdin io.Reader, w io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("tag name required: tagc scope <tag> [file.css]")
	}
	tag := args[0]

	var (
		data []byte
		err  error
	)
	if len(args) > 1 {
		data, err = os.ReadFile(args[1])
	} else {
		data, err = io.ReadAll(stdin)
	}
	if err != nil {
		return fmt.Errorf("failed to read stylesheet: %w", err)
	}

	_, err = fmt.Fprintln(w, tagcompiler.ScopeCSS(string(data), tag))
	return err
}
