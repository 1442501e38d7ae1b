// Command pdf2md converts a PDF file to Markdown.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/tsawler/pdf2md"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the CLI and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return pdf2md.ExitCode(err)
	}
	return 0
}
