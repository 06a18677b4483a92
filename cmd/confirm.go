package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const (
	responseYes = "yes"
	responseY   = "y"
)

var dryRunFlag bool
var assumeYesFlag bool

// PrintDryRun prints a message indicating what would happen in dry-run mode
func PrintDryRun(w io.Writer, format string, args ...interface{}) {
	yellow := color.New(color.FgYellow, color.Bold)
	_, _ = yellow.Fprint(w, "[DRY-RUN] ")
	fmt.Fprintf(w, format+"\n", args...)
}

// ConfirmPrompt asks the user for confirmation on in.
func ConfirmPrompt(in io.Reader, out io.Writer, message string) (bool, error) {
	if assumeYesFlag {
		return true, nil
	}

	yellow := color.New(color.FgYellow)
	_, _ = yellow.Fprintf(out, "%s [y/N]: ", message)

	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == responseY || response == responseYes, nil
}
