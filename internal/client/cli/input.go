package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword reads without echo from the terminal fd. Tests replace it.
var readPassword = term.ReadPassword

// promptLine shows label followed by a "> " marker on the next line and
// returns the trimmed reply. A final line without a newline still counts.
func promptLine(r *bufio.Reader, label string, w io.Writer) (string, error) {
	fmt.Fprintf(w, "%s\n> ", label)

	reply, err := r.ReadString('\n')
	if errors.Is(err, io.EOF) && reply != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// promptSecret shows "label: " and reads a password from stdin with echo
// off. The newline the terminal swallowed is written back to w.
func promptSecret(label string, w io.Writer) (string, error) {
	fmt.Fprintf(w, "%s: ", label)
	secret, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return string(secret), nil
}
