package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// promptPassword returns the password and its confirmation. On a terminal
// both are typed without echo; piped stdin supplies a single line used
// for both. Swapped out in tests.
var promptPassword = func(w io.Writer) (string, string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := readLine(os.Stdin)
		return line, line, err
	}

	pw, err := readHidden(w, fd, "Password: ")
	if err != nil {
		return "", "", err
	}
	confirm, err := readHidden(w, fd, "Confirm password: ")
	if err != nil {
		return "", "", err
	}
	return pw, confirm, nil
}

func readHidden(w io.Writer, fd int, prompt string) (string, error) {
	fmt.Fprint(w, prompt)
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
