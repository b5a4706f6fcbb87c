package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var errPasswordMismatch = errors.New("passwords do not match")

func runHashPassword(w io.Writer) error {
	password, err := promptPassword(w, "Admin password: ")
	if err != nil {
		return err
	}
	defer wipe(password)

	confirm, err := promptPassword(w, "Repeat password: ")
	if err != nil {
		return err
	}
	defer wipe(confirm)

	if !bytes.Equal(password, confirm) {
		return errPasswordMismatch
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "ADMIN_PASSWORD_HASH=%s\n", hash)
	return err
}

func promptPassword(w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

func hashPassword(password []byte) (string, error) {
	if len(bytes.TrimSpace(password)) == 0 {
		return "", errors.New("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
