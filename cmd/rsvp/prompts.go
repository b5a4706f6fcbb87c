package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/akeren/purim-rsvp/pkg/rsvpclient"
)

// branchChoices flattens the catalog into the numbered list shown to the
// attendee, with the custom option last.
func branchChoices(catalog *rsvpclient.BranchCatalog) []rsvpclient.BranchOption {
	var choices []rsvpclient.BranchOption
	for _, group := range catalog.Groups {
		choices = append(choices, group.Options...)
	}
	if catalog.Custom.Value != "" {
		choices = append(choices, catalog.Custom)
	}
	return choices
}

func printBranches(w io.Writer, catalog *rsvpclient.BranchCatalog) {
	n := 1
	for _, group := range catalog.Groups {
		if group.Label != "" {
			fmt.Fprintf(w, "%s:\n", group.Label)
		}
		for _, option := range group.Options {
			fmt.Fprintf(w, "  %2d. %s\n", n, option.Label)
			n++
		}
	}
	if catalog.Custom.Value != "" {
		fmt.Fprintf(w, "  %2d. %s\n", n, catalog.Custom.Label)
	}
}

func promptBranch(reader *bufio.Reader, w io.Writer, catalog *rsvpclient.BranchCatalog, current string) (string, error) {
	choices := branchChoices(catalog)
	printBranches(w, catalog)

	prompt := "מספר הסניף"
	for i, choice := range choices {
		if choice.Value == current {
			prompt = fmt.Sprintf("%s [%d]", prompt, i+1)
		}
	}

	for {
		answer, err := GetSimpleText(reader, prompt, w)
		if err != nil {
			return "", err
		}
		if answer == "" && current != "" {
			return current, nil
		}

		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= len(choices) {
			return choices[n-1].Value, nil
		}
		fmt.Fprintln(w, "יש לבחור סניף מהרשימה")
	}
}

// promptForm fills form field by field. Empty answers keep the current
// values, which is how the edit form is prefilled.
func promptForm(reader *bufio.Reader, w io.Writer, catalog *rsvpclient.BranchCatalog, form rsvpclient.Form, editing bool) (rsvpclient.Form, error) {
	var err error

	if form.FirstName, err = GetTextWithDefault(reader, "שם פרטי", form.FirstName, w); err != nil {
		return form, err
	}
	if form.LastName, err = GetTextWithDefault(reader, "שם משפחה", form.LastName, w); err != nil {
		return form, err
	}
	if !editing {
		if form.Phone, err = GetTextWithDefault(reader, "מספר טלפון נייד", form.Phone, w); err != nil {
			return form, err
		}
	}

	branch, err := promptBranch(reader, w, catalog, form.Branch)
	if err != nil {
		return form, err
	}
	form.SelectBranch(branch)

	if branch == catalog.Custom.Value {
		if form.CustomBranch, err = GetTextWithDefault(reader, "שם הסניף", form.CustomBranch, w); err != nil {
			return form, err
		}
	}

	if !form.TransportationEnabled() {
		if catalog.NoShuttleNotice != "" {
			fmt.Fprintln(w, catalog.NoShuttleNotice)
		}
		return form, nil
	}

	needs, err := GetYesNo(reader, "האם נדרשת הסעה?", form.NeedsTransportation(), w)
	if err != nil {
		return form, err
	}
	if err := form.SetNeedsTransportation(needs); err != nil {
		return form, err
	}
	return form, nil
}

func printSummary(w io.Writer, record rsvpclient.Record) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "אישור ההגעה שלך:")
	fmt.Fprintf(w, "  שם: %s\n", record.FullName)
	fmt.Fprintf(w, "  טלפון: %s\n", record.Phone)
	fmt.Fprintf(w, "  סניף: %s\n", record.BranchDisplayName)
	fmt.Fprintf(w, "  הסעה: %s\n", record.TransportationLabel())
	if !record.PhoneVerified {
		fmt.Fprintln(w, "  הטלפון טרם אומת")
	}
	fmt.Fprintln(w)
}

// describeError turns a client error into the line shown to the attendee.
func describeError(err error) string {
	var (
		validationErr *rsvpclient.ValidationError
		cooldownErr   *rsvpclient.CooldownError
		apiErr        *rsvpclient.APIError
	)

	switch {
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.As(err, &cooldownErr):
		return cooldownErr.Error()
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	default:
		return "אירעה שגיאה, אנא נסה שנית"
	}
}
