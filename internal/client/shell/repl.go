// Package shell implements the interactive command loop of the client.
package shell

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atinyakov/AccountKeeper/internal/models"
	"github.com/atinyakov/AccountKeeper/internal/service"
)

// Accounts is the part of the account manager the shell drives.
type Accounts interface {
	List() []models.Account
	Get(id string) (models.Account, error)
	Add(ctx context.Context) (models.Account, error)
	Update(ctx context.Context, id string, patch models.Patch) (models.Account, error)
	Remove(ctx context.Context, id string) error
	ValidateByID(ctx context.Context, id string) (models.Account, bool, error)
}

const helpText = "Available commands: help, list, add, get <id>, update <id>, remove <id>, validate <id>, labels <text>, exit"

// Run reads commands from in until "exit" or end of input.
func Run(ctx context.Context, in io.Reader, out io.Writer, accounts Accounts) {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, "accounts> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		needID := func() (string, bool) {
			if len(args) < 2 {
				fmt.Fprintf(out, "Usage: %s <id>\n", args[0])
				return "", false
			}
			return args[1], true
		}

		switch args[0] {
		case "help":
			fmt.Fprintln(out, helpText)
		case "list":
			PrintAccounts(out, accounts.List())
		case "add":
			acc, err := accounts.Add(ctx)
			if err != nil {
				fmt.Fprintln(out, "Failed to save:", err)
			}
			fmt.Fprintln(out, "Account added:", acc.ID)
		case "get":
			id, ok := needID()
			if !ok {
				continue
			}
			acc, err := accounts.Get(id)
			if err != nil {
				reportError(out, err)
				continue
			}
			b, _ := json.MarshalIndent(acc, "", "  ")
			fmt.Fprintln(out, string(b))
		case "update":
			id, ok := needID()
			if !ok {
				continue
			}
			if _, err := accounts.Get(id); err != nil {
				reportError(out, err)
				continue
			}
			patch, err := PromptPatch(scanner, out)
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			if _, err := accounts.Update(ctx, id, patch); err != nil {
				reportError(out, err)
				continue
			}
			fmt.Fprintln(out, "Account updated")
		case "remove", "delete":
			id, ok := needID()
			if !ok {
				continue
			}
			if err := accounts.Remove(ctx, id); err != nil {
				reportError(out, err)
				continue
			}
			fmt.Fprintln(out, "Account removed")
		case "validate":
			id, ok := needID()
			if !ok {
				continue
			}
			acc, valid, err := accounts.ValidateByID(ctx, id)
			if err != nil {
				reportError(out, err)
				continue
			}
			PrintValidation(out, acc, valid)
		case "labels":
			text := strings.TrimSpace(strings.TrimPrefix(line, args[0]))
			for _, l := range service.ParseLabels(text) {
				fmt.Fprintf(out, "- %s\n", l.Text)
			}
		case "exit", "quit":
			fmt.Fprintln(out, "Bye")
			return
		default:
			fmt.Fprintln(out, "Unknown command. Type 'help' for a list of commands.")
		}
	}
}

// PrintAccounts writes a human-readable listing; passwords are masked.
func PrintAccounts(out io.Writer, accounts []models.Account) {
	if len(accounts) == 0 {
		fmt.Fprintln(out, "No accounts")
		return
	}
	fmt.Fprintln(out, "Stored accounts:")
	for _, a := range accounts {
		texts := make([]string, len(a.Labels))
		for i, l := range a.Labels {
			texts[i] = l.Text
		}
		password := "<none>"
		if a.Password != nil {
			password = strings.Repeat("*", min(len(*a.Password), 8))
		}
		fmt.Fprintf(out, "ID: %s\nType: %s\nLogin: %s\nLabels: %s\nPassword: %s\n---\n",
			a.ID, a.Type, a.Login, strings.Join(texts, ", "), password)
	}
}

// PrintValidation writes the outcome of a validation run.
func PrintValidation(out io.Writer, acc models.Account, valid bool) {
	if valid {
		fmt.Fprintln(out, "Account is valid")
		return
	}
	fmt.Fprintln(out, "Account is invalid:")
	if acc.Errors == nil {
		return
	}
	if acc.Errors.Login != "" {
		fmt.Fprintf(out, "  login: %s\n", acc.Errors.Login)
	}
	if acc.Errors.Password != "" {
		fmt.Fprintf(out, "  password: %s\n", acc.Errors.Password)
	}
}

func reportError(out io.Writer, err error) {
	if errors.Is(err, service.ErrNotFound) {
		fmt.Fprintln(out, "Account not found")
		return
	}
	fmt.Fprintln(out, "Error:", err)
}
