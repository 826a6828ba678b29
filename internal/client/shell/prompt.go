package shell

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/atinyakov/AccountKeeper/internal/models"
)

// clearMarker entered at a prompt clears the field instead of keeping it.
const clearMarker = "-"

// PromptPatch asks for each editable field of an account. An empty answer
// keeps the field, "-" clears it (a cleared password becomes null).
func PromptPatch(scanner *bufio.Scanner, out io.Writer) (models.Patch, error) {
	var patch models.Patch

	if v, ok := ask(scanner, out, "Enter labels separated by ';' (empty keeps, '-' clears): "); ok {
		label := v
		if v == clearMarker {
			label = ""
		}
		patch.Label = &label
	}

	if v, ok := ask(scanner, out, "Enter type (ldap/local, empty keeps): "); ok {
		t := models.AccountType(strings.ToLower(v))
		if !t.Valid() {
			return models.Patch{}, fmt.Errorf("unknown account type %q", v)
		}
		patch.Type = &t
	}

	if v, ok := ask(scanner, out, "Enter login (empty keeps, '-' clears): "); ok {
		login := v
		if v == clearMarker {
			login = ""
		}
		patch.Login = &login
	}

	if v, ok := ask(scanner, out, "Enter password (empty keeps, '-' removes): "); ok {
		if v == clearMarker {
			patch.SetPassword(nil)
		} else {
			pw := v
			patch.SetPassword(&pw)
		}
	}

	return patch, nil
}

// ask prints prompt and reads one line. ok is false for an empty answer or
// when input is exhausted.
func ask(scanner *bufio.Scanner, out io.Writer, prompt string) (string, bool) {
	fmt.Fprint(out, prompt)
	if !scanner.Scan() {
		return "", false
	}
	v := strings.TrimSpace(scanner.Text())
	return v, v != ""
}
