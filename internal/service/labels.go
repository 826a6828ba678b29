package service

import (
	"strings"

	"github.com/atinyakov/AccountKeeper/internal/models"
)

// labelSeparator splits the raw label text of an account.
const labelSeparator = ";"

// ParseLabels splits text on ";" and returns one label per non-blank segment,
// trimmed and in original order. Blank input yields an empty, non-nil slice.
func ParseLabels(text string) []models.Label {
	labels := []models.Label{}
	if strings.TrimSpace(text) == "" {
		return labels
	}
	for _, part := range strings.Split(text, labelSeparator) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		labels = append(labels, models.Label{Text: part})
	}
	return labels
}
