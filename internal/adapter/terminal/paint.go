package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/forecast-screen/internal/domain"
	"github.com/couchcryptid/forecast-screen/internal/screen"
)

const clearScreen = "\033[H\033[2J"

// Paint writes one frame for the snapshot.
func Paint(w io.Writer, snap screen.Snapshot) error {
	var b strings.Builder

	switch snap.State {
	case screen.StateLoading:
		b.WriteString("Loading forecast...\n")
	case screen.StateError:
		paintError(&b, snap)
	case screen.StateContent:
		if snap.View != nil {
			paintContent(&b, snap)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func paintError(b *strings.Builder, snap screen.Snapshot) {
	b.WriteString("Error\n")
	if snap.Dismissed {
		b.WriteString("Failed to load data.\n")
		b.WriteString("Press r to retry.\n")
		return
	}
	fmt.Fprintf(b, "%s [y/N]\n", snap.Message)
}

func paintContent(b *strings.Builder, snap screen.Snapshot) {
	v := snap.View

	fmt.Fprintf(b, "%s\n\n", v.Title)
	fmt.Fprintf(b, "  %s  %s\n", v.Current.TemperatureLabel, v.Current.Condition)

	b.WriteString("\nHourly forecast:\n  ")
	cells := make([]string, 0, len(v.Hourly))
	for _, h := range v.Hourly {
		cells = append(cells, fmt.Sprintf("%s %d°C", h.Label, h.RoundedTemp))
	}
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString("\n")

	fmt.Fprintf(b, "\nForecast for %d days:\n", len(v.Days))
	for i, d := range v.Days {
		marker := "+"
		if snap.IsExpanded(i) {
			marker = "-"
		}
		fmt.Fprintf(b, "  [%d] %s %s\n", i+1, marker, d.Date)
		if !snap.IsExpanded(i) {
			continue
		}
		fmt.Fprintf(b, "        %d°C\n", d.RoundedTemp)
		if v.Style != domain.StyleCompact {
			fmt.Fprintf(b, "        %s\n", d.Condition)
		}
	}
	b.WriteString("\n<n> expand/collapse day, q quit\n")
}
