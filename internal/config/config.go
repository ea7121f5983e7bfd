package config

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/example/overpaint/internal/canvas"
)

// Notify holds notification settings.
type Notify struct {
	Export bool
	Copy   bool
}

// Config holds the application configuration.
type Config struct {
	// Zoom is the initial window zoom; zero fits the content.
	Zoom       float64
	ExportZoom float64
	Background canvas.Color
	Gray       bool
	OutputDir  string
	Notify     Notify
	// Options are initial values for render type options, by name.
	Options map[string]string
	// Palette holds named colors usable in scene files.
	Palette map[string]canvas.Color
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Zoom:       1,
		ExportZoom: 1,
		Background: canvas.RGB(0, 0, 0),
		Options:    make(map[string]string),
		Palette:    make(map[string]canvas.Color),
	}
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "zoom = %s\n", formatFloat(c.Zoom))
	fmt.Fprintf(&sb, "export_zoom = %s\n", formatFloat(c.ExportZoom))
	fmt.Fprintf(&sb, "background = %s\n", c.Background)
	fmt.Fprintf(&sb, "gray = %v\n", c.Gray)
	if c.OutputDir != "" {
		fmt.Fprintf(&sb, "output_dir = %s\n", c.OutputDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)

	// Sorted for deterministic output
	if len(c.Options) > 0 {
		sb.WriteString("\n[options]\n")
		for _, name := range slices.Sorted(maps.Keys(c.Options)) {
			fmt.Fprintf(&sb, "%s = %s\n", name, c.Options[name])
		}
	}
	if len(c.Palette) > 0 {
		sb.WriteString("\n[palette]\n")
		for _, name := range slices.Sorted(maps.Keys(c.Palette)) {
			fmt.Fprintf(&sb, "%s = %s\n", name, c.Palette[name])
		}
	}

	return sb.String()
}
