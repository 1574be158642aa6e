package stream

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ParseColour accepts an SVG 1.1 colour name ("navy", "orangered") or a hex
// string ("#808080"). An empty string is black.
func ParseColour(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return colorful.Color{}, nil
	}

	if named, ok := colornames.Map[strings.ToLower(s)]; ok {
		c, _ := colorful.MakeColor(named)
		return c, nil
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return c, nil
}
