package hospital

import (
	"fmt"
	"io"
	"strings"
)

// Render writes the hospital tree to w, one node per line, with the
// occupant name appended to occupied beds:
//
//	General Hospital
//	├── Ward A
//	│   ├── R00
//	│   │   └── B000:Jane Doe
//
// maxLevel limits the depth (1 = hospital only, 4 = down to beds);
// zero or negative renders everything.
func (h *Hospital) Render(w io.Writer, maxLevel int) error {
	var sb strings.Builder
	sb.WriteString(h.Name)
	sb.WriteString("\n")
	if maxLevel <= 0 {
		maxLevel = 4
	}
	if maxLevel > 1 {
		for i, ward := range h.wards {
			h.renderWard(&sb, ward, i == len(h.wards)-1, maxLevel)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// RenderString is Render into a string.
func (h *Hospital) RenderString(maxLevel int) string {
	var sb strings.Builder
	_ = h.Render(&sb, maxLevel)
	return sb.String()
}

func (h *Hospital) renderWard(sb *strings.Builder, w *Ward, last bool, maxLevel int) {
	writeNode(sb, "", last, w.Name)
	if maxLevel <= 2 {
		return
	}
	prefix := childPrefix("", last)
	for i, rid := range w.rooms {
		room := h.rooms[rid]
		lastRoom := i == len(w.rooms)-1
		writeNode(sb, prefix, lastRoom, room.Name)
		if maxLevel <= 3 {
			continue
		}
		bedPrefix := childPrefix(prefix, lastRoom)
		for j, bid := range room.beds {
			writeNode(sb, bedPrefix, j == len(room.beds)-1, h.beds[bid].String())
		}
	}
}

func writeNode(sb *strings.Builder, prefix string, last bool, label string) {
	connector := "├── "
	if last {
		connector = "└── "
	}
	fmt.Fprintf(sb, "%s%s%s\n", prefix, connector, label)
}

func childPrefix(prefix string, last bool) string {
	if last {
		return prefix + "    "
	}
	return prefix + "│   "
}
