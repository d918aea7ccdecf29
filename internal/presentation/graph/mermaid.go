package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/pulsegraph/pkg/domain"
)

// Overlay contains dynamic state data to visualize on the graph.
type Overlay struct {
	// FlipFlops maps flip-flop names to their current state. Modules that are on are highlighted.
	FlipFlops map[string]bool
	// Target is the module a RunUntilTarget query aims at, if any.
	Target string
	// Choke is the conjunction feeding Target.
	Choke string
}

// GenerateMermaid produces a Mermaid flowchart syntax string from module definitions.
// It applies semantic styling:
// - Broadcaster: ((Circle))
// - Flip-flop: [Rectangle]
// - Conjunction: {{Hexagon}}
// - Sink: ([Stadium])
// It also applies overlay styles if provided.
func GenerateMermaid(specs []domain.ModuleSpec, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")
	sb.WriteString("    button((\"button\")) --> broadcaster\n")

	declared := make(map[string]bool, len(specs))
	for _, s := range specs {
		declared[s.Name] = true
	}

	for _, s := range specs {
		safeID := sanitizeMermaidID(s.Name)

		opener, closer := "[", "]"
		label := s.Name
		switch s.Kind {
		case domain.KindBroadcaster:
			opener, closer = "((", "))"
		case domain.KindFlipFlop:
			label = "% " + s.Name
		case domain.KindConjunction:
			opener, closer = "{{", "}}"
			label = "& " + s.Name
		case domain.KindSink:
			opener, closer = "([", "])"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)

		for _, out := range s.Outputs {
			fmt.Fprintf(&sb, "    %s --> %s\n", safeID, sanitizeMermaidID(out))
		}
	}

	// Outputs the caller never declared are implicit sinks.
	var implicit []string
	for _, s := range specs {
		for _, out := range s.Outputs {
			if !declared[out] {
				declared[out] = true
				implicit = append(implicit, out)
			}
		}
	}
	for _, name := range implicit {
		fmt.Fprintf(&sb, "    %s([\"%s\"])\n", sanitizeMermaidID(name), name)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps the labels readable under both light and dark themes.
		sb.WriteString("    classDef on fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef target fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef choke fill:#ffe0b2,stroke:#e65100,stroke-width:2px,color:#000;\n")

		on := make([]string, 0, len(overlay.FlipFlops))
		for name, state := range overlay.FlipFlops {
			if state {
				on = append(on, name)
			}
		}
		sort.Strings(on)
		for _, name := range on {
			fmt.Fprintf(&sb, "    class %s on;\n", sanitizeMermaidID(name))
		}

		if overlay.Choke != "" {
			fmt.Fprintf(&sb, "    class %s choke;\n", sanitizeMermaidID(overlay.Choke))
		}
		if overlay.Target != "" {
			fmt.Fprintf(&sb, "    class %s target;\n", sanitizeMermaidID(overlay.Target))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	// "end" closes a subgraph in Mermaid.
	if strings.EqualFold(s, "end") {
		s = s + "_"
	}
	return s
}
