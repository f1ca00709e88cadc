package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/reveal/pkg/domain"
	"github.com/aretw0/reveal/pkg/sequence"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	VisitedPhases []domain.Phase
	CurrentPhase  domain.Phase
}

// GenerateMermaid produces a Mermaid flowchart of the phase machine.
// It applies semantic styling:
// - Idle: ((Circle))
// - Resting phases, waiting for an external signal: [/Parallelogram/]
// - Default: [Rectangle]
// External signals draw solid labelled arrows, phase completions plain
// arrows and decorative self loops dotted arrows.
func GenerateMermaid(edges []sequence.Edge, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, phase := range domain.Phases() {
		safeID := sanitizeMermaidID(string(phase))

		opener, closer := "[", "]"
		switch {
		case phase == domain.PhaseIdle:
			opener, closer = "((", "))"
		case phase.Resting():
			opener, closer = "[/", "/]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, phase, closer))
	}

	for _, e := range edges {
		from := sanitizeMermaidID(string(e.From))
		to := sanitizeMermaidID(string(e.To))

		arrow := "-->"
		switch {
		case e.Signal == domain.SignalDecorativeFinished:
			arrow = fmt.Sprintf("-. \"%s\" .->", e.Signal)
		case e.Signal != domain.SignalPhaseComplete:
			arrow = fmt.Sprintf("-- \"%s\" -->", e.Signal)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", from, arrow, to))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[string]bool)
		for _, p := range overlay.VisitedPhases {
			safeID := sanitizeMermaidID(string(p))
			if !visited[safeID] && safeID != "" {
				visited[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentPhase != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(string(overlay.CurrentPhase))))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	return s
}
