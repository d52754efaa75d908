package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// styleFunc is a single-string styling function.
type styleFunc func(string) string

// sf wraps a lipgloss.Style into a styleFunc.
func sf(s lipgloss.Style) styleFunc {
	return func(str string) string { return s.Render(str) }
}

var spinnerFrames = []string{"[.  ]", "[.. ]", "[...]", "[ ..]", "[  .]", "[   ]"}

func renderView(m Model) string {
	var b strings.Builder

	renderHeader(&b, m)

	if m.Mode == "up" {
		renderProgressBar(&b, m)
		renderPhases(&b, m)
		if len(m.Secrets) > 0 {
			renderSecrets(&b, m)
		}
	}

	if m.Mode == "doctor" {
		renderHealth(&b, m)
	}

	renderFooter(&b, m)

	return b.String()
}

func renderHeader(b *strings.Builder, m Model) {
	title := fmt.Sprintf("oceanforge: %s", m.ClusterName)
	if m.Region != "" {
		title += fmt.Sprintf(" (%s)", m.Region)
	}
	b.WriteString(titleStyle.Render(title))

	status := " "
	switch {
	case m.Err != nil:
		status += failedStyle.Render(fmt.Sprintf("Error: %v", m.Err))
	case m.Done:
		status += readyStyle.Render("Complete")
	case m.Mode == "doctor" && m.HasHealth && m.healthy():
		status += readyStyle.Render("Healthy")
	case m.Mode == "doctor" && m.HasHealth:
		status += warningStyle.Render("Degraded")
	case m.Mode == "doctor":
		status += dimStyle.Render("Probing...")
	default:
		status += activeStyle.Render(currentSpinner(m.SpinnerFrame)+" ") + warningStyle.Render("Provisioning")
	}
	b.WriteString(status)
	b.WriteString("\n")
}

func (m Model) healthy() bool {
	return m.NodesTotal > 0 &&
		m.NodesReady == m.NodesTotal &&
		m.FluxInstalled &&
		m.FluxPodsReady == m.FluxPodsTotal &&
		len(m.ToolErrors) == 0
}

func renderProgressBar(b *strings.Builder, m Model) {
	progress := calculateProgress(m)
	barWidth := 40
	if m.Width > 0 && m.Width < 80 {
		barWidth = m.Width - 30
		if barWidth < 10 {
			barWidth = 10
		}
	}
	filled := int(float64(barWidth) * progress)
	if filled > barWidth {
		filled = barWidth
	}

	bar := progressBarFull.Render(strings.Repeat("█", filled)) +
		progressBarEmpty.Render(strings.Repeat("░", barWidth-filled))

	fmt.Fprintf(b, "  %s %d%%\n", bar, int(progress*100))
}

func renderPhases(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Phases"))
	b.WriteString("\n")

	for _, phase := range m.Phases {
		var icon string
		var style styleFunc
		switch {
		case phase.Err != nil:
			icon = crossMark
			style = sf(failedStyle)
		case phase.Skipped:
			icon = skipMark
			style = sf(warningStyle)
		case phase.Done:
			icon = checkMark
			style = sf(readyStyle)
		case phase.Active:
			icon = currentSpinner(m.SpinnerFrame)
			style = sf(activeStyle)
		default:
			icon = pending
			style = sf(dimStyle)
		}
		detail := ""
		if phase.Detail != "" {
			detail = "  " + dimStyle.Render(phase.Detail)
		}
		fmt.Fprintf(b, "    %s %s%s\n", style(icon), style(phase.Name), detail)
	}
}

func renderSecrets(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Secrets"))
	b.WriteString("\n")

	for _, secret := range m.Secrets {
		if secret.Skipped {
			fmt.Fprintf(b, "    %s %-22s %s\n",
				warningStyle.Render(skipMark), secret.Name, dimStyle.Render("empty, skipped"))
			continue
		}
		fmt.Fprintf(b, "    %s %s\n", readyStyle.Render(checkMark), secret.Name)
	}
}

func renderHealth(b *strings.Builder, m Model) {
	if !m.HasHealth {
		b.WriteString(dimStyle.Render("  waiting for cluster..."))
		b.WriteString("\n")
		return
	}

	b.WriteString(sectionStyle.Render("  Nodes"))
	b.WriteString("\n")
	nodesOK := m.NodesTotal > 0 && m.NodesReady == m.NodesTotal
	icon, style := statusIcon(nodesOK)
	fmt.Fprintf(b, "    %s %-20s %d/%d\n", style(icon), style("Ready"), m.NodesReady, m.NodesTotal)

	b.WriteString(sectionStyle.Render("  Flux"))
	b.WriteString("\n")
	icon, style = statusIcon(m.FluxInstalled)
	fmt.Fprintf(b, "    %s %-20s\n", style(icon), style("Installed"))
	if m.FluxInstalled {
		podsOK := m.FluxPodsTotal > 0 && m.FluxPodsReady == m.FluxPodsTotal
		icon, style = statusIcon(podsOK)
		fmt.Fprintf(b, "    %s %-20s %d/%d\n", style(icon), style("Controllers"), m.FluxPodsReady, m.FluxPodsTotal)
	}

	if len(m.ToolErrors) > 0 {
		b.WriteString(sectionStyle.Render("  Tools"))
		b.WriteString("\n")
		for _, msg := range m.ToolErrors {
			fmt.Fprintf(b, "    %s %s\n", failedStyle.Render(crossMark), dimStyle.Render(msg))
		}
	}
}

func renderFooter(b *strings.Builder, m Model) {
	elapsed := formatDuration(time.Since(m.StartTime))
	pulse := ""
	if !m.Done && m.Err == nil && m.Mode == "up" {
		pulse = "  |  " + currentSpinner(m.SpinnerFrame) + " working"
	}
	b.WriteString(footerStyle.Render(fmt.Sprintf("  elapsed: %s%s  |  q: quit", elapsed, pulse)))
	b.WriteString("\n")
}

// Helper functions

func statusIcon(ready bool) (string, styleFunc) {
	if ready {
		return checkMark, sf(readyStyle)
	}
	return crossMark, sf(failedStyle)
}

func currentSpinner(frame int) string {
	if frame < 0 {
		frame = -frame
	}
	return spinnerFrames[frame%len(spinnerFrames)]
}

func calculateProgress(m Model) float64 {
	if m.Done {
		return 1.0
	}
	if len(m.Phases) == 0 {
		return 0
	}

	done := 0
	for _, p := range m.Phases {
		if p.Done {
			done++
		}
	}
	return float64(done) / float64(len(m.Phases))
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
