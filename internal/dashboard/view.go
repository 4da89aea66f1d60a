package dashboard

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ppiankov/aegis/internal/model"
)

const (
	title       = "Aegis: Disinformation Dashboard"
	subtitle    = "Paste an article or social media post below to verify its authenticity."
	placeholder = "Enter text here..."

	submitLabel = "Generate Trust Report"
	busyLabel   = "Analyzing..."

	// aiScoreThreshold is the score above which a text is flagged as likely generated
	aiScoreThreshold = 0.5
)

// Styles holds the colors and styles used by the dashboard
type Styles struct {
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Success   lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
}

// DefaultStyles returns the dashboard palette
func DefaultStyles() Styles {
	return Styles{
		Primary:   lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#60A5FA"},
		Secondary: lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"},
		Success:   lipgloss.AdaptiveColor{Light: "#10B981", Dark: "#34D399"},
		Error:     lipgloss.AdaptiveColor{Light: "#EF4444", Dark: "#F87171"},
		Border:    lipgloss.AdaptiveColor{Light: "#DDDDDD", Dark: "#444444"},
	}
}

// ScorePercent formats an AI score as a whole percentage, e.g. 0.82 -> "82%"
func ScorePercent(score float64) string {
	return strconv.FormatFloat(math.Round(score*100), 'f', 0, 64) + "%"
}

// ScoreFlagged reports whether a score crosses the AI-likelihood threshold
func ScoreFlagged(score float64) bool {
	return score > aiScoreThreshold
}

// ScoreColor is red for flagged scores and green otherwise
func (s Styles) ScoreColor(score float64) lipgloss.AdaptiveColor {
	if ScoreFlagged(score) {
		return s.Error
	}
	return s.Success
}

// SubmitLabel is the submit control's caption for the given busy state
func SubmitLabel(busy bool) string {
	if busy {
		return busyLabel
	}
	return submitLabel
}

// RenderSubmit renders the submit control; it is dimmed while busy
func (s Styles) RenderSubmit(busy bool, spinner string) string {
	label := SubmitLabel(busy)
	style := lipgloss.NewStyle().
		Padding(0, 2).
		Border(lipgloss.RoundedBorder())

	if busy {
		style = style.Foreground(s.Secondary).BorderForeground(s.Secondary).Faint(true)
		if spinner != "" {
			label = spinner + " " + label
		}
	} else {
		style = style.Foreground(s.Primary).BorderForeground(s.Primary).Bold(true)
	}
	return style.Render(label)
}

// RenderReport renders the results panel for a report
func (s Styles) RenderReport(report model.TrustReport, width int) string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(s.Primary).Render("Trust Report")

	score := lipgloss.NewStyle().Bold(true).Render("AI Detection Score:") + " " +
		lipgloss.NewStyle().Foreground(s.ScoreColor(report.AIScore)).
			Render(ScorePercent(report.AIScore)+" AI-Likelihood")

	lines := []string{heading, "", score, "", lipgloss.NewStyle().Bold(true).Render("Fact-Check Hits:")}
	for _, claim := range report.Claims {
		lines = append(lines, renderClaim(claim))
	}

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Border).
		Padding(1, 2)
	if width > 4 {
		panel = panel.Width(width - 4)
	}

	return panel.Render(strings.Join(lines, "\n"))
}

func renderClaim(claim model.Claim) string {
	verdict := lipgloss.NewStyle().Bold(true).Render("Verdict: " + claim.Rating)
	return fmt.Sprintf("  • \"%s\"\n    %s (Source: %s)", claim.Claim, verdict, claim.Source)
}

// RenderNotice renders a blocking notification box
func (s Styles) RenderNotice(notice Notice) string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Foreground(s.Error).Bold(true).Render(notice.Message),
		"",
		lipgloss.NewStyle().Foreground(s.Secondary).Render("Press Enter or Esc to dismiss"),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(s.Error).
		Padding(1, 4).
		Render(body)
}

// Render draws the whole dashboard for the given state. input is the
// already-rendered text area and spinner the current spinner frame.
func (s Styles) Render(state State, input string, spinner string, width int) string {
	sections := []string{
		lipgloss.NewStyle().Bold(true).Foreground(s.Primary).Render(title),
		lipgloss.NewStyle().Foreground(s.Secondary).Render(subtitle),
		"",
		input,
		"",
		s.RenderSubmit(state.Busy, spinner),
	}

	if state.Report != nil {
		sections = append(sections, "", s.RenderReport(*state.Report, width))
	}

	help := lipgloss.NewStyle().Foreground(s.Secondary).
		Render("ctrl+s submit • ctrl+c quit")
	sections = append(sections, "", help)

	view := strings.Join(sections, "\n")
	if state.Notice != nil {
		view = lipgloss.JoinVertical(lipgloss.Left, s.RenderNotice(*state.Notice), "", view)
	}
	return view
}
