package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestBoxWidthBounds(t *testing.T) {
	assert.Equal(t, 40, boxWidth(10))
	assert.Equal(t, 80, boxWidth(200))
	assert.Equal(t, 70, boxWidth(100))
}

func TestBoxNarrowTerminalClampsWidth(t *testing.T) {
	out := TitledBox("Inbox", "line", 20)
	overflow := false
	for _, line := range strings.Split(out, "\n") {
		if lipgloss.Width(line) > 20 {
			overflow = true
			break
		}
	}
	assert.False(t, overflow)
}

func TestTitledBoxIncludesTitle(t *testing.T) {
	out := TitledBox("My Title", "Content", 80)
	assert.True(t, strings.Contains(out, "My Title"))
}

func TestTitledBoxEmptyTitleFallsBack(t *testing.T) {
	out := TitledBox("", "Content", 80)
	assert.True(t, strings.Contains(out, "Content"))
}

func TestErrorBoxIncludesMessage(t *testing.T) {
	out := ErrorBox("Error", "Something broke", 80)
	assert.True(t, strings.Contains(out, "Something broke"))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "", truncateRunes("hello", 0))
	assert.Equal(t, "he", truncateRunes("hello", 2))
	assert.Equal(t, "你", truncateRunes("你好", 1))
}

// TestTableClampsLongValues ensures table rows stay within the box width.
func TestTableClampsLongValues(t *testing.T) {
	rows := []TableRow{
		{
			Label: strings.Repeat("Label", 8),
			Value: strings.Repeat("value", 40),
		},
	}
	out := Table("Table", rows, 60)
	maxWidth := lipgloss.Width(strings.Split(Box("x", 60), "\n")[0])
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), maxWidth)
	}
}

func TestActiveBoxClampsWidth(t *testing.T) {
	out := ActiveBox("hello\nworld", 40)
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 40)
	}
}

func TestInfoRowSanitizesLabelAndValue(t *testing.T) {
	out := InfoRow("na\u202Eme\x1b]0;evil\x07", "va\x1b[2Jlu\u202Ee")
	assert.NotContains(t, out, "\u202E")
	assert.NotContains(t, out, "\x1b]")
	assert.NotContains(t, out, "\x1b[2J")

	clean := SanitizeText(out)
	assert.Contains(t, clean, "name: value")
}

func TestIndentPreservesLineCountAndAddsPadding(t *testing.T) {
	src := "a\nb\nc"
	out := Indent(src, 2)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 3)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "  "))
	}
}

func TestCenterLineAddsLeftPadding(t *testing.T) {
	out := CenterLine("hi", 80)
	pad := (safeBoxWidth(80) - lipgloss.Width("hi")) / 2
	assert.True(t, strings.HasPrefix(out, strings.Repeat(" ", pad)))
}

func TestBadgeSanitizesText(t *testing.T) {
	out := Badge("In Bay\x1b[2J", "#a7754e")
	assert.NotContains(t, out, "\x1b[2J")
	assert.Contains(t, SanitizeText(out), "In Bay")
}

func TestProgressBarClampsPercent(t *testing.T) {
	half := SanitizeText(ProgressBar(50, 10, ""))
	assert.Equal(t, 5, strings.Count(half, "█"))
	assert.Contains(t, half, " 50%")

	over := SanitizeText(ProgressBar(140, 10, ""))
	assert.Equal(t, 10, strings.Count(over, "█"))
	assert.Contains(t, over, "100%")

	under := SanitizeText(ProgressBar(-5, 2, ""))
	assert.Equal(t, 4, strings.Count(under, "░"))
}

func TestMaxIntReturnsLarger(t *testing.T) {
	assert.Equal(t, 2, maxInt(1, 2))
	assert.Equal(t, 2, maxInt(2, 1))
}

func TestClampTextWidthEllipsis(t *testing.T) {
	assert.Equal(t, "short", ClampTextWidthEllipsis("short", 10))
	assert.Equal(t, "brake…", ClampTextWidthEllipsis("brake pads", 6))
	assert.Equal(t, "…", ClampTextWidthEllipsis("brake", 1))
}

func TestEmptyStateBoxIncludesTips(t *testing.T) {
	out := SanitizeText(EmptyStateBox("Jobs", "No jobs found.", []string{"Press n to add"}, 60))
	assert.Contains(t, out, "Jobs")
	assert.Contains(t, out, "No jobs found.")
	assert.Contains(t, out, "· Press n to add")
}

func TestBorderedBoxesMatchBoxWidth(t *testing.T) {
	for _, width := range []int{20, 60, 140} {
		want := safeBoxWidth(width)
		for name, out := range map[string]string{
			"box":    Box("hello", width),
			"active": ActiveBox("hello", width),
			"error":  ErrorBox("Error", "broke", width),
			"titled": TitledBox("Jobs", "hello", width),
		} {
			for _, line := range strings.Split(out, "\n") {
				assert.Equal(t, want, lipgloss.Width(line), "%s at %d", name, width)
			}
		}
	}
}

func TestBoxContentFitsInsideBorder(t *testing.T) {
	content := strings.Repeat("x", BoxContentWidth(60))
	out := Box(content, 60)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 5, "content at BoxContentWidth must not wrap")
}
