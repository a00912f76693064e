package tui

import "github.com/charmbracelet/lipgloss"

// Color palette matching the fatih/color output of the CLI
var (
	// ColorGreen for success indicators and available copies
	ColorGreen = lipgloss.AdaptiveColor{Light: "#00AF00", Dark: "#00D700"}

	// ColorCyan for genres, roles and other metadata
	ColorCyan = lipgloss.AdaptiveColor{Light: "#00AFAF", Dark: "#00D7D7"}

	// ColorWhite for primary text
	ColorWhite = lipgloss.AdaptiveColor{Light: "#262626", Dark: "#FFFFFF"}

	// ColorGray for secondary text and help
	ColorGray = lipgloss.AdaptiveColor{Light: "#767676", Dark: "#808080"}

	// ColorYellow for warnings and highlights
	ColorYellow = lipgloss.AdaptiveColor{Light: "#D7AF00", Dark: "#FFD700"}

	// ColorRed for errors and overdue loans
	ColorRed = lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"}
)

// Reusable styles
var (
	// StyleNormal is the base style for regular text
	StyleNormal = lipgloss.NewStyle().Foreground(ColorWhite)

	// StyleHighlight is for selected items
	StyleHighlight = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	// StyleOK is for success messages and healthy values
	StyleOK = lipgloss.NewStyle().Foreground(ColorGreen)

	// StyleTag is for genres and roles
	StyleTag = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleHelp is for help text and hints
	StyleHelp = lipgloss.NewStyle().Foreground(ColorGray)

	// StyleWarn is for low stock and soft warnings
	StyleWarn = lipgloss.NewStyle().Foreground(ColorYellow)

	// StyleError is for error banners and overdue rows
	StyleError = lipgloss.NewStyle().Foreground(ColorRed)

	// StyleHeader is for section headers
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	// StyleBorder is for borders and separators
	StyleBorder = lipgloss.NewStyle().
			Foreground(ColorGray).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray)

	// StyleDemo marks views rendered from the offline dataset
	StyleDemo = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(ColorYellow).
			Padding(0, 1)

	// StyleTabActive and StyleTab render the navigation bar
	StyleTabActive = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true).
			Underline(true).
			Padding(0, 1)
	StyleTab = lipgloss.NewStyle().
			Foreground(ColorGray).
			Padding(0, 1)
)

// StatusStyle picks the style for a transaction or account status.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "Overdue", "Inactive", "Suspended":
		return StyleError
	case "Returned":
		return StyleHelp
	case "Active":
		return StyleOK
	}
	return StyleNormal
}

// AvailabilityStyle colors a copy count by its availability level.
func AvailabilityStyle(level string) lipgloss.Style {
	switch level {
	case "none":
		return StyleError
	case "low":
		return StyleWarn
	}
	return StyleOK
}
