package styles

import "github.com/charmbracelet/lipgloss"

// Oxocarbon color scheme, base16 oxocarbon-dark palette
var (
	OxocarbonBase00 = lipgloss.Color("#262626") // UI elements
	OxocarbonBase01 = lipgloss.Color("#393939") // Borders, secondary UI
	OxocarbonBase02 = lipgloss.Color("#525252")
	OxocarbonBase03 = lipgloss.Color("#767676") // Muted text
	OxocarbonBase04 = lipgloss.Color("#dde1e6")
	OxocarbonBase05 = lipgloss.Color("#f2f4f8") // Primary foreground
	OxocarbonWhite  = lipgloss.Color("#ffffff")

	OxocarbonPink   = lipgloss.Color("#ee5396")
	OxocarbonRed    = lipgloss.Color("#ff5252")
	OxocarbonCyan   = lipgloss.Color("#33b1ff")
	OxocarbonGreen  = lipgloss.Color("#42be65")
	OxocarbonPurple = lipgloss.Color("#be95ff") // main accent
	OxocarbonMauve  = lipgloss.Color("#d1aaff")
)

var (
	AppStyle = lipgloss.NewStyle().
			Padding(1, 2)

	TitleStyle = lipgloss.NewStyle().
			Foreground(OxocarbonWhite).
			Background(OxocarbonPurple).
			Padding(0, 1).
			Bold(true)

	TotalStyle = lipgloss.NewStyle().
			Foreground(OxocarbonMauve).
			Bold(true)

	LoadingStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase04).
			Padding(1, 2)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(OxocarbonRed).
			Bold(true).
			Padding(1, 2)

	// Genre section heading, underlined like a rule
	SectionHeaderStyle = lipgloss.NewStyle().
				Foreground(OxocarbonBase05).
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(OxocarbonBase02).
				MarginTop(1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(OxocarbonBase01).
			Padding(0, 1).
			MarginRight(1)

	CardSelectedStyle = CardStyle.
				BorderForeground(OxocarbonPurple)

	CardTitleStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase05).
			Bold(true)

	CardImageStyle = lipgloss.NewStyle().
			Foreground(OxocarbonCyan)

	CardFallbackStyle = lipgloss.NewStyle().
				Foreground(OxocarbonPink).
				Italic(true)

	URLStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase03).
			Italic(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase03).
			Italic(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(OxocarbonGreen)

	FilterLabelStyle = lipgloss.NewStyle().
				Foreground(OxocarbonBase04)

	FilterQueryStyle = lipgloss.NewStyle().
				Foreground(OxocarbonPurple).
				Bold(true)
)
