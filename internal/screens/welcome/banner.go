package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/synthtutor/internal/ui/theme"
)

const bannerArt = `
 ███████╗██╗   ██╗███╗   ██╗████████╗██╗  ██╗
 ██╔════╝╚██╗ ██╔╝████╗  ██║╚══██╔══╝██║  ██║
 ███████╗ ╚████╔╝ ██╔██╗ ██║   ██║   ███████║
 ╚════██║  ╚██╔╝  ██║╚██╗██║   ██║   ██╔══██║
 ███████║   ██║   ██║ ╚████║   ██║   ██║  ██║
 ╚══════╝   ╚═╝   ╚═╝  ╚═══╝   ╚═╝   ╚═╝  ╚═╝`

const bannerCompact = "S Y N T H E S I S"

// RenderBanner returns the banner styled in the primary color, or a one-line
// version for terminals narrower than 48 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 48 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
