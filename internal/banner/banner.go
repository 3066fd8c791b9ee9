package banner

import (
	"weaktrace/internal/styles"

	"github.com/charmbracelet/lipgloss"
)

func GetString() string {
	renderer := lipgloss.DefaultRenderer()

	style := renderer.NewStyle().
		Foreground(styles.ColorBanner).
		Bold(true)

	ascii := `
                    __   __                     
 _      _____  ____ _/ /__/ /__________ _________ 
| | /| / / _ \/ __ '/ //_/ __/ ___/ __ '/ ___/ _ \
| |/ |/ /  __/ /_/ / ,< / /_/ /  / /_/ / /__/  __/
|__/|__/\___/\__,_/_/|_|\__/_/   \__,_/\___/\___/ `

	return "\n" + style.Render(ascii) + "\n" + styles.Subtle.Render("  mahimahi weak-network trace generator") + "\n"
}
