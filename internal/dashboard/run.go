package dashboard

import tea "github.com/charmbracelet/bubbletea"

// Run launches the full-screen dashboard against the control plane at
// base, blocking until the user quits.
func Run(base, network string) error {
	p := tea.NewProgram(New(base, network), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
