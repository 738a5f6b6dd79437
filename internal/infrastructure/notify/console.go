package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	routeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
)

// ConsoleNotifier prints toast messages as single styled lines
type ConsoleNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleNotifier creates a notifier writing to out
func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{out: out}
}

// Success implements ports.Notifier
func (n *ConsoleNotifier) Success(message string) {
	n.write(successStyle.Render("✓ " + message))
}

// Error implements ports.Notifier
func (n *ConsoleNotifier) Error(message string) {
	n.write(errorStyle.Render("✗ " + message))
}

func (n *ConsoleNotifier) write(line string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.out, line)
}

// ConsoleNavigator reports the route a non-interactive command lands on
type ConsoleNavigator struct {
	mu    sync.Mutex
	out   io.Writer
	route string
}

// NewConsoleNavigator creates a navigator writing to out
func NewConsoleNavigator(out io.Writer) *ConsoleNavigator {
	return &ConsoleNavigator{out: out}
}

// Navigate implements ports.Navigator
func (n *ConsoleNavigator) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.route = route
	fmt.Fprintf(n.out, "→ %s\n", routeStyle.Render(route))
}

// Route returns the last route navigated to
func (n *ConsoleNavigator) Route() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.route
}
