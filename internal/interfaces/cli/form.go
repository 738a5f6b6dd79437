package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"eventhub.dev/cli/internal/application/ports"
	"eventhub.dev/cli/internal/application/services"
	"eventhub.dev/cli/internal/core/category"
	"eventhub.dev/cli/internal/core/event"
	"eventhub.dev/cli/internal/infrastructure/notify"
)

// FormFlags holds command-line flags for the form command
type FormFlags struct {
	ToastDuration time.Duration
}

// NewFormCommand creates the interactive create-event form
func NewFormCommand(container *CLIContainer) *cobra.Command {
	flags := &FormFlags{}

	cmd := &cobra.Command{
		Use:   "form",
		Short: "Interactive form for creating an event",
		Long: `Open the create-event form in the terminal.

Categories are loaded when the form opens. Use left/right on the category
row to pick one and type to narrow the list. Enter the path of an image on
the photo row. Submit with ctrl+s or by pressing enter on the button; on
success the form closes and prints the listing route.

Examples:
  ehub form
  ehub form --api-url http://localhost:8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForm(cmd, container, flags)
		},
	}

	cmd.Flags().DurationVar(&flags.ToastDuration, "toast-duration", 4*time.Second, "How long notifications stay on screen")

	return cmd
}

// runForm starts the form and reports where it navigated
func runForm(cmd *cobra.Command, container *CLIContainer, flags *FormFlags) error {
	if container.Config.LogFile == "" {
		// Log lines would be drawn over the alternate screen
		if err := container.Logger.ConfigureLogging(&ports.LoggingConfig{
			Level:  container.Logger.GetLogLevel(),
			Format: container.Config.LogFormat,
			Output: "discard",
		}); err != nil {
			return fmt.Errorf("failed to configure logging: %w", err)
		}
	}

	queue := &notificationQueue{}
	service := container.NewEventFormService(queue, queue)
	model := newFormModel(cmd.Context(), service, queue, flags.ToastDuration)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("form failed: %w", err)
	}

	if m, ok := final.(formModel); ok && m.route != "" {
		notify.NewConsoleNotifier(cmd.ErrOrStderr()).Success(services.CreatedMessage)
		notify.NewConsoleNavigator(cmd.OutOrStdout()).Navigate(m.route)
	}
	return nil
}

type toastKind int

const (
	toastSuccess toastKind = iota
	toastError
)

type toast struct {
	id   int
	kind toastKind
	text string
}

// notificationQueue collects what the service reports while a command runs;
// the model drains it when the command's result arrives
type notificationQueue struct {
	mu     sync.Mutex
	toasts []toast
	route  string
}

func (q *notificationQueue) Success(message string) {
	q.push(toast{kind: toastSuccess, text: message})
}

func (q *notificationQueue) Error(message string) {
	q.push(toast{kind: toastError, text: message})
}

func (q *notificationQueue) Navigate(route string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.route = route
}

func (q *notificationQueue) push(t toast) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.toasts = append(q.toasts, t)
}

func (q *notificationQueue) drain() ([]toast, string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	toasts, route := q.toasts, q.route
	q.toasts, q.route = nil, ""
	return toasts, route
}

// formRow indexes the rows of the form in display order
type formRow int

const (
	rowCategory formRow = iota
	rowPhoto
	rowName
	rowDescription
	rowPrice
	rowTeamSize
	rowVenue
	rowEventDate
	rowContact
	rowSubmit
)

const rowCount = int(rowSubmit) + 1

var rowFields = []event.Field{
	rowCategory:    event.FieldCategory,
	rowPhoto:       event.FieldPhoto,
	rowName:        event.FieldName,
	rowDescription: event.FieldDescription,
	rowPrice:       event.FieldPrice,
	rowTeamSize:    event.FieldTeamSize,
	rowVenue:       event.FieldVenue,
	rowEventDate:   event.FieldEventDate,
	rowContact:     event.FieldContact,
}

var rowPlaceholders = []string{
	rowCategory:    "type to search",
	rowPhoto:       "path to an image",
	rowName:        "write a name",
	rowDescription: "write a description",
	rowPrice:       "write a Price",
	rowTeamSize:    "write a team size",
	rowVenue:       "write a venue",
	rowEventDate:   "YYYY-MM-DD",
	rowContact:     "write contact information",
}

// numericRunes limits what can be typed into number rows
var numericRunes = map[formRow]string{
	rowPrice: "0123456789.",
}

// formModel holds the state for the Bubble Tea form
type formModel struct {
	ctx     context.Context
	service *services.EventFormService
	queue   *notificationQueue
	ttl     time.Duration

	inputs     []textinput.Model
	focus      formRow
	categories category.List
	selected   string
	loading    bool
	photo      *event.Photo
	photoPath  string
	submitting bool

	toasts      []toast
	nextToastID int
	route       string
	width       int
}

// newFormModel creates a new form model
func newFormModel(ctx context.Context, service *services.EventFormService, queue *notificationQueue, ttl time.Duration) formModel {
	inputs := make([]textinput.Model, len(rowFields))
	for i := range inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = rowPlaceholders[i]
		in.Width = 40
		inputs[i] = in
	}
	inputs[rowCategory].Focus()

	return formModel{
		ctx:        ctx,
		service:    service,
		queue:      queue,
		ttl:        ttl,
		inputs:     inputs,
		focus:      rowCategory,
		categories: category.List{},
		loading:    true,
	}
}

// categoriesLoadedMsg is sent when the category fetch finishes
type categoriesLoadedMsg struct {
	categories category.List
}

// submittedMsg is sent when a submission attempt finishes
type submittedMsg struct {
	outcome services.Outcome
}

// toastExpiredMsg removes a toast once its time is up
type toastExpiredMsg struct {
	id int
}

// Init implements the Bubble Tea init method
func (m formModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadCategoriesCmd())
}

// loadCategoriesCmd fetches the category list once
func (m formModel) loadCategoriesCmd() tea.Cmd {
	ctx, service := m.ctx, m.service
	return func() tea.Msg {
		return categoriesLoadedMsg{categories: service.LoadCategories(ctx)}
	}
}

// submitCmd sends the draft
func (m formModel) submitCmd(draft event.Draft) tea.Cmd {
	ctx, service := m.ctx, m.service
	return func() tea.Msg {
		return submittedMsg{outcome: service.Submit(ctx, draft)}
	}
}

// Update implements the Bubble Tea update method
func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case categoriesLoadedMsg:
		m.loading = false
		m.categories = msg.categories
		m.reconcileSelection()
		return m, m.drainNotifications()

	case submittedMsg:
		m.submitting = false
		cmd := m.drainNotifications()
		if m.route != "" {
			return m, tea.Quit
		}
		if msg.outcome.Field != "" {
			m.focusField(msg.outcome.Field)
		}
		return m, cmd

	case toastExpiredMsg:
		for i, t := range m.toasts {
			if t.id == msg.id {
				m.toasts = append(m.toasts[:i:i], m.toasts[i+1:]...)
				break
			}
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == rowSubmit {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m formModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "ctrl+s":
		return m.submit()

	case "enter":
		if m.focus == rowSubmit {
			return m.submit()
		}
		return m.moveFocus(1)

	case "tab", "down":
		return m.moveFocus(1)

	case "shift+tab", "up":
		return m.moveFocus(-1)

	case "left", "right":
		if m.focus == rowCategory {
			delta := 1
			if msg.String() == "left" {
				delta = -1
			}
			m.cycleCategory(delta)
			return m, nil
		}
	}

	if m.focus == rowSubmit {
		return m, nil
	}
	if allowed, ok := numericRunes[m.focus]; ok && msg.Type == tea.KeyRunes {
		for _, r := range msg.Runes {
			if !strings.ContainsRune(allowed, r) {
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if m.focus == rowCategory {
		m.reconcileSelection()
	}
	return m, cmd
}

// submit starts a submission unless one is in flight
func (m formModel) submit() (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	photoCmd, ok := m.syncPhoto()
	if !ok {
		return m, photoCmd
	}

	m.submitting = true
	return m, tea.Batch(photoCmd, m.submitCmd(m.draft()))
}

func (m formModel) moveFocus(delta int) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == rowPhoto {
		cmd, _ = m.syncPhoto()
	}
	next := formRow((int(m.focus) + delta + rowCount) % rowCount)
	return m, tea.Batch(cmd, m.setFocus(next))
}

func (m *formModel) setFocus(row formRow) tea.Cmd {
	if m.focus != rowSubmit {
		m.inputs[m.focus].Blur()
	}
	m.focus = row
	if row == rowSubmit {
		return nil
	}
	return m.inputs[row].Focus()
}

func (m *formModel) focusField(field event.Field) {
	for row, f := range rowFields {
		if f == field {
			m.setFocus(formRow(row))
			return
		}
	}
}

// syncPhoto loads the photo path when it changed. It reports false when a
// path is set but no photo could be loaded from it.
func (m *formModel) syncPhoto() (tea.Cmd, bool) {
	path := strings.TrimSpace(m.inputs[rowPhoto].Value())
	if path == m.photoPath {
		if path != "" && m.photo == nil {
			return m.addToast(toastError, "Photo could not be loaded"), false
		}
		return nil, true
	}

	m.photoPath = path
	m.photo = nil
	if path == "" {
		return nil, true
	}

	photo, err := event.LoadPhoto(path)
	if err != nil {
		text := "Photo could not be loaded"
		if errors.Is(err, event.ErrNotImage) {
			text = event.ErrNotImage.Error()
		}
		return m.addToast(toastError, text), false
	}
	m.photo = photo
	return nil, true
}

// options returns the categories matching the search query
func (m formModel) options() category.List {
	return m.categories.Filter(m.inputs[rowCategory].Value())
}

// reconcileSelection clears the selection when it is filtered out
func (m *formModel) reconcileSelection() {
	if m.selected != "" && m.options().IndexOf(m.selected) == -1 {
		m.selected = ""
	}
}

func (m *formModel) cycleCategory(delta int) {
	options := m.options()
	if len(options) == 0 {
		return
	}

	idx := options.IndexOf(m.selected)
	switch {
	case idx == -1 && delta > 0:
		idx = 0
	case idx == -1:
		idx = len(options) - 1
	default:
		idx = (idx + delta + len(options)) % len(options)
	}
	m.selected = options[idx].ID
}

// draft builds the event draft from the form
func (m formModel) draft() event.Draft {
	return event.Draft{
		Name:        m.inputs[rowName].Value(),
		Description: m.inputs[rowDescription].Value(),
		Price:       m.inputs[rowPrice].Value(),
		Category:    m.selected,
		TeamSize:    m.inputs[rowTeamSize].Value(),
		Venue:       m.inputs[rowVenue].Value(),
		EventDate:   m.inputs[rowEventDate].Value(),
		Contact:     m.inputs[rowContact].Value(),
		Photo:       m.photo,
	}
}

func (m *formModel) addToast(kind toastKind, text string) tea.Cmd {
	m.nextToastID++
	t := toast{id: m.nextToastID, kind: kind, text: text}
	m.toasts = append(m.toasts, t)

	return tea.Tick(m.ttl, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: t.id}
	})
}

// drainNotifications turns queued service notifications into toasts
func (m *formModel) drainNotifications() tea.Cmd {
	toasts, route := m.queue.drain()
	if route != "" {
		m.route = route
	}

	cmds := make([]tea.Cmd, 0, len(toasts))
	for _, t := range toasts {
		cmds = append(cmds, m.addToast(t.kind, t.text))
	}
	return tea.Batch(cmds...)
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle    = lipgloss.NewStyle().Width(22).Foreground(lipgloss.Color("245"))
	focusedStyle  = lipgloss.NewStyle().Width(22).Bold(true).Foreground(lipgloss.Color("86"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	buttonStyle   = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("86"))
	toastOKStyle  = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("46"))
	toastErrStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("196"))
	frameStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

// View implements the Bubble Tea view method
func (m formModel) View() string {
	rows := []string{titleStyle.Render("Create Event"), ""}

	for row := range rowFields {
		rows = append(rows, m.renderRow(formRow(row)))
	}
	rows = append(rows, "", m.renderButton())

	sections := []string{frameStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))}
	if toasts := m.renderToasts(); toasts != "" {
		sections = append(sections, toasts)
	}
	sections = append(sections, mutedStyle.Render("[Tab/↑↓] Move | [←→] Category | [Ctrl+S] Create | [Esc] Quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m formModel) renderRow(row formRow) string {
	label := labelStyle.Render(rowFields[row].Label())
	if row == m.focus {
		label = focusedStyle.Render("› " + rowFields[row].Label())
	}

	content := m.inputs[row].View()
	switch row {
	case rowCategory:
		content = lipgloss.JoinHorizontal(lipgloss.Left, m.renderCategory(), "  ", mutedStyle.Render("search: ")+content)
	case rowPhoto:
		if m.photo != nil {
			content += mutedStyle.Render(fmt.Sprintf("  ✓ %s (%.1f KB)", m.photo.Name, float64(m.photo.Size())/1000))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Left, label, content)
}

func (m formModel) renderCategory() string {
	if m.loading {
		return mutedStyle.Render("Loading categories…")
	}
	options := m.options()
	if len(options) == 0 {
		return mutedStyle.Render("No categories")
	}

	selected, err := options.Find(m.selected)
	if err != nil {
		return mutedStyle.Render(fmt.Sprintf("‹ Select a category › (%d)", len(options)))
	}
	return fmt.Sprintf("‹ %s › (%d/%d)", selected.Name, options.IndexOf(selected.ID)+1, len(options))
}

func (m formModel) renderButton() string {
	if m.submitting {
		return mutedStyle.Render("Creating…")
	}
	text := "CREATE EVENT"
	if m.focus == rowSubmit {
		text = "› " + text + " ‹"
	}
	return buttonStyle.Render(text)
}

func (m formModel) renderToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}

	lines := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		style := toastOKStyle
		if t.kind == toastError {
			style = toastErrStyle
		}
		lines = append(lines, style.Render(t.text))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
