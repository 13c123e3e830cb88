package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"prompt-scrape-go/pkg/gateway"
	"prompt-scrape-go/pkg/models"
	"prompt-scrape-go/pkg/render"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// scrapeForm is the Bubble Tea model for the full submit-and-view flow:
// describe a scrape, wait for the backend, then browse the result in any of
// the display modes.
type scrapeForm struct {
	// Core dependencies
	client        *gateway.Client
	submitTimeout time.Duration

	// Inputs
	promptInput textinput.Model
	pagesInput  textinput.Model

	// Flow / state
	step         int
	currentField int
	err          error

	// Submission state. submitSeq increments per submission; responses
	// carrying an older sequence are ignored.
	submitting bool
	submitSeq  int

	// Result state
	result      *models.ScrapeJobResponse
	fields      []string
	mode        models.DisplayMode
	showDetails bool

	// Widgets
	spin    spinner.Model
	results viewport.Model
	width   int
	height  int
}

const (
	stepPrompt = iota
	stepSubmitting
	stepResults
)

var (
	errBlankPrompt  = errors.New("Please describe what you would like to scrape.")
	errInvalidPages = errors.New("Page limit must be a positive number.")
)

// jobResultMsg carries one submission outcome back into the model.
type jobResultMsg struct {
	seq  int
	resp *models.ScrapeJobResponse
	err  error
}

// NewScrapeForm creates the scrape flow model.
func NewScrapeForm(client *gateway.Client, submitTimeoutSeconds int) tea.Model {
	promptInput := textinput.New()
	promptInput.Placeholder = "Get the name and price from https://example.com/products"
	promptInput.Focus()
	promptInput.CharLimit = 2048
	promptInput.Width = 70

	pagesInput := textinput.New()
	pagesInput.Placeholder = "Max pages (optional)"
	pagesInput.CharLimit = 4
	pagesInput.Width = 20

	if submitTimeoutSeconds <= 0 {
		submitTimeoutSeconds = 120
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = infoStyle

	return &scrapeForm{
		client:        client,
		submitTimeout: time.Duration(submitTimeoutSeconds) * time.Second,
		promptInput:   promptInput,
		pagesInput:    pagesInput,
		step:          stepPrompt,
		mode:          models.ModeList,
		spin:          s,
		results:       viewport.New(80, 20),
	}
}

// Init implements tea.Model.
func (m *scrapeForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *scrapeForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.results.Width = msg.Width
		m.results.Height = msg.Height - 8
		if m.results.Height < 5 {
			m.results.Height = 5
		}
		if m.step == stepResults {
			m.refreshViewport()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.step {
		case stepPrompt:
			return m.handlePromptKey(msg)
		case stepSubmitting:
			// No interaction while a job is in flight besides quitting.
			if msg.String() == "esc" || msg.String() == "q" {
				return m, tea.Quit
			}
			return m, nil
		case stepResults:
			return m.handleResultsKey(msg)
		}

	case spinner.TickMsg:
		if m.step != stepSubmitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case jobResultMsg:
		// A newer submission supersedes this response.
		if msg.seq != m.submitSeq {
			return m, nil
		}
		m.submitting = false

		if msg.err != nil {
			m.err = userFacingError(msg.err)
			m.result = nil
			m.fields = nil
			m.step = stepPrompt
			m.promptInput.Focus()
			return m, textinput.Blink
		}

		m.err = nil
		m.result = msg.resp
		m.fields = render.AggregateFields(msg.resp.Items)
		m.mode = render.EffectiveMode(render.DetectMode(m.promptInput.Value()), m.fields)
		m.showDetails = false
		m.step = stepResults
		m.refreshViewport()
		return m, nil
	}

	// Route updates to the focused input.
	var cmd tea.Cmd
	if m.step == stepPrompt {
		switch m.currentField {
		case 0:
			m.promptInput, cmd = m.promptInput.Update(msg)
		case 1:
			m.pagesInput, cmd = m.pagesInput.Update(msg)
		}
	}
	return m, cmd
}

func (m *scrapeForm) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab", "shift+tab":
		m.currentField = (m.currentField + 1) % 2
		m.focusCurrentField()
		return m, textinput.Blink
	case "enter":
		return m.startSubmission()
	}

	var cmd tea.Cmd
	switch m.currentField {
	case 0:
		m.promptInput, cmd = m.promptInput.Update(msg)
	case 1:
		m.pagesInput, cmd = m.pagesInput.Update(msg)
	}
	return m, cmd
}

func (m *scrapeForm) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit

	case "n":
		// Start a fresh request, keeping the last result until it is replaced.
		m.step = stepPrompt
		m.err = nil
		m.currentField = 0
		m.focusCurrentField()
		return m, textinput.Blink

	case "d":
		m.showDetails = !m.showDetails
		m.refreshViewport()
		return m, nil

	case "l":
		return m.switchMode(models.ModeList)
	case "t":
		return m.switchMode(models.ModeTable)
	case "j":
		return m.switchMode(models.ModeJSON)
	case "c":
		return m.switchMode(models.ModeCSV)
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

// switchMode changes the display mode when it is available for the current
// result; unavailable modes are ignored rather than erroring.
func (m *scrapeForm) switchMode(mode models.DisplayMode) (tea.Model, tea.Cmd) {
	if m.result == nil || !render.ModeAvailable(mode, m.fields) {
		return m, nil
	}
	if m.mode == mode {
		return m, nil
	}
	m.mode = mode
	m.refreshViewport()
	return m, nil
}

func (m *scrapeForm) focusCurrentField() {
	m.promptInput.Blur()
	m.pagesInput.Blur()
	switch m.currentField {
	case 0:
		m.promptInput.Focus()
	case 1:
		m.pagesInput.Focus()
	}
}

// startSubmission validates inputs and kicks off the asynchronous submit.
func (m *scrapeForm) startSubmission() (tea.Model, tea.Cmd) {
	prompt := strings.TrimSpace(m.promptInput.Value())
	if prompt == "" {
		m.err = errBlankPrompt
		return m, nil
	}

	maxPages := 0
	if raw := strings.TrimSpace(m.pagesInput.Value()); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			m.err = errInvalidPages
			return m, nil
		}
		maxPages = n
	}

	m.err = nil
	m.submitting = true
	m.submitSeq++
	m.step = stepSubmitting

	seq := m.submitSeq
	return m, tea.Batch(
		m.spin.Tick,
		m.submit(seq, prompt, maxPages),
	)
}

// submit performs the network call off the UI loop.
func (m *scrapeForm) submit(seq int, prompt string, maxPages int) tea.Cmd {
	timeout := m.submitTimeout
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		resp, err := client.SubmitJob(ctx, prompt, maxPages)
		return jobResultMsg{seq: seq, resp: resp, err: err}
	}
}

func (m *scrapeForm) refreshViewport() {
	if m.result == nil {
		m.results.SetContent("")
		return
	}
	var b strings.Builder
	if m.showDetails {
		b.WriteString(render.JobDetails(m.result))
		b.WriteString("\n\n")
		b.WriteString(renderDivider(40))
		b.WriteString("\n\n")
	}
	b.WriteString(render.Render(m.mode, m.result.Items, m.fields))
	m.results.SetContent(b.String())
	m.results.GotoTop()
}

// View implements tea.Model.
func (m *scrapeForm) View() string {
	switch m.step {
	case stepPrompt:
		return m.renderPrompt()
	case stepSubmitting:
		return m.renderSubmitting()
	case stepResults:
		return m.renderResults()
	}
	return ""
}

func (m *scrapeForm) renderPrompt() string {
	var b strings.Builder
	b.WriteString(renderTitle("Prompt Scrape"))
	b.WriteString(fieldLabelStyle.Render("What would you like to scrape?"))
	b.WriteString("\n")
	b.WriteString(m.promptInput.View())
	b.WriteString("\n\n")
	b.WriteString(fieldLabelStyle.Render("Page limit (optional):"))
	b.WriteString("\n")
	b.WriteString(m.pagesInput.View())

	if m.err != nil {
		b.WriteString("\n\n")
		b.WriteString(renderInlineError(m.err))
	}

	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("[Tab] Switch field  [Enter] Submit  [Esc] Quit"))

	return b.String()
}

func (m *scrapeForm) renderSubmitting() string {
	var b strings.Builder
	b.WriteString(renderTitle("Submitting Job"))
	b.WriteString(m.spin.View())
	b.WriteString(infoStyle.Render(" Waiting for the scraper backend..."))
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("Request: "))
	b.WriteString(boldStyle.Render(strings.TrimSpace(m.promptInput.Value())))
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("Scraping can take a while depending on the site."))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Press Esc to quit."))
	return b.String()
}

func (m *scrapeForm) renderResults() string {
	var b strings.Builder
	b.WriteString(renderTitle("Scrape Result"))
	if m.result != nil {
		b.WriteString(renderSuccess(strconv.Itoa(len(m.result.Items)) + " item(s) scraped"))
		b.WriteString("\n")
	}
	b.WriteString(m.renderModeTabs())
	b.WriteString("\n")
	b.WriteString(renderDivider(60))
	b.WriteString("\n")
	b.WriteString(m.results.View())
	b.WriteString("\n")
	b.WriteString(renderDivider(60))
	b.WriteString("\n")

	if m.result != nil && len(m.result.Warnings) > 0 && !m.showDetails {
		b.WriteString(renderWarning(strconv.Itoa(len(m.result.Warnings)) + " warning(s); press 'd' for details."))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("[l/t/j/c] Mode  [d] Details  [n] New request  [↑/↓] Scroll  [q] Quit"))
	return b.String()
}

// renderModeTabs shows the four display modes, highlighting the active one
// and striking out modes the current result cannot support.
func (m *scrapeForm) renderModeTabs() string {
	parts := make([]string, 0, len(models.DisplayModes))
	for _, mode := range models.DisplayModes {
		label := mode.Label()
		switch {
		case mode == m.mode:
			parts = append(parts, activeModeStyle.Render(label))
		case !render.ModeAvailable(mode, m.fields):
			parts = append(parts, disabledModeStyle.Render(label))
		default:
			parts = append(parts, inactiveModeStyle.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}
