// Package tui provides the interactive chat interface.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/grill-labs/aerobot/internal/core/domain"
	"github.com/grill-labs/aerobot/internal/core/ports/driving"
)

// errorReply is shown instead of raw errors so the chat never leaks
// stack details to the user.
const errorReply = "Извините, произошла ошибка при обработке вашего запроса. Попробуйте ещё раз."

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// answerMsg carries the assistant's reply back into the update loop.
type answerMsg struct {
	answer domain.Answer
	err    error
}

// transcriptEntry is one rendered exchange line.
type transcriptEntry struct {
	speaker string
	text    string
	isError bool
}

// Chat is the bubbletea model for the interactive assistant session.
type Chat struct {
	assistant driving.Assistant
	ctx       context.Context

	viewport   viewport.Model
	input      textinput.Model
	spinner    spinner.Model
	transcript []transcriptEntry

	width   int
	height  int
	ready   bool
	waiting bool
}

// NewChat creates the chat model.
func NewChat(assistant driving.Assistant) *Chat {
	input := textinput.New()
	input.Placeholder = "Задайте вопрос о моделях аэрогрилей..."
	input.Focus()
	input.CharLimit = 500

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Chat{
		assistant: assistant,
		ctx:       context.Background(),
		input:     input,
		spinner:   sp,
		width:     80,
		height:    24,
	}
}

// WithContext sets the context used for assistant calls.
func (c *Chat) WithContext(ctx context.Context) *Chat {
	c.ctx = ctx
	return c
}

// Init starts the input cursor blink.
func (c *Chat) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the chat session.
func (c *Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		c.layout()
		c.ready = true
		return c, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return c, tea.Quit
		case tea.KeyEnter:
			if c.waiting {
				return c, nil
			}
			question := strings.TrimSpace(c.input.Value())
			if question == "" {
				return c, nil
			}
			c.input.Reset()
			c.append(transcriptEntry{speaker: "Вы", text: question})
			c.waiting = true
			return c, tea.Batch(c.spinner.Tick, c.ask(question))
		}

	case answerMsg:
		c.waiting = false
		if msg.err != nil {
			c.append(transcriptEntry{speaker: "Ассистент", text: errorReply, isError: true})
		} else {
			c.append(transcriptEntry{speaker: "Ассистент", text: msg.answer.Text})
		}
		return c, nil

	case spinner.TickMsg:
		if !c.waiting {
			return c, nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	cmds = append(cmds, cmd)
	c.viewport, cmd = c.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return c, tea.Batch(cmds...)
}

// View renders the transcript, the typing indicator and the input line.
func (c *Chat) View() string {
	if !c.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(c.viewport.View())
	b.WriteString("\n")
	if c.waiting {
		b.WriteString(c.spinner.View() + " печатает...")
	} else {
		b.WriteString(c.input.View())
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Enter — отправить, Esc — выход"))
	return b.String()
}

// ask calls the assistant off the update loop.
func (c *Chat) ask(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := c.assistant.Answer(c.ctx, question)
		return answerMsg{answer: answer, err: err}
	}
}

func (c *Chat) append(entry transcriptEntry) {
	c.transcript = append(c.transcript, entry)
	c.viewport.SetContent(c.renderTranscript())
	c.viewport.GotoBottom()
}

func (c *Chat) renderTranscript() string {
	var b strings.Builder
	for i, entry := range c.transcript {
		if i > 0 {
			b.WriteString("\n\n")
		}
		label := userStyle
		if entry.speaker != "Вы" {
			label = assistantStyle
		}
		b.WriteString(label.Render(entry.speaker + ":"))
		b.WriteString("\n")
		if entry.isError {
			b.WriteString(errorStyle.Render(entry.text))
		} else {
			b.WriteString(entry.text)
		}
	}
	return lipgloss.NewStyle().Width(c.viewport.Width).Render(b.String())
}

// layout sizes the viewport to the window, reserving rows for the
// input line and help footer.
func (c *Chat) layout() {
	height := c.height - 3
	if height < 3 {
		height = 3
	}
	if c.viewport.Width == 0 {
		c.viewport = viewport.New(c.width, height)
	} else {
		c.viewport.Width = c.width
		c.viewport.Height = height
	}
	c.input.Width = c.width - 4
	c.viewport.SetContent(c.renderTranscript())
}
