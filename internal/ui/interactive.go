package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/erkanisik1/Pisilinux-tools/internal/cleaner"
	"github.com/erkanisik1/Pisilinux-tools/internal/retention"
	"github.com/erkanisik1/Pisilinux-tools/internal/ui/styles"
	"github.com/erkanisik1/Pisilinux-tools/pkg/utils"
)

// Options configures the interactive mode. BuildPlan runs the scan and
// ranking pipeline; it is injected so the UI never touches the filesystem
// directly.
type Options struct {
	Root      string
	Keep      int
	DryRun    bool
	BuildPlan func() (*retention.Plan, error)
}

// RunInteractive drives the scan / confirm / clean flow as a terminal
// program. It returns the clean result, or nil if the user cancelled or
// nothing was redundant. Nothing is deleted before the confirm screen is
// answered with yes.
func RunInteractive(opts Options) (*cleaner.Result, error) {
	m := newAppModel(opts)

	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("error running interactive mode: %w", err)
	}

	app := final.(*appModel)
	if app.err != nil {
		return nil, app.err
	}
	if !app.confirmed {
		return nil, nil
	}
	return app.result, nil
}

type phase int

const (
	phaseScanning phase = iota
	phaseConfirm
	phaseCleaning
	phaseDone
)

type planMsg struct{ plan *retention.Plan }
type planErrMsg struct{ err error }
type deletedMsg struct{ res *cleaner.Result }

type appModel struct {
	opts    Options
	phase   phase
	spinner spinner.Model
	bar     progress.Model

	plan      *retention.Plan
	files     []cleaner.File
	idx       int
	cursor    int // 0 = yes, 1 = no; starts on no
	confirmed bool
	cleaner   *cleaner.Cleaner
	result    *cleaner.Result
	err       error
	quitting  bool
}

func newAppModel(opts Options) *appModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SelectedStyle

	return &appModel{
		opts:    opts,
		spinner: s,
		bar:     progress.New(progress.WithDefaultGradient()),
		cursor:  1, // default answer is no
		cleaner: cleaner.New(opts.DryRun),
		result:  &cleaner.Result{SkippedReason: map[string]string{}, DryRun: opts.DryRun},
	}
}

// Init starts the spinner and kicks off the scan.
func (m *appModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.buildPlanCmd())
}

func (m *appModel) buildPlanCmd() tea.Cmd {
	build := m.opts.BuildPlan
	return func() tea.Msg {
		plan, err := build()
		if err != nil {
			return planErrMsg{err: err}
		}
		return planMsg{plan: plan}
	}
}

func (m *appModel) deleteNextCmd() tea.Cmd {
	f := m.files[m.idx]
	c := m.cleaner
	return func() tea.Msg {
		return deletedMsg{res: c.Clean([]cleaner.File{f})}
	}
}

// Update handles messages
func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd

	case planMsg:
		m.plan = msg.plan
		if m.plan.Empty() {
			m.phase = phaseDone
			return m, tea.Quit
		}
		m.phase = phaseConfirm
		for _, e := range m.plan.Discard {
			m.files = append(m.files, cleaner.File{Path: e.Path(), Size: e.Size})
		}
		return m, nil

	case planErrMsg:
		m.err = msg.err
		return m, tea.Quit

	case deletedMsg:
		m.merge(msg.res)
		m.idx++
		cmds := []tea.Cmd{m.bar.SetPercent(float64(m.idx) / float64(len(m.files)))}
		if m.idx < len(m.files) {
			cmds = append(cmds, m.deleteNextCmd())
		} else {
			m.phase = phaseDone
			cmds = append(cmds, tea.Quit)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit
	}

	if m.phase != phaseConfirm {
		return m, nil
	}

	switch msg.String() {
	case "left", "h", "right", "l", "tab":
		m.cursor = 1 - m.cursor
	case "y":
		return m.startCleaning()
	case "n":
		m.quitting = true
		return m, tea.Quit
	case "enter":
		if m.cursor == 0 {
			return m.startCleaning()
		}
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *appModel) startCleaning() (tea.Model, tea.Cmd) {
	m.confirmed = true
	m.phase = phaseCleaning
	m.idx = 0
	return m, m.deleteNextCmd()
}

func (m *appModel) merge(res *cleaner.Result) {
	m.result.Deleted = append(m.result.Deleted, res.Deleted...)
	m.result.DeletedSize += res.DeletedSize
	m.result.Skipped = append(m.result.Skipped, res.Skipped...)
	for path, reason := range res.SkippedReason {
		m.result.SkippedReason[path] = reason
	}
	m.result.Errors = append(m.result.Errors, res.Errors...)
}

// View renders the current phase.
func (m *appModel) View() string {
	if m.err != nil {
		return styles.ErrorStyle.Render(fmt.Sprintf("Scan failed: %v", m.err)) + "\n"
	}
	if m.quitting && !m.confirmed {
		return "Cancelled, nothing was deleted.\n"
	}

	switch m.phase {
	case phaseScanning:
		return fmt.Sprintf("\n %s Scanning repository %s...\n\n %s\n",
			m.spinner.View(),
			styles.PackageStyle.Render(m.opts.Root),
			styles.HelpStyle.Render("q:quit"))
	case phaseConfirm:
		return m.confirmView()
	case phaseCleaning:
		return m.cleaningView()
	case phaseDone:
		return m.doneView()
	}
	return ""
}

func (m *appModel) confirmView() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("⚠️  Confirm Deletion"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Keeping the newest %d version(s) of each package leaves %d redundant archive(s) (%s).\n\n",
		m.plan.Keep,
		len(m.plan.Discard),
		styles.FileSizeStyle.Render(utils.FormatBytes(m.plan.DiscardSize))))

	shown := 0
	for _, g := range m.plan.Groups {
		if len(g.Discard) == 0 {
			continue
		}
		if shown == 10 {
			b.WriteString(styles.HelpStyle.Render("  ...\n"))
			break
		}
		b.WriteString(fmt.Sprintf("  %s %s\n",
			styles.PackageStyle.Render(g.Name),
			styles.VersionStyle.Render(fmt.Sprintf("keep %d, discard %d", len(g.Kept), len(g.Discard)))))
		shown++
	}

	b.WriteString("\n")
	b.WriteString(styles.WarningStyle.Render("⚠️  This action cannot be undone!"))
	b.WriteString("\n\n")

	yesBtn := "[ Yes, delete ]"
	noBtn := "[ No ]"
	if m.cursor == 0 {
		yesBtn = styles.HighlightStyle.Render(yesBtn)
	} else {
		noBtn = styles.HighlightStyle.Render(noBtn)
	}
	b.WriteString(fmt.Sprintf("%s  %s\n\n", yesBtn, noBtn))
	b.WriteString(styles.HelpStyle.Render("y:confirm  n:cancel  ←/→:navigate  enter:select"))
	b.WriteString("\n")

	return b.String()
}

func (m *appModel) cleaningView() string {
	current := ""
	if m.idx < len(m.files) {
		current = m.files[m.idx].Path
	}
	return fmt.Sprintf("\nRemoving redundant archives...\n\n%s\n\n%s\n",
		m.bar.View(),
		styles.HelpStyle.Render(current))
}

func (m *appModel) doneView() string {
	if m.plan != nil && m.plan.Empty() {
		return styles.SuccessStyle.Render("Repository is clean, nothing to remove.") + "\n"
	}
	var b strings.Builder
	b.WriteString(styles.SuccessStyle.Render(fmt.Sprintf("Deleted %d archive(s), reclaimed %s.",
		len(m.result.Deleted), utils.FormatBytes(m.result.DeletedSize))))
	b.WriteString("\n")
	if len(m.result.Errors) > 0 {
		b.WriteString(styles.ErrorStyle.Render(fmt.Sprintf("%d file(s) could not be removed.", len(m.result.Errors))))
		b.WriteString("\n")
	}
	return b.String()
}
