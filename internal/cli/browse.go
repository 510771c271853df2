package cli

import (
	"context"
	"fmt"
	"iter"
	"strconv"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hyperkey/pkg/hypergraph"
	"github.com/matzehuels/hyperkey/pkg/pipeline"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	listEdgeStyle   = lipgloss.NewStyle().Foreground(colorWhite)
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		k        int
		strategy string
	)

	cmd := &cobra.Command{
		Use:   "browse <degrees>",
		Short: "Page through realizations interactively",
		Long: `Page through the realizations of a degree sequence one at a time. Each
realization is searched for only when you ask for it, so sequences with a
huge number of realizations can be explored without listing them all.`,
		Example: `  hyperkey browse 2,2,2,2,2,2 -k 3`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			degrees, err := parseDegrees(args[0])
			if err != nil {
				return err
			}
			if strategy == "" {
				strategy = c.Config.Realize.Strategy
			}
			return c.runBrowse(cmd.Context(), degrees, k, strategy)
		},
	}

	cmd.Flags().IntVarP(&k, "k", "k", 0, "edge size")
	cmd.Flags().StringVar(&strategy, "strategy", "", "search strategy: recursive, iterative (default from config)")
	_ = cmd.MarkFlagRequired("k")

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, degrees []int, k int, strategy string) error {
	runner := pipeline.NewRunner(nil, nil, loggerFromContext(ctx))
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	seq, err := runner.Stream(ctx, pipeline.RealizeOptions{
		Degrees:  degrees,
		K:        k,
		Strategy: strategy,
		Limit:    pipeline.MaxLimit,
	})
	if err != nil {
		return err
	}

	m := newBrowseModel(seq, fmt.Sprintf("%v  k=%d", degrees, k))
	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	// End any pull still in flight before releasing the iterator.
	cancel()
	m.src.Stop()
	if err != nil {
		return err
	}
	if fm, ok := final.(browseModel); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

// =============================================================================
// browseModel - Interactive realization pager
// =============================================================================

// realizationMsg carries the result of pulling one realization.
type realizationMsg struct {
	h   *hypergraph.Hypergraph
	err error
	ok  bool
}

// source serializes access to a pull iterator, whose next and stop must
// not run concurrently. Pulls run in bubbletea command goroutines.
type source struct {
	mu   sync.Mutex
	next func() (*hypergraph.Hypergraph, error, bool)
	stop func()
}

func (s *source) Next() (*hypergraph.Hypergraph, error, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next()
}

func (s *source) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stop()
}

// browseModel is the bubbletea model for paging through realizations.
// Realizations are pulled on demand and kept so earlier ones can be
// revisited.
type browseModel struct {
	title string
	src   *source

	seen    []*hypergraph.Hypergraph
	cursor  int
	loading bool // a pull is in flight
	done    bool // the search is exhausted
	err     error
	height  int
}

func newBrowseModel(seq iter.Seq2[*hypergraph.Hypergraph, error], title string) browseModel {
	next, stop := iter.Pull2(seq)
	return browseModel{
		title:   title,
		src:     &source{next: next, stop: stop},
		loading: true,
		height:  15,
	}
}

// pull fetches the next realization. Only one pull runs at a time.
func (m browseModel) pull() tea.Cmd {
	src := m.src
	return func() tea.Msg {
		h, err, ok := src.Next()
		return realizationMsg{h: h, err: err, ok: ok}
	}
}

func (m browseModel) Init() tea.Cmd {
	return m.pull()
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case realizationMsg:
		m.loading = false
		switch {
		case msg.err != nil:
			m.err, m.done = msg.err, true
			return m, tea.Quit
		case !msg.ok:
			m.done = true
		default:
			m.seen = append(m.seen, msg.h)
			m.cursor = len(m.seen) - 1
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", "n", " ":
			if m.cursor < len(m.seen)-1 {
				m.cursor++
				return m, nil
			}
			if !m.done && !m.loading {
				m.loading = true
				return m, m.pull()
			}
		case "left", "h", "p":
			if m.cursor > 0 {
				m.cursor--
			}
		case "home", "g":
			m.cursor = 0
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Realizations of " + m.title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ previous/next  g first  q quit"))
	b.WriteString("\n\n")

	switch {
	case len(m.seen) == 0 && m.loading:
		b.WriteString(listDimStyle.Render("Searching..."))
	case len(m.seen) == 0:
		b.WriteString(StyleWarning.Render("No realizations."))
	default:
		b.WriteString(m.edgeTable(m.seen[m.cursor]))
	}
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render("  " + m.position()))

	return b.String()
}

// edgeTable renders the edges of h, one per row, up to the window height.
func (m browseModel) edgeTable(h *hypergraph.Hypergraph) string {
	rows := [][]string{}
	for e := range h.Edges() {
		if len(rows) == m.height {
			rows = append(rows, []string{"", fmt.Sprintf("… %d more", h.Len()-m.height)})
			break
		}
		rows = append(rows, []string{strconv.Itoa(len(rows)), e.String()})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Edge").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			if col == 0 {
				return listDimStyle
			}
			return listEdgeStyle
		}).
		Render()
}

// position describes where the cursor is, e.g. "[3/7]" or "[3/?]" while
// more realizations may follow.
func (m browseModel) position() string {
	if len(m.seen) == 0 {
		return "[0/0]"
	}
	total := "?"
	if m.done {
		total = strconv.Itoa(len(m.seen))
	}
	s := fmt.Sprintf("[%d/%s]", m.cursor+1, total)
	if m.loading {
		s += " searching..."
	}
	return s
}
