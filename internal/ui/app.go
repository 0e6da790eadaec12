package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/storefront/internal/api"
	"github.com/five82/storefront/internal/controller"
	"github.com/five82/storefront/internal/prefs"
	"github.com/five82/storefront/internal/state"
)

// Pane is the list that has keyboard focus.
type Pane int

const (
	PaneProducts Pane = iota
	PaneBasket
)

func (p Pane) prefName() string {
	if p == PaneBasket {
		return prefs.PaneBasket
	}
	return prefs.PaneProducts
}

// Options configures the UI.
type Options struct {
	Context    context.Context
	Controller *controller.Controller
	Logger     *zap.Logger
	APIURL     string
	LogPath    string
	ThemeName  string
	Pane       string
	PrefsPath  string
	Tick       time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	ctrl      *controller.Controller
	log       *zap.Logger
	keys      keyMap
	apiURL    string
	logPath   string
	prefsPath string
	tick      time.Duration

	sub   <-chan state.Snapshot
	unsub func()

	// UI state
	theme  Theme
	width  int
	height int
	ready  bool
	now    time.Time

	// Data state
	snapshot state.Snapshot

	// Selection
	pane       Pane
	productRow int
	basketRow  int

	// Add and edit inputs
	form formState

	// Submits issued from this model that have not reported back yet.
	// The snapshot only shows them in flight once the command has started.
	submitting opSet

	// Overlays
	showHelp     bool
	showActivity bool
	activity     viewport.Model
	activityErr  error

	flash   string
	flashAt time.Time
}

// New creates the root model and subscribes to controller snapshots.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	pane := PaneProducts
	if opts.Pane == prefs.PaneBasket {
		pane = PaneBasket
	}

	sub, unsub := opts.Controller.Subscribe()
	return Model{
		ctx:       ctx,
		ctrl:      opts.Controller,
		log:       log.Named("ui"),
		keys:      DefaultKeyMap(),
		apiURL:    opts.APIURL,
		logPath:   opts.LogPath,
		prefsPath: prefsPath,
		tick:      tick,
		sub:       sub,
		unsub:     unsub,
		theme:     GetTheme(opts.ThemeName),
		now:       time.Now(),
		snapshot:  opts.Controller.Snapshot(),
		pane:      pane,
		activity:  viewport.New(0, 0),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForSnapshot(m.sub),
		m.run("load", m.ctrl.Load),
		tickCmd(m.tick),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeActivity()
		return m, nil

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, waitForSnapshot(m.sub)

	case subscriptionClosedMsg:
		return m, nil

	case intentDoneMsg:
		if msg.guarded {
			m.submitting.remove(msg.op)
		}
		if errors.Is(msg.err, controller.ErrOutOfStock) {
			m.setFlash("Out of stock")
		}
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		if m.flash != "" && m.now.Sub(m.flashAt) > FlashDuration {
			m.flash = ""
		}
		cmds := []tea.Cmd{tickCmd(m.tick)}
		if m.showActivity {
			cmds = append(cmds, readActivityCmd(m.logPath))
		}
		return m, tea.Batch(cmds...)

	case activityMsg:
		m.setActivity(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if kind, ok := m.snapshot.Dialogs.Active(); ok {
		return m.renderDialog(kind)
	}
	if m.showActivity {
		return m.renderActivityView()
	}
	return m.renderMain()
}

// handleKey routes keyboard input to the overlay, dialog or pane in front.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// any key closes help
		m.showHelp = false
		return m, nil
	}

	if kind, ok := m.snapshot.Dialogs.Active(); ok {
		return m.handleDialogKey(kind, msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.run("refresh", m.ctrl.RefreshAll)

	case key.Matches(msg, m.keys.Activity):
		m.showActivity = !m.showActivity
		if m.showActivity {
			return m, readActivityCmd(m.logPath)
		}
		return m, nil
	}

	if m.showActivity {
		return m.handleActivityKey(msg)
	}
	return m.handleMainKey(msg)
}

// handleMainKey processes keys for the product and basket panes.
func (m Model) handleMainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Tab):
		if m.pane == PaneProducts {
			m.pane = PaneBasket
		} else {
			m.pane = PaneProducts
		}
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.Top):
		m.moveSelection(-1 << 30)
	case key.Matches(msg, m.keys.Bottom):
		m.moveSelection(1 << 30)

	case key.Matches(msg, m.keys.Add):
		m.ctrl.OpenAdd()
		m.applySnapshot(m.ctrl.Snapshot())
		return m, m.form.focusCmd()

	case key.Matches(msg, m.keys.Edit):
		if p, ok := m.selectedProduct(); ok {
			m.ctrl.OpenEdit(p)
			m.applySnapshot(m.ctrl.Snapshot())
			return m, m.form.focusCmd()
		}

	case key.Matches(msg, m.keys.View):
		if p, ok := m.selectedProduct(); ok {
			m.ctrl.OpenView(p)
			m.applySnapshot(m.ctrl.Snapshot())
		}

	case key.Matches(msg, m.keys.Delete):
		if p, ok := m.selectedProduct(); ok {
			m.ctrl.OpenDelete(p)
			m.applySnapshot(m.ctrl.Snapshot())
		}

	case key.Matches(msg, m.keys.AddToBasket):
		p, ok := m.selectedProduct()
		if !ok {
			return m, nil
		}
		if !p.InStock() {
			m.setFlash(fmt.Sprintf("%s is out of stock", p.Name))
			return m, nil
		}
		return m, m.run("basket_add", func(ctx context.Context) error {
			return m.ctrl.AddToBasket(ctx, p)
		})

	case key.Matches(msg, m.keys.RemoveOne):
		id, ok := m.selectedBasketProductID()
		if !ok {
			m.setFlash("Not in basket")
			return m, nil
		}
		return m, m.run("basket_remove", func(ctx context.Context) error {
			return m.ctrl.RemoveFromBasket(ctx, id)
		})
	}
	return m, nil
}

func (m Model) handleActivityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Escape):
		m.showActivity = false
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.activity.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.activity.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.activity, cmd = m.activity.Update(msg)
	return m, cmd
}

// applySnapshot installs snap unless a newer one is already shown, then
// keeps selection and form inputs consistent with it.
func (m *Model) applySnapshot(snap state.Snapshot) {
	if snap.Version < m.snapshot.Version {
		return
	}
	m.snapshot = snap
	m.productRow = clamp(m.productRow, len(snap.Products))
	m.basketRow = clamp(m.basketRow, len(snap.VisibleBasket()))
	m.form.sync(snap.Dialogs, m.theme)
}

func (m *Model) moveSelection(delta int) {
	switch m.pane {
	case PaneBasket:
		m.basketRow = clamp(m.basketRow+delta, len(m.snapshot.VisibleBasket()))
	default:
		m.productRow = clamp(m.productRow+delta, len(m.snapshot.Products))
	}
}

// selectedProduct returns the product under the cursor. In the basket pane
// that is the product of the selected line.
func (m Model) selectedProduct() (api.Product, bool) {
	if m.pane == PaneBasket {
		lines := m.snapshot.VisibleBasket()
		if len(lines) == 0 {
			return api.Product{}, false
		}
		return m.snapshot.Product(lines[clamp(m.basketRow, len(lines))].Product.ID)
	}
	products := m.snapshot.Products
	if len(products) == 0 {
		return api.Product{}, false
	}
	return products[clamp(m.productRow, len(products))], true
}

// selectedBasketProductID returns the product id of the basket line for
// the current selection, if there is one.
func (m Model) selectedBasketProductID() (int64, bool) {
	p, ok := m.selectedProduct()
	if !ok {
		return 0, false
	}
	for _, line := range m.snapshot.VisibleBasket() {
		if line.Product.ID == p.ID {
			return p.ID, true
		}
	}
	return 0, false
}

func (m *Model) setFlash(text string) {
	m.flash = text
	m.flashAt = m.now
}

func (m Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, Pane: m.pane.prefName()}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn("save prefs failed", zap.String("path", m.prefsPath), zap.Error(err))
	}
}

// run executes an intent off the update loop. Its effect reaches the model
// through the snapshot subscription.
func (m Model) run(name string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return intentDoneMsg{name: name, err: fn(ctx)}
	}
}

// submit runs a dialog submit unless one for op is already under way.
func (m *Model) submit(op state.Op, fn func(context.Context) error) tea.Cmd {
	if m.submitting.has(op) || m.snapshot.Op(op).InFlight {
		return nil
	}
	m.submitting.add(op)
	ctx := m.ctx
	return func() tea.Msg {
		return intentDoneMsg{name: op.String(), op: op, guarded: true, err: fn(ctx)}
	}
}

type opSet uint32

func (s opSet) has(op state.Op) bool { return s&(1<<uint(op)) != 0 }
func (s *opSet) add(op state.Op) { *s |= 1 << uint(op) }
func (s *opSet) remove(op state.Op) { *s &^= 1 << uint(op) }

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type subscriptionClosedMsg struct{}

type intentDoneMsg struct {
	name    string
	op      state.Op
	guarded bool
	err     error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForSnapshot(ch <-chan state.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return subscriptionClosedMsg{}
		}
		return snapshotMsg(snap)
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	if opts.Controller == nil {
		return fmt.Errorf("ui requires a controller")
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	m := New(opts)
	defer m.unsub()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(opts.Context))
	if _, err := p.Run(); err != nil {
		if opts.Context.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
