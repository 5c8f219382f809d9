// Package tui is the terminal dashboard. The bubbletea Update loop is the
// single event loop: pushed events, list fetches and action outcomes all
// arrive as messages and are folded into the reconciler there.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/rdash/internal/action"
	"github.com/pders01/rdash/internal/config"
	"github.com/pders01/rdash/internal/debuglog"
	"github.com/pders01/rdash/internal/download"
	"github.com/pders01/rdash/internal/media"
	"github.com/pders01/rdash/internal/reconcile"
	"github.com/pders01/rdash/internal/search"
)

// Client is the backend surface the dashboard needs.
type Client interface {
	action.Backend
	Downloads(ctx context.Context) ([]download.Download, error)
	Media(ctx context.Context) ([]download.MediaItem, error)
	Files(ctx context.Context, id download.ID) ([]download.File, error)
}

type App struct {
	ctx        context.Context
	config     *config.Config
	client     Client
	submitter  *action.Submitter
	reconciler *reconcile.Reconciler
	index      search.Index
	launcher   *media.Launcher
	events     <-chan reconcile.Event
	keyHandler *KeyHandler

	downloadsRefresh reconcile.Refresher
	mediaRefresh     reconcile.Refresher

	downloadList list.Model
	mediaList    list.Model
	searchList   list.Model
	searchInput  textinput.Model
	magnetInput  textinput.Model
	torrentInput textinput.Model
	viewport     viewport.Model
	spinner      spinner.Model
	progress     progress.Model
	help         help.Model

	view         View
	tab          View
	previousView View

	downloadSubs  bool
	fileCursor    int
	pendingDelete *deleteTarget
	detailID      download.ID
	rendering     bool

	alert       string
	alertReturn View

	pendingSearchQuery string
	searchSeq          int

	status     string
	statusKind StatusKind

	width           int
	height          int
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
}

// NewApp wires the dashboard. events may be nil when no stream is running.
func NewApp(cfg *config.Config, client Client, events <-chan reconcile.Event) *App {
	ApplyTheme(cfg.UI.Colors)

	downloadList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	downloadList.Title = "› downloads"
	downloadList.SetShowStatusBar(false)
	downloadList.SetFilteringEnabled(true)
	downloadList.SetShowHelp(false)

	mediaList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	mediaList.Title = "› media · " + MsgTitles(0)
	mediaList.SetShowStatusBar(false)
	mediaList.SetFilteringEnabled(true)
	mediaList.SetShowHelp(false)

	searchList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	searchList.Title = "› search results"
	searchList.SetShowStatusBar(false)
	searchList.SetShowHelp(false)
	searchList.SetFilteringEnabled(false)

	mi := textinput.New()
	mi.Placeholder = "magnet:?xt=urn:btih:..."
	mi.CharLimit = 8192

	ti := textinput.New()
	ti.Placeholder = "~/Downloads/file.torrent"

	si := textinput.New()
	si.Placeholder = "Search media and downloads..."

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)

	barWidth := cfg.UI.ProgressBar
	if barWidth <= 0 {
		barWidth = 30
	}
	bar := progress.New(
		progress.WithGradient(string(SecondaryColor), string(AccentColor)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)

	app := &App{
		ctx:          context.Background(),
		config:       cfg,
		client:       client,
		submitter:    action.NewSubmitter(client),
		reconciler:   reconcile.New(),
		index:        search.New(),
		launcher:     media.NewLauncher(cfg),
		events:       events,
		downloadList: downloadList,
		mediaList:    mediaList,
		searchList:   searchList,
		searchInput:  si,
		magnetInput:  mi,
		torrentInput: ti,
		viewport:     viewport.New(0, 0),
		spinner:      sp,
		progress:     bar,
		help:         help.New(),
		view:         ViewDownloads,
		tab:          ViewDownloads,
		previousView: ViewDownloads,
		downloadSubs: cfg.UI.DownloadSubs,
	}

	app.keyHandler = NewKeyHandler(app, cfg)

	return app
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > 120 {
		wordWrapWidth = 120
	}
	if wordWrapWidth < 40 {
		wordWrapWidth = 40
	}
	if a.width < 50 {
		wordWrapWidth = a.width - 4
		if wordWrapWidth < 20 {
			wordWrapWidth = 20
		}
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.refreshDownloads(),
		a.refreshMedia(),
		a.listen(),
		a.startSpinner(),
		tea.EnterAltScreen,
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case spinner.TickMsg:
		if !a.busy() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case downloadsLoadedMsg:
		if msg.err != nil {
			debuglog.Warnf("refresh downloads: %v", msg.err)
			a.setStatus(wrapErr("refresh downloads", msg.err).Error(), StatusError)
		} else {
			if a.status == MsgRefreshing {
				a.clearStatus()
			}
			cmds = append(cmds, a.dispatch(reconcile.DownloadsLoaded{Downloads: msg.downloads})...)
		}
		if a.downloadsRefresh.Done() {
			cmds = append(cmds, a.fetchDownloads())
		}

	case mediaLoadedMsg:
		if msg.err != nil {
			debuglog.Warnf("refresh media: %v", msg.err)
			a.setStatus(wrapErr("refresh media", msg.err).Error(), StatusError)
		} else {
			cmds = append(cmds, a.dispatch(reconcile.MediaLoaded{Items: msg.items})...)
		}
		if a.mediaRefresh.Done() {
			cmds = append(cmds, a.fetchMedia())
		}

	case filesLoadedMsg:
		sel := a.reconciler.Selection()
		if sel == nil || sel.DownloadID() != msg.id {
			debuglog.Debugf("discarding files for closed selection %s", msg.id)
			break
		}
		if msg.err != nil {
			sel.Fail(msg.err)
		} else {
			sel.Load(msg.files)
			a.fileCursor = 0
		}

	case streamEventMsg:
		cmds = append(cmds, a.dispatch(msg.event)...)
		cmds = append(cmds, a.listen())

	case streamClosedMsg:
		debuglog.Infof("event stream closed")

	case actionDoneMsg:
		cmds = append(cmds, a.handleOutcome(msg.req, msg.outcome)...)

	case detailRenderedMsg:
		if a.view == ViewDetail && a.detailID == msg.id {
			offset := a.viewport.YOffset
			a.viewport.SetContent(msg.content)
			a.viewport.SetYOffset(offset)
		}
		a.rendering = false

	case searchDebounceFireMsg:
		if msg.seq == a.searchSeq && a.view == ViewSearch {
			q := a.pendingSearchQuery
			if len(q) < 2 {
				a.searchList.SetItems([]list.Item{})
				break
			}
			cmds = append(cmds, a.performSearch(q))
		}

	case searchResultsMsg:
		if a.view == ViewSearch && msg.query == a.pendingSearchQuery {
			items := make([]list.Item, len(msg.results))
			for i, r := range msg.results {
				items[i] = searchResultItem{result: r}
			}
			a.searchList.SetItems(items)
			if len(items) == 0 {
				a.setStatus(MsgNoResults, StatusInfo)
			} else {
				a.setStatus(MsgResultsCount(len(items)), StatusInfo)
			}
		}

	case mediaOpenedMsg:
		if msg.err != nil {
			a.showAlert(wrapErr("Could not open "+msg.name, msg.err).Error())
		} else {
			a.setStatus(MsgOpening(msg.name), StatusSuccess)
		}

	case errorMsg:
		a.setStatus(msg.err.Error(), StatusError)
	}

	return a, tea.Batch(cmds...)
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height
	// tabs + status bar + separator
	listHeight := height - 4
	if listHeight < 3 {
		listHeight = 3
	}
	a.downloadList.SetSize(width, listHeight)
	a.mediaList.SetSize(width, listHeight)

	searchListHeight := height - 10
	if searchListHeight < 5 {
		searchListHeight = 5
	}
	a.searchList.SetSize(width, searchListHeight)
	a.viewport.Width = width
	a.viewport.Height = height - 3

	inputWidth := width - 8
	if inputWidth < 20 {
		inputWidth = width
	}
	a.magnetInput.Width = inputWidth
	a.torrentInput.Width = inputWidth
	a.help.Width = width
}

// dispatch hands ev to the reconciler and carries out its effects.
func (a *App) dispatch(ev reconcile.Event) []tea.Cmd {
	if ev == nil {
		return nil
	}
	eff := a.reconciler.Dispatch(ev)
	if !eff.Empty() {
		debuglog.Debugf("effects: %s", eff)
	}
	return a.applyEffects(eff)
}

func (a *App) applyEffects(eff reconcile.Effects) []tea.Cmd {
	var cmds []tea.Cmd

	if len(eff.RenderRows) > 0 {
		cmds = append(cmds, a.renderRows(eff.RenderRows)...)
	}
	if eff.RenderDownloads {
		cmds = append(cmds, a.rebuildDownloads())
	}
	if eff.RenderMedia {
		cmds = append(cmds, a.rebuildMedia())
	}
	if eff.RefreshDownloads {
		cmds = append(cmds, a.refreshDownloads())
	}
	if eff.RefreshMedia {
		cmds = append(cmds, a.refreshMedia())
	}
	if eff.SelectionClosed {
		if a.view == ViewFileSelect {
			a.view = ViewDownloads
			a.setStatus(MsgSelectionGone, StatusWarn)
		}
		if a.view == ViewAlert && a.alertReturn == ViewFileSelect {
			a.alertReturn = ViewDownloads
		}
	}

	return cmds
}

// renderRows re-renders the given rows in place, leaving the rest of the
// list and the cursor alone.
func (a *App) renderRows(ids []download.ID) []tea.Cmd {
	var cmds []tea.Cmd
	state := a.reconciler.State()
	items := a.downloadList.Items()

	for _, id := range ids {
		d, ok := state.Download(id)
		if !ok {
			continue
		}
		for idx, it := range items {
			if row, ok := it.(downloadItem); ok && row.download.ID == id {
				cmds = append(cmds, a.downloadList.SetItem(idx, newDownloadItem(d, &a.progress)))
				break
			}
		}
		if a.view == ViewDetail && a.detailID == id {
			cmds = append(cmds, a.renderDetail(d))
		}
	}
	return cmds
}

func (a *App) rebuildDownloads() tea.Cmd {
	downloads := a.reconciler.State().Downloads()
	items := make([]list.Item, len(downloads))
	for i, d := range downloads {
		items[i] = newDownloadItem(d, &a.progress)
	}
	if err := a.index.IndexDownloads(downloads); err != nil {
		debuglog.Warnf("index downloads: %v", err)
	}
	return a.downloadList.SetItems(items)
}

func (a *App) rebuildMedia() tea.Cmd {
	collection := a.reconciler.State().Media()
	items := make([]list.Item, len(collection))
	for i, m := range collection {
		items[i] = mediaItem{item: m, local: a.launcher.Available(m)}
	}
	if err := a.index.IndexMedia(collection); err != nil {
		debuglog.Warnf("index media: %v", err)
	}
	cmd := a.mediaList.SetItems(items)
	a.mediaList.Title = "› media · " + MsgTitles(len(a.mediaList.Items()))
	return cmd
}

// handleOutcome closes the modal and applies the follow-up event on
// success, or raises an alert over the form on failure. Only the session req
// was submitted from is closed; one the user opened since stays put.
func (a *App) handleOutcome(req action.Request, o action.Outcome) []tea.Cmd {
	a.submitter.Complete(o)

	if !o.OK() {
		a.clearStatus()
		a.showAlert(o.Message())
		return nil
	}

	switch r := req.(type) {
	case action.AddMagnet:
		if a.magnetInput.Value() == r.Magnet {
			a.magnetInput.Reset()
			a.closeModal(ViewAddMagnet)
		}
		a.setStatus(MsgDownloadAdded, StatusSuccess)
	case action.AddTorrentFile:
		if a.torrentInput.Value() == r.Path {
			a.torrentInput.Reset()
			a.closeModal(ViewAddTorrent)
		}
		a.setStatus(MsgDownloadAdded, StatusSuccess)
	case action.SelectFiles:
		if sel := a.reconciler.Selection(); sel != nil && sel.DownloadID() == r.DownloadID {
			a.reconciler.CloseSelection()
			a.closeModal(ViewFileSelect)
		}
		a.setStatus(MsgFilesSelected, StatusSuccess)
	case action.DeleteDownload, action.DeleteMedia:
		if a.pendingDelete != nil && a.pendingDelete.matches(req) {
			a.pendingDelete = nil
			a.closeModal(ViewDeleteConfirm)
		}
		if o.Kind == action.KindDeleteMedia {
			a.setStatus(MsgFileDeleted, StatusSuccess)
		} else {
			a.setStatus(MsgDownloadDeleted, StatusSuccess)
		}
	}

	return a.dispatch(o.Event)
}

func (a *App) closeModal(v View) {
	if a.view == v {
		a.view = a.tab
	}
}

// submit prepares req and returns the command that sends it. Validation
// failures raise an alert; a repeat while busy is ignored.
func (a *App) submit(req action.Request) tea.Cmd {
	run, err := a.submitter.Prepare(req)
	if errors.Is(err, action.ErrBusy) {
		return nil
	}
	if err != nil {
		a.showAlert(action.Outcome{Kind: req.Kind(), Err: err}.Message())
		return nil
	}

	a.setStatus(busyText(req.Kind()), StatusInfo)
	ctx := a.ctx
	return tea.Batch(a.startSpinner(), func() tea.Msg {
		return actionDoneMsg{req: req, outcome: run(ctx)}
	})
}

func busyText(k action.Kind) string {
	switch k {
	case action.KindAddMagnet:
		return MsgAddingMagnet
	case action.KindAddTorrent:
		return MsgUploading
	case action.KindSelectFiles:
		return MsgSelecting
	default:
		return MsgDeleting
	}
}

func (a *App) busy() bool {
	for _, k := range []action.Kind{
		action.KindAddMagnet, action.KindAddTorrent, action.KindSelectFiles,
		action.KindDeleteDownload, action.KindDeleteMedia,
	} {
		if a.submitter.Busy(k) {
			return true
		}
	}
	if sel := a.reconciler.Selection(); sel != nil && !sel.Loaded() && sel.Err() == nil {
		return true
	}
	return a.rendering || a.downloadsRefresh.InFlight() || a.mediaRefresh.InFlight()
}

func (a *App) startSpinner() tea.Cmd {
	return a.spinner.Tick
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
}

func (a *App) clearStatus() {
	a.status = ""
	a.statusKind = StatusInfo
}

func (a *App) showAlert(text string) {
	if a.view != ViewAlert {
		a.alertReturn = a.view
	}
	a.alert = text
	a.view = ViewAlert
}

func (a *App) dismissAlert() {
	a.alert = ""
	a.view = a.alertReturn
}

func (a *App) switchTab(v View) {
	a.tab = v
	a.view = v
}

func (a *App) openForm(v View) {
	a.previousView = a.view
	a.view = v
	switch v {
	case ViewAddMagnet:
		a.magnetInput.Reset()
		a.magnetInput.Focus()
	case ViewAddTorrent:
		a.torrentInput.Reset()
		a.torrentInput.Focus()
	}
	a.downloadSubs = a.config.UI.DownloadSubs
}

func (a *App) confirmDelete(t deleteTarget) {
	a.pendingDelete = &t
	a.view = ViewDeleteConfirm
}

func (a *App) openFileSelect(d download.Download) tea.Cmd {
	if d.Status != download.StatusAwaitingSelection {
		a.setStatus(MsgNotAwaiting, StatusWarn)
		return nil
	}
	a.reconciler.OpenSelection(d.ID)
	a.fileCursor = 0
	a.view = ViewFileSelect
	return tea.Batch(a.startSpinner(), a.fetchFiles(d.ID))
}

func (a *App) openDetail(d download.Download) tea.Cmd {
	a.previousView = a.view
	a.view = ViewDetail
	a.detailID = d.ID
	a.viewport.SetContent("")
	a.viewport.GotoTop()
	a.rendering = true
	return tea.Batch(a.startSpinner(), a.renderDetail(d))
}

func (a *App) resetSearch() {
	a.searchInput.Reset()
	a.pendingSearchQuery = ""
	a.searchSeq++
	a.searchList.SetItems([]list.Item{})
}

func (a *App) selectDownload(id download.ID) {
	for i, it := range a.downloadList.Items() {
		if row, ok := it.(downloadItem); ok && row.download.ID == id {
			a.downloadList.Select(i)
			return
		}
	}
}

func (a *App) selectMedia(path string) {
	for i, it := range a.mediaList.Items() {
		if row, ok := it.(mediaItem); ok && row.item.Path == path {
			a.mediaList.Select(i)
			return
		}
	}
}

func (a *App) View() string {
	var content string
	bodyHeight := a.height - 3

	switch a.view {
	case ViewDownloads:
		tabs := renderTabs(ViewDownloads, a.reconciler.State().DownloadCount(), len(a.mediaList.Items()))
		if len(a.downloadList.Items()) == 0 {
			content = lipgloss.JoinVertical(lipgloss.Top, tabs,
				renderCentered(a.width, bodyHeight-1, GetWelcomeMessage(a.keyHandler.keys.AddMagnet.Help().Key)))
		} else {
			content = lipgloss.JoinVertical(lipgloss.Top, tabs, a.downloadList.View())
		}

	case ViewMedia:
		tabs := renderTabs(ViewMedia, a.reconciler.State().DownloadCount(), len(a.mediaList.Items()))
		if len(a.mediaList.Items()) == 0 {
			content = lipgloss.JoinVertical(lipgloss.Top, tabs,
				renderCentered(a.width, bodyHeight-1, renderMuted("The media collection is empty")))
		} else {
			content = lipgloss.JoinVertical(lipgloss.Top, tabs, a.mediaList.View())
		}

	case ViewAddMagnet:
		content = renderCentered(a.width, bodyHeight, a.formView("› add magnet", a.magnetInput, action.KindAddMagnet))

	case ViewAddTorrent:
		content = renderCentered(a.width, bodyHeight, a.formView("› add torrent file", a.torrentInput, action.KindAddTorrent))

	case ViewFileSelect:
		content = renderCentered(a.width, bodyHeight, a.fileSelectView())

	case ViewDeleteConfirm:
		content = renderCentered(a.width, bodyHeight, a.deleteConfirmView())

	case ViewAlert:
		content = renderCentered(a.width, bodyHeight, a.alertView())

	case ViewDetail:
		if a.rendering && a.viewport.TotalLineCount() <= 1 {
			content = renderCentered(a.width, bodyHeight, a.spinner.View()+" "+renderMuted(MsgRendering))
		} else {
			content = a.viewport.View()
		}

	case ViewSearch:
		content = a.searchView(bodyHeight)
	}

	customStatus := a.getCustomStatusBar()
	if customStatus != "" {
		separatorWidth := a.width - 2
		if separatorWidth < 0 {
			separatorWidth = 0
		}
		separator := SeparatorStyle.Render("─" + strings.Repeat("─", separatorWidth))

		return lipgloss.JoinVertical(lipgloss.Top, content, separator, customStatus)
	}

	return content
}

func (a *App) modalWidth() int {
	w := (a.width * 4) / 5
	if w < 20 {
		w = a.width - 4
		if w < 15 {
			w = a.width
		}
	}
	return w
}

func (a *App) formView(title string, input textinput.Model, kind action.Kind) string {
	subs := "[ ] download subtitles"
	if a.downloadSubs {
		subs = "[x] download subtitles"
	}

	footer := renderHelp("Press Enter to add, Tab to toggle subtitles, Esc to cancel")
	if a.submitter.Busy(kind) {
		footer = a.spinner.View() + " " + renderMuted(busyText(kind))
	}

	return lipgloss.JoinVertical(
		lipgloss.Center,
		TitleStyle.Render(title),
		"",
		renderInputFrame(input.View(), input.Focused(), input.Width),
		"",
		ModalTextStyle.Render(subs),
		"",
		footer,
	)
}

func (a *App) fileSelectView() string {
	width := a.modalWidth()
	sel := a.reconciler.Selection()
	if sel == nil {
		return renderMuted("No file selection open")
	}

	name := "Download #" + string(sel.DownloadID())
	if d, ok := a.reconciler.State().Download(sel.DownloadID()); ok {
		name = d.DisplayName()
	}
	header := renderHeader("› select files", name, width)

	if err := sel.Err(); err != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			ErrorMessageStyle.Render(wrapErr("Error loading files", err).Error()),
			"",
			renderHelp("Esc: close"),
		)
	}
	if !sel.Loaded() {
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			a.spinner.View()+" "+renderMuted(MsgLoadingFiles),
		)
	}

	rows := []string{renderCheckbox(sel.AllState().String(), "Select all", a.fileCursor == 0)}
	for i, f := range sel.Files() {
		state := reconcile.Unchecked
		if sel.IsChecked(f.ID) {
			state = reconcile.Checked
		}
		label := truncateMiddle(f.Label(), width-12)
		if f.Bytes > 0 {
			label += " " + renderMuted("("+humanBytes(f.Bytes)+")")
		}
		rows = append(rows, renderCheckbox(state.String(), label, a.fileCursor == i+1))
	}

	footer := renderHelp("Space: toggle • a: all • Enter: download • Esc: cancel")
	if a.submitter.Busy(action.KindSelectFiles) {
		footer = a.spinner.View() + " " + renderMuted(MsgSelecting)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		"",
		ModalHighlightStyle.Render(sel.Summary()),
		"",
		footer,
	)
}

func (a *App) deleteConfirmView() string {
	if a.pendingDelete == nil {
		return renderMuted("Nothing to delete")
	}
	width := a.modalWidth()
	label := truncateEnd(a.pendingDelete.label, width-4)

	question := "Delete this download?"
	note := "The download and its files are removed from the server."
	if a.pendingDelete.from == ViewMedia {
		question = "Delete this file?"
		note = "The file is removed from the collection."
	}

	footer := renderHelp("Enter: confirm • Esc: cancel")
	if a.submitter.Busy(a.pendingDelete.request().Kind()) {
		footer = a.spinner.View() + " " + renderMuted(MsgDeleting)
	}

	centered := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	return lipgloss.JoinVertical(
		lipgloss.Center,
		ErrorMessageStyle.Render(a.pendingDelete.heading()),
		"",
		centered.Inherit(ModalTextStyle).Render(question),
		"",
		centered.Inherit(ModalHighlightStyle).Render(label),
		"",
		centered.Foreground(MutedColor).Render(note),
		"",
		"",
		footer,
	)
}

func (a *App) alertView() string {
	width := a.modalWidth()
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ErrorColor).
		Padding(1, 3).
		Width(width)
	return box.Render(lipgloss.JoinVertical(
		lipgloss.Center,
		ErrorMessageStyle.Render("✗ Error"),
		"",
		ModalTextStyle.Render(a.alert),
		"",
		renderHelp("Enter: dismiss"),
	))
}

func (a *App) searchView(bodyHeight int) string {
	inputWidth := a.width - 8
	if inputWidth < 10 {
		inputWidth = a.width - 4
	}
	a.searchInput.Width = inputWidth

	helpText := ""
	if a.searchInput.Focused() {
		helpText = "Type to search • Tab/↓: results • Esc: back"
	} else if len(a.searchList.Items()) > 0 {
		helpText = "↑↓: navigate • Enter: jump to • Tab/↑: search box • Esc: back"
	} else {
		helpText = "No results found • Tab/↑: search box • Esc: back"
	}

	searchContent := lipgloss.JoinVertical(
		lipgloss.Top,
		renderHeader("› search", "", a.width),
		"",
		renderInputFrame(a.searchInput.View(), a.searchInput.Focused(), inputWidth),
		renderMuted(helpText),
		"",
		a.searchList.View(),
	)

	return ContentWrapper(a.width, bodyHeight).Render(searchContent)
}

func (a *App) getCustomStatusBar() string {
	bindings := a.keyHandler.GetHelpForCurrentView()

	left := ""
	if a.status != "" {
		prefix := ""
		if a.statusKind == StatusError {
			prefix = "✗ "
		}
		if a.busy() && a.statusKind == StatusInfo {
			prefix = a.spinner.View() + " "
		}
		left = prefix + a.statusKind.style().Render(a.status)
	}

	right := ""
	if len(bindings) > 0 {
		right = a.help.ShortHelpView(bindings)
	}

	if left == "" && right == "" {
		return ""
	}
	line := right
	if left != "" && right != "" {
		line = left + SeparatorStyle.Render("  │  ") + right
	} else if left != "" {
		line = left
	}

	return StatusBarStyle.Width(a.width).Render(line)
}
