package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/rdash/internal/action"
	"github.com/pders01/rdash/internal/config"
	"github.com/pders01/rdash/internal/download"
	"github.com/pders01/rdash/internal/search"
)

const searchDebounce = 150 * time.Millisecond

type keyMap struct {
	ForceQuit   key.Binding
	Quit        key.Binding
	Back        key.Binding
	Search      key.Binding
	AddMagnet   key.Binding
	AddTorrent  key.Binding
	Delete      key.Binding
	Refresh     key.Binding
	SelectFiles key.Binding
	OpenMedia   key.Binding
	SwitchTab   key.Binding
	Enter       key.Binding
	Confirm     key.Binding
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	ToggleAll   key.Binding
	Subs        key.Binding
	Scroll      key.Binding
}

func newKeyMap(cfg config.KeyConfig) keyMap {
	mod := cfg.Modifier + "+"
	b := cfg.Bindings
	back := b.Back
	if back == "" {
		back = "esc"
	}
	return keyMap{
		ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c")),
		Quit:        key.NewBinding(key.WithKeys(b.Quit), key.WithHelp(b.Quit, "quit")),
		Back:        key.NewBinding(key.WithKeys(back), key.WithHelp(back, "back")),
		Search:      key.NewBinding(key.WithKeys(mod+b.Search), key.WithHelp(mod+b.Search, "search")),
		AddMagnet:   key.NewBinding(key.WithKeys(mod+b.AddMagnet), key.WithHelp(mod+b.AddMagnet, "magnet")),
		AddTorrent:  key.NewBinding(key.WithKeys(mod+b.AddTorrent), key.WithHelp(mod+b.AddTorrent, "torrent")),
		Delete:      key.NewBinding(key.WithKeys(mod+b.Delete), key.WithHelp(mod+b.Delete, "delete")),
		Refresh:     key.NewBinding(key.WithKeys(mod+b.Refresh), key.WithHelp(mod+b.Refresh, "refresh")),
		SelectFiles: key.NewBinding(key.WithKeys(mod+b.SelectFiles), key.WithHelp(mod+b.SelectFiles, "select files")),
		OpenMedia:   key.NewBinding(key.WithKeys(mod+b.OpenMedia), key.WithHelp(mod+b.OpenMedia, "open")),
		SwitchTab:   key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch list")),
		Enter:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Confirm:     key.NewBinding(key.WithKeys("enter", "y"), key.WithHelp("enter", "confirm")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		ToggleAll:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all")),
		Subs:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "subtitles")),
		Scroll:      key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "scroll")),
	}
}

type KeyHandler struct {
	app         *App
	config      *config.Config
	modifierKey string
	keys        keyMap
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifierKey := cfg.Keys.Modifier + "+"
	return &KeyHandler{app: app, config: cfg, modifierKey: modifierKey, keys: newKeyMap(cfg.Keys)}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, kh.keys.ForceQuit) {
		return kh.app, tea.Quit
	}

	// An alert blocks everything until dismissed.
	if kh.app.view == ViewAlert {
		switch msg.String() {
		case "enter", "esc", " ":
			kh.app.dismissAlert()
		}
		return kh.app, nil
	}

	if kh.isFiltering() {
		return kh.delegateToCharm(msg)
	}

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(msg); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

// isFiltering reports whether a list owns the keyboard for its filter.
func (kh *KeyHandler) isFiltering() bool {
	switch kh.app.view {
	case ViewDownloads:
		return kh.app.downloadList.FilterState() != list.Unfiltered
	case ViewMedia:
		return kh.app.mediaList.FilterState() != list.Unfiltered
	default:
		return false
	}
}

func (kh *KeyHandler) isInTextInputMode() bool {
	switch kh.app.view {
	case ViewAddMagnet:
		return kh.app.magnetInput.Focused()
	case ViewAddTorrent:
		return kh.app.torrentInput.Focused()
	case ViewSearch:
		return kh.app.searchInput.Focused()
	default:
		return false
	}
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return kh.navigateBack()
	case "enter":
		return kh.handleTextInputEnter()
	case "tab", "down":
		if kh.app.view == ViewSearch {
			if len(kh.app.searchList.Items()) > 0 {
				kh.app.searchInput.Blur()
				kh.app.searchList.Select(0)
			}
			return kh.app, nil
		}
		if msg.String() == "tab" {
			kh.app.downloadSubs = !kh.app.downloadSubs
			return kh.app, nil
		}
		return kh.delegateToTextInput(msg)
	default:
		return kh.delegateToTextInput(msg)
	}
}

func (kh *KeyHandler) handleTextInputEnter() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewAddMagnet:
		return kh.app, kh.app.submit(action.AddMagnet{
			Magnet:       kh.app.magnetInput.Value(),
			DownloadSubs: kh.app.downloadSubs,
		})

	case ViewAddTorrent:
		return kh.app, kh.app.submit(action.AddTorrentFile{
			Path:         kh.app.torrentInput.Value(),
			DownloadSubs: kh.app.downloadSubs,
		})

	case ViewSearch:
		if items := kh.app.searchList.Items(); len(items) > 0 {
			if i, ok := items[0].(searchResultItem); ok {
				return kh.selectSearchResult(i)
			}
		}
		return kh.app, nil

	default:
		return kh.app, nil
	}
}

// delegateToTextInput passes the key to the appropriate text input
func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch kh.app.view {
	case ViewAddMagnet:
		kh.app.magnetInput, cmd = kh.app.magnetInput.Update(msg)
		return kh.app, cmd

	case ViewAddTorrent:
		kh.app.torrentInput, cmd = kh.app.torrentInput.Update(msg)
		return kh.app, cmd

	case ViewSearch:
		prev := kh.app.pendingSearchQuery
		kh.app.searchInput, cmd = kh.app.searchInput.Update(msg)

		newVal := kh.sanitizeSearchInput(kh.app.searchInput.Value())
		if newVal != prev {
			kh.app.pendingSearchQuery = newVal
			kh.app.searchSeq++
			seq := kh.app.searchSeq
			return kh.app, tea.Batch(cmd, tea.Tick(searchDebounce, func(time.Time) tea.Msg {
				return searchDebounceFireMsg{seq: seq}
			}))
		}
		return kh.app, cmd

	default:
		return kh.app, nil
	}
}

func (kh *KeyHandler) handleCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, kh.keys.Quit):
		return kh.app, tea.Quit, true
	case key.Matches(msg, kh.keys.Back):
		model, cmd := kh.navigateBack()
		return model, cmd, true
	}

	switch kh.app.view {
	case ViewDownloads, ViewMedia:
		if model, cmd, handled := kh.handleTabKeys(msg); handled {
			return model, cmd, true
		}
		if kh.app.view == ViewDownloads {
			return kh.handleDownloadsCustomKeys(msg)
		}
		return kh.handleMediaCustomKeys(msg)
	case ViewFileSelect:
		return kh.handleFileSelectKeys(msg)
	case ViewDeleteConfirm:
		return kh.handleDeleteConfirmKeys(msg)
	default:
		return kh.app, nil, false
	}
}

// handleTabKeys covers keys shared by both top-level lists.
func (kh *KeyHandler) handleTabKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, kh.keys.SwitchTab):
		if kh.app.view == ViewDownloads {
			kh.app.switchTab(ViewMedia)
		} else {
			kh.app.switchTab(ViewDownloads)
		}
		return kh.app, nil, true
	case key.Matches(msg, kh.keys.Search):
		model, cmd := kh.enterSearchMode()
		return model, cmd, true
	case key.Matches(msg, kh.keys.AddMagnet):
		kh.app.openForm(ViewAddMagnet)
		return kh.app, nil, true
	case key.Matches(msg, kh.keys.AddTorrent):
		kh.app.openForm(ViewAddTorrent)
		return kh.app, nil, true
	case key.Matches(msg, kh.keys.Refresh):
		kh.app.setStatus(MsgRefreshing, StatusInfo)
		return kh.app, tea.Batch(kh.app.startSpinner(), kh.app.refreshDownloads(), kh.app.refreshMedia()), true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleDownloadsCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	i, ok := kh.app.downloadList.SelectedItem().(downloadItem)
	if !ok {
		return kh.app, nil, false
	}

	switch {
	case key.Matches(msg, kh.keys.Delete):
		kh.app.confirmDelete(deleteTarget{
			id:    i.download.ID,
			label: i.download.DisplayName(),
			from:  ViewDownloads,
		})
		return kh.app, nil, true
	case key.Matches(msg, kh.keys.SelectFiles):
		return kh.app, kh.app.openFileSelect(i.download), true
	case key.Matches(msg, kh.keys.Enter):
		if i.download.Status == download.StatusAwaitingSelection {
			return kh.app, kh.app.openFileSelect(i.download), true
		}
		return kh.app, kh.app.openDetail(i.download), true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleMediaCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	i, ok := kh.app.mediaList.SelectedItem().(mediaItem)
	if !ok {
		return kh.app, nil, false
	}

	switch {
	case key.Matches(msg, kh.keys.Delete):
		kh.app.confirmDelete(deleteTarget{
			path:  i.item.Path,
			label: i.item.Name(),
			from:  ViewMedia,
		})
		return kh.app, nil, true
	case key.Matches(msg, kh.keys.Enter), key.Matches(msg, kh.keys.OpenMedia):
		return kh.app, kh.app.openMedia(i.item), true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleFileSelectKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	sel := kh.app.reconciler.Selection()
	if sel == nil || !sel.Loaded() {
		return kh.app, nil, true
	}

	files := sel.Files()
	switch {
	case key.Matches(msg, kh.keys.Up):
		if kh.app.fileCursor > 0 {
			kh.app.fileCursor--
		}
	case key.Matches(msg, kh.keys.Down):
		if kh.app.fileCursor < len(files) {
			kh.app.fileCursor++
		}
	case key.Matches(msg, kh.keys.Toggle):
		if kh.app.fileCursor == 0 {
			sel.ToggleAll()
		} else {
			sel.Toggle(files[kh.app.fileCursor-1].ID)
		}
	case key.Matches(msg, kh.keys.ToggleAll):
		sel.ToggleAll()
	case key.Matches(msg, kh.keys.Enter):
		return kh.app, kh.app.submit(action.SelectFiles{
			DownloadID: sel.DownloadID(),
			FileIDs:    sel.Checked(),
		}), true
	default:
		return kh.app, nil, false
	}
	return kh.app, nil, true
}

func (kh *KeyHandler) handleDeleteConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if key.Matches(msg, kh.keys.Confirm) && kh.app.pendingDelete != nil {
		return kh.app, kh.app.submit(kh.app.pendingDelete.request()), true
	}
	return kh.app, nil, false
}

// delegateToCharm lets Charm handle all keys we don't intercept
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch kh.app.view {
	case ViewDownloads:
		kh.app.downloadList, cmd = kh.app.downloadList.Update(msg)
		return kh.app, cmd

	case ViewMedia:
		kh.app.mediaList, cmd = kh.app.mediaList.Update(msg)
		return kh.app, cmd

	case ViewSearch:
		if !kh.app.searchInput.Focused() {
			switch msg.String() {
			case "tab", "shift+tab", "/", "i":
				kh.app.searchInput.Focus()
				return kh.app, nil
			case "up":
				if len(kh.app.searchList.Items()) > 0 && kh.app.searchList.Index() == 0 {
					kh.app.searchInput.Focus()
					return kh.app, nil
				}
			}
		}

		kh.app.searchList, cmd = kh.app.searchList.Update(msg)
		if msg.String() == "enter" && !kh.app.searchInput.Focused() {
			if i, ok := kh.app.searchList.SelectedItem().(searchResultItem); ok {
				return kh.selectSearchResult(i)
			}
		}
		return kh.app, cmd

	case ViewDetail:
		kh.app.viewport, cmd = kh.app.viewport.Update(msg)
		return kh.app, cmd

	default:
		return kh.app, nil
	}
}

// selectSearchResult jumps to the list holding the hit and selects its row.
func (kh *KeyHandler) selectSearchResult(result searchResultItem) (tea.Model, tea.Cmd) {
	if result.result == nil {
		return kh.app, nil
	}
	kh.app.resetSearch()

	if result.result.IsMedia() {
		kh.app.switchTab(ViewMedia)
		kh.app.selectMedia(result.result.Media.Path)
		return kh.app, nil
	}
	kh.app.switchTab(ViewDownloads)
	kh.app.selectDownload(result.result.Download.ID)
	return kh.app, nil
}

// navigateBack implements smart back navigation
func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewAddMagnet, ViewAddTorrent:
		kh.app.view = kh.app.tab
		return kh.app, nil

	case ViewFileSelect:
		kh.app.reconciler.CloseSelection()
		kh.app.view = ViewDownloads
		return kh.app, nil

	case ViewDeleteConfirm:
		if kh.app.pendingDelete != nil {
			kh.app.view = kh.app.pendingDelete.from
		} else {
			kh.app.view = kh.app.tab
		}
		kh.app.pendingDelete = nil
		return kh.app, nil

	case ViewSearch:
		kh.app.resetSearch()
		kh.app.view = kh.app.previousView
		return kh.app, nil

	case ViewDetail:
		kh.app.view = kh.app.previousView
		kh.app.detailID = ""
		return kh.app, nil

	case ViewAlert:
		kh.app.dismissAlert()
		return kh.app, nil

	default:
		return kh.app, tea.Quit
	}
}

// enterSearchMode transitions to search view
func (kh *KeyHandler) enterSearchMode() (tea.Model, tea.Cmd) {
	kh.app.previousView = kh.app.view
	kh.app.view = ViewSearch
	kh.app.resetSearch()
	kh.app.searchInput.Focus()

	engineName := strings.TrimPrefix(fmt.Sprintf("%T", kh.app.index), "*search.")
	if ds, ok := kh.app.index.(search.DebugStatser); ok {
		if n, err := ds.DocCount(); err == nil {
			kh.app.setStatus(MsgSearchEngine(engineName, n), StatusInfo)
			return kh.app, nil
		}
	}
	kh.app.setStatus(MsgSearchEngine(engineName, -1), StatusInfo)
	return kh.app, nil
}

// sanitizeSearchInput sanitizes and limits search input length
func (kh *KeyHandler) sanitizeSearchInput(input string) string {
	input = strings.TrimSpace(input)

	if len(input) > 256 {
		input = input[:256]
	}

	input = strings.ReplaceAll(input, "\n", " ")
	input = strings.ReplaceAll(input, "\r", " ")
	input = strings.ReplaceAll(input, "\t", " ")

	for strings.Contains(input, "  ") {
		input = strings.ReplaceAll(input, "  ", " ")
	}

	return strings.TrimSpace(input)
}

// GetHelpForCurrentView returns only our custom bindings (Charm handles the rest)
func (kh *KeyHandler) GetHelpForCurrentView() []key.Binding {
	k := kh.keys
	switch kh.app.view {
	case ViewDownloads:
		help := []key.Binding{k.AddMagnet, k.AddTorrent, k.Refresh, k.Search, k.SwitchTab}
		if len(kh.app.downloadList.Items()) > 0 {
			help = append(help, k.Enter, k.SelectFiles, k.Delete)
		}
		return help

	case ViewMedia:
		help := []key.Binding{k.Refresh, k.Search, k.SwitchTab}
		if len(kh.app.mediaList.Items()) > 0 {
			help = append(help, k.OpenMedia, k.Delete)
		}
		return help

	case ViewAddMagnet, ViewAddTorrent:
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
			k.Subs,
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}

	case ViewFileSelect:
		return []key.Binding{
			k.Up, k.Down, k.Toggle, k.ToggleAll,
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "download")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}

	case ViewDeleteConfirm:
		return []key.Binding{k.Confirm, key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))}

	case ViewAlert:
		return []key.Binding{key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "dismiss"))}

	case ViewDetail:
		return []key.Binding{k.Scroll, k.Back}

	case ViewSearch:
		return []key.Binding{k.Back}

	default:
		return nil
	}
}
