package reconcile

import (
	"fmt"

	"github.com/pders01/rdash/internal/download"
)

// CheckState is the tri-state of the select-all control.
type CheckState int

const (
	Unchecked CheckState = iota
	Indeterminate
	Checked
)

func (c CheckState) String() string {
	switch c {
	case Checked:
		return "[x]"
	case Indeterminate:
		return "[-]"
	default:
		return "[ ]"
	}
}

// Selection is the set of files checked in one file-selection session. It
// lives only as long as the modal that opened it.
type Selection struct {
	downloadID download.ID
	files      []download.File
	checked    map[string]bool
	loaded     bool
	err        error
}

func NewSelection(id download.ID) *Selection {
	return &Selection{downloadID: id, checked: map[string]bool{}}
}

func (s *Selection) DownloadID() download.ID {
	return s.downloadID
}

// Load installs the file list. Files the server marks selected start
// checked.
func (s *Selection) Load(files []download.File) {
	s.files = append([]download.File(nil), files...)
	s.checked = make(map[string]bool, len(files))
	for _, f := range files {
		if f.Selected {
			s.checked[f.ID] = true
		}
	}
	s.loaded = true
	s.err = nil
}

// Fail records that the file list could not be fetched.
func (s *Selection) Fail(err error) {
	s.err = err
	s.loaded = true
}

func (s *Selection) Loaded() bool { return s.loaded }
func (s *Selection) Err() error   { return s.err }

func (s *Selection) Files() []download.File {
	return append([]download.File(nil), s.files...)
}

func (s *Selection) has(id string) bool {
	for _, f := range s.files {
		if f.ID == id {
			return true
		}
	}
	return false
}

// Toggle flips one file. Unknown ids are ignored.
func (s *Selection) Toggle(fileID string) {
	if !s.has(fileID) {
		return
	}
	if s.checked[fileID] {
		delete(s.checked, fileID)
	} else {
		s.checked[fileID] = true
	}
}

func (s *Selection) IsChecked(fileID string) bool {
	return s.checked[fileID]
}

func (s *Selection) SetAll(on bool) {
	s.checked = make(map[string]bool, len(s.files))
	if !on {
		return
	}
	for _, f := range s.files {
		s.checked[f.ID] = true
	}
}

// ToggleAll is the select-all control: clears when everything is checked,
// otherwise checks everything.
func (s *Selection) ToggleAll() {
	s.SetAll(s.AllState() != Checked)
}

// Checked returns the checked file ids in file order.
func (s *Selection) Checked() []string {
	var ids []string
	for _, f := range s.files {
		if s.checked[f.ID] {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

func (s *Selection) Counts() (checked, total int) {
	return len(s.Checked()), len(s.files)
}

func (s *Selection) AllState() CheckState {
	checked, total := s.Counts()
	switch {
	case checked == 0:
		return Unchecked
	case checked == total:
		return Checked
	default:
		return Indeterminate
	}
}

func (s *Selection) Summary() string {
	checked, total := s.Counts()
	return fmt.Sprintf("%d of %d files selected", checked, total)
}
