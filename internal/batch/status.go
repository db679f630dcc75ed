package batch

import "fmt"

// Status is the lifecycle state of one file in a batch.
type Status string

// pending → uploading → success | error
const (
	StatusPending   Status = "pending"
	StatusUploading Status = "uploading"
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
)

// FileUploadStatus tracks one file through the batch.
type FileUploadStatus struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

// State is the batch view handed to the renderer after every change.
type State struct {
	Statuses []FileUploadStatus

	// Uploading is true while the loop is running.
	Uploading bool
	// CodeError is set when the event code was rejected and the batch halted.
	CodeError string
	// Canceled is set when the context ended before every file was attempted.
	Canceled bool
}

func newState(files []File) *State {
	s := &State{Statuses: make([]FileUploadStatus, len(files))}
	for i, f := range files {
		s.Statuses[i] = FileUploadStatus{Name: f.Name, Status: StatusPending}
	}
	return s
}

// Count returns how many files are in status st.
func (s *State) Count(st Status) int {
	n := 0
	for _, fs := range s.Statuses {
		if fs.Status == st {
			n++
		}
	}
	return n
}

// HasErrors reports whether any file ended in error.
func (s *State) HasErrors() bool {
	return s.Count(StatusError) > 0
}

// Summary describes the finished batch.
func (s *State) Summary() string {
	if s.HasErrors() {
		return fmt.Sprintf("Upload completed with %d error(s) and %d successful upload(s)",
			s.Count(StatusError), s.Count(StatusSuccess))
	}
	if s.Canceled {
		return fmt.Sprintf("Upload canceled after %d successful upload(s)", s.Count(StatusSuccess))
	}
	return "All uploads complete"
}
