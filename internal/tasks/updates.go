package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	LoadListing Phase = iota
	ExportListing
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case LoadListing:
		return "load_listing"
	case ExportListing:
		return "export_listing"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func loadingUpdate(step, total int, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadListing,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Loading %s (%d/%d)...", id, step, total),
	}
}

func exportCompletedUpdate(step, total int, title string, files int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportListing,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Exported %s (%d files) [%d/%d]", title, files, step, total),
	}
}

func exportFailedUpdate(step, total int, title string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportListing,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Failed to export %s: %v [%d/%d]", title, err, step, total),
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Wrote manifest %s", path),
	}
}
