package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	FetchUsers Phase = iota
	ExportList
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case FetchUsers:
		return "fetch_users"
	case ExportList:
		return "export_list"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func fetchingUsersUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchUsers,
		Step:    1,
		Total:   1,
		Message: "Fetching users with saved rankings...",
	}
}

func exportCompletedUpdate(step, total int, user string, songs int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportList,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("✓ Exported %s (%d songs)", user, songs),
	}
}

func exportFailedUpdate(step, total int, user string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportList,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("✗ Failed to export %s: %v", user, err),
	}
}

func writingManifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing manifest to %s", path),
	}
}
