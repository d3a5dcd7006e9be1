package room

import "fmt"

// IssueKind classifies an advisory finding about a layout.
type IssueKind string

const (
	IssueDuplicateFileName IssueKind = "duplicate_file_name"
	IssueBlankAnswer       IssueKind = "blank_answer"
	IssueBlankFileName     IssueKind = "blank_file_name"
)

// Issue is a non-blocking finding. Exports proceed regardless.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	ImageID int64     `json:"imageId"`
	Message string    `json:"message"`
}

// Diagnose reports duplicate file names, blank file names and blank answers.
// Nothing is rejected: an image with a blank answer is solved by submitting empty input,
// and images sharing a file name reference the same asset path.
func Diagnose(images []AppliedImage) []Issue {
	var issues []Issue
	firstByName := make(map[string]int64, len(images))
	for _, img := range images {
		if img.FileName == "" {
			issues = append(issues, Issue{
				Kind:    IssueBlankFileName,
				ImageID: img.ID,
				Message: fmt.Sprintf("image %d has no file name", img.ID),
			})
		} else if first, ok := firstByName[img.FileName]; ok {
			issues = append(issues, Issue{
				Kind:    IssueDuplicateFileName,
				ImageID: img.ID,
				Message: fmt.Sprintf("image %d shares file name %q with image %d", img.ID, img.FileName, first),
			})
		} else {
			firstByName[img.FileName] = img.ID
		}
		if NormalizeAnswer(img.Answer) == "" {
			issues = append(issues, Issue{
				Kind:    IssueBlankAnswer,
				ImageID: img.ID,
				Message: fmt.Sprintf("image %d has a blank answer", img.ID),
			})
		}
	}
	return issues
}

// AssetFileNames returns the distinct file names the player must supply, in first-seen order.
func AssetFileNames(images []AppliedImage) []string {
	seen := make(map[string]bool, len(images))
	names := make([]string, 0, len(images))
	for _, img := range images {
		if seen[img.FileName] {
			continue
		}
		seen[img.FileName] = true
		names = append(names, img.FileName)
	}
	return names
}
