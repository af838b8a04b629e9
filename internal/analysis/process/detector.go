// Package process infers the overarching legal process from a batch of
// classified document types and derives its required-document checklist.
package process

import (
	"github.com/corpagent/adgm-compliance/internal/core/domain"
	"github.com/corpagent/adgm-compliance/internal/rules"
)

type Detector struct {
	processes []rules.Process
}

func New(processes []rules.Process) *Detector {
	return &Detector{processes: processes}
}

// Detect accumulates one vote per document whose classified type appears in a
// process's vote list; a type may vote for more than one process, and a type
// listed nowhere contributes nothing. The highest-voted process wins, ties
// resolving to the earliest declared process. The required list comes from the
// winning process's table entry; Missing keeps the required order.
func (d *Detector) Detect(documentTypes []string) domain.ProcessDetection {
	if len(d.processes) == 0 {
		return domain.ProcessDetection{UploadedCount: len(documentTypes)}
	}

	votes := make([]int, len(d.processes))
	for _, docType := range documentTypes {
		for i, p := range d.processes {
			if containsType(p.Votes, docType) {
				votes[i]++
			}
		}
	}

	winner := 0
	for i := range votes {
		if votes[i] > votes[winner] {
			winner = i
		}
	}

	required := append([]string(nil), d.processes[winner].Required...)
	return domain.ProcessDetection{
		Process:       d.processes[winner].Name,
		Required:      required,
		Missing:       Missing(required, documentTypes),
		UploadedCount: len(documentTypes),
		RequiredCount: len(required),
	}
}

// Missing returns the required document types that are absent from the
// uploaded set, in the original required order.
func Missing(required, uploaded []string) []string {
	uploadedSet := make(map[string]struct{}, len(uploaded))
	for _, docType := range uploaded {
		uploadedSet[docType] = struct{}{}
	}

	missing := make([]string, 0, len(required))
	for _, docType := range required {
		if _, ok := uploadedSet[docType]; !ok {
			missing = append(missing, docType)
		}
	}
	return missing
}

func containsType(list []string, docType string) bool {
	for _, item := range list {
		if item == docType {
			return true
		}
	}
	return false
}
