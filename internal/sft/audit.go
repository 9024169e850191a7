package sft

import "fmt"

// ProjectionState classifies one identity's projection during an audit.
type ProjectionState string

const (
	// StateValid means the symlink exists and resolves to the expected
	// archive path.
	StateValid ProjectionState = "valid"
	// StateBroken means the symlink exists but its target is gone from
	// disk.
	StateBroken ProjectionState = "broken"
	// StateMissing means no projection exists for a non-deleted identity.
	StateMissing ProjectionState = "missing"
	// StateIncorrect means the link path holds something that is not a
	// symlink, or a symlink aimed at the wrong target.
	StateIncorrect ProjectionState = "incorrect"
)

// AuditIssue describes one projection that is not valid.
type AuditIssue struct {
	Entry  *ProjectionEntry
	State  ProjectionState
	Detail string // actual target, or why classification landed here

	// Fix outcome, populated by Repair only.
	Fixed    bool
	FixError string
}

// AuditReport is the result of one reconciliation pass.
type AuditReport struct {
	Total     int
	ValidCnt  int
	Broken    []*AuditIssue
	Missing   []*AuditIssue
	Incorrect []*AuditIssue

	// Repair tallies; zero after a read-only audit.
	FixedCnt      int
	FailedFixCnt  int
	RepairApplied bool
}

// Issues returns every non-valid entry in one slice.
func (r *AuditReport) Issues() []*AuditIssue {
	out := make([]*AuditIssue, 0, len(r.Broken)+len(r.Missing)+len(r.Incorrect))
	out = append(out, r.Broken...)
	out = append(out, r.Missing...)
	out = append(out, r.Incorrect...)
	return out
}

// HealthPercent is valid / total * 100, or 100 for an empty registry.
func (r *AuditReport) HealthPercent() float64 {
	if r.Total == 0 {
		return 100
	}
	return float64(r.ValidCnt) / float64(r.Total) * 100
}

// Audit compares every non-deleted identity's expected projection against
// the filesystem and classifies each one. It is read-only: neither the
// filesystem nor the database is touched. Each identity costs exactly one
// projection enumeration row plus one filesystem inspection.
func (s *SFTService) Audit() (*AuditReport, error) {
	entries, err := s.EnumerateAll()
	if err != nil {
		return nil, err
	}

	report := &AuditReport{Total: len(entries)}
	for _, entry := range entries {
		state, issue, err := s.classify(entry)
		if err != nil {
			return nil, err
		}
		switch state {
		case StateValid:
			report.ValidCnt++
		case StateBroken:
			report.Broken = append(report.Broken, issue)
		case StateMissing:
			report.Missing = append(report.Missing, issue)
		case StateIncorrect:
			report.Incorrect = append(report.Incorrect, issue)
		}
	}

	s.logger.Info("audit complete", "total", report.Total, "valid", report.ValidCnt,
		"broken", len(report.Broken), "missing", len(report.Missing), "incorrect", len(report.Incorrect))
	return report, nil
}

// Repair audits and then fixes every issue it can. Fixes are independent:
// one entry failing to fix is recorded on its issue and does not stop the
// rest. Every fix is the same idempotent action — remove whatever occupies
// the link path and recreate the symlink at the expected target.
func (s *SFTService) Repair() (*AuditReport, error) {
	report, err := s.Audit()
	if err != nil {
		return nil, err
	}
	report.RepairApplied = true

	for _, issue := range report.Issues() {
		if err := s.writeProjection(issue.Entry); err != nil {
			issue.FixError = err.Error()
			report.FailedFixCnt++
			s.logger.Error("projection fix failed", "identity", issue.Entry.Identity, "error", err)
			continue
		}
		issue.Fixed = true
		report.FixedCnt++
		s.logger.Info("projection fixed", "identity", issue.Entry.Identity, "state", string(issue.State))
	}

	return report, nil
}

// classify inspects one projection location and maps it onto the audit
// state machine.
func (s *SFTService) classify(entry *ProjectionEntry) (ProjectionState, *AuditIssue, error) {
	state, err := s.fsmgr.InspectSymlink(entry.LinkPath)
	if err != nil {
		return "", nil, fmt.Errorf("inspecting %s: %w: %w", entry.LinkPath, ErrIO, err)
	}

	issue := &AuditIssue{Entry: entry}
	switch {
	case !state.Exists:
		issue.State = StateMissing
		issue.Detail = "no projection on disk"
		return StateMissing, issue, nil
	case !state.IsSymlink:
		issue.State = StateIncorrect
		issue.Detail = "path exists but is not a symlink"
		return StateIncorrect, issue, nil
	case !state.TargetExists:
		issue.State = StateBroken
		issue.Detail = fmt.Sprintf("target %s no longer exists", state.Target)
		return StateBroken, issue, nil
	case state.Target != entry.Target:
		issue.State = StateIncorrect
		issue.Detail = fmt.Sprintf("points at %s, expected %s", state.Target, entry.Target)
		return StateIncorrect, issue, nil
	default:
		return StateValid, nil, nil
	}
}
