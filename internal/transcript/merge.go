package transcript

// Merge collapses consecutive identified segments that share a speaker into
// single merged segments. Timing spans the first member's start to the last
// member's end; text is the in-order concatenation of member texts. The
// operation is idempotent: no two adjacent outputs share a speaker.
func Merge(segments []IdentifiedSegment) []MergedSegment {
	if len(segments) == 0 {
		return nil
	}

	singles := make([]MergedSegment, 0, len(segments))
	for _, seg := range segments {
		singles = append(singles, MergedSegment{
			Speaker:        seg.Speaker,
			DisplaySpeaker: seg.DisplaySpeaker,
			StartMS:        seg.StartMS,
			EndMS:          seg.EndMS,
			DurationMS:     seg.EndMS - seg.StartMS,
			Text:           seg.Text,
		})
	}
	return Coalesce(singles)
}

// Coalesce re-merges an already-merged list whose adjacency invariant may
// have been broken by relabeling. The surviving segment keeps the first
// member's display speaker; end time and text extend cumulatively.
func Coalesce(segments []MergedSegment) []MergedSegment {
	if len(segments) == 0 {
		return nil
	}

	merged := make([]MergedSegment, 0, len(segments))
	current := segments[0]
	for _, next := range segments[1:] {
		if next.Speaker == current.Speaker {
			current.EndMS = next.EndMS
			current.Text += next.Text
			current.DurationMS = current.EndMS - current.StartMS
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}
