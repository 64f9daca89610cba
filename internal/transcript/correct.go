package transcript

// DefaultMinSpeakerDurationMS is the threshold below which a merged segment
// is considered too brief to be a reliable attribution.
const DefaultMinSpeakerDurationMS = 3000

// Corrector reclassifies merged segments judged too brief to be reliable,
// using neighboring speakers for context, then re-merges the list.
//
// Relabeling decisions are made against the unmodified input list, so a pass
// never sees its own relabels. With Cascade disabled (the default, matching
// the behavior of the original pipeline) the re-merge can itself produce
// segments below the threshold that are never re-evaluated; with Cascade
// enabled correction repeats until no segment is relabeled.
type Corrector struct {
	MinDurationMS int64
	Cascade       bool

	// OnRelabel, when set, is invoked for every relabel decision.
	OnRelabel func(seg MergedSegment, from, to string)
}

// Correct applies the short-segment policy and returns the re-merged list.
// Unknown-speaker segments are never relabeled. Lists of one segment or
// fewer are returned unchanged.
func (c *Corrector) Correct(segments []MergedSegment) []MergedSegment {
	if len(segments) <= 1 {
		return segments
	}

	out, changed := c.pass(segments)
	if !c.Cascade {
		return out
	}
	// A relabel targets a neighbor's speaker as it was at the start of the
	// pass, so two adjacent short segments can swap labels without merging.
	// Only passes that shrink the list make progress; stop as soon as one
	// does not, or the swap would repeat forever.
	for changed && len(out) > 1 {
		next, nextChanged := c.pass(out)
		if len(next) >= len(out) {
			break
		}
		out, changed = next, nextChanged
	}
	return out
}

// pass performs one relabel sweep followed by a re-merge. It reports whether
// any segment was relabeled.
func (c *Corrector) pass(segments []MergedSegment) ([]MergedSegment, bool) {
	relabeled := make([]MergedSegment, len(segments))
	copy(relabeled, segments)

	changed := false
	for i, seg := range segments {
		if seg.Speaker == SpeakerUnknown || seg.DurationMS >= c.MinDurationMS {
			continue
		}

		var prev, next string
		if i > 0 {
			prev = segments[i-1].Speaker
		}
		if i < len(segments)-1 {
			next = segments[i+1].Speaker
		}

		target := ""
		switch {
		case prev != "" && prev == next:
			target = prev
		case prev != "":
			target = prev
		case next != "":
			target = next
		}
		if target == "" || target == seg.Speaker {
			continue
		}

		if c.OnRelabel != nil {
			c.OnRelabel(seg, seg.Speaker, target)
		}
		relabeled[i].Speaker = target
		changed = true
	}

	if !changed {
		return segments, false
	}
	return Coalesce(relabeled), true
}
