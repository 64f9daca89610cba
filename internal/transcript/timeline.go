package transcript

import "sort"

// AssembleTimeline interleaves merged segments and time marks into one
// sequence ordered ascending by start time. Segments are appended to the
// candidate pool before marks, so the stable sort keeps a segment ahead of
// a mark sharing the same start time.
func AssembleTimeline(segments []MergedSegment, marks []TimeMark) []TimelineItem {
	items := make([]TimelineItem, 0, len(segments)+len(marks))

	for i := range segments {
		seg := segments[i]
		items = append(items, TimelineItem{
			Kind:    ItemSpeech,
			StartMS: seg.StartMS,
			Segment: &seg,
		})
	}
	for i := range marks {
		mark := marks[i]
		items = append(items, TimelineItem{
			Kind:    ItemTimeMark,
			StartMS: mark.StartMS,
			Mark:    &mark,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].StartMS < items[j].StartMS
	})

	if len(items) == 0 {
		return nil
	}
	return items
}
