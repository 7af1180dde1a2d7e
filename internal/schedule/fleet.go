package schedule

// FleetEvents filters intervals down to an explicit set of car ids,
// preserving the car tag, kind, and reservation status on each interval so
// a multi-row calendar can group and color them. Reservations on different
// cars never conflict; no cross-car resolution happens here.
func FleetEvents(carIDs []int64, intervals []OccupancyInterval) []OccupancyInterval {
	wanted := make(map[int64]struct{}, len(carIDs))
	for _, id := range carIDs {
		wanted[id] = struct{}{}
	}
	events := make([]OccupancyInterval, 0, len(intervals))
	for _, iv := range intervals {
		if _, ok := wanted[iv.CarID]; ok {
			events = append(events, iv)
		}
	}
	return events
}
