package ports

import "farmtycoon/internal/domain/farm"

type GameMetrics interface {
	RecordTick()
	RecordSkippedTick()
	RecordDispatch(actionType farm.ActionType)
	RecordDayRollover()
	RecordFenceHits(n int)
	RecordFeedings(n int)
	RecordProduced(resource farm.Resource, n int)
}
