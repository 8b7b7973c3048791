package stage

import "github.com/hubtav/tavlist/dao/model"

// sources maps a target status to the statuses it may be reached from.
var sources = map[model.StageStatus][]model.StageStatus{
	model.StageInProgress: {model.StagePending},
	model.StageSubmitted:  {model.StageInProgress, model.StageRejected},
	model.StageApproved:   {model.StageSubmitted},
	model.StageRejected:   {model.StageSubmitted},
}

// CanTransition reports whether from -> to is part of the lifecycle.
func CanTransition(from, to model.StageStatus) bool {
	for _, s := range sources[to] {
		if s == from {
			return true
		}
	}
	return false
}

func sourceValues(to model.StageStatus) []string {
	from := sources[to]
	values := make([]string, len(from))
	for i := range from {
		values[i] = string(from[i])
	}
	return values
}
