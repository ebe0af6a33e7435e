package structs

import (
	"strings"
)

type State string

const (
	// pipeline states, in order
	CREATED                    State = "CREATED"
	GENERATING_QUESTIONS       State = "GENERATING_QUESTIONS"
	GENERATING_VIDEOS          State = "GENERATING_VIDEOS"
	PROCESSING_VIDEOS          State = "PROCESSING_VIDEOS"
	MERGING_VIDEOS             State = "MERGING_VIDEOS"
	UPLOADING_VIDEO            State = "UPLOADING_VIDEO"
	READY_FOR_CANDIDATE        State = "READY_FOR_CANDIDATE"
	WAITING_FOR_CANDIDATE      State = "WAITING_FOR_CANDIDATE"
	CANDIDATE_COMPLETED        State = "CANDIDATE_COMPLETED"
	PROCESSING_CANDIDATE_VIDEO State = "PROCESSING_CANDIDATE_VIDEO"
	GENERATING_SUMMARY         State = "GENERATING_SUMMARY"

	// end states
	COMPLETED State = "COMPLETED"
	FAILED    State = "FAILED"
)

// pipelineOrder holds every non-failed state in the order the pipeline
// walks them. FAILED sits outside the walk; it's reachable from anywhere.
var pipelineOrder = []State{
	CREATED,
	GENERATING_QUESTIONS,
	GENERATING_VIDEOS,
	PROCESSING_VIDEOS,
	MERGING_VIDEOS,
	UPLOADING_VIDEO,
	READY_FOR_CANDIDATE,
	WAITING_FOR_CANDIDATE,
	CANDIDATE_COMPLETED,
	PROCESSING_CANDIDATE_VIDEO,
	GENERATING_SUMMARY,
	COMPLETED,
}

func IsFinalState(state State) bool {
	switch state {
	case COMPLETED, FAILED:
		return true
	default:
		return false
	}
}

func ToState(s string) State {
	up := State(strings.ToUpper(s))
	if up == FAILED {
		return FAILED
	}
	for _, st := range pipelineOrder {
		if st == up {
			return st
		}
	}
	return ""
}

// stateIndex returns a state's position on the happy path, or -1.
func stateIndex(s State) int {
	for i, st := range pipelineOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// CanTransition reports whether `from` -> `to` is a legal move.
// The pipeline only ever steps forward one state at a time, with two
// exceptions: any non-final state may fall into FAILED, and a candidate
// may submit a recording without having hit WAITING_FOR_CANDIDATE first
// (READY_FOR_CANDIDATE -> CANDIDATE_COMPLETED).
func CanTransition(from, to State) bool {
	if to == FAILED {
		return !IsFinalState(from)
	}
	if from == READY_FOR_CANDIDATE && to == CANDIDATE_COMPLETED {
		return true
	}
	i, j := stateIndex(from), stateIndex(to)
	if i < 0 || j < 0 {
		return false
	}
	return j == i+1
}
