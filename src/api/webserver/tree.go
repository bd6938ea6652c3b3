package webserver

import (
	"github.com/gin-gonic/gin"

	"github.com/querysync/querysync/src/api/types"
)

// BuildAnswerTree nests a flat, chronologically-ordered answer list into a
// reply forest: every answer whose parent matches parentID becomes a node,
// with its own children attached under "replies". The input is not mutated
// and the result is deterministic for a given ordering. Depth is bounded only
// by the actual reply chains; a parent always predates its children, so the
// recursion terminates.
func BuildAnswerTree(answers []types.Answer, parentID *uint64) []gin.H {
	nodes := make([]gin.H, 0)
	for i := range answers {
		a := &answers[i]
		if !sameParent(a.ParentID, parentID) {
			continue
		}
		id := a.ID
		nodes = append(nodes, answerOut(a, BuildAnswerTree(answers, &id)))
	}
	return nodes
}

func sameParent(got, want *uint64) bool {
	if got == nil || want == nil {
		return got == nil && want == nil
	}
	return *got == *want
}
