package sdk

import (
	"slices"

	"github.com/samber/lo"
)

// AffectedClusters accumulates the IDs of clusters touched by mutating
// operations. It is append-only: an ID recorded twice appears twice, in
// order. Use Unique for a de-duplicated view.
//
// An AffectedClusters is owned by one caller and is not safe for concurrent
// use.
//
// Example:
//
//	var affected sdk.AffectedClusters
//	resp, err := client.Cmses().Install(ctx, 5, install, "")
//	if err == nil && resp.IsSuccess() {
//	    affected.Merge(resp)
//	}
//	for _, id := range affected.Drain() {
//	    // schedule a sync of cluster id
//	}
type AffectedClusters struct {
	ids []int
}

// Add records a cluster ID.
func (a *AffectedClusters) Add(id int) {
	a.ids = append(a.ids, id)
}

// AddRef records a cluster ID when it is known. It returns false for nil.
func (a *AffectedClusters) AddRef(id *int) bool {
	if id == nil {
		return false
	}
	a.Add(*id)
	return true
}

// Merge appends the clusters recorded on resp.
func (a *AffectedClusters) Merge(resp *Response) {
	if resp == nil {
		return
	}
	a.ids = append(a.ids, resp.affected...)
}

// IDs returns every recorded ID in recording order.
func (a *AffectedClusters) IDs() []int {
	return slices.Clone(a.ids)
}

// Unique returns the recorded IDs without duplicates, keeping the order of
// first appearance.
func (a *AffectedClusters) Unique() []int {
	return lo.Uniq(a.ids)
}

// Len returns the number of recorded IDs, duplicates included.
func (a *AffectedClusters) Len() int {
	return len(a.ids)
}

// Drain returns every recorded ID and empties the accumulator.
func (a *AffectedClusters) Drain() []int {
	ids := a.ids
	a.ids = nil
	return ids
}
