package worker

import (
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/birbparty/clusterapi/internal/queue"
)

// ClusterSync is one cluster due for a sync
type ClusterSync struct {
	ClusterID int
	// Operations lists the operations that touched the cluster, first
	// appearance first.
	Operations []string
	// Reports counts the reports coalesced into this sync.
	Reports int
	// Attempt is 1 for the first try.
	Attempt int
}

// Batch coalesces reports per cluster, keeping the order in which clusters
// were first reported. A Batch is guarded by its Processor.
type Batch struct {
	StartTime time.Time

	order []int
	items map[int]*ClusterSync
}

// NewBatch returns an empty batch
func NewBatch() *Batch {
	return &Batch{items: make(map[int]*ClusterSync)}
}

// Add records every cluster of msg
func (b *Batch) Add(msg *queue.ClustersAffectedMessage) {
	for _, id := range lo.Uniq(msg.ClusterIDs) {
		b.merge(ClusterSync{
			ClusterID:  id,
			Operations: []string{msg.Operation},
			Reports:    1,
			Attempt:    1,
		})
	}
}

// Retry carries a failed sync into this batch for another attempt. When
// the cluster was reported again in the meantime the fresh entry keeps its
// attempt count.
func (b *Batch) Retry(cs ClusterSync) {
	cs.Attempt++
	b.merge(cs)
}

func (b *Batch) merge(cs ClusterSync) {
	if b.StartTime.IsZero() {
		b.StartTime = time.Now()
	}
	existing, ok := b.items[cs.ClusterID]
	if !ok {
		cs.Operations = slices.Clone(cs.Operations)
		b.items[cs.ClusterID] = &cs
		b.order = append(b.order, cs.ClusterID)
		return
	}
	existing.Operations = lo.Uniq(append(existing.Operations, cs.Operations...))
	existing.Reports += cs.Reports
}

// Len returns the number of distinct clusters
func (b *Batch) Len() int {
	return len(b.order)
}

// Drain returns the pending syncs in order and empties the batch
func (b *Batch) Drain() []ClusterSync {
	out := make([]ClusterSync, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, *b.items[id])
	}
	b.order = nil
	b.items = make(map[int]*ClusterSync)
	b.StartTime = time.Time{}
	return out
}
