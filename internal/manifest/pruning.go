package manifest

import (
	"github.com/sirupsen/logrus"

	"github.com/arkilian/floe/pkg/expr"
	"github.com/arkilian/floe/pkg/partition"
)

// Pruner drops data files that cannot contain rows matching a row-space
// filter. This is the 2-phase pruning strategy: first the filter is
// projected through the partition spec and checked against each file's
// partition tuple, then the surviving files are checked against their
// column statistics.
type Pruner struct {
	spec *partition.Spec
	log  *logrus.Entry
}

// NewPruner creates a pruner for the given partition spec.
func NewPruner(spec *partition.Spec) *Pruner {
	return &Pruner{
		spec: spec,
		log:  logrus.WithField("component", "pruner"),
	}
}

// PruneFiles returns the files that may contain matching rows. The answer
// over-approximates: a kept file may still turn out to hold no matches,
// but a dropped file provably holds none.
func (p *Pruner) PruneFiles(rowFilter expr.Expression, files []DataFile) ([]DataFile, error) {
	partFilter, err := partition.Inclusive(p.spec).Project(rowFilter)
	if err != nil {
		return nil, err
	}
	boundPartFilter, err := bindPartitionFilter(p.spec, partFilter)
	if err != nil {
		return nil, err
	}
	boundRowFilter, err := expr.BindExpr(p.spec.Schema(), rowFilter)
	if err != nil {
		return nil, err
	}

	kept := make([]DataFile, 0, len(files))
	for _, file := range files {
		match, err := evalPartition(boundPartFilter, file.Partition)
		if err != nil {
			return nil, err
		}
		if !match {
			continue
		}

		match, err = metricsMightMatch(boundRowFilter, file)
		if err != nil {
			return nil, err
		}
		if match {
			kept = append(kept, file)
		}
	}

	p.log.WithFields(logrus.Fields{
		"spec_id":  p.spec.SpecID(),
		"filter":   rowFilter.String(),
		"examined": len(files),
		"kept":     len(kept),
	}).Debug("pruned manifest files")

	return kept, nil
}
