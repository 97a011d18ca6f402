package export

import (
	"context"
	"fmt"
	"log"

	"github.com/agenthands/kinship/internal/core/model"
	"github.com/agenthands/kinship/internal/driver"
	"github.com/agenthands/kinship/internal/metrics"
)

// Exporter writes a built element set into the graph database, scoped by a
// tree id so several datasets can share one database.
type Exporter struct {
	Driver driver.GraphDriver
}

func NewExporter(d driver.GraphDriver) *Exporter {
	return &Exporter{Driver: d}
}

type Report struct {
	Nodes  int `json:"nodes"`
	Edges  int `json:"edges"`
	Failed int `json:"failed"`
}

// Export replaces the stored tree with elements. Writes of single elements
// that fail are logged and counted; only a failure to clear the previous tree
// aborts the export.
func (x *Exporter) Export(ctx context.Context, treeID string, genders map[string]model.Gender, elements model.ElementSet) (Report, error) {
	var report Report

	if _, err := x.Driver.ExecuteQuery(ctx, driver.DeleteTreeQuery, map[string]any{"tree_id": treeID}); err != nil {
		return report, fmt.Errorf("failed to clear tree %s: %w", treeID, err)
	}

	for _, n := range elements.Nodes {
		query := driver.SaveUnionNodeQuery
		params := map[string]any{
			"id":      n.ID(),
			"tree_id": treeID,
		}
		if n.IsPerson() {
			query = driver.SavePersonNodeQuery
			params["label"] = n.Data.Label
			params["photo"] = n.Data.Photo
			params["gender"] = string(genders[n.ID()])
		}

		if _, err := x.Driver.ExecuteQuery(ctx, query, params); err != nil {
			log.Printf("Failed to export node %s: %v", n.ID(), err)
			metrics.ExportFailures.Inc()
			report.Failed++
			continue
		}
		report.Nodes++
	}

	for _, e := range elements.Edges {
		query := driver.SaveChildEdgeQuery
		if e.Data.Rel == model.RelationSpouse {
			query = driver.SaveSpouseEdgeQuery
		}

		params := map[string]any{
			"id":        e.ID(),
			"source_id": e.Data.Source,
			"target_id": e.Data.Target,
			"rel":       string(e.Data.Rel),
			"tree_id":   treeID,
		}
		if _, err := x.Driver.ExecuteQuery(ctx, query, params); err != nil {
			log.Printf("Failed to export edge %s: %v", e.ID(), err)
			metrics.ExportFailures.Inc()
			report.Failed++
			continue
		}
		report.Edges++
	}

	log.Printf("Exported tree %s: %d nodes, %d edges, %d failed", treeID, report.Nodes, report.Edges, report.Failed)
	return report, nil
}

// Stored counts the nodes kept in the database for treeID.
func (x *Exporter) Stored(ctx context.Context, treeID string) (int64, error) {
	res, err := x.Driver.ExecuteQuery(ctx, driver.CountTreeQuery, map[string]any{"tree_id": treeID})
	if err != nil {
		return 0, fmt.Errorf("failed to count tree %s: %w", treeID, err)
	}
	if len(res.Records) == 0 {
		return 0, nil
	}
	raw, _ := res.Records[0].Get("nodes")
	n, ok := raw.(int64)
	if !ok {
		return 0, fmt.Errorf("bad node count %v for tree %s", raw, treeID)
	}
	return n, nil
}
