package highlight

import (
	"context"

	"github.com/agenthands/kinship/internal/core/model"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type MockDriver struct {
	QueryExecuted string
	QueryParams   map[string]any
	MockResult    neo4j.EagerResult
	Err           error
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	m.QueryExecuted = query
	m.QueryParams = params
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	return m.MockResult, nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error {
	return nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}

type MockFinder struct {
	Path  model.Path
	Err   error
	Calls int
}

func (m *MockFinder) ShortestPath(ctx context.Context, root, goal string, directed bool) (model.Path, error) {
	m.Calls++
	return m.Path, m.Err
}
