package orchestration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flowmesh-io/orchestrator/internal/domain/cachemodel"
	"github.com/flowmesh-io/orchestrator/internal/domain/condition"
	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
	"github.com/flowmesh-io/orchestrator/internal/domain/frame"
	"github.com/flowmesh-io/orchestrator/internal/ports"
)

type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (f *fakeCache) key(mapName, key string) string { return mapName + "/" + key }

func (f *fakeCache) Get(ctx context.Context, mapName, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[f.key(mapName, key)]
	return v, ok, nil
}

func (f *fakeCache) Set(ctx context.Context, mapName, key string, value []byte, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[f.key(mapName, key)] = value
	return nil
}

func (f *fakeCache) PutIfAbsent(ctx context.Context, mapName, key string, value []byte, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := f.key(mapName, key)
	if _, ok := f.data[k]; ok {
		return false, nil
	}
	f.data[k] = value
	return true, nil
}

func (f *fakeCache) Remove(ctx context.Context, mapName, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, f.key(mapName, key))
	return nil
}

func (f *fakeCache) Exists(ctx context.Context, mapName, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[f.key(mapName, key)]
	return ok, nil
}

func (f *fakeCache) GetAllEntries(ctx context.Context, mapName string, fn func(string, []byte) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := mapName + "/"
	for k, v := range f.data {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			if err := fn(k[len(prefix):], v); err != nil {
				return err
			}
		}
	}
	return nil
}

var _ ports.CacheGateway = (*fakeCache)(nil)

type fakeCommands struct {
	mu       sync.Mutex
	commands []ports.ExecuteActivityCommand
}

func (f *fakeCommands) PublishExecuteActivity(ctx context.Context, queueKey string, cmd ports.ExecuteActivityCommand) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, cmd)
	return nil
}

func linearModel(a, b, c entity.ID) *cachemodel.Model {
	return &cachemodel.Model{
		StepEntities: map[entity.ID]entity.Step{
			a: {ID: a, ProcessorID: a, NextStepIDs: []entity.ID{b}, EntryCondition: entity.PreviousCompleted},
			b: {ID: b, ProcessorID: b, NextStepIDs: []entity.ID{c}, EntryCondition: entity.PreviousCompleted},
			c: {ID: c, ProcessorID: c, NextStepIDs: nil, EntryCondition: entity.PreviousCompleted},
		},
		Processors: map[entity.ID]entity.Processor{
			a: {ID: a, Name: "procA", Version: 1},
			b: {ID: b, Name: "procB", Version: 1},
			c: {ID: c, Name: "procC", Version: 1},
		},
		Assignments: map[entity.ID][]entity.Assignment{},
	}
}

func TestConsumer_LinearFlowSuccess(t *testing.T) {
	t.Parallel()

	a, b, c := entity.NewID(), entity.NewID(), entity.NewID()
	flowID := entity.NewID()
	cache := newFakeCache()
	cmds := &fakeCommands{}
	models := NewModelStore(cache, "", 0)
	require.NoError(t, models.Put(context.Background(), flowID, linearModel(a, b, c)))

	consumer := NewConsumer(models, cache, cmds, "", nil, nil)

	execID := entity.NewID()
	frameA := frame.Frame{OrchestratedFlowID: flowID, StepID: a, ProcessorID: a, ExecutionID: execID, PublishID: entity.ZeroID}
	require.NoError(t, cache.Set(context.Background(), "processor-activity", keyFor(frameA), []byte("payload"), 0))

	require.NoError(t, consumer.Handle(context.Background(), TerminalEvent{Frame: frameA, Status: condition.StatusCompleted}))

	require.Len(t, cmds.commands, 1)
	require.Equal(t, b, cmds.commands[0].Frame.StepID)
	exists, err := cache.Exists(context.Background(), "processor-activity", keyFor(frameA))
	require.NoError(t, err)
	require.False(t, exists, "source blob must be deleted after fan-out")
}

func TestConsumer_NeverConditionSkipsEdge(t *testing.T) {
	t.Parallel()

	a, b := entity.NewID(), entity.NewID()
	flowID := entity.NewID()
	cache := newFakeCache()
	cmds := &fakeCommands{}
	models := NewModelStore(cache, "", 0)
	full := &cachemodel.Model{
		StepEntities: map[entity.ID]entity.Step{
			a: {ID: a, ProcessorID: a, NextStepIDs: []entity.ID{b}, EntryCondition: entity.Always},
			b: {ID: b, ProcessorID: b, NextStepIDs: nil, EntryCondition: entity.Never},
		},
		Processors: map[entity.ID]entity.Processor{
			a: {ID: a, Name: "procA", Version: 1},
			b: {ID: b, Name: "procB", Version: 1},
		},
		Assignments: map[entity.ID][]entity.Assignment{},
	}
	require.NoError(t, models.Put(context.Background(), flowID, full))

	consumer := NewConsumer(models, cache, cmds, "", nil, nil)
	frameA := frame.Frame{OrchestratedFlowID: flowID, StepID: a, ProcessorID: a, ExecutionID: entity.NewID(), PublishID: entity.ZeroID}

	require.NoError(t, consumer.Handle(context.Background(), TerminalEvent{Frame: frameA, Status: condition.StatusCompleted}))
	require.Empty(t, cmds.commands, "entry condition Never must never publish")
}

func TestConsumer_TerminalEventDeletesSourceBlob(t *testing.T) {
	t.Parallel()

	a := entity.NewID()
	flowID := entity.NewID()
	cache := newFakeCache()
	cmds := &fakeCommands{}
	models := NewModelStore(cache, "", 0)
	full := &cachemodel.Model{
		StepEntities: map[entity.ID]entity.Step{
			a: {ID: a, ProcessorID: a, NextStepIDs: nil, EntryCondition: entity.Always},
		},
		Processors:  map[entity.ID]entity.Processor{a: {ID: a, Name: "procA", Version: 1}},
		Assignments: map[entity.ID][]entity.Assignment{},
	}
	require.NoError(t, models.Put(context.Background(), flowID, full))

	consumer := NewConsumer(models, cache, cmds, "", nil, nil)
	frameA := frame.Frame{OrchestratedFlowID: flowID, StepID: a, ProcessorID: a, ExecutionID: entity.NewID(), PublishID: entity.ZeroID}
	require.NoError(t, cache.Set(context.Background(), "processor-activity", keyFor(frameA), []byte("x"), 0))

	require.NoError(t, consumer.Handle(context.Background(), TerminalEvent{Frame: frameA, Status: condition.StatusCompleted}))

	require.Empty(t, cmds.commands)
	exists, _ := cache.Exists(context.Background(), "processor-activity", keyFor(frameA))
	require.False(t, exists)
}

func TestConsumer_MissingModelIsFatal(t *testing.T) {
	t.Parallel()

	cache := newFakeCache()
	cmds := &fakeCommands{}
	models := NewModelStore(cache, "", 0)
	consumer := NewConsumer(models, cache, cmds, "", nil, nil)

	f := frame.Frame{OrchestratedFlowID: entity.NewID(), StepID: entity.NewID()}
	err := consumer.Handle(context.Background(), TerminalEvent{Frame: f, Status: condition.StatusCompleted})
	require.Error(t, err)
	require.Empty(t, cmds.commands)
}

func keyFor(f frame.Frame) string {
	return ports.ActivityDataKey(f.ProcessorID.String(), f.OrchestratedFlowID.String(), f.CorrelationID, f.ExecutionID.String(), f.StepID.String(), f.PublishID.String())
}
