package game

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStoreLifecycle(t *testing.T) {
	st := NewStore(zap.NewNop())

	s := newSession(&Player{Username: "alice"}, nil, nil)
	st.Save(s)

	got, ok := st.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, st.Count())
	assert.Len(t, st.List(), 1)

	assert.True(t, st.Delete(s.ID))
	assert.False(t, st.Delete(s.ID))
	_, ok = st.Get(s.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, st.Count())
}

func TestStoreGetUnknown(t *testing.T) {
	st := NewStore(zap.NewNop())

	_, ok := st.Get(uuid.New())
	assert.False(t, ok)
}

func TestStoreConcurrentAccess(t *testing.T) {
	st := NewStore(zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := newSession(&Player{Username: "p"}, nil, nil)
			st.Save(s)
			_, _ = st.Get(s.ID)
			_ = st.List()
		}()
	}
	wg.Wait()

	assert.Equal(t, 32, st.Count())
}
