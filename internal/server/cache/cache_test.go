package cache

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/apirunner/pkg/hubspot"
)

func TestPlanRoundTrip(t *testing.T) {
	c := New(time.Minute, time.Minute)
	plan := hubspot.Plan{
		Action:     hubspot.ActionUpdate,
		ID:         "101",
		Properties: map[string]any{"email": "a@b.co", "firstname": "Ann"},
	}

	id := c.PutPlan(plan)
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	got, ok := c.Plan(id)
	require.True(t, ok)
	assert.Equal(t, plan, got)
	assert.Equal(t, 1, c.ItemCount())
}

func TestPlanIDsAreUnique(t *testing.T) {
	c := New(time.Minute, time.Minute)
	a := c.PutPlan(hubspot.Plan{Action: hubspot.ActionCreate})
	b := c.PutPlan(hubspot.Plan{Action: hubspot.ActionCreate})
	assert.NotEqual(t, a, b)
	assert.Equal(t, Stats{ItemCount: 2}, c.GetStats())
}

func TestTakePlan(t *testing.T) {
	c := New(time.Minute, time.Minute)
	id := c.PutPlan(hubspot.Plan{Action: hubspot.ActionNoop, ID: "7"})

	plan, ok := c.TakePlan(id)
	require.True(t, ok)
	assert.Equal(t, "7", plan.ID)

	_, ok = c.TakePlan(id)
	assert.False(t, ok)
}

func TestPlanExpires(t *testing.T) {
	c := New(20*time.Millisecond, 10*time.Millisecond)
	id := c.PutPlan(hubspot.Plan{Action: hubspot.ActionCreate})

	require.Eventually(t, func() bool {
		_, ok := c.Plan(id)
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestUnknownAndClear(t *testing.T) {
	c := New(time.Minute, time.Minute)
	_, ok := c.Plan("missing")
	assert.False(t, ok)

	c.PutPlan(hubspot.Plan{Action: hubspot.ActionCreate})
	c.Clear()
	assert.Equal(t, 0, c.ItemCount())
}
