package router

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestTableDefaultDeny(t *testing.T) {
	tbl := New()
	msg := testMsg{typ: "signal", iface: "org.example.Widget"}

	// No rules registered: nothing is deliverable.
	assert.False(t, tbl.OkToSend(msg, "ep1"))
}

func TestTableAddAndQuery(t *testing.T) {
	tbl := New(WithLogger(zaptest.NewLogger(t)))

	tbl.AddRule("ep1", Rule{Iface: "org.example.Widget"})
	tbl.AddRule("ep2", Rule{Type: "method_call"})

	signal := testMsg{typ: "signal", iface: "org.example.Widget"}
	call := testMsg{typ: "method_call", iface: "org.example.Other"}

	assert.True(t, tbl.OkToSend(signal, "ep1"))
	assert.False(t, tbl.OkToSend(signal, "ep2"))
	assert.True(t, tbl.OkToSend(call, "ep2"))
	assert.False(t, tbl.OkToSend(call, "ep1"))
	assert.False(t, tbl.OkToSend(signal, "ep3"))
}

func TestTableMultipleRulesPerEndpoint(t *testing.T) {
	tbl := New()
	tbl.AddRule("ep1", Rule{Iface: "org.example.A"})
	tbl.AddRule("ep1", Rule{Iface: "org.example.B"})

	// Any matching rule admits the message.
	assert.True(t, tbl.OkToSend(testMsg{iface: "org.example.A"}, "ep1"))
	assert.True(t, tbl.OkToSend(testMsg{iface: "org.example.B"}, "ep1"))
	assert.False(t, tbl.OkToSend(testMsg{iface: "org.example.C"}, "ep1"))
}

func TestTableRemoveRule(t *testing.T) {
	tbl := New()
	ruleA := Rule{Iface: "org.example.A"}
	ruleB := Rule{Iface: "org.example.B"}

	tbl.AddRule("ep1", ruleA)
	tbl.AddRule("ep1", ruleB)

	require.NoError(t, tbl.RemoveRule("ep1", ruleA))
	assert.False(t, tbl.OkToSend(testMsg{iface: "org.example.A"}, "ep1"))
	assert.True(t, tbl.OkToSend(testMsg{iface: "org.example.B"}, "ep1"))

	// Removing it again reports the miss.
	assert.ErrorIs(t, tbl.RemoveRule("ep1", ruleA), ErrNoSuchRule)
	assert.ErrorIs(t, tbl.RemoveRule("never-seen", ruleA), ErrNoSuchRule)
}

func TestTableRemoveDuplicateOneAtATime(t *testing.T) {
	tbl := New()
	rule := Rule{Member: "Changed"}

	tbl.AddRule("ep1", rule)
	tbl.AddRule("ep1", rule)

	require.NoError(t, tbl.RemoveRule("ep1", rule))
	assert.True(t, tbl.OkToSend(testMsg{member: "Changed"}, "ep1"),
		"one duplicate entry should survive the first removal")

	require.NoError(t, tbl.RemoveRule("ep1", rule))
	assert.False(t, tbl.OkToSend(testMsg{member: "Changed"}, "ep1"))
	assert.ErrorIs(t, tbl.RemoveRule("ep1", rule), ErrNoSuchRule)
}

func TestTableRemoveAllRules(t *testing.T) {
	tbl := New()
	tbl.AddRule("ep1", Rule{Iface: "org.example.A"})
	tbl.AddRule("ep1", Rule{Iface: "org.example.B"})
	tbl.AddRule("ep2", Rule{Iface: "org.example.A"})

	assert.Equal(t, 2, tbl.RemoveAllRules("ep1"))
	assert.False(t, tbl.OkToSend(testMsg{iface: "org.example.A"}, "ep1"))
	assert.True(t, tbl.OkToSend(testMsg{iface: "org.example.A"}, "ep2"))

	// Teardown of an endpoint with no rules is a no-op.
	assert.Equal(t, 0, tbl.RemoveAllRules("ep1"))
}

func TestCursorTraversal(t *testing.T) {
	tbl := New()
	tbl.AddRule("charlie", Rule{Iface: "org.example.C"})
	tbl.AddRule("alpha", Rule{Iface: "org.example.A"})
	tbl.AddRule("bravo", Rule{Iface: "org.example.B"})
	tbl.AddRule("bravo", Rule{Iface: "org.example.B2"})

	c := tbl.Acquire()
	defer c.Release()

	assert.Equal(t, []EndpointID{"alpha", "bravo", "charlie"}, c.Endpoints())
	assert.Len(t, c.RulesFor("bravo"), 2)
	assert.Empty(t, c.RulesFor("missing"))

	// Resumable walk visits every endpoint in order.
	var walked []EndpointID
	ep, ok := c.NextEndpoint("")
	for ok {
		walked = append(walked, ep)
		ep, ok = c.NextEndpoint(ep)
	}
	assert.Equal(t, []EndpointID{"alpha", "bravo", "charlie"}, walked)

	assert.True(t, c.OkToSend(testMsg{iface: "org.example.A"}, "alpha"))
	assert.False(t, c.OkToSend(testMsg{iface: "org.example.A"}, "charlie"))
}

func TestCursorReleaseIdempotent(t *testing.T) {
	tbl := New()
	c := tbl.Acquire()
	c.Release()
	c.Release() // must not unlock twice

	// The table is usable again after release.
	tbl.AddRule("ep1", Rule{})
	assert.True(t, tbl.OkToSend(testMsg{}, "ep1"))
}

func TestCursorConsistentView(t *testing.T) {
	tbl := New()
	tbl.AddRule("ep1", Rule{Iface: "org.example.A"})

	c := tbl.Acquire()
	before := len(c.RulesFor("ep1"))

	done := make(chan struct{})
	go func() {
		// Blocks until the cursor releases.
		tbl.AddRule("ep1", Rule{Iface: "org.example.B"})
		close(done)
	}()

	// The writer cannot slip in while the cursor is held.
	assert.Equal(t, before, len(c.RulesFor("ep1")))
	c.Release()
	<-done

	c = tbl.Acquire()
	assert.Len(t, c.RulesFor("ep1"), 2)
	c.Release()
}

func TestTableConcurrentChurn(t *testing.T) {
	tbl := New()
	const workers = 8
	const perWorker = 100

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			ep := EndpointID(fmt.Sprintf("ep%d", w))
			for i := 0; i < perWorker; i++ {
				rule := Rule{Member: fmt.Sprintf("m%d", i)}
				tbl.AddRule(ep, rule)
				tbl.OkToSend(testMsg{member: "m0"}, ep)
				if i%2 == 1 {
					_ = tbl.RemoveRule(ep, rule)
				}
			}
		}(w)
	}

	// Readers traverse concurrently with the writers.
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				c := tbl.Acquire()
				for _, ep := range c.Endpoints() {
					c.OkToSend(testMsg{member: "m0"}, ep)
				}
				c.Release()
			}
		}()
	}
	wg.Wait()

	// Each worker kept exactly its even-numbered rules.
	for w := 0; w < workers; w++ {
		ep := EndpointID(fmt.Sprintf("ep%d", w))
		assert.Equal(t, perWorker/2, tbl.RemoveAllRules(ep))
	}
}

func BenchmarkOkToSend(b *testing.B) {
	tbl := New()
	for i := 0; i < 16; i++ {
		tbl.AddRule("ep1", Rule{Member: fmt.Sprintf("m%d", i)})
	}
	msg := testMsg{member: "m15"}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tbl.OkToSend(msg, "ep1")
	}
}
