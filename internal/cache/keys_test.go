package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResourceKey(t *testing.T) {
	require.Equal(t, "tasks:42", ResourceKey("tasks", "42"))
	require.Equal(t, "tasks:42", ResourceKey(" Tasks ", "42"))
	require.Equal(t, "tasks:_", ResourceKey("tasks", ""))
	// Colons in segments must not fabricate extra hierarchy levels.
	require.Equal(t, "tasks:a-b", ResourceKey("tasks", "a:b"))
}

func TestQueryKeyIsStable(t *testing.T) {
	type filter struct {
		Status   string   `json:"status"`
		Labels   []string `json:"labels"`
		Assignee string   `json:"assignee"`
	}

	a := QueryKey("tasks", "list", filter{Status: "todo", Labels: []string{"x", "y"}})
	b := QueryKey("tasks", "list", filter{Status: "todo", Labels: []string{"x", "y"}})
	require.Equal(t, a, b)
	require.True(t, strings.HasPrefix(a, "q:v1:tasks:list:"))
}

func TestQueryKeyDistinguishesInputs(t *testing.T) {
	a := QueryKey("tasks", "list", map[string]string{"status": "todo"})
	b := QueryKey("tasks", "list", map[string]string{"status": "done"})
	require.NotEqual(t, a, b)
}

func TestQueryKeyMapOrderIndependent(t *testing.T) {
	a := QueryKey("tasks", "search", map[string]interface{}{"q": "urgent", "limit": 10})
	b := QueryKey("tasks", "search", map[string]interface{}{"limit": 10, "q": "urgent"})
	require.Equal(t, a, b)
}

func TestQueryKeyShortScalarStaysReadable(t *testing.T) {
	require.Equal(t, "q:v1:tasks:get:42", QueryKey("tasks", "get", "42"))
	require.Equal(t, "q:v1:tasks:get:_", QueryKey("tasks", "get", nil))
}

func TestQueryKeyLongScalarIsDigested(t *testing.T) {
	long := strings.Repeat("a", 200)
	key := QueryKey("tasks", "search", long)
	suffix := key[strings.LastIndex(key, ":")+1:]
	require.Len(t, suffix, 16)
}

func TestQueryKeyUnsafeScalarIsDigested(t *testing.T) {
	key := QueryKey("tasks", "search", "release notes?")
	require.NotContains(t, key, " ")
	require.NotContains(t, key, "?")
}

func TestQueryPatternCoversQueryKeys(t *testing.T) {
	key := QueryKey("tasks", "list", map[string]string{"status": "todo"})
	require.True(t, strings.HasPrefix(key, strings.TrimSuffix(QueryPattern("tasks"), "*")))
}

func TestTTLPolicyFor(t *testing.T) {
	policy := TTLPolicy{
		Default: 5 * time.Minute,
		Item:    10 * time.Minute,
		List:    time.Minute,
		Search:  30 * time.Second,
	}

	require.Equal(t, 10*time.Minute, policy.For("item"))
	require.Equal(t, time.Minute, policy.For("LIST"))
	require.Equal(t, 30*time.Second, policy.For(" search "))
	require.Equal(t, 5*time.Minute, policy.For("unknown"))
	require.Equal(t, 5*time.Minute, policy.For(""))
}
